// Package state implements the per-session Compose matcher: feeding one
// keysym at a time through a compiled trie.Table and tracking whether a
// sequence is in progress, just completed, or was cancelled.
package state

import (
	"sync/atomic"

	"github.com/gocompose/xcompose/keysym"
	"github.com/gocompose/xcompose/trie"
)

// Status is the result of the most recent Feed call.
type Status int

const (
	// Nothing means the fed keysym was not part of any sequence and was
	// not itself consumed; the caller should handle it normally.
	Nothing Status = iota
	// Composing means the keysym advanced a sequence that may still
	// complete; the caller should consume the keysym and wait.
	Composing
	// Composed means a sequence just completed; UTF8/Keysym now report
	// its result.
	Composed
	// Cancelled means a sequence that was in progress could not be
	// extended by the fed keysym; the sequence is abandoned.
	Cancelled
)

func (s Status) String() string {
	switch s {
	case Nothing:
		return "NOTHING"
	case Composing:
		return "COMPOSING"
	case Composed:
		return "COMPOSED"
	case Cancelled:
		return "CANCELLED"
	default:
		return "UNKNOWN"
	}
}

// State is one Compose matching session against a shared, immutable
// Table. Multiple States may share one Table concurrently; State itself
// is not safe for concurrent use from more than one goroutine at a time.
type State struct {
	table *trie.Table

	context     uint32
	prevContext uint32
	status      Status

	refcount int32
}

// New creates a matcher against table, taking a reference to it that is
// released when the State's own refcount reaches zero.
func New(table *trie.Table) *State {
	return &State{
		table:    table.Ref(),
		refcount: 1,
	}
}

// Ref increments the State's reference count and returns it.
func (s *State) Ref() *State {
	atomic.AddInt32(&s.refcount, 1)
	return s
}

// Unref decrements the State's reference count, releasing its reference
// to the underlying Table once it reaches zero.
func (s *State) Unref() {
	if atomic.AddInt32(&s.refcount, -1) > 0 {
		return
	}
	s.table.Unref()
	s.table = nil
}

// Table returns the Table this matcher is bound to, without taking an
// additional reference.
func (s *State) Table() *trie.Table {
	return s.table
}

// Reset abandons any sequence in progress and returns to NOTHING.
func (s *State) Reset() {
	s.context = 0
	s.prevContext = 0
	s.status = Nothing
}

// Status reports the outcome of the most recent Feed call.
func (s *State) Status() Status {
	return s.status
}

// Feed advances the matcher by one keysym. Modifier keysyms (Shift_L,
// Control_L, and similar) are ignored outright and never affect status.
func (s *State) Feed(ks keysym.Keysym) Status {
	if keysym.IsModifier(ks) {
		return s.status
	}

	s.prevContext = s.context

	// A node's Successor is 0 both for the root (which has no meaningful
	// Successor of its own) and for any terminal reached via COMPOSED
	// (invariant 3: terminals have no children). Either way, the next
	// keysym must be looked up in the top-level chain rooted at node 0's
	// Next, exactly as trie.Validate treats it.
	head := s.table.Node(s.context).Successor
	if head == 0 {
		head = s.table.Node(0).Next
	}

	match := uint32(0)
	for next := head; next != 0; {
		n := s.table.Node(next)
		if n.Keysym == ks {
			match = next
			break
		}
		next = n.Next
	}

	if match == 0 {
		s.context = 0
		if s.prevContext != 0 && s.table.Node(s.prevContext).Successor != 0 {
			s.status = Cancelled
		} else {
			s.status = Nothing
		}
		return s.status
	}

	s.context = match
	if s.table.Node(match).IsTerminal() {
		s.status = Composed
	} else {
		s.status = Composing
	}
	return s.status
}

// UTF8 returns the composed string, valid only when Status is Composed.
// A terminal that carries a keysym but no string yields the keysym's own
// character, via keysym.ToUTF8.
func (s *State) UTF8() string {
	if s.status != Composed {
		return ""
	}
	n := s.table.Node(s.context)
	if n.UTF8 == 0 && n.Ks != keysym.NoSymbol {
		str, _ := keysym.ToUTF8(n.Ks)
		return str
	}
	return s.table.UTF8At(n.UTF8)
}

// Keysym returns the composed keysym, valid only when Status is
// Composed; it is keysym.NoSymbol if the production had no keysym
// component.
func (s *State) Keysym() keysym.Keysym {
	if s.status != Composed {
		return keysym.NoSymbol
	}
	return s.table.Node(s.context).Ks
}
