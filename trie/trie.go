// Package trie implements the compiled Compose table: the index-based
// trie (sibling + child, per spec.md §9's "two-axis" representation) and
// the insertion logic that applies the prefix-conflict policy.
//
// The node-array arrangement is grounded in itgcl-ahocorasick's
// []node arena (Matcher.trie, extent, getFreeNode): nodes reference each
// other by index into one growable slice rather than by pointer.
package trie

import (
	"fmt"
	"sync/atomic"

	"github.com/gocompose/xcompose/keysym"
)

// MaxLHSLen bounds how many keysyms a single production's left-hand side
// may contain.
const MaxLHSLen = 10

// MaxRHSStringLen bounds a right-hand-side string's encoded length in
// bytes (not counting the trailing NUL the arena stores).
const MaxRHSStringLen = 255

// Node is one trie node. Index 0 is always the root sentinel.
type Node struct {
	Keysym    keysym.Keysym
	Next      uint32 // sibling chain, 0 = none
	Successor uint32 // first child, 0 = none
	UTF8      uint32 // offset into Table.utf8, 0 = no string
	Ks        keysym.Keysym
}

// IsTerminal reports whether n carries an output (string and/or keysym).
func (n Node) IsTerminal() bool {
	return n.UTF8 != 0 || n.Ks != keysym.NoSymbol
}

// Table is the immutable, reference-counted compiled Compose table.
type Table struct {
	Locale string
	Format string

	nodes []Node
	utf8  []byte

	refcount int32
}

// FormatTextV1 is the only valid format tag (spec.md §6).
const FormatTextV1 = "text v1"

// New allocates an empty table: the root sentinel node and the arena's
// reserved empty-string byte at offset 0, per spec.md §4.F.
func New(locale string) *Table {
	t := &Table{
		Locale:   locale,
		Format:   FormatTextV1,
		nodes:    make([]Node, 1, 64),
		utf8:     make([]byte, 1, 256),
		refcount: 1,
	}
	// nodes[0] and utf8[0] are already the zero value, which is exactly
	// the root sentinel / empty-string sentinel this table needs.
	return t
}

// Ref increments the table's reference count and returns it.
func (t *Table) Ref() *Table {
	atomic.AddInt32(&t.refcount, 1)
	return t
}

// Unref decrements the reference count, releasing the table's backing
// storage once it reaches zero.
func (t *Table) Unref() {
	if atomic.AddInt32(&t.refcount, -1) > 0 {
		return
	}
	t.nodes = nil
	t.utf8 = nil
}

// NodeCount returns the number of nodes currently in the table.
func (t *Table) NodeCount() int {
	return len(t.nodes)
}

// Node returns the node at idx. Callers must only pass indices obtained
// from Table/State fields (spec.md invariant 7).
func (t *Table) Node(idx uint32) Node {
	return t.nodes[idx]
}

// UTF8At returns the NUL-terminated string stored at offset off,
// excluding the terminating NUL.
func (t *Table) UTF8At(off uint32) string {
	if off == 0 {
		return ""
	}
	end := off
	for t.utf8[end] != 0 {
		end++
	}
	return string(t.utf8[off:end])
}

func (t *Table) addNode(ks keysym.Keysym) uint32 {
	t.nodes = append(t.nodes, Node{Keysym: ks, Ks: keysym.NoSymbol})
	return uint32(len(t.nodes) - 1)
}

// Production is the transient per-line parse result: a left-hand side
// keysym sequence and an optional output string and/or keysym.
type Production struct {
	LHS       []keysym.Keysym
	String    string
	HasString bool
	Keysym    keysym.Keysym
	HasKeysym bool
}

// Insert adds p to t following the two-axis walk and prefix-conflict
// policy of spec.md §4.D. It returns zero or more warning messages (the
// caller decides whether/how to log them) and never an error: a rejected
// insertion is reported as a warning and the line is simply dropped, same
// as the original parser.c.
func Insert(t *Table, p Production) []string {
	var warnings []string

	curr := uint32(0)
	node := t.nodes[curr]

	for i := 0; i < len(p.LHS); i++ {
		for p.LHS[i] != node.Keysym {
			if node.Next == 0 {
				next := t.addNode(p.LHS[i])
				t.nodes[curr].Next = next
				node = t.nodes[curr]
			}
			curr = node.Next
			node = t.nodes[curr]
		}

		if i+1 == len(p.LHS) {
			break
		}

		if node.Successor == 0 {
			if node.IsTerminal() {
				warnings = append(warnings, "a sequence already exists which is a prefix of this sequence; overriding")
				t.nodes[curr].UTF8 = 0
				t.nodes[curr].Ks = keysym.NoSymbol
				node = t.nodes[curr]
			}
			successor := t.addNode(p.LHS[i+1])
			t.nodes[curr].Successor = successor
			node = t.nodes[curr]
		}

		curr = node.Successor
		node = t.nodes[curr]
	}

	if node.Successor != 0 {
		warnings = append(warnings, "the compose sequence is a prefix of another; skipping line")
		return warnings
	}
	if node.IsTerminal() {
		warnings = append(warnings, "the compose sequence already exists; skipping line")
		return warnings
	}

	if p.HasString {
		off := uint32(len(t.utf8))
		t.utf8 = append(t.utf8, p.String...)
		t.utf8 = append(t.utf8, 0)
		t.nodes[curr].UTF8 = off
	}
	if p.HasKeysym {
		t.nodes[curr].Ks = p.Keysym
	}
	return warnings
}

// Validate checks the structural invariants of spec.md §3/§8 — useful in
// tests and as a sanity check after compiling a large Compose file.
func Validate(t *Table) error {
	if len(t.nodes) == 0 {
		return fmt.Errorf("trie: empty node array")
	}
	root := t.nodes[0]
	if root.Keysym != keysym.NoSymbol || root.UTF8 != 0 || root.Ks != keysym.NoSymbol {
		return fmt.Errorf("trie: node 0 is not a well-formed root sentinel")
	}
	if len(t.utf8) == 0 || t.utf8[0] != 0 {
		return fmt.Errorf("trie: arena byte 0 must be NUL")
	}
	for i, n := range t.nodes {
		if n.IsTerminal() && n.Successor != 0 {
			return fmt.Errorf("trie: node %d is both terminal and has children", i)
		}
	}
	// Every sibling chain (the top level, rooted at node 0's own Next per
	// the structural quirk in spec.md §4.D, plus one per Successor
	// pointer) must terminate and contain pairwise-distinct keysyms.
	heads := []uint32{t.nodes[0].Next}
	for _, n := range t.nodes {
		if n.Successor != 0 {
			heads = append(heads, n.Successor)
		}
	}
	for _, head := range heads {
		seen := map[keysym.Keysym]bool{}
		visited := map[uint32]bool{}
		for next := head; next != 0; {
			if visited[next] {
				return fmt.Errorf("trie: cycle detected in sibling chain at node %d", head)
			}
			visited[next] = true
			sib := t.nodes[next]
			if seen[sib.Keysym] {
				return fmt.Errorf("trie: duplicate sibling keysym in chain at node %d", head)
			}
			seen[sib.Keysym] = true
			next = sib.Next
		}
	}
	return nil
}
