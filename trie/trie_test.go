package trie

import (
	"testing"

	"github.com/gocompose/xcompose/keysym"
)

func mustKs(t *testing.T, name string) keysym.Keysym {
	t.Helper()
	ks, ok := keysym.Lookup(name)
	if !ok {
		t.Fatalf("unknown keysym %q", name)
	}
	return ks
}

func TestNewTableHasRootSentinel(t *testing.T) {
	tb := New("C")
	root := tb.Node(0)
	if root.Keysym != keysym.NoSymbol || root.Next != 0 || root.Successor != 0 || root.IsTerminal() {
		t.Fatalf("root sentinel malformed: %+v", root)
	}
	if tb.UTF8At(0) != "" {
		t.Fatalf("arena offset 0 must be the empty string")
	}
	if err := Validate(tb); err != nil {
		t.Fatalf("fresh table should validate: %v", err)
	}
}

func TestInsertAndRoundTrip(t *testing.T) {
	tb := New("C")
	tilde := mustKs(t, "dead_tilde")
	space := mustKs(t, "space")
	warnings := Insert(tb, Production{
		LHS:       []keysym.Keysym{tilde, space},
		String:    "~",
		HasString: true,
	})
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if err := Validate(tb); err != nil {
		t.Fatalf("validate: %v", err)
	}

	// Walk it by hand: root.Next is the top-level chain.
	first := tb.Node(tb.Node(0).Next)
	if first.Keysym != tilde {
		t.Fatalf("expected first top-level node to be dead_tilde, got %v", first.Keysym)
	}
	second := tb.Node(first.Successor)
	if second.Keysym != space {
		t.Fatalf("expected child to be space, got %v", second.Keysym)
	}
	if !second.IsTerminal() || tb.UTF8At(second.UTF8) != "~" {
		t.Fatalf("expected terminal with utf8 '~', got %+v", second)
	}
}

func TestInsertPrefixConflictOverrides(t *testing.T) {
	tb := New("C")
	a := mustKs(t, "a")
	b := mustKs(t, "b")

	Insert(tb, Production{LHS: []keysym.Keysym{a}, String: "A", HasString: true})
	warnings := Insert(tb, Production{LHS: []keysym.Keysym{a, b}, String: "AB", HasString: true})
	if len(warnings) != 1 {
		t.Fatalf("expected one override warning, got %v", warnings)
	}

	node := tb.Node(tb.Node(0).Next)
	if node.IsTerminal() {
		t.Fatalf("shorter sequence's terminal should have been cleared: %+v", node)
	}
	child := tb.Node(node.Successor)
	if !child.IsTerminal() || tb.UTF8At(child.UTF8) != "AB" {
		t.Fatalf("longer sequence should be the surviving terminal: %+v", child)
	}
}

func TestInsertStrictPrefixOfExistingIsSkipped(t *testing.T) {
	tb := New("C")
	a := mustKs(t, "a")
	b := mustKs(t, "b")

	Insert(tb, Production{LHS: []keysym.Keysym{a, b}, String: "AB", HasString: true})
	warnings := Insert(tb, Production{LHS: []keysym.Keysym{a}, String: "A", HasString: true})
	if len(warnings) != 1 {
		t.Fatalf("expected one skip warning, got %v", warnings)
	}

	node := tb.Node(tb.Node(0).Next)
	if node.IsTerminal() {
		t.Fatalf("node should not have become terminal: %+v", node)
	}
}

func TestInsertDuplicateSequenceIsSkipped(t *testing.T) {
	tb := New("C")
	a := mustKs(t, "a")

	Insert(tb, Production{LHS: []keysym.Keysym{a}, String: "first", HasString: true})
	warnings := Insert(tb, Production{LHS: []keysym.Keysym{a}, String: "second", HasString: true})
	if len(warnings) != 1 {
		t.Fatalf("expected one duplicate warning, got %v", warnings)
	}

	node := tb.Node(tb.Node(0).Next)
	if tb.UTF8At(node.UTF8) != "first" {
		t.Fatalf("first production should survive, got %q", tb.UTF8At(node.UTF8))
	}
}

func TestInsertSiblingsAtSameLevel(t *testing.T) {
	tb := New("C")
	a := mustKs(t, "a")
	b := mustKs(t, "b")

	Insert(tb, Production{LHS: []keysym.Keysym{a}, String: "A", HasString: true})
	Insert(tb, Production{LHS: []keysym.Keysym{b}, String: "B", HasString: true})

	first := tb.Node(tb.Node(0).Next)
	second := tb.Node(first.Next)
	if first.Keysym != a || second.Keysym != b {
		t.Fatalf("expected sibling chain a,b; got %v,%v", first.Keysym, second.Keysym)
	}
	if err := Validate(tb); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestRefcounting(t *testing.T) {
	tb := New("C")
	tb.Ref()
	tb.Unref()
	if tb.NodeCount() != 1 {
		t.Fatalf("table should still be alive after one of two refs released")
	}
	tb.Unref()
}
