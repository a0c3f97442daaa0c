package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gocompose/xcompose/keysym"
	"github.com/gocompose/xcompose/trie"
)

func mustKs(t *testing.T, name string) keysym.Keysym {
	t.Helper()
	ks, ok := keysym.Lookup(name)
	if !ok {
		t.Fatalf("unknown keysym %q", name)
	}
	return ks
}

func TestParseSimpleProduction(t *testing.T) {
	tb := trie.New("C")
	p := New(tb, nil)
	ok := p.ParseBuffer([]byte(`<dead_tilde> <space> : "~"`+"\n"), "Compose")
	if !ok {
		t.Fatalf("parse failed: %v", p.Diagnostics())
	}
	if len(p.Diagnostics()) != 0 {
		t.Fatalf("unexpected diagnostics: %v", p.Diagnostics())
	}
	if err := trie.Validate(tb); err != nil {
		t.Fatalf("validate: %v", err)
	}

	tilde := tb.Node(tb.Node(0).Next)
	if tilde.Keysym != mustKs(t, "dead_tilde") {
		t.Fatalf("expected dead_tilde at top level, got %v", tilde.Keysym)
	}
	space := tb.Node(tilde.Successor)
	if space.Keysym != mustKs(t, "space") || tb.UTF8At(space.UTF8) != "~" {
		t.Fatalf("expected space -> '~', got %+v", space)
	}
}

func TestParseRHSKeysymWithoutTrailingNewline(t *testing.T) {
	tb := trie.New("C")
	p := New(tb, nil)
	// No trailing newline: the RHS_KEYSYM must still finalize the production.
	ok := p.ParseBuffer([]byte(`<a> : "x" asciitilde`), "Compose")
	if !ok {
		t.Fatalf("parse failed: %v", p.Diagnostics())
	}
	node := tb.Node(tb.Node(0).Next)
	if !node.IsTerminal() || node.Ks != mustKs(t, "asciitilde") || tb.UTF8At(node.UTF8) != "x" {
		t.Fatalf("expected terminal node with string+keysym, got %+v", node)
	}
}

func TestParseCommentsAndBlankLinesIgnored(t *testing.T) {
	tb := trie.New("C")
	p := New(tb, nil)
	src := "# a comment\n\n<a> : \"A\"\n"
	if ok := p.ParseBuffer([]byte(src), "Compose"); !ok {
		t.Fatalf("parse failed: %v", p.Diagnostics())
	}
	if len(p.Diagnostics()) != 0 {
		t.Fatalf("unexpected diagnostics: %v", p.Diagnostics())
	}
}

func TestParseRecoversFromBadLineAndKeepsGoing(t *testing.T) {
	tb := trie.New("C")
	p := New(tb, nil)
	src := "@@@ garbage line\n<a> : \"A\"\n"
	if ok := p.ParseBuffer([]byte(src), "Compose"); !ok {
		t.Fatalf("parse failed: %v", p.Diagnostics())
	}
	node := tb.Node(tb.Node(0).Next)
	if !node.IsTerminal() || tb.UTF8At(node.UTF8) != "A" {
		t.Fatalf("expected the good line to still be compiled, got %+v", node)
	}
	foundErr := false
	for _, d := range p.Diagnostics() {
		if !d.Warning {
			foundErr = true
		}
	}
	if !foundErr {
		t.Fatalf("expected at least one error diagnostic for the garbage line")
	}
}

func TestParseTooManyErrorsAborts(t *testing.T) {
	tb := trie.New("C")
	p := New(tb, nil)
	src := ""
	for i := 0; i < maxErrors+1; i++ {
		src += "@@@\n"
	}
	if ok := p.ParseBuffer([]byte(src), "Compose"); ok {
		t.Fatalf("expected parse to abort after too many errors")
	}
}

func TestParseDuplicateSequenceWarns(t *testing.T) {
	tb := trie.New("C")
	p := New(tb, nil)
	src := "<a> : \"first\"\n<a> : \"second\"\n"
	if ok := p.ParseBuffer([]byte(src), "Compose"); !ok {
		t.Fatalf("parse failed: %v", p.Diagnostics())
	}
	warnings := 0
	for _, d := range p.Diagnostics() {
		if d.Warning {
			warnings++
		}
	}
	if warnings != 1 {
		t.Fatalf("expected exactly one duplicate-sequence warning, got %d: %v", warnings, p.Diagnostics())
	}
}

func TestParseInclude(t *testing.T) {
	dir := t.TempDir()
	included := filepath.Join(dir, "inner.Compose")
	if err := os.WriteFile(included, []byte("<b> : \"B\"\n"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	tb := trie.New("C")
	p := New(tb, nil)
	src := `include "` + included + `"` + "\n"
	if ok := p.ParseBuffer([]byte(src), "Compose"); !ok {
		t.Fatalf("parse failed: %v", p.Diagnostics())
	}
	node := tb.Node(tb.Node(0).Next)
	if !node.IsTerminal() || tb.UTF8At(node.UTF8) != "B" {
		t.Fatalf("expected included production to be compiled, got %+v", node)
	}
}

func TestParseIncludeLoopHitsDepthCap(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "loop.Compose")
	content := `include "` + path + `"` + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	tb := trie.New("C")
	p := New(tb, nil)
	if ok := p.ParseBuffer([]byte(content), "Compose"); ok {
		t.Fatalf("expected include loop to be rejected")
	}
	found := false
	for _, d := range p.Diagnostics() {
		if !d.Warning {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an include-depth error diagnostic")
	}
}

func TestParseEmptyRHSStringSkipsLine(t *testing.T) {
	tb := trie.New("C")
	p := New(tb, nil)
	src := "<a> : \"\"\n<b> : \"B\"\n"
	if ok := p.ParseBuffer([]byte(src), "Compose"); !ok {
		t.Fatalf("parse failed: %v", p.Diagnostics())
	}
	// Only <b> should have been inserted; <a>'s line was skipped.
	first := tb.Node(tb.Node(0).Next)
	if first.Keysym != mustKs(t, "b") {
		t.Fatalf("expected only b to be inserted, got %v", first.Keysym)
	}
}
