// Package xcompose is the public facade: it wires scanner, lexer,
// parser, trie, locale, mapfile, and state together behind the small
// construction/matching API a caller actually needs, the same role
// tsqlparser.go plays for its own sub-packages.
package xcompose

import (
	"fmt"
	"os"

	"github.com/gocompose/xcompose/keysym"
	"github.com/gocompose/xcompose/locale"
	"github.com/gocompose/xcompose/mapfile"
	"github.com/gocompose/xcompose/parser"
	"github.com/gocompose/xcompose/state"
	"github.com/gocompose/xcompose/trie"
)

// Table is the compiled Compose table. Re-exported so callers never need
// to import the trie package directly.
type Table = trie.Table

// State is a per-session matcher. Re-exported so callers never need to
// import the state package directly.
type State = state.State

// Status is the outcome of feeding one keysym to a State.
type Status = state.Status

const (
	Nothing   = state.Nothing
	Composing = state.Composing
	Composed  = state.Composed
	Cancelled = state.Cancelled
)

// Keysym re-exports keysym.Keysym so callers can build productions (or
// feed a matcher) without a second import.
type Keysym = keysym.Keysym

// NoSymbol is the keysym sentinel meaning "no keysym".
const NoSymbol = keysym.NoSymbol

// FormatTextV1 is the only format string construction accepts.
const FormatTextV1 = trie.FormatTextV1

// Flags is reserved for future use; only the zero value is valid.
type Flags uint32

func checkArgs(ctx *Context, format string, flags Flags) error {
	if format != FormatTextV1 {
		ctx.logger().Error("unrecognized Compose table format", "format", format)
		return fmt.Errorf("xcompose: unrecognized format %q", format)
	}
	if flags != 0 {
		ctx.logger().Error("unrecognized flags", "flags", flags)
		return fmt.Errorf("xcompose: unrecognized flags %#x", uint32(flags))
	}
	return nil
}

func compile(ctx *Context, buf []byte, fileName, loc string, paths locale.Paths) (*Table, error) {
	tb := trie.New(loc)
	p := parser.New(tb, paths)
	ok := p.ParseBuffer(buf, fileName)

	for _, d := range p.Diagnostics() {
		if d.Warning {
			ctx.logger().Warn(d.Message)
		} else {
			ctx.logger().Error(d.Message)
		}
	}

	if !ok {
		ctx.logger().Error("failed to compile Compose file", "file", fileName)
		return nil, fmt.Errorf("xcompose: failed to compile %s", fileName)
	}
	return tb, nil
}

// NewFromBuffer compiles a Compose table from an in-memory source.
func NewFromBuffer(ctx *Context, buf []byte, loc, format string, flags Flags) (*Table, error) {
	if ctx == nil {
		ctx = NewContext()
	}
	if err := checkArgs(ctx, format, flags); err != nil {
		return nil, err
	}
	return compile(ctx, buf, "<buffer>", loc, locale.Env{})
}

// NewFromFile compiles a Compose table from an already-open file,
// mapping its contents via mapfile rather than buffering a copy.
func NewFromFile(ctx *Context, f *os.File, loc, format string, flags Flags) (*Table, error) {
	if ctx == nil {
		ctx = NewContext()
	}
	if err := checkArgs(ctx, format, flags); err != nil {
		return nil, err
	}

	data, err := mapfile.Map(f)
	if err != nil {
		ctx.logger().Error("failed to map Compose file", "error", err)
		return nil, fmt.Errorf("xcompose: %w", err)
	}
	defer mapfile.Unmap(data)

	return compile(ctx, data, f.Name(), loc, locale.Env{})
}

// NewFromLocale auto-discovers the Compose file for loc using the
// standard three-source search ($XCOMPOSEFILE, $HOME/.XCompose, the
// locale's system Compose file) and compiles it.
func NewFromLocale(ctx *Context, loc string, flags Flags) (*Table, error) {
	if ctx == nil {
		ctx = NewContext()
	}
	if err := checkArgs(ctx, FormatTextV1, flags); err != nil {
		return nil, err
	}

	paths := locale.Env{}
	path, f, err := locale.Discover(paths, loc)
	if err != nil {
		ctx.logger().Error("no Compose file found for locale", "locale", loc, "error", err)
		return nil, fmt.Errorf("xcompose: %w", err)
	}
	defer f.Close()
	ctx.logger().Debug("discovered Compose file", "locale", loc, "path", path)

	data, err := mapfile.Map(f)
	if err != nil {
		ctx.logger().Error("failed to map Compose file", "path", path, "error", err)
		return nil, fmt.Errorf("xcompose: %w", err)
	}
	defer mapfile.Unmap(data)

	return compile(ctx, data, path, loc, paths)
}

// Ref increments t's reference count and returns it.
func Ref(t *Table) *Table { return t.Ref() }

// Unref decrements t's reference count, releasing its storage at zero.
func Unref(t *Table) { t.Unref() }

// StateNew creates a matcher bound to t. flags is reserved and must be 0.
func StateNew(t *Table, flags Flags) (*State, error) {
	if flags != 0 {
		return nil, fmt.Errorf("xcompose: unrecognized state flags %#x", uint32(flags))
	}
	return state.New(t), nil
}

// StateRef increments s's reference count and returns it.
func StateRef(s *State) *State { return s.Ref() }

// StateUnref decrements s's reference count, releasing its table
// reference at zero.
func StateUnref(s *State) { s.Unref() }

// StateGetCompose returns the Table s is bound to.
func StateGetCompose(s *State) *Table { return s.Table() }
