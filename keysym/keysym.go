// Package keysym provides the keysym type and the name/code/UTF-8 tables
// that the scanner and matcher treat as an external collaborator.
//
// The real xkbcommon ships a name table with several thousand entries
// generated from X11's keysymdef.h; this package keeps a representative
// subset (most of the printable ASCII range plus acute and diaeresis from
// Latin-1, the dead keys and modifiers the
// Compose grammar actually exercises in practice, and a handful of named
// punctuation keysyms) rather than reproducing the whole database.
package keysym

import "unicode/utf8"

// Keysym is a 32-bit opaque key symbol identifier.
type Keysym uint32

// NoSymbol is the sentinel meaning "no keysym".
const NoSymbol Keysym = 0

// Ranges loosely follow the real X11 keysym layout: printable ASCII
// keysyms share their ASCII code point, dead keys live in the 0xfe50
// block, and modifiers live in the 0xffxx block (except ISO_Level3_Shift,
// which X11 places at 0xfe03).
const (
	firstDead Keysym = 0xfe50
	firstMisc Keysym = 0xff00
)

var nameToCode = map[string]Keysym{
	// ASCII-valued keysyms (a representative slice, not the full range).
	"space":        0x0020,
	"exclam":       0x0021,
	"quotedbl":     0x0022,
	"apostrophe":   0x0027,
	"parenleft":    0x0028,
	"parenright":   0x0029,
	"asterisk":     0x002a,
	"plus":         0x002b,
	"comma":        0x002c,
	"minus":        0x002d,
	"period":       0x002e,
	"slash":        0x002f,
	"0":            0x0030,
	"1":            0x0031,
	"2":            0x0032,
	"3":            0x0033,
	"4":            0x0034,
	"5":            0x0035,
	"6":            0x0036,
	"7":            0x0037,
	"8":            0x0038,
	"9":            0x0039,
	"colon":        0x003a,
	"semicolon":    0x003b,
	"less":         0x003c,
	"equal":        0x003d,
	"greater":      0x003e,
	"question":     0x003f,
	"at":           0x0040,
	"bracketleft":  0x005b,
	"backslash":    0x005c,
	"bracketright": 0x005d,
	"braceleft":    0x007b,
	"bar":          0x007c,
	"braceright":   0x007d,
	"asciitilde":   0x007e,
	"grave":        0x0060,
	"quoteleft":    0x0060,
	"acute":        0x00b4,
	"diaeresis":    0x00a8,
	"circumflex":   0x005e,
	"asciicircum":  0x005e,
	"underscore":   0x005f,

	// Dead keys.
	"dead_grave":      firstDead + 0x00,
	"dead_acute":      firstDead + 0x01,
	"dead_circumflex": firstDead + 0x02,
	"dead_tilde":      firstDead + 0x03,
	"dead_macron":     firstDead + 0x04,
	"dead_breve":      firstDead + 0x05,
	"dead_abovedot":   firstDead + 0x06,
	"dead_diaeresis":  firstDead + 0x07,
	"dead_abovering":  firstDead + 0x08,
	"dead_cedilla":    firstDead + 0x09,

	// Modifiers and the Compose trigger key.
	"Multi_key":        firstMisc + 0x20,
	"Shift_L":          firstMisc + 0xe1,
	"Shift_R":          firstMisc + 0xe2,
	"Control_L":        firstMisc + 0xe3,
	"Control_R":        firstMisc + 0xe4,
	"Caps_Lock":        firstMisc + 0xe5,
	"Shift_Lock":       firstMisc + 0xe6,
	"Meta_L":           firstMisc + 0xe7,
	"Meta_R":           firstMisc + 0xe8,
	"Alt_L":            firstMisc + 0xe9,
	"Alt_R":            firstMisc + 0xea,
	"Super_L":          firstMisc + 0xeb,
	"Super_R":          firstMisc + 0xec,
	"Hyper_L":          firstMisc + 0xed,
	"Hyper_R":          firstMisc + 0xee,
	"Num_Lock":         firstMisc + 0x7f,
	"ISO_Level3_Shift": 0xfe03,
}

var codeToName map[Keysym]string

func init() {
	// A-Z and a-z keysyms equal their ASCII code, same as the X11
	// keysymdef.h convention; only the punctuation keysyms need a name
	// distinct from their single-character spelling.
	for r := 'A'; r <= 'Z'; r++ {
		nameToCode[string(r)] = Keysym(r)
	}
	for r := 'a'; r <= 'z'; r++ {
		nameToCode[string(r)] = Keysym(r)
	}

	codeToName = make(map[Keysym]string, len(nameToCode))
	for name, code := range nameToCode {
		// On collisions (grave/quoteleft share 0x60, circumflex/
		// asciicircum share 0x5e) keep the lexicographically smallest
		// spelling, so the result does not depend on map iteration order.
		if cur, ok := codeToName[code]; !ok || name < cur {
			codeToName[code] = name
		}
	}
}

// modifiers is the set of keysyms feed() must silently ignore. Named
// "dubious" in the original source (state.c's FIXME comment) and kept
// verbatim here; see spec.md §9.
var modifiers = map[Keysym]bool{
	nameToCode["Shift_L"]:         true,
	nameToCode["Shift_R"]:         true,
	nameToCode["Control_L"]:       true,
	nameToCode["Control_R"]:       true,
	nameToCode["Caps_Lock"]:       true,
	nameToCode["Shift_Lock"]:      true,
	nameToCode["Meta_L"]:          true,
	nameToCode["Meta_R"]:          true,
	nameToCode["Alt_L"]:           true,
	nameToCode["Alt_R"]:           true,
	nameToCode["Super_L"]:         true,
	nameToCode["Super_R"]:         true,
	nameToCode["Hyper_L"]:         true,
	nameToCode["Hyper_R"]:         true,
	nameToCode["Num_Lock"]:        true,
	nameToCode["ISO_Level3_Shift"]: true,
}

// Lookup resolves a keysym name (the text between `<` and `>`, or a bare
// identifier on the right-hand side) to its code. The zero value and false
// are returned for unrecognized names, matching
// xkb_keysym_from_name's XKB_KEY_NoSymbol-on-failure contract.
func Lookup(name string) (Keysym, bool) {
	ks, ok := nameToCode[name]
	return ks, ok
}

// Name returns the canonical name of a keysym, or "" if unknown.
func Name(ks Keysym) string {
	return codeToName[ks]
}

// IsModifier reports whether feeding ks to a matcher must be a no-op.
func IsModifier(ks Keysym) bool {
	return modifiers[ks]
}

// ToUTF8 encodes the character a terminal keysym denotes, for terminals
// that carry a keysym but no literal string (xkb_keysym_to_utf8's
// fallback path in state.c's get_utf8).
func ToUTF8(ks Keysym) (string, bool) {
	switch {
	case ks == NoSymbol:
		return "", false
	case ks >= 0x0020 && ks <= 0x00ff:
		// Unicode code points 0x00-0xff map directly onto this range,
		// the Latin-1 keysym convention.
		r := rune(ks)
		buf := make([]byte, utf8.UTFMax)
		n := utf8.EncodeRune(buf, r)
		return string(buf[:n]), true
	default:
		return "", false
	}
}
