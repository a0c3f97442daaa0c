// Package locale resolves Compose file paths from the environment and
// filesystem: the %H/%L/%S include-path macros, and the three-source
// auto-discovery new-from-locale performs.
package locale

import (
	"fmt"
	"os"
	"path/filepath"
)

// defaultXLocaleDir is the fallback system locale directory, matching
// libxkbcommon's XLOCALEDIR build default.
const defaultXLocaleDir = "/usr/share/X11/locale"

// aliases maps a handful of common locale names to their Compose
// directory, standing in for the real compose.dir index libxkbcommon
// ships (a generated file mapping every glibc locale alias to a
// directory name such as "iso8859-1" or "en_US.UTF-8").
var aliases = map[string]string{
	"C":           "C",
	"POSIX":       "C",
	"en_US.UTF-8": "en_US.UTF-8",
	"en_US":       "en_US.UTF-8",
	"de_DE.UTF-8": "de_DE.UTF-8",
	"de_DE":       "de_DE.UTF-8",
}

// Paths resolves the %L and %S include-path macros. It is an interface so
// the lexer and locale tests can substitute a fake without touching the
// environment or filesystem.
type Paths interface {
	XLocaleDir() string
	LocaleComposeFile(locale string) (string, error)
}

// Env is the default Paths implementation, backed by the real
// environment and filesystem.
type Env struct{}

// XLocaleDir returns the system locale directory, honoring an
// XLOCALEDIR override the way libxkbcommon's build does.
func (Env) XLocaleDir() string {
	if dir, ok := os.LookupEnv("XLOCALEDIR"); ok && dir != "" {
		return dir
	}
	return defaultXLocaleDir
}

// LocaleComposeFile resolves <xlocaledir>/<mapped-locale>/Compose.
func (e Env) LocaleComposeFile(locale string) (string, error) {
	dir, ok := aliases[locale]
	if !ok {
		return "", fmt.Errorf("locale: no Compose directory known for locale %q", locale)
	}
	return filepath.Join(e.XLocaleDir(), dir, "Compose"), nil
}

// XComposeFilePath returns the value of $XCOMPOSEFILE, if set.
func XComposeFilePath() (string, bool) {
	return os.LookupEnv("XCOMPOSEFILE")
}

// HomeXComposePath returns $HOME/.XCompose, if $HOME is set.
func HomeXComposePath() (string, bool) {
	home, ok := os.LookupEnv("HOME")
	if !ok || home == "" {
		return "", false
	}
	return filepath.Join(home, ".XCompose"), true
}

// Discover tries, in order, $XCOMPOSEFILE, $HOME/.XCompose, and the
// locale's Compose file, returning the first path that names an openable
// file. This mirrors xkb_compose_new_from_locale's three-source search in
// compose.c.
func Discover(paths Paths, loc string) (string, *os.File, error) {
	candidates := make([]string, 0, 3)
	if p, ok := XComposeFilePath(); ok {
		candidates = append(candidates, p)
	}
	if p, ok := HomeXComposePath(); ok {
		candidates = append(candidates, p)
	}
	if p, err := paths.LocaleComposeFile(loc); err == nil {
		candidates = append(candidates, p)
	}

	for _, p := range candidates {
		f, err := os.Open(p)
		if err == nil {
			return p, f, nil
		}
	}
	return "", nil, fmt.Errorf("locale: couldn't find a Compose file for locale %q", loc)
}
