// Package keys validates persistence keys and maps them to filesystem-safe
// names. Keys are short printable identifiers chosen by the messaging runtime
// (e.g. "s-12", "r-3"); the escaped form is reversible so a directory listing
// can be mapped back to the original key set.
package keys

import (
	"fmt"
	"strings"
	"unicode"
)

const extraRunes = ":@#+-_."

// Valid reports whether key is non-empty and contains only unicode letters,
// digits, or one of ':' '@' '#' '+' '-' '_' '.'.
func Valid(key string) bool {
	if key == "" {
		return false
	}
	for _, r := range key {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !strings.ContainsRune(extraRunes, r) {
			return false
		}
	}
	return true
}

// Escape maps key to a name safe for use as a single path element. Letters,
// digits, '-', '_' and '.' pass through; everything else becomes %XX per byte.
// Escape never returns "", "." or ".." for a Valid key.
func Escape(key string) string {
	if key == "." || key == ".." {
		return strings.ReplaceAll(key, ".", "%2E")
	}
	var b strings.Builder
	b.Grow(len(key))
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c == '%' || !safeByte(c) {
			fmt.Fprintf(&b, "%%%02X", c)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// Unescape reverses Escape. Malformed input returns an error rather than a
// silently mangled key.
func Unescape(name string) (string, error) {
	var b strings.Builder
	b.Grow(len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		if i+2 >= len(name) {
			return "", fmt.Errorf("keys: truncated escape in %q", name)
		}
		hi, ok1 := unhex(name[i+1])
		lo, ok2 := unhex(name[i+2])
		if !ok1 || !ok2 {
			return "", fmt.Errorf("keys: bad escape in %q", name)
		}
		b.WriteByte(hi<<4 | lo)
		i += 2
	}
	return b.String(), nil
}

func safeByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_' || c == '.':
		return true
	}
	return false
}

func unhex(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	}
	return 0, false
}
