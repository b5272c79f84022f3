package validator

import (
	"fmt"
	"strings"
)

// IllegalChars lists the characters that are not allowed in a target name.
// The set is the Windows one, so plans stay portable.
const IllegalChars = `/\:*?"<>|`

// fullWidth maps each illegal character to its full-width lookalike.
var fullWidth = map[rune]rune{
	'/':  '／',
	'\\': '＼',
	':':  '：',
	'*':  '＊',
	'?':  '？',
	'"':  '＂',
	'<':  '＜',
	'>':  '＞',
	'|':  '｜',
}

// Sanitized is the outcome of cleaning a single target name.
type Sanitized struct {
	// Name is the cleaned name. When ExtensionError is set it is the
	// original name, untouched.
	Name string
	// Replaced describes each substitution, e.g. "'<' -> '＜'".
	Replaced []string
	// ExtensionError is set when the extension itself holds illegal
	// characters; such names are never fixed automatically.
	ExtensionError string
}

// Changed reports whether any character was replaced.
func (s Sanitized) Changed() bool {
	return len(s.Replaced) > 0
}

// SanitizeName replaces illegal characters in name with full-width
// lookalikes. For files the name is split on the last '.', and only the
// part before it is rewritten; directories are rewritten as a whole.
func SanitizeName(name string, isDir bool) Sanitized {
	if !strings.ContainsAny(name, IllegalChars) {
		return Sanitized{Name: name}
	}

	base, ext := name, ""
	if !isDir {
		if i := strings.LastIndex(name, "."); i >= 0 {
			base, ext = name[:i], name[i:]
		}
	}

	if bad := illegalIn(ext); len(bad) > 0 {
		return Sanitized{
			Name: name,
			ExtensionError: fmt.Sprintf(
				"extension %q contains illegal characters %s; extensions must not contain any of %s",
				ext, quoteRunes(bad), IllegalChars),
		}
	}

	var b strings.Builder
	var replaced []string
	seen := make(map[rune]bool)
	for _, r := range base {
		repl, illegal := fullWidth[r]
		if !illegal {
			b.WriteRune(r)
			continue
		}
		b.WriteRune(repl)
		if !seen[r] {
			seen[r] = true
			replaced = append(replaced, fmt.Sprintf("'%c' -> '%c'", r, repl))
		}
	}

	return Sanitized{Name: b.String() + ext, Replaced: replaced}
}

// illegalIn returns the distinct illegal characters of s in order of appearance.
func illegalIn(s string) []rune {
	var out []rune
	seen := make(map[rune]bool)
	for _, r := range s {
		if _, illegal := fullWidth[r]; illegal && !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}

func quoteRunes(rs []rune) string {
	parts := make([]string, len(rs))
	for i, r := range rs {
		parts[i] = fmt.Sprintf("'%c'", r)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
