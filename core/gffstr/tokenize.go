// core/gffstr/tokenize.go
package gffstr

import "strings"

// FindUnquoted returns the byte offsets of c in s that are not inside a
// region opened and closed by quote.
func FindUnquoted(s string, quote, c byte) []int {
	var pos []int
	quoted := false
	for i := 0; i < len(s); i++ {
		if s[i] == quote {
			quoted = !quoted
		}
		if s[i] == c && !quoted {
			pos = append(pos, i)
		}
	}
	return pos
}

// Tokenize splits s on delim and trims spaces from both ends of every token.
// Zero-length fields are dropped unless includeEmpty is set. When limit > 0
// at most limit tokens are produced and the last one holds the remainder.
func Tokenize(s string, delim byte, includeEmpty bool, limit int) []string {
	if s == "" {
		return nil
	}
	var out []string
	rest := s
	for {
		if limit > 0 && len(out) == limit-1 {
			break
		}
		i := strings.IndexByte(rest, delim)
		if i < 0 {
			break
		}
		if i > 0 || includeEmpty {
			out = append(out, TrimChar(rest[:i], ' '))
		}
		rest = rest[i+1:]
	}
	if len(rest) > 0 || includeEmpty {
		out = append(out, TrimChar(rest, ' '))
	}
	return out
}

// TokenizeQuoted splits s on every delim that is not inside a quoted region.
// Tokens are space-trimmed. Tokens that end up empty are dropped unless
// includeEmpty is set.
func TokenizeQuoted(s string, delim, quote byte, includeEmpty bool) []string {
	if s == "" {
		return nil
	}
	var out []string
	add := func(tok string) {
		if t := TrimChar(tok, ' '); t != "" || includeEmpty {
			out = append(out, t)
		}
	}
	start := 0
	for _, p := range FindUnquoted(s, quote, delim) {
		add(s[start:p])
		start = p + 1
	}
	add(s[start:])
	return out
}

// TrimChar removes leading and trailing runs of c.
func TrimChar(s string, c byte) string {
	i, j := 0, len(s)
	for i < j && s[i] == c {
		i++
	}
	for j > i && s[j-1] == c {
		j--
	}
	return s[i:j]
}

// ReplaceFirst replaces the first occurrence of old in s.
func ReplaceFirst(s, old, repl string) (string, bool) {
	if s == "" || old == "" {
		return s, false
	}
	i := strings.Index(s, old)
	if i < 0 {
		return s, false
	}
	return s[:i] + repl + s[i+len(old):], true
}

// ReplaceAll replaces every occurrence of old in s, scanning left to right
// over the input so that replacement text is never rescanned. It returns the
// number of substitutions made.
func ReplaceAll(s, old, repl string) (string, int) {
	if s == "" || old == "" {
		return s, 0
	}
	n := strings.Count(s, old)
	if n == 0 {
		return s, 0
	}
	return strings.Replace(s, old, repl, n), n
}

// RemoveChar drops every occurrence of c.
func RemoveChar(s string, c byte) string {
	if strings.IndexByte(s, c) < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != c {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// Substring returns at most n bytes of s starting at start, clamped to s.
func Substring(s string, start, n int) string {
	if start < 0 || start >= len(s) || n <= 0 {
		return ""
	}
	end := start + n
	if end > len(s) {
		end = len(s)
	}
	return s[start:end]
}
