// Package transport converts messages to and from the binary-token
// encoding they travel in: whitespace-separated tokens of '0' and '1', one
// token per character.
package transport

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// DecodeBinary turns each binary token into the character with that code
// point. Tokens containing anything other than '0' and '1', or naming an
// invalid code point, are skipped.
func DecodeBinary(s string) string {
	var b strings.Builder
	for _, tok := range strings.Fields(s) {
		if !isBinary(tok) {
			continue
		}
		v, err := strconv.ParseUint(tok, 2, 32)
		if err != nil {
			continue
		}
		r := rune(v)
		if !utf8.ValidRune(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isBinary(tok string) bool {
	for i := 0; i < len(tok); i++ {
		if tok[i] != '0' && tok[i] != '1' {
			return false
		}
	}
	return tok != ""
}

// EncodeBinary writes every character of s as a space-separated binary token
// without leading zeros.
func EncodeBinary(s string) string {
	toks := make([]string, 0, len(s))
	for _, r := range s {
		toks = append(toks, strconv.FormatUint(uint64(r), 2))
	}
	return strings.Join(toks, " ")
}

// LooksBinary reports whether s is non-empty and every token in it is binary.
func LooksBinary(s string) bool {
	toks := strings.Fields(s)
	if len(toks) == 0 {
		return false
	}
	for _, tok := range toks {
		if !isBinary(tok) {
			return false
		}
	}
	return true
}
