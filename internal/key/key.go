// Package key holds the substitution key type and the operations used to
// explore the key space: random keys, frequency-seeded keys, swaps and
// order crossover.
//
// A Key is indexed by ciphertext letter. k[i] is the plaintext letter that
// ciphertext letter Alphabet[i] decodes to, so a Key is always a permutation
// of the alphabet.
package key

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
)

// Size is the number of letters in the alphabet.
const Size = 26

// Alphabet is the fixed cipher and plaintext alphabet.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// EnglishFrequencyOrder lists English letters from most to least frequent.
const EnglishFrequencyOrder = "ETAOINSHRDLCUMWFGYPBVKJXQZ"

// Key maps every ciphertext letter, by alphabet position, to a plaintext letter.
type Key [Size]byte

// Identity returns the key that decodes every letter to itself.
func Identity() Key {
	var k Key
	copy(k[:], Alphabet)
	return k
}

// InvalidKeyError reports a key that is not a permutation of the alphabet.
type InvalidKeyError struct {
	Key    string
	Reason string
}

func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("invalid key %q: %s", e.Key, e.Reason)
}

// Validate returns an *InvalidKeyError unless every letter appears exactly once.
func (k Key) Validate() error {
	var seen [Size]bool
	for i, c := range k {
		if c < 'A' || c > 'Z' {
			return &InvalidKeyError{Key: k.String(), Reason: fmt.Sprintf("position %d is not a letter", i)}
		}
		if seen[c-'A'] {
			return &InvalidKeyError{Key: k.String(), Reason: fmt.Sprintf("letter %c appears more than once", c)}
		}
		seen[c-'A'] = true
	}
	return nil
}

func (k Key) String() string {
	var b strings.Builder
	b.Grow(Size)
	for _, c := range k {
		if c == 0 {
			b.WriteByte('?')
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// Pairs renders the key as "A=x B=y ..." mappings, the form Parse also accepts.
func (k Key) Pairs() string {
	var b strings.Builder
	for i, c := range k {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%c=%c", Alphabet[i], c)
	}
	return b.String()
}

// Invert returns the key that undoes k, i.e. the encryption key for k.
func (k Key) Invert() Key {
	var inv Key
	for i, c := range k {
		inv[c-'A'] = Alphabet[i]
	}
	return inv
}

// Mapping returns the key as letter indices, the form the scorer consumes.
func (k Key) Mapping() [Size]uint8 {
	var m [Size]uint8
	for i, c := range k {
		m[i] = c - 'A'
	}
	return m
}

// Apply decodes text with k. Upper-case letters map through the key,
// lower-case letters map through the key and stay lower-case, anything else
// passes through unchanged.
func (k Key) Apply(text string) string {
	out := []byte(text)
	for i, c := range out {
		switch {
		case c >= 'A' && c <= 'Z':
			out[i] = k[c-'A']
		case c >= 'a' && c <= 'z':
			out[i] = k[c-'a'] - 'A' + 'a'
		}
	}
	return string(out)
}

var rxPair = regexp.MustCompile(`\s*([A-Z]+=[A-Z]+)(?:[ ,]|$)`)

// Parse reads a key either as 26 letters ("QWERTY...") or as a list of
// cipher=plain mappings ("ABC=XYZ D=Q ..."). The result must be a complete
// permutation.
func Parse(s string) (Key, error) {
	var k Key
	line := bytes.ToUpper(bytes.TrimSpace([]byte(s)))

	if !bytes.Contains(line, []byte("=")) {
		if len(line) != Size {
			return k, &InvalidKeyError{Key: string(line), Reason: fmt.Sprintf("want %d letters, got %d", Size, len(line))}
		}
		copy(k[:], line)
		return k, k.Validate()
	}

	mappings := rxPair.FindAllSubmatch(line, -1)
	if len(mappings) == 0 {
		return k, &InvalidKeyError{Key: string(line), Reason: "no cipher=plain mappings"}
	}
	for _, m := range mappings {
		kv := bytes.SplitN(m[1], []byte("="), 2)
		if len(kv[0]) != len(kv[1]) {
			return k, &InvalidKeyError{Key: string(line), Reason: fmt.Sprintf("mapping %s has unequal sides", m[1])}
		}
		// kv[0] holds ciphertext letters, kv[1] the plaintext letters they decode to
		for i, cc := range kv[0] {
			if prev := k[cc-'A']; prev != 0 && prev != kv[1][i] {
				return k, &InvalidKeyError{Key: string(line), Reason: fmt.Sprintf("letter %c mapped twice", cc)}
			}
			k[cc-'A'] = kv[1][i]
		}
	}
	return k, k.Validate()
}
