package search

import (
	"strings"

	"github.com/jmccarv/monocrack/internal/key"
	"github.com/jmccarv/monocrack/internal/quadgram"
)

// Ciphertext is a message to break. It keeps the full upper-cased text for
// decryption and its letters, as indices, for scoring.
type Ciphertext struct {
	text    string
	letters []uint8
}

func NewCiphertext(s string) Ciphertext {
	text := strings.ToUpper(s)
	return Ciphertext{text: text, letters: quadgram.Letters(text)}
}

func (c Ciphertext) String() string {
	return c.text
}

// NrLetters is the number of alphabetic characters.
func (c Ciphertext) NrLetters() int {
	return len(c.letters)
}

// Decrypt applies k to the full text, leaving non-letters untouched.
func (c Ciphertext) Decrypt(k key.Key) string {
	return k.Apply(c.text)
}

// fitness scores k against the letters of c.
func (c Ciphertext) fitness(m *quadgram.Model, k key.Key) float64 {
	mapping := k.Mapping()
	return m.ScoreMapped(c.letters, &mapping)
}
