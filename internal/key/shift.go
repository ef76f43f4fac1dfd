package key

import "fmt"

// Shift is a Caesar key: the rotation applied when the text was enciphered.
type Shift int

// Valid reports whether s lies in [0, Size).
func (s Shift) Valid() bool {
	return s >= 0 && s < Size
}

// Key expands s into the substitution key that undoes it, decoding
// ciphertext letter i to plaintext letter (i-s) mod 26.
func (s Shift) Key() Key {
	var k Key
	n := ((int(s) % Size) + Size) % Size
	for i := range k {
		k[i] = Alphabet[(i-n+Size)%Size]
	}
	return k
}

func (s Shift) String() string {
	return fmt.Sprintf("%d", int(s))
}
