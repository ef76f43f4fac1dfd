// Package quadgram implements the quadgram language model used as the
// fitness function for every search strategy.
//
// A Model maps each 4-letter sequence to log10(count/total) and scores any
// sequence it never saw with a floor of log10(0.01/total). A Model is
// immutable once built and may be shared by concurrent searches.
package quadgram

import (
	"errors"
	"iter"
	"math"
	"strings"
)

// N is the gram length.
const N = 4

// tableSize is 26^4, one slot per possible quadgram.
const tableSize = 26 * 26 * 26 * 26

// ErrEmptyModel is returned by Build when no training entry survives filtering.
var ErrEmptyModel = errors.New("quadgram: no valid training entries")

// Model is a trained quadgram language model.
type Model struct {
	table []float64
	grams int
	floor float64
	total int64
}

// Build trains a model from (token, count) pairs. Only tokens of exactly
// four ASCII letters with a non-negative count are kept; repeated tokens are
// summed. Tokens whose summed count is zero stay unseen.
func Build(pairs iter.Seq2[string, int64]) (*Model, error) {
	counts := make(map[string]int64)
	var total int64
	for tok, n := range pairs {
		if n < 0 || !isGram(tok) {
			continue
		}
		tok = strings.ToUpper(tok)
		counts[tok] += n
		total += n
	}
	if total == 0 {
		return nil, ErrEmptyModel
	}

	m := &Model{
		table: make([]float64, tableSize),
		floor: math.Log10(0.01 / float64(total)),
		total: total,
	}
	for i := range m.table {
		m.table[i] = m.floor
	}
	for tok, n := range counts {
		if n == 0 {
			continue
		}
		m.table[code(tok)] = math.Log10(float64(n) / float64(total))
		m.grams++
	}
	return m, nil
}

func isGram(tok string) bool {
	if len(tok) != N {
		return false
	}
	for i := 0; i < N; i++ {
		if letterIndex(tok[i]) < 0 {
			return false
		}
	}
	return true
}

// letterIndex returns 0..25 for an ASCII letter of either case, -1 otherwise.
func letterIndex(c byte) int {
	switch {
	case c >= 'A' && c <= 'Z':
		return int(c - 'A')
	case c >= 'a' && c <= 'z':
		return int(c - 'a')
	}
	return -1
}

func code(gram string) int {
	n := 0
	for i := 0; i < N; i++ {
		n = n*26 + letterIndex(gram[i])
	}
	return n
}

// LogProb returns the log10 probability of gram, or the floor when gram was
// never seen. Grams that are not four letters also score the floor.
func (m *Model) LogProb(gram string) float64 {
	if !isGram(gram) {
		return m.floor
	}
	return m.table[code(gram)]
}

// Floor is the score given to unseen quadgrams.
func (m *Model) Floor() float64 { return m.floor }

// Total is the summed count of all training entries.
func (m *Model) Total() int64 { return m.total }

// Len is the number of distinct quadgrams with a stored probability.
func (m *Model) Len() int { return m.grams }

// ScoreMapped scores a text given as letter indices (0..25) after mapping
// each index through mapping. It sums the same values in the same order as
// Score does on the decoded text, so the two agree exactly.
func (m *Model) ScoreMapped(letters []uint8, mapping *[26]uint8) float64 {
	if len(letters) < N {
		return 0
	}
	var score float64
	c := 0
	for i, l := range letters {
		c = (c*26 + int(mapping[l])) % tableSize
		if i >= N-1 {
			score += m.table[c]
		}
	}
	return score
}
