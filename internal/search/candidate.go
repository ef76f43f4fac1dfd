package search

import (
	"fmt"
	"sort"

	"github.com/jmccarv/monocrack/internal/key"
)

// Candidate is a key together with its fitness against one ciphertext and
// model. Higher scores are better.
type Candidate struct {
	Key   key.Key
	Score float64
}

func (c Candidate) String() string {
	return fmt.Sprintf("%s %0.2f", c.Key, c.Score)
}

// sortCandidates orders cs by descending score. Equal scores keep their
// relative order.
func sortCandidates(cs []Candidate) {
	sort.SliceStable(cs, func(i, j int) bool { return cs[i].Score > cs[j].Score })
}

// bestOf returns the first highest-scoring candidate.
func bestOf(cs []Candidate) Candidate {
	best := cs[0]
	for _, c := range cs[1:] {
		if c.Score > best.Score {
			best = c
		}
	}
	return best
}
