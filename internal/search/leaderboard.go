package search

import (
	"github.com/jmccarv/monocrack/internal/key"
)

// Leaderboard keeps the best N distinct keys seen so far.
type Leaderboard struct {
	set  []Candidate
	seen map[key.Key]bool
	nr   int
}

func NewLeaderboard(size int) *Leaderboard {
	if size < 1 {
		size = 1
	}
	return &Leaderboard{set: make([]Candidate, 0, size+1), seen: make(map[key.Key]bool), nr: size}
}

// Add offers c to the board and reports whether it was kept. A key is only
// ever considered once.
func (lb *Leaderboard) Add(c Candidate) bool {
	if lb.seen[c.Key] {
		return false
	}
	lb.seen[c.Key] = true

	if len(lb.set) >= lb.nr {
		if c.Score <= lb.set[len(lb.set)-1].Score {
			return false
		}
	}

	lb.set = append(lb.set, c)
	sortCandidates(lb.set)

	if len(lb.set) > lb.nr {
		lb.set = lb.set[:lb.nr]
	}
	return true
}

// Candidates returns the kept candidates, best first.
func (lb *Leaderboard) Candidates() []Candidate {
	out := make([]Candidate, len(lb.set))
	copy(out, lb.set)
	return out
}

func (lb *Leaderboard) Len() int { return len(lb.set) }
