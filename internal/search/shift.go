package search

import (
	"context"
	"time"

	"github.com/jmccarv/monocrack/internal/key"
	"github.com/jmccarv/monocrack/internal/quadgram"
)

// ShiftSearch breaks a Caesar cipher by scoring every shift.
type ShiftSearch struct {
	model *quadgram.Model
	opts  options
}

func NewShiftSearch(m *quadgram.Model, opts ...Option) *ShiftSearch {
	return &ShiftSearch{model: m, opts: newOptions(opts)}
}

func (s *ShiftSearch) Name() string { return StrategyCaesar }

// Run scores the letters of ct decoded with each shift 0..25 and keeps the
// first maximum. An empty ciphertext yields shift 0, score 0 and an
// inconclusive result.
func (s *ShiftSearch) Run(ctx context.Context, ct Ciphertext) (res Result, err error) {
	start := time.Now()
	ctx, span := startSpan(ctx, StrategyCaesar, ct)
	defer func() {
		res.Elapsed = time.Since(start)
		s.opts.finish(span, &res, ct, err)
	}()

	res.Strategy = StrategyCaesar
	res.Inconclusive = ct.NrLetters() == 0
	res.Best = Candidate{Key: key.Shift(0).Key()}
	lb := NewLeaderboard(s.opts.topN)

	for shift := key.Shift(0); shift < key.Size; shift++ {
		if err := ctx.Err(); err != nil {
			res.Top = lb.Candidates()
			return res, err
		}

		c := Candidate{Key: shift.Key()}
		c.Score = ct.fitness(s.model, c.Key)
		res.Evaluations++
		lb.Add(c)

		if shift == 0 || c.Score > res.Best.Score {
			res.Best = c
			res.Shift = shift
		}
	}

	res.Top = lb.Candidates()
	return res, nil
}
