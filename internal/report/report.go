// Package report renders search results for people.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/jmccarv/monocrack/internal/key"
	"github.com/jmccarv/monocrack/internal/search"
)

// Options controls what Write prints besides the best solution.
type Options struct {
	// Alternatives prints Result.Top after the plaintext when it holds more
	// than one candidate.
	Alternatives bool

	// SampleWidth truncates the plaintext shown next to each alternative.
	SampleWidth int
}

// Write prints res: the recovered key, its score and the full decrypted
// text. Shift results show the numeric shift, substitution results the
// cipher alphabet above the plaintext letter each one maps to.
func Write(w io.Writer, res search.Result, ct search.Ciphertext, opts Options) error {
	p := &printer{w: w}

	p.printf("Strategy: %s\n", res.Strategy)
	if res.Strategy == search.StrategyCaesar {
		p.printf("Key:      shift %d\n", int(res.Shift))
	} else {
		p.printf("Cipher:   %s\n", key.Alphabet)
		p.printf("Plain:    %s\n", res.Best.Key)
	}
	p.printf("Score:    %0.2f\n", res.Best.Score)

	if len(res.RestartScores) > 0 {
		summary, err := restartSummary(res.RestartScores)
		if err != nil {
			return err
		}
		p.printf("Restarts: %s\n", summary)
	}
	if res.Generations > 0 {
		p.printf("Generations: %d\n", res.Generations)
	}
	if res.Inconclusive {
		p.printf("Note:     no letters in the ciphertext, every key scores 0\n")
	}

	p.printf("\n%s\n", res.Plaintext)

	if opts.Alternatives && len(res.Top) > 1 {
		width := opts.SampleWidth
		if width <= 0 {
			width = 60
		}
		p.printf("\nTop %d:\n", len(res.Top))
		for i, c := range res.Top {
			p.printf("%2d. %s  %s\n", i+1, c, sample(ct.Decrypt(c.Key), width))
		}
	}
	return p.err
}

func restartSummary(scores []float64) (string, error) {
	mean, err := stats.Mean(scores)
	if err != nil {
		return "", fmt.Errorf("restart mean: %w", err)
	}
	sd, err := stats.StandardDeviation(scores)
	if err != nil {
		return "", fmt.Errorf("restart stddev: %w", err)
	}
	worst, err := stats.Min(scores)
	if err != nil {
		return "", fmt.Errorf("restart min: %w", err)
	}
	return fmt.Sprintf("%d  mean %0.2f  stddev %0.2f  worst %0.2f", len(scores), mean, sd, worst), nil
}

// sample flattens text onto one line and cuts it to width bytes.
func sample(text string, width int) string {
	s := strings.Join(strings.Fields(text), " ")
	if len(s) > width {
		s = s[:width] + "..."
	}
	return s
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
