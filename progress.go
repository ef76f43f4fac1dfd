package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/jmccarv/monocrack/internal/search"
)

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// progressBar draws search progress on w. Off a terminal it returns nil
// and the strategies' debug logs are the only progress output.
func progressBar(w io.Writer, strategy string, total int) (func(search.Progress), func()) {
	if !isTerminal(w) {
		return nil, func() {}
	}

	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(strategy),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)

	best := 0.0
	described := false
	update := func(p search.Progress) {
		if !described || p.Best != best {
			best, described = p.Best, true
			bar.Describe(fmt.Sprintf("%s best %0.2f", strategy, best))
		}
		_ = bar.Set(p.Step)
	}
	return update, func() { _ = bar.Finish() }
}
