// Package corpus reads language-model training data: one "TOKEN COUNT"
// entry per line, where TOKEN is made of letters and COUNT is a
// non-negative integer. Malformed lines are skipped, not reported as errors.
package corpus

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strconv"
)

// Reader yields the valid entries of a corpus.
type Reader struct {
	s       *bufio.Scanner
	logger  *slog.Logger
	name    string
	err     error
	lines   int
	skipped int
}

// NewReader reads a corpus from r. name is only used in log messages.
func NewReader(r io.Reader, name string, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Reader{s: s, logger: logger, name: name}
}

// Given a line like:
// TOKEN 12345 [anything else]
// where TOKEN consists of the letters A-Z or a-z and the number is a
// non-negative decimal literal, return the token and its count.
func parseLine(line []byte) (string, int64, error) {
	f := bytes.Fields(line)
	if len(f) < 2 {
		return "", 0, errors.New("not enough fields")
	}

	for _, c := range f[0] {
		if !(c >= 'A' && c <= 'Z') && !(c >= 'a' && c <= 'z') {
			return "", 0, errors.New("invalid characters in token")
		}
	}

	for _, c := range f[1] {
		if c < '0' || c > '9' {
			return "", 0, errors.New("count is not a non-negative integer")
		}
	}
	n, err := strconv.ParseInt(string(f[1]), 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid count: %w", err)
	}
	return string(f[0]), n, nil
}

// All yields every valid (token, count) entry in file order. Scanning stops
// at the first read error, which Err reports afterwards.
func (r *Reader) All() iter.Seq2[string, int64] {
	return func(yield func(string, int64) bool) {
		for r.s.Scan() {
			r.lines++
			tok, n, err := parseLine(r.s.Bytes())
			if err != nil {
				r.skipped++
				r.logger.Debug("skipping corpus line", "file", r.name, "line", r.lines, "reason", err)
				continue
			}
			if !yield(tok, n) {
				return
			}
		}
		if err := r.s.Err(); err != nil {
			r.err = fmt.Errorf("read corpus %s: %w", r.name, err)
		}
	}
}

// Err returns the read error that ended All, if any.
func (r *Reader) Err() error { return r.err }

// Lines is the number of lines read so far.
func (r *Reader) Lines() int { return r.lines }

// Skipped is the number of lines dropped as malformed.
func (r *Reader) Skipped() int { return r.skipped }
