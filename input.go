package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/jmccarv/monocrack/internal/corpus"
	"github.com/jmccarv/monocrack/internal/quadgram"
	"github.com/jmccarv/monocrack/internal/transport"
)

// Files read when a search command gets no arguments.
const (
	defaultMessageFile = "Mensagem-Codificada"
	defaultCorpusFile  = "quadgrams"
)

// Message encodings accepted by --encoding.
const (
	encodingBinary = "binary"
	encodingPlain  = "plain"
)

func checkEncoding(enc string) error {
	switch enc {
	case encodingBinary, encodingPlain:
		return nil
	default:
		return usageErrorf("unknown encoding %q (want %s or %s)", enc, encodingBinary, encodingPlain)
	}
}

// openInput opens path, reporting a missing file as a MissingFileError.
func openInput(role, path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &MissingFileError{Role: role, Path: path, Err: err}
		}
		return nil, fmt.Errorf("open %s file: %w", role, err)
	}
	return f, nil
}

// readMessage reads the ciphertext from path and decodes it. Binary
// messages are sequences of 0/1 tokens, one per character.
func readMessage(path, encoding string, logger *slog.Logger) (string, error) {
	f, err := openInput("message", path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("read message: %w", err)
	}

	text := string(raw)
	if encoding == encodingBinary {
		if !transport.LooksBinary(text) && strings.TrimSpace(text) != "" {
			logger.Warn("message does not look binary; decoding anyway", "file", path)
		}
		text = transport.DecodeBinary(text)
	}
	text = strings.TrimRight(text, "\r\n")

	logger.Info("message loaded", "file", path, "encoding", encoding, "chars", len(text))
	return text, nil
}

// loadModel builds the quadgram model from a "TOKEN COUNT" corpus file.
func loadModel(path string, logger *slog.Logger) (*quadgram.Model, error) {
	f, err := openInput("corpus", path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := corpus.NewReader(f, path, logger)
	m, err := quadgram.Build(r.All())
	if rerr := r.Err(); rerr != nil {
		return nil, rerr
	}
	if err != nil {
		return nil, fmt.Errorf("build model from %s: %w", path, err)
	}

	logger.Info("model built",
		"file", path,
		"lines", r.Lines(),
		"skipped", r.Skipped(),
		"grams", m.Len(),
		"total", m.Total(),
		"floor", m.Floor(),
	)
	return m, nil
}
