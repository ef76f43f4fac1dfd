package search

import (
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/jmccarv/monocrack/internal/key"
	"github.com/jmccarv/monocrack/internal/quadgram"
	"github.com/jmccarv/monocrack/internal/quadgram/quadgramtest"
)

var (
	englishOnce  sync.Once
	englishModel *quadgram.Model
)

func english() *quadgram.Model {
	englishOnce.Do(func() { englishModel = quadgramtest.English() })
	return englishModel
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// encipher encrypts plaintext so that k decrypts it.
func encipher(plaintext string, k key.Key) string {
	return k.Invert().Apply(plaintext)
}
