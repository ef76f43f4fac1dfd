// Package quadgramtest provides a small English training sample and helpers
// for building quadgram models in tests.
package quadgramtest

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/jmccarv/monocrack/internal/quadgram"
)

// EnglishSample is ordinary English prose used to train test models.
const EnglishSample = `The quick brown fox jumps over the lazy dog. It was the best of times,
it was the worst of times, it was the age of wisdom, it was the age of foolishness,
it was the epoch of belief, it was the epoch of incredulity, it was the season of
light, it was the season of darkness, it was the spring of hope, it was the winter
of despair. There were a king with a large jaw and a queen with a plain face on the
throne of England. In the beginning of the story there is a house at the end of the
street where the children play in the garden every afternoon until their mother calls
them in for dinner. The weather that summer was warm and the evenings were long, so
they stayed outside and watched the stars come out one by one above the old church.
Nothing is more important than the truth, and nothing is harder to find when every
person you meet has a different story to tell about the same thing. Whenever the
people of the town gathered in the market square they talked about the harvest, the
price of bread, and the news that travellers brought from the cities in the north.
Some of them believed that the war would soon be over and others thought that it had
hardly begun. The secret of the message was hidden in plain sight for anyone who knew
how to read the letters and count how often each one appeared in the text.`

// Counts returns the quadgram counts of the letters in text, upper-cased.
func Counts(text string) map[string]int64 {
	var letters []byte
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c >= 'A' && c <= 'Z':
			letters = append(letters, c)
		case c >= 'a' && c <= 'z':
			letters = append(letters, c-'a'+'A')
		}
	}
	counts := make(map[string]int64)
	for i := 0; i+quadgram.N <= len(letters); i++ {
		counts[string(letters[i:i+quadgram.N])]++
	}
	return counts
}

// Model builds a model from text and panics when text has no quadgrams.
func Model(text string) *quadgram.Model {
	m, err := quadgram.Build(maps.All(Counts(text)))
	if err != nil {
		panic(err)
	}
	return m
}

// English is Model(EnglishSample).
func English() *quadgram.Model {
	return Model(EnglishSample)
}

// Corpus renders the counts of text as "TOKEN COUNT" lines in sorted order.
func Corpus(text string) string {
	counts := Counts(text)
	var b strings.Builder
	for _, tok := range slices.Sorted(maps.Keys(counts)) {
		fmt.Fprintf(&b, "%s %d\n", tok, counts[tok])
	}
	return b.String()
}
