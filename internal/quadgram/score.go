package quadgram

var identity = func() (m [26]uint8) {
	for i := range m {
		m[i] = uint8(i)
	}
	return m
}()

// Letters strips everything but ASCII letters from text and returns the
// remaining letters as indices 0..25, upper and lower case alike.
func Letters(text string) []uint8 {
	out := make([]uint8, 0, len(text))
	for i := 0; i < len(text); i++ {
		if n := letterIndex(text[i]); n >= 0 {
			out = append(out, uint8(n))
		}
	}
	return out
}

// Score sums m's log probabilities over every overlapping quadgram of the
// letters in plaintext. Text with fewer than four letters scores 0.
func Score(plaintext string, m *Model) float64 {
	letters := Letters(plaintext)
	return m.ScoreMapped(letters, &identity)
}

// Scorer ranks candidate plaintexts against a fixed model.
type Scorer struct {
	model *Model
}

func NewScorer(m *Model) *Scorer {
	return &Scorer{model: m}
}

func (s *Scorer) Score(plaintext string) float64 {
	return Score(plaintext, s.model)
}
