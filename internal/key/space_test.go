package key

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandom_IsPermutation(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	distinct := map[Key]bool{}
	for i := 0; i < 500; i++ {
		k := Random(rng)
		requirePermutation(t, k)
		distinct[k] = true
	}
	assert.Greater(t, len(distinct), 490)
}

func TestRandom_Reproducible(t *testing.T) {
	a := Random(rand.New(rand.NewPCG(42, 0)))
	b := Random(rand.New(rand.NewPCG(42, 0)))
	assert.Equal(t, a, b)
}

func TestSwap_ExchangesTwoPositions(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for i := 0; i < 1000; i++ {
		k := Random(rng)
		s := Swap(k, rng)
		requirePermutation(t, s)

		var diff []int
		for p := range k {
			if k[p] != s[p] {
				diff = append(diff, p)
			}
		}
		if assert.Len(t, diff, 2) {
			assert.Equal(t, k[diff[0]], s[diff[1]])
			assert.Equal(t, k[diff[1]], s[diff[0]])
		}
	}
}

func TestMutate_IsPermutation(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	k := Identity()
	for i := 0; i < 1000; i++ {
		k = Mutate(k, rng)
		requirePermutation(t, k)
	}
}

func TestOrderCrossover_ChildrenArePermutations(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 10))
	for i := 0; i < 2000; i++ {
		p1, p2 := Random(rng), Random(rng)
		c1, c2 := OrderCrossover(p1, p2, rng)
		requirePermutation(t, c1)
		requirePermutation(t, c2)
	}
}

func TestOrderChild_IdenticalParents(t *testing.T) {
	p := Random(rand.New(rand.NewPCG(1, 1)))
	c1, c2 := 5, 10

	child := orderChild(p, p, c1, c2)
	requirePermutation(t, child)
	assert.Equal(t, p[c1:c2+1], child[c1:c2+1])

	// The free positions, after the segment and wrapping round, take the
	// remaining letters in p's order from index 0.
	var rest []byte
	rest = append(rest, p[:c1]...)
	rest = append(rest, p[c2+1:]...)
	var got []byte
	got = append(got, child[c2+1:]...)
	got = append(got, child[:c1]...)
	assert.Equal(t, rest, got)
}

func TestOrderChild(t *testing.T) {
	keep := Identity()
	fill, err := Parse("ZYXWVUTSRQPONMLKJIHGFEDCBA")
	if err != nil {
		t.Fatal(err)
	}

	// keeps C..F, then fills G.. and A.. from the reversed parent skipping C..F
	child := orderChild(keep, fill, 2, 5)
	assert.Equal(t, "BACDEFZYXWVUTSRQPONMLKJIHG", child.String())
	requirePermutation(t, child)

	whole := orderChild(keep, fill, 0, Size-1)
	assert.Equal(t, keep, whole)
}

func TestFrequencySeed(t *testing.T) {
	// X most frequent, then Q, then B (tie with nothing), rest unseen
	k := FrequencySeed("XXXX QQQ bb!")
	requirePermutation(t, k)
	assert.Equal(t, byte('E'), k['X'-'A'])
	assert.Equal(t, byte('T'), k['Q'-'A'])
	assert.Equal(t, byte('A'), k['B'-'A'])

	// unseen cipher letters take B, C, D, F, ... in alphabetical order
	assert.Equal(t, byte('B'), k['A'-'A'])
	assert.Equal(t, byte('C'), k['C'-'A'])
	assert.Equal(t, byte('D'), k['D'-'A'])
	assert.Equal(t, byte('F'), k['E'-'A'])
}

func TestFrequencySeed_TiesKeepFirstAppearance(t *testing.T) {
	k := FrequencySeed("ZYZY")
	assert.Equal(t, byte('E'), k['Z'-'A'])
	assert.Equal(t, byte('T'), k['Y'-'A'])
}

func TestFrequencySeed_AllLetters(t *testing.T) {
	k := FrequencySeed(Alphabet)
	requirePermutation(t, k)
	assert.Equal(t, EnglishFrequencyOrder, k.String())
}

func TestFrequencySeed_Empty(t *testing.T) {
	assert.Equal(t, Identity(), FrequencySeed(""))
	assert.Equal(t, Identity(), FrequencySeed("1234 ,.;"))
}
