package key

import (
	"math/rand/v2"
	"sort"
)

// Random returns a uniformly random permutation of the alphabet.
func Random(rng *rand.Rand) Key {
	k := Identity()
	rng.Shuffle(Size, func(i, j int) { k[i], k[j] = k[j], k[i] })
	return k
}

type letterCount struct {
	letter byte
	count  int
	first  int
}

// FrequencySeed builds a starting key by lining the ciphertext letters up,
// most frequent first, against EnglishFrequencyOrder. Ties keep the order of
// first appearance. Letters that never occur take the unused plaintext
// letters in alphabetical order.
func FrequencySeed(ciphertext string) Key {
	var counts [Size]letterCount
	for i := range counts {
		counts[i] = letterCount{letter: Alphabet[i], first: -1}
	}
	for i := 0; i < len(ciphertext); i++ {
		c := ciphertext[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		if c < 'A' || c > 'Z' {
			continue
		}
		lc := &counts[c-'A']
		if lc.first < 0 {
			lc.first = i
		}
		lc.count++
	}

	seen := make([]letterCount, 0, Size)
	for _, lc := range counts {
		if lc.count > 0 {
			seen = append(seen, lc)
		}
	}
	sort.Slice(seen, func(i, j int) bool {
		if seen[i].count != seen[j].count {
			return seen[i].count > seen[j].count
		}
		return seen[i].first < seen[j].first
	})

	var k Key
	var used [Size]bool
	for rank, lc := range seen {
		p := EnglishFrequencyOrder[rank]
		k[lc.letter-'A'] = p
		used[p-'A'] = true
	}

	next := 0
	for i := range k {
		if k[i] != 0 {
			continue
		}
		for used[next] {
			next++
		}
		k[i] = Alphabet[next]
		used[next] = true
	}
	return k
}

// Swap returns a copy of k with two distinct positions exchanged.
func Swap(k Key, rng *rand.Rand) Key {
	a := rng.IntN(Size)
	b := rng.IntN(Size - 1)
	if b >= a {
		b++
	}
	k[a], k[b] = k[b], k[a]
	return k
}

// Mutate is the genetic mutation operator. It is a single Swap.
func Mutate(k Key, rng *rand.Rand) Key {
	return Swap(k, rng)
}

// OrderCrossover breeds two children from two permutation parents. Each
// child keeps its own parent's slice between two random cut points and fills
// the remaining positions, starting after the second cut and wrapping, with
// the other parent's letters in their original order.
func OrderCrossover(p1, p2 Key, rng *rand.Rand) (Key, Key) {
	c1 := rng.IntN(Size)
	c2 := rng.IntN(Size - 1)
	if c2 >= c1 {
		c2++
	}
	if c1 > c2 {
		c1, c2 = c2, c1
	}
	return orderChild(p1, p2, c1, c2), orderChild(p2, p1, c1, c2)
}

func orderChild(keep, fill Key, c1, c2 int) Key {
	var child Key
	var placed [Size]bool
	for i := c1; i <= c2; i++ {
		child[i] = keep[i]
		placed[keep[i]-'A'] = true
	}

	j := 0
	put := func(pos int) {
		for placed[fill[j]-'A'] {
			j++
		}
		child[pos] = fill[j]
		placed[fill[j]-'A'] = true
	}
	for i := c2 + 1; i < Size; i++ {
		put(i)
	}
	for i := 0; i < c1; i++ {
		put(i)
	}
	return child
}
