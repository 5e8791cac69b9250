package shuffle

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShuffleIsPermutation(t *testing.T) {
	s := NewSeeded(1)
	in := []int{5, 3, 9, 1, 7, 7, 2}

	out := Shuffle(s, in)

	require.Len(t, out, len(in))
	sortedIn := slices.Clone(in)
	sortedOut := slices.Clone(out)
	slices.Sort(sortedIn)
	slices.Sort(sortedOut)
	assert.Equal(t, sortedIn, sortedOut)
}

func TestShuffleDoesNotMutateInput(t *testing.T) {
	s := NewSeeded(2)
	in := []string{"a", "b", "c", "d", "e"}
	orig := slices.Clone(in)

	for i := 0; i < 20; i++ {
		Shuffle(s, in)
	}

	assert.Equal(t, orig, in)
}

func TestShuffleEmptyAndSingle(t *testing.T) {
	s := NewSeeded(3)

	assert.Empty(t, Shuffle(s, []int{}))
	assert.Empty(t, Shuffle[int](s, nil))
	assert.Equal(t, []int{42}, Shuffle(s, []int{42}))
}

func TestSameSeedSameOrder(t *testing.T) {
	in := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	a := Shuffle(NewSeeded(99), in)
	b := Shuffle(NewSeeded(99), in)

	assert.Equal(t, a, b)
}

func TestPerm(t *testing.T) {
	s := NewSeeded(4)
	p := s.Perm(6)

	sorted := slices.Clone(p)
	slices.Sort(sorted)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, sorted)
}

func TestShuffleRoughlyUniform(t *testing.T) {
	s := NewSeeded(5)
	const trials = 60000
	counts := map[[3]int]int{}

	for i := 0; i < trials; i++ {
		out := Shuffle(s, []int{0, 1, 2})
		counts[[3]int{out[0], out[1], out[2]}]++
	}

	require.Len(t, counts, 6, "every ordering should appear")
	want := trials / 6
	for perm, n := range counts {
		if n < want*9/10 || n > want*11/10 {
			t.Errorf("ordering %v seen %d times, want about %d", perm, n, want)
		}
	}
}
