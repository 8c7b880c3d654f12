package numbers

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameFixtures(t *testing.T) {
	cases := map[int]string{
		0:   "cero",
		11:  "once",
		15:  "quince",
		16:  "dieciseis",
		19:  "diecinueve",
		20:  "veinte",
		21:  "veintiuno",
		23:  "veintitres",
		30:  "treinta",
		31:  "treinta y uno",
		45:  "cuarenta y cinco",
		70:  "setenta",
		99:  "noventa y nueve",
		100: "cien",
	}
	for n, want := range cases {
		assert.Equal(t, want, Name(n), "Name(%d)", n)
	}
}

func TestNameIsTotalDeterministicAndInjective(t *testing.T) {
	seen := make(map[string]int, Max-Min+1)
	for n := Min; n <= Max; n++ {
		s := Name(n)
		require.NotEmpty(t, s, "Name(%d)", n)
		require.Equal(t, s, Name(n), "Name(%d) changed between calls", n)
		if prev, ok := seen[s]; ok {
			t.Fatalf("Name(%d) and Name(%d) are both %q", prev, n, s)
		}
		seen[s] = n
	}
	assert.Len(t, seen, Max-Min+1)
}

func TestNameNeverAppendsCero(t *testing.T) {
	for n := Min; n <= Max; n++ {
		assert.NotContains(t, Name(n), " y cero")
	}
}

func TestInRange(t *testing.T) {
	assert.True(t, InRange(0))
	assert.True(t, InRange(100))
	assert.False(t, InRange(-1))
	assert.False(t, InRange(101))
}

func TestDrawStaysInDomain(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	hitMin, hitMax := false, false
	for i := 0; i < 20000; i++ {
		n := Draw(r)
		require.True(t, InRange(n), "draw %d out of range", n)
		hitMin = hitMin || n == Min
		hitMax = hitMax || n == Max
	}
	assert.True(t, hitMin, "never drew %d", Min)
	assert.True(t, hitMax, "never drew %d", Max)
}

func TestNewOptionSet(t *testing.T) {
	r := rand.New(rand.NewPCG(42, 7))
	for target := Min; target <= Max; target++ {
		for rep := 0; rep < 20; rep++ {
			set := NewOptionSet(r, target)

			assert.Equal(t, target, set.Numbers[set.Correct])
			assert.Equal(t, Name(target), set.Labels[set.Correct])

			matches := 0
			for i, label := range set.Labels {
				assert.Equal(t, Name(set.Numbers[i]), label)
				if label == Name(target) {
					matches++
				}
			}
			require.Equal(t, 1, matches, "target %d: %v", target, set.Labels)

			var distractors []int
			for i, n := range set.Numbers {
				if i != set.Correct {
					distractors = append(distractors, n)
				}
			}
			require.Len(t, distractors, 2)
			assert.NotEqual(t, target, distractors[0])
			assert.NotEqual(t, target, distractors[1])
			assert.NotEqual(t, distractors[0], distractors[1])
		}
	}
}

func TestNewOptionSetCorrectPositionIsSpread(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 9))
	var counts [3]int
	const trials = 9000
	for i := 0; i < trials; i++ {
		counts[NewOptionSet(r, 50).Correct]++
	}
	for pos, c := range counts {
		assert.InDelta(t, trials/3, c, trials/10, "position %d", pos)
	}
}
