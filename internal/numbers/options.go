package numbers

import "math/rand/v2"

// OptionSet is the three choices shown for one round.
// Labels[Correct] is always Name of the round's target.
type OptionSet struct {
	Numbers [3]int    `json:"numbers"`
	Labels  [3]string `json:"labels"`
	Correct int       `json:"correct"`
}

// Draw returns a uniformly distributed number in [Min, Max].
func Draw(r *rand.Rand) int {
	return Min + r.IntN(Max-Min+1)
}

// NewOptionSet builds the option set for target: the target plus two
// distinct distractors, in uniformly random order.
func NewOptionSet(r *rand.Rand, target int) OptionSet {
	picked := [3]int{target, -1, -1}
	for i := 1; i < len(picked); {
		n := Draw(r)
		if n == picked[0] || n == picked[1] {
			continue
		}
		picked[i] = n
		i++
	}

	r.Shuffle(len(picked), func(i, j int) { picked[i], picked[j] = picked[j], picked[i] })

	var set OptionSet
	for i, n := range picked {
		set.Numbers[i] = n
		set.Labels[i] = Name(n)
		if n == target {
			set.Correct = i
		}
	}
	return set
}
