// Package shuffle implements the deterministic seeded shuffle used to
// randomize question and option order per test attempt.
package shuffle

// Shuffle returns a permuted copy of items. The permutation is fully
// determined by seed: a Fisher–Yates pass driven by a 32-bit xorshift
// generator whose state is the seed itself. The same seed and input always
// produce the same output. This is a fast reproducible generator, not a
// CSPRNG — predictability for anyone who knows the seed is accepted.
func Shuffle[T any](items []T, seed int32) []T {
	out := make([]T, len(items))
	copy(out, items)

	state := uint32(seed)
	random := func() float64 {
		state ^= state << 13
		state ^= state >> 17
		state ^= state << 5
		return float64(state) / (1 << 32)
	}

	for i := len(out) - 1; i > 0; i-- {
		j := int(random() * float64(i+1))
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Indexes returns a permutation of [0..n-1] for the given seed. Used to
// build the displayed→original option mapping for a question.
func Indexes(n int, seed int32) []int {
	idxs := make([]int, n)
	for i := range idxs {
		idxs[i] = i
	}
	return Shuffle(idxs, seed)
}

// QuestionSeed derives the per-question option seed from the session's root
// seed. It only needs to differ across questions within one session, not to
// be well mixed.
func QuestionSeed(rootSeed int32, questionID string) int32 {
	return rootSeed ^ int32(len(questionID))
}
