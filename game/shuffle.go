package game

// Shuffle permutes items in place with Fisher-Yates: every position i, from
// the first to the second last, is swapped with a uniform pick from [i, n).
func Shuffle[T any](items []T, r Rand) {
	last := len(items) - 1
	for i := 0; i < last; i++ {
		j := i + r.IntN(len(items)-i)
		items[i], items[j] = items[j], items[i]
	}
}
