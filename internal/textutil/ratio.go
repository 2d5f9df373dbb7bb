package textutil

// MatchRatio reports how similar two strings are as a value in [0, 1]. It
// implements the Ratcliff/Obershelp measure: twice the total length of the
// recursively matched common substrings divided by the combined length.
// Callers are expected to normalize inputs first (see NormalizeForMatch).
func MatchRatio(a, b string) float64 {
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	ra := []rune(a)
	rb := []rune(b)
	matched := matchingRunes(ra, rb)
	return 2 * float64(matched) / float64(len(ra)+len(rb))
}

func matchingRunes(a, b []rune) int {
	ai, bi, size := longestCommonBlock(a, b)
	if size == 0 {
		return 0
	}
	total := size
	total += matchingRunes(a[:ai], b[:bi])
	total += matchingRunes(a[ai+size:], b[bi+size:])
	return total
}

// longestCommonBlock finds the longest common substring, preferring the
// earliest occurrence in a, then in b. Uses two rolling rows of suffix match
// lengths.
func longestCommonBlock(a, b []rune) (bestA, bestB, bestLen int) {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] != b[j-1] {
				curr[j] = 0
				continue
			}
			curr[j] = prev[j-1] + 1
			if curr[j] > bestLen {
				bestLen = curr[j]
				bestA = i - bestLen
				bestB = j - bestLen
			}
		}
		prev, curr = curr, prev
	}
	return bestA, bestB, bestLen
}
