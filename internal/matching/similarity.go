package matching

// Similarity returns the character-overlap ratio of a and b in [0,1]:
// twice the number of shared characters over the combined length, where
// shared characters are found by taking the longest common run and recursing
// on both sides of it. The larger of the two argument orders is returned so
// the measure is symmetric.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	common := commonChars(ra, rb)
	if rev := commonChars(rb, ra); rev > common {
		common = rev
	}
	return float64(2*common) / float64(total)
}

func commonChars(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	size, pa, pb := longestCommonRun(a, b)
	if size == 0 {
		return 0
	}
	return size + commonChars(a[:pa], b[:pb]) + commonChars(a[pa+size:], b[pb+size:])
}

// longestCommonRun returns the length and start offsets of the first longest
// common substring of a and b.
func longestCommonRun(a, b []rune) (size, pa, pb int) {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
				if curr[j] > size {
					size = curr[j]
					pa = i - size
					pb = j - size
				}
			} else {
				curr[j] = 0
			}
		}
		prev, curr = curr, prev
	}
	return size, pa, pb
}
