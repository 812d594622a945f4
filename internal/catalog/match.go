package catalog

import "strings"

// similarityThreshold is the minimum Ratcliff/Obershelp ratio for a
// candidate to count as a match when no substring match exists.
const similarityThreshold = 0.6

// BestMatch returns the candidate best matched by query. Matching is
// case-insensitive: substring containment wins first, then the highest
// similarity ratio above the threshold. The second return value reports
// whether any candidate matched.
func BestMatch(query string, candidates []string) (string, bool) {
	queryLower := strings.ToLower(query)

	for _, candidate := range candidates {
		if strings.Contains(strings.ToLower(candidate), queryLower) {
			return candidate, true
		}
	}

	best := ""
	bestScore := 0.0

	for _, candidate := range candidates {
		score := Ratio(queryLower, strings.ToLower(candidate))
		if score > similarityThreshold && score > bestScore {
			bestScore = score
			best = candidate
		}
	}

	if best == "" {
		return "", false
	}

	return best, true
}

// Ratio computes the Ratcliff/Obershelp similarity of two strings:
// twice the number of matching characters divided by the total number of
// characters. 1 means identical, 0 means nothing in common.
func Ratio(a, b string) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 1
	}

	return 2 * float64(matchTotal(a, b)) / float64(total)
}

// matchTotal returns the total length of matching blocks: the longest
// common substring plus, recursively, the matches to its left and right.
func matchTotal(a, b string) int {
	ai, bi, size := longestCommonSubstring(a, b)
	if size == 0 {
		return 0
	}

	return size +
		matchTotal(a[:ai], b[:bi]) +
		matchTotal(a[ai+size:], b[bi+size:])
}

// longestCommonSubstring returns the start positions and length of the
// longest substring common to a and b.
func longestCommonSubstring(a, b string) (ai, bi, size int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}

	// lengths[j] is the length of the common suffix ending at a[i-1], b[j-1]
	// for the current row i.
	lengths := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		// Walk the row backwards so lengths[j-1] is still the previous row.
		for j := len(b); j >= 1; j-- {
			if a[i-1] != b[j-1] {
				lengths[j] = 0

				continue
			}

			lengths[j] = lengths[j-1] + 1
			if lengths[j] > size {
				size = lengths[j]
				ai = i - size
				bi = j - size
			}
		}
	}

	return ai, bi, size
}
