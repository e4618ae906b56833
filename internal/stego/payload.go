package stego

import (
	"strconv"
	"strings"
)

// RightSideSequence sums each patch row across the payload columns
// [0, rightEnd). The embedder uses a plain sum with factor 1, not an
// average.
func RightSideSequence(matrix [][]int, rightEnd int) []int {
	seq := make([]int, 0, len(matrix))
	for _, row := range matrix {
		end := rightEnd
		if end > len(row) {
			end = len(row)
		}
		sum := 0
		for c := 0; c < end; c++ {
			sum += row[c]
		}
		seq = append(seq, sum)
	}
	return seq
}

// DecodeUserID recovers the 9-digit creator ID from the first 63 right-side
// values: 9 groups of 7 repetitions, one digit per group by majority vote.
// Any group whose mode falls outside [0,9] invalidates the whole decode,
// which is the expected outcome for unwatermarked or corrupted frames.
func DecodeUserID(seq []int) (int, bool) {
	if len(seq) < IDDigits*DigitRepetitions {
		return 0, false
	}

	var digits [IDDigits]byte
	for g := 0; g < IDDigits; g++ {
		m := modeOf(seq[g*DigitRepetitions : (g+1)*DigitRepetitions])
		if m < 0 || m > 9 {
			return 0, false
		}
		digits[g] = byte('0' + m)
	}

	id, err := strconv.Atoi(string(digits[:]))
	if err != nil {
		return 0, false
	}
	return id, true
}

// modeOf returns the most frequent value in the group. Ties break to the
// first value reaching the maximum count, scanning in order; with a faithful
// embedded signal one value always dominates, so the tie-break is only
// observable on corrupted input.
func modeOf(group []int) int {
	counts := make(map[int]int, len(group))
	best, bestCount := 0, 0
	for _, v := range group {
		counts[v]++
		if counts[v] > bestCount {
			best, bestCount = v, counts[v]
		}
	}
	return best
}

// MessageBytes builds the signed message from the first MaxMessageLength
// right-side values (or fewer if the sequence is shorter): each value is
// interpreted as a Unicode code point and the result is UTF-8 encoded. The
// message is a deterministic function of pixel sums, not application text.
func MessageBytes(seq []int) []byte {
	n := len(seq)
	if n > MaxMessageLength {
		n = MaxMessageLength
	}

	var sb strings.Builder
	for _, v := range seq[:n] {
		sb.WriteRune(rune(v))
	}
	return []byte(sb.String())
}
