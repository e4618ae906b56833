package stego

import (
	"bytes"
	"testing"
)

func repeatDigits(digits []int, times int) []int {
	out := make([]int, 0, len(digits)*times)
	for _, d := range digits {
		for i := 0; i < times; i++ {
			out = append(out, d)
		}
	}
	return out
}

func TestDecodeUserID_RoundTrip(t *testing.T) {
	seq := repeatDigits([]int{1, 2, 3, 4, 5, 6, 7, 8, 9}, DigitRepetitions)

	id, ok := DecodeUserID(seq)
	if !ok {
		t.Fatal("decode failed on a clean signal")
	}
	if id != 123456789 {
		t.Errorf("got %d, want 123456789", id)
	}
}

func TestDecodeUserID_LeadingZeros(t *testing.T) {
	seq := repeatDigits([]int{0, 0, 7, 0, 0, 0, 0, 4, 2}, DigitRepetitions)

	id, ok := DecodeUserID(seq)
	if !ok {
		t.Fatal("decode failed")
	}
	if id != 7000042 {
		t.Errorf("got %d, want 7000042", id)
	}
}

func TestDecodeUserID_MajorityVoteRobustness(t *testing.T) {
	seq := repeatDigits([]int{1, 2, 3, 4, 5, 6, 7, 8, 9}, DigitRepetitions)
	// Corrupt 3 of the 7 samples for digit 4 (group index 3); the remaining
	// 4 consistent samples must still win the vote.
	seq[3*DigitRepetitions+0] = 200
	seq[3*DigitRepetitions+2] = 9
	seq[3*DigitRepetitions+5] = 0

	id, ok := DecodeUserID(seq)
	if !ok {
		t.Fatal("decode failed with a 4-of-7 majority intact")
	}
	if id != 123456789 {
		t.Errorf("got %d, want 123456789", id)
	}
}

func TestDecodeUserID_InvalidModeRejectsWholeDecode(t *testing.T) {
	seq := repeatDigits([]int{1, 2, 3, 4, 5, 6, 7, 8, 9}, DigitRepetitions)
	// Push every sample of one group out of the digit range.
	for i := 0; i < DigitRepetitions; i++ {
		seq[5*DigitRepetitions+i] = 255
	}

	if _, ok := DecodeUserID(seq); ok {
		t.Error("decode succeeded despite an out-of-range group mode")
	}
}

func TestDecodeUserID_TooShort(t *testing.T) {
	if _, ok := DecodeUserID(make([]int, IDDigits*DigitRepetitions-1)); ok {
		t.Error("decode succeeded on a 62-value sequence")
	}
}

func TestModeOf_FirstSeenTieBreak(t *testing.T) {
	// 3 and 5 both occur three times; 3 reaches the count first.
	if got := modeOf([]int{3, 5, 3, 5, 3, 5, 1}); got != 3 {
		t.Errorf("modeOf tie = %d, want 3", got)
	}
}

func TestRightSideSequence(t *testing.T) {
	matrix := [][]int{
		{1, 2, 3, 100},
		{4, 5, 6, 100},
	}

	seq := RightSideSequence(matrix, 3)
	want := []int{6, 15}
	if len(seq) != len(want) || seq[0] != want[0] || seq[1] != want[1] {
		t.Errorf("got %v, want %v", seq, want)
	}
}

func TestMessageBytes_CapsAtMaxLength(t *testing.T) {
	seq := make([]int, 150)
	for i := range seq {
		seq[i] = 'A'
	}

	msg := MessageBytes(seq)
	if len(msg) != MaxMessageLength {
		t.Fatalf("got %d message bytes, want %d", len(msg), MaxMessageLength)
	}
	if !bytes.Equal(msg, bytes.Repeat([]byte{'A'}, MaxMessageLength)) {
		t.Error("message content mismatch")
	}
}

func TestMessageBytes_ShorterSequence(t *testing.T) {
	msg := MessageBytes([]int{72, 105})
	if string(msg) != "Hi" {
		t.Errorf("got %q, want %q", msg, "Hi")
	}
}

func TestMessageBytes_MultiByteCodePoints(t *testing.T) {
	// Right-side sums routinely exceed 0xFF; each value is a code point, so
	// 0x2603 must encode as 3 UTF-8 bytes.
	msg := MessageBytes([]int{0x2603})
	if string(msg) != "☃" {
		t.Errorf("got %q, want snowman", msg)
	}
}

func TestMessageBytes_Empty(t *testing.T) {
	if msg := MessageBytes(nil); len(msg) != 0 {
		t.Errorf("got %d bytes for an empty sequence", len(msg))
	}
}
