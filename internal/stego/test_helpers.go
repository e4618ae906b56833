package stego

// Helpers shared by stego, verifier and playback tests. They implement the
// inverse of the decode pipeline so end-to-end tests can exercise real
// encoder output without the external embedding service.

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"fmt"
)

// TestFrameSpec describes a synthetic watermarked frame.
type TestFrameSpec struct {
	UserID    int
	PatchRows int
	PatchCols int
}

// TestFrame is an encoder-produced frame plus the exact signature and
// message a correct decode must recover from it.
type TestFrame struct {
	Frame     *Frame
	Signature []byte
	Message   []byte
}

// BuildTestFrame embeds spec.UserID and a PKCS1v15/SHA-256 signature by priv
// into a fresh RGBA frame of spec.PatchRows x spec.PatchCols patches.
// Payload patch column 0 carries each row's value so the per-row sum equals
// the value directly; the signature occupies one luma pixel per 5-row group
// in the left region, column-major.
func BuildTestFrame(spec TestFrameSpec, priv *rsa.PrivateKey) (*TestFrame, error) {
	rows, cols := spec.PatchRows, spec.PatchCols

	layout := ResolveLayout(rows, cols)
	if layout.RightEndIndex <= 0 {
		return nil, fmt.Errorf("layout %dx%d leaves no payload region", rows, cols)
	}
	if rows < IDDigits*DigitRepetitions {
		return nil, fmt.Errorf("need at least %d patch rows, got %d", IDDigits*DigitRepetitions, rows)
	}

	rowValues := EncodeUserIDRows(spec.UserID, rows)
	message := MessageBytes(rowValues)

	digest := sha256.Sum256(message)
	sig, err := rsa.SignPKCS1v15(rand.Reader, priv, crypto.SHA256, digest[:])
	if err != nil {
		return nil, fmt.Errorf("signing test message: %w", err)
	}
	if len(sig) != SignatureLength {
		return nil, fmt.Errorf("test key produced a %d-byte signature, want %d", len(sig), SignatureLength)
	}

	width := cols * PatchSize
	height := rows * PatchSize
	luma := make([]byte, width*height)

	for r, v := range rowValues {
		for y := r * PatchSize; y < (r+1)*PatchSize; y++ {
			for x := 0; x < PatchSize; x++ {
				luma[y*width+x] = byte(v)
			}
		}
	}

	embedSignature(luma, width, height, layout.RightEndIndex, sig)

	return &TestFrame{
		Frame:     FrameFromLuma(luma, width, height),
		Signature: sig,
		Message:   message,
	}, nil
}

// EncodeUserIDRows repeats each of the 9 zero-padded decimal digits of
// userID DigitRepetitions times; rows past the ID carry zero.
func EncodeUserIDRows(userID, rows int) []int {
	values := make([]int, rows)
	digits := fmt.Sprintf("%0*d", IDDigits, userID)
	for i, d := range digits {
		for k := 0; k < DigitRepetitions; k++ {
			values[i*DigitRepetitions+k] = int(d - '0')
		}
	}
	return values
}

// embedSignature writes one signature byte per 5-row group of the left
// region, column-major, using a single luma pixel per group so the decoder's
// clamped group sum recovers the byte exactly.
func embedSignature(luma []byte, width, height, rightEndIndex int, sig []byte) {
	leftStart := rightEndIndex * PatchSize
	idx := 0
	for col := leftStart; col < width && idx < len(sig); col++ {
		for row := 0; row+RowsPerSignatureByte <= height && idx < len(sig); row += RowsPerSignatureByte {
			luma[row*width+col] = sig[idx]
			idx++
		}
	}
}

// FrameFromLuma expands a luminance buffer into a gray RGBA frame. Equal
// R/G/B channels survive the BT.601 weighting unchanged, so the decoded luma
// matches the input byte for byte.
func FrameFromLuma(luma []byte, width, height int) *Frame {
	pix := make([]byte, width*height*4)
	for i, v := range luma {
		pix[i*4] = v
		pix[i*4+1] = v
		pix[i*4+2] = v
		pix[i*4+3] = 255
	}
	return &Frame{Width: width, Height: height, Pix: pix}
}

// FlipSignatureBit corrupts the low bit of the first embedded signature byte
// in place, across all three color channels so the luma value shifts with
// it.
func FlipSignatureBit(f *Frame, patchRows, patchCols int) {
	layout := ResolveLayout(patchRows, patchCols)
	col := layout.RightEndIndex * PatchSize
	offset := col * 4 // row 0 of the first left-region column
	f.Pix[offset] ^= 0x01
	f.Pix[offset+1] ^= 0x01
	f.Pix[offset+2] ^= 0x01
}
