package stego

// ExtractSignature reconstructs the 256-byte signature from the raw
// (unpatched) luma pixels of the signature region. Columns are walked in
// natural order starting at RightEndIndex*PatchSize; within each column,
// non-overlapping groups of RowsPerSignatureByte rows are summed and clamped
// to [0,255]. A partial tail group is skipped. The result is always exactly
// SignatureLength bytes: collection stops at 256 values and any shortfall is
// zero-padded.
func ExtractSignature(l Luma, rightEndIndex int) []byte {
	sig := make([]byte, SignatureLength)

	leftStart := rightEndIndex * PatchSize
	if leftStart >= l.Width {
		return sig
	}

	idx := 0
	for col := leftStart; col < l.Width && idx < SignatureLength; col++ {
		for row := 0; row+RowsPerSignatureByte <= l.Height && idx < SignatureLength; row += RowsPerSignatureByte {
			sum := 0
			for k := 0; k < RowsPerSignatureByte; k++ {
				sum += int(l.Pix[(row+k)*l.Width+col])
			}
			if sum > 255 {
				sum = 255
			}
			sig[idx] = byte(sum)
			idx++
		}
	}

	return sig
}
