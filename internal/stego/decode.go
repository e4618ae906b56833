package stego

// DecodeResult carries everything extracted from a single frame. One result
// exists per analyzed frame; nothing is cached across frames because the
// pixel content differs even at a fixed resolution.
type DecodeResult struct {
	UserID    int
	HasUserID bool
	RightSide []int
	Signature []byte
	Layout    Layout
}

// DecodeFrame runs the full crop/patch/layout/payload/signature chain on a
// raw RGBA frame. ok is false when the frame carries no decodable watermark
// geometry (too small, or the signature region does not fit); that is an
// expected outcome, not an error. A failed user-ID vote leaves HasUserID
// false while the signature and right-side sequence are still populated for
// callers that only re-verify.
func DecodeFrame(f *Frame) (*DecodeResult, bool) {
	luma := FromRGBA(f).Crop()

	matrix := BuildPatchMatrix(luma)
	if len(matrix) == 0 {
		return nil, false
	}

	layout := ResolveLayout(len(matrix), len(matrix[0]))
	if layout.RightEndIndex <= 0 {
		return nil, false
	}

	seq := RightSideSequence(matrix, layout.RightEndIndex)
	res := &DecodeResult{
		RightSide: seq,
		Signature: ExtractSignature(luma, layout.RightEndIndex),
		Layout:    layout,
	}
	res.UserID, res.HasUserID = DecodeUserID(seq)
	return res, true
}
