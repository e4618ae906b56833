package stego

// Layout splits the patch grid into the payload region (columns
// [0, RightEndIndex)) and the signature region (columns [RightEndIndex,
// PatchCols)). It depends only on the grid shape, so it is stable for a
// fixed video resolution and recomputed per decoded frame.
type Layout struct {
	PatchRows     int
	PatchCols     int
	RightEndIndex int
}

// ResolveLayout computes the payload/signature column boundary. Each
// signature column yields one byte per RowsPerSignatureByte luma rows; the
// rightmost ceil(256/groups) patch columns are reserved for the signature.
// RightEndIndex stays 0 when the signature region does not fit, which marks
// the frame undecodable.
func ResolveLayout(patchRows, patchCols int) Layout {
	layout := Layout{PatchRows: patchRows, PatchCols: patchCols}

	groupsPerColumn := patchRows / RowsPerSignatureByte
	if groupsPerColumn <= 0 {
		return layout
	}

	numLeftColumns := (SignatureLength + groupsPerColumn - 1) / groupsPerColumn
	if right := patchCols - numLeftColumns; right > 0 {
		layout.RightEndIndex = right
	}
	return layout
}
