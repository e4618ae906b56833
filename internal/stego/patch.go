package stego

import "math"

// BuildPatchMatrix partitions a cropped luma buffer into non-overlapping
// PatchSize blocks and returns the rounded mean of each block, row-major.
// Returns nil when the buffer is too small to hold a single patch.
func BuildPatchMatrix(l Luma) [][]int {
	if l.Width < PatchSize || l.Height < PatchSize {
		return nil
	}

	rows := l.Height / PatchSize
	cols := l.Width / PatchSize
	matrix := make([][]int, rows)

	for pr := 0; pr < rows; pr++ {
		matrix[pr] = make([]int, cols)
		for pc := 0; pc < cols; pc++ {
			sum := 0
			for y := pr * PatchSize; y < (pr+1)*PatchSize; y++ {
				base := y*l.Width + pc*PatchSize
				for x := 0; x < PatchSize; x++ {
					sum += int(l.Pix[base+x])
				}
			}
			matrix[pr][pc] = int(math.Round(float64(sum) / (PatchSize * PatchSize)))
		}
	}

	return matrix
}
