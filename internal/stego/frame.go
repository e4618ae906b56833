package stego

import "math"

// Frame is a raw RGBA pixel grid captured from a video at a point in time.
// Frames are ephemeral: one is produced per analysis and discarded after
// signature extraction.
type Frame struct {
	Width  int
	Height int
	Pix    []byte // 4 bytes per pixel, row-major
}

// Luma is a single-channel 8-bit luminance buffer.
type Luma struct {
	Width  int
	Height int
	Pix    []byte
}

// FromRGBA converts an RGBA frame to luminance using the BT.601 weights
// 0.299R + 0.587G + 0.114B, rounded half-up. The caller guarantees
// len(f.Pix) == Width*Height*4.
func FromRGBA(f *Frame) Luma {
	out := make([]byte, f.Width*f.Height)
	for i := range out {
		r := float64(f.Pix[i*4])
		g := float64(f.Pix[i*4+1])
		b := float64(f.Pix[i*4+2])
		out[i] = byte(math.Round(0.299*r + 0.587*g + 0.114*b))
	}
	return Luma{Width: f.Width, Height: f.Height, Pix: out}
}

// Crop floors both dimensions to a multiple of PatchSize and slices out the
// top-left region. A source dimension below PatchSize yields an empty luma,
// which signals an undecodable frame rather than an error. Inputs already
// aligned are returned unchanged.
func (l Luma) Crop() Luma {
	cw := l.Width - l.Width%PatchSize
	ch := l.Height - l.Height%PatchSize
	if cw <= 0 || ch <= 0 {
		return Luma{Pix: []byte{}}
	}
	if cw == l.Width && ch == l.Height {
		return l
	}
	out := make([]byte, cw*ch)
	for y := 0; y < ch; y++ {
		copy(out[y*cw:(y+1)*cw], l.Pix[y*l.Width:y*l.Width+cw])
	}
	return Luma{Width: cw, Height: ch, Pix: out}
}
