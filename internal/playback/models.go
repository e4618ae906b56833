package playback

import (
	"context"

	"github.com/vidmark/vidmark/internal/stego"
)

// Status is the verification state surfaced to the player UI.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusVerifying Status = "verifying"
	StatusVerified  Status = "verified"
	StatusFailed    Status = "failed"
)

// VerifyEveryNFrames is the periodic re-verification cadence: roughly every
// 10th presented frame, so per-frame analysis never stalls playback.
const VerifyEveryNFrames = 10

// FrameSource rasterizes the current video frame to an RGBA buffer. Capture
// is fallible (a cross-origin-style pixel block, a torn-down element); the
// session substitutes a degenerate dummy frame on error so the analysis loop
// keeps running.
type FrameSource interface {
	CaptureFrame(ctx context.Context, index int) (*stego.Frame, error)
}

// KeyFetcher resolves a creator's numeric ID to a PEM-encoded RSA public
// key. It is called once per session, during the frame-0 bootstrap.
type KeyFetcher interface {
	FetchPublicKey(ctx context.Context, userID int) (string, error)
}

// CompletionFunc receives the bootstrap outcome. It fires exactly once per
// session; userID is 0 unless status is StatusVerified.
type CompletionFunc func(status Status, userID int)
