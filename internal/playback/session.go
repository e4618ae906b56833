package playback

import (
	"context"
	"crypto/rsa"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/vidmark/vidmark/internal/stego"
	"github.com/vidmark/vidmark/internal/verifier"
)

// Session owns the verification state for a single video. Each session has
// its own key, status and verified-frame set; nothing is shared across
// concurrent sessions. verified and failed are terminal: a new video needs a
// new session.
type Session struct {
	ID string

	source     FrameSource
	fetcher    KeyFetcher
	onComplete CompletionFunc

	mu             sync.Mutex
	status         Status
	userID         int
	key            *rsa.PublicKey
	verifiedFrames map[int]bool
	captureWarned  bool
	closed         bool

	completeOnce sync.Once
	ctx          context.Context
	cancel       context.CancelFunc
}

// NewSession prepares an idle session. Nothing runs until Start.
func NewSession(source FrameSource, fetcher KeyFetcher, onComplete CompletionFunc) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		ID:             uuid.New().String(),
		source:         source,
		fetcher:        fetcher,
		onComplete:     onComplete,
		status:         StatusIdle,
		verifiedFrames: make(map[int]bool),
		ctx:            ctx,
		cancel:         cancel,
	}
}

// Start runs the frame-0 bootstrap: capture, decode the creator ID, fetch
// and import the public key, verify frame 0. It completes (verified or
// failed) before any periodic re-verification is honored, and the key is
// immutable once set. The completion callback fires exactly once.
func (s *Session) Start() Status {
	s.mu.Lock()
	if s.status != StatusIdle || s.closed {
		st := s.status
		s.mu.Unlock()
		return st
	}
	s.status = StatusVerifying
	s.mu.Unlock()

	userID, ok := s.bootstrap()
	if !ok {
		return s.complete(StatusFailed, 0)
	}
	return s.complete(StatusVerified, userID)
}

func (s *Session) bootstrap() (int, bool) {
	frame := s.captureOrDummy(0)

	res, ok := stego.DecodeFrame(frame)
	if !ok || !res.HasUserID {
		log.Printf("[PLAYBACK] session %s: frame 0 carries no decodable watermark", s.ID)
		return 0, false
	}

	pemData, err := s.fetcher.FetchPublicKey(s.ctx, res.UserID)
	if err != nil {
		log.Printf("[PLAYBACK] session %s: key fetch for user %d failed: %v", s.ID, res.UserID, err)
		return 0, false
	}

	key, err := verifier.ImportPublicKeyFromPEM(pemData)
	if err != nil {
		log.Printf("[PLAYBACK] session %s: key import for user %d failed: %v", s.ID, res.UserID, err)
		return 0, false
	}

	verified, err := verifier.VerifyFrame(key, res.RightSide, res.Signature)
	if err != nil {
		log.Printf("[PLAYBACK] session %s: verification fault on frame 0: %v", s.ID, err)
		return 0, false
	}
	if !verified {
		log.Printf("[PLAYBACK] session %s: frame 0 signature mismatch for user %d", s.ID, res.UserID)
		return 0, false
	}

	s.mu.Lock()
	s.key = key
	s.verifiedFrames[0] = true
	s.mu.Unlock()
	return res.UserID, true
}

// HandleFramePresented re-checks the current frame while the session is
// verified. Only every VerifyEveryNFrames-th index is analyzed, indices
// already confirmed are skipped, and the session key is reused without
// re-fetching or re-decoding the creator ID. Any failure is terminal.
func (s *Session) HandleFramePresented(index int) Status {
	s.mu.Lock()
	if s.status != StatusVerified || s.key == nil || s.closed {
		st := s.status
		s.mu.Unlock()
		return st
	}
	if index%VerifyEveryNFrames != 0 || s.verifiedFrames[index] {
		s.mu.Unlock()
		return StatusVerified
	}
	key := s.key
	s.mu.Unlock()

	frame := s.captureOrDummy(index)

	res, ok := stego.DecodeFrame(frame)
	if !ok {
		return s.fail(index, "undecodable frame")
	}
	verified, err := verifier.VerifyFrame(key, res.RightSide, res.Signature)
	if err != nil {
		return s.fail(index, err.Error())
	}
	if !verified {
		return s.fail(index, "signature mismatch")
	}

	s.mu.Lock()
	s.verifiedFrames[index] = true
	s.mu.Unlock()
	return StatusVerified
}

// Status returns the current session state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// UserID returns the verified creator ID; ok is false unless the session is
// currently verified.
func (s *Session) UserID() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusVerified {
		return 0, false
	}
	return s.userID, true
}

// Close aborts any in-flight key fetch and disables all further frame
// analysis. Called when the player switches videos or tears down.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()
}

func (s *Session) complete(status Status, userID int) Status {
	s.mu.Lock()
	s.status = status
	s.userID = userID
	s.mu.Unlock()

	s.completeOnce.Do(func() {
		if s.onComplete != nil {
			s.onComplete(status, userID)
		}
	})
	return status
}

func (s *Session) fail(index int, reason string) Status {
	log.Printf("[PLAYBACK] session %s: re-verification failed at frame %d: %s", s.ID, index, reason)
	s.mu.Lock()
	s.status = StatusFailed
	s.userID = 0
	s.mu.Unlock()
	return StatusFailed
}

// captureOrDummy substitutes a 1x1 dummy frame when pixel capture fails, so
// the outer analysis loop keeps running and decoding fails naturally on the
// dummy data. The failure is logged once per session.
func (s *Session) captureOrDummy(index int) *stego.Frame {
	frame, err := s.source.CaptureFrame(s.ctx, index)
	if err != nil {
		s.mu.Lock()
		warned := s.captureWarned
		s.captureWarned = true
		s.mu.Unlock()
		if !warned {
			log.Printf("[PLAYBACK] session %s: frame capture blocked: %v", s.ID, err)
		}
		return &stego.Frame{Width: 1, Height: 1, Pix: []byte{0, 0, 0, 255}}
	}
	return frame
}
