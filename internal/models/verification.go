package models

import (
	"time"

	"github.com/google/uuid"
)

// VerificationReport is an outcome a verifying player chose to report back:
// which video, which creator the watermark named, and how the session ended.
type VerificationReport struct {
	ID         string
	VideoURL   string
	UserID     int64
	Status     string
	FrameIndex int
	ReportedAt time.Time
}

func NewVerificationReport(videoURL string, userID int64, status string, frameIndex int) *VerificationReport {
	return &VerificationReport{
		ID:         uuid.New().String(),
		VideoURL:   videoURL,
		UserID:     userID,
		Status:     status,
		FrameIndex: frameIndex,
		ReportedAt: time.Now(),
	}
}
