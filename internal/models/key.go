package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxUserID bounds the 9-digit numeric creator ID the watermark encodes.
const MaxUserID = 999999999

// ValidUserID reports whether id fits the watermark's 9-digit contract.
func ValidUserID(id int64) bool {
	return id >= 0 && id <= MaxUserID
}

// CreatorKey is the registered RSA public key for one creator. The PEM is
// served verbatim to verifying players and never mutated.
type CreatorKey struct {
	ID           string
	UserID       int64
	PublicKeyPEM string
	CreatedAt    time.Time
}

func NewCreatorKey(userID int64, publicKeyPEM string) *CreatorKey {
	return &CreatorKey{
		ID:           uuid.New().String(),
		UserID:       userID,
		PublicKeyPEM: publicKeyPEM,
		CreatedAt:    time.Now(),
	}
}
