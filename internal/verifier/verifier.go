package verifier

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/vidmark/vidmark/internal/stego"
)

// ImportPublicKeyFromPEM parses a PEM-armored SPKI public key and restricts
// it to RSA. The returned key is imported once per playback session and
// reused for every frame check.
func ImportPublicKeyFromPEM(pemData string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(pemData))
	if block == nil {
		return nil, fmt.Errorf("no PEM block found in key data")
	}

	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	key, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("public key is %T, expected RSA", parsed)
	}
	return key, nil
}

// ExportPublicKeyPEM renders an RSA public key as a PEM-armored SPKI block,
// the format the key-lookup endpoint serves.
func ExportPublicKeyPEM(key *rsa.PublicKey) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(key)
	if err != nil {
		return "", fmt.Errorf("failed to marshal public key: %w", err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})), nil
}

// VerifyFrame checks the extracted signature against the message derived
// from the right-side sequence using RSASSA-PKCS1-v1_5/SHA-256. An empty
// message marks a malformed frame and fails immediately. A signature
// mismatch is a normal false, never an error; only underlying crypto faults
// propagate, and those are fatal to the key's remaining session.
func VerifyFrame(key *rsa.PublicKey, rightSide []int, signature []byte) (bool, error) {
	message := stego.MessageBytes(rightSide)
	if len(message) == 0 {
		return false, nil
	}

	digest := sha256.Sum256(message)
	err := rsa.VerifyPKCS1v15(key, crypto.SHA256, digest[:], signature)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, rsa.ErrVerification) {
		return false, nil
	}
	return false, fmt.Errorf("rsa verification fault: %w", err)
}

// Result is the outcome of a single-frame decode-and-verify pass.
type Result struct {
	Verified  bool
	UserID    int
	HasUserID bool
}

// DecodeAndVerifyFrame runs the full decode pipeline on a raw frame and
// verifies the result against an already-imported key. Undecodable frames
// come back unverified with a nil error.
func DecodeAndVerifyFrame(key *rsa.PublicKey, frame *stego.Frame) (Result, error) {
	res, ok := stego.DecodeFrame(frame)
	if !ok {
		return Result{}, nil
	}

	verified, err := VerifyFrame(key, res.RightSide, res.Signature)
	if err != nil {
		return Result{}, err
	}
	return Result{Verified: verified, UserID: res.UserID, HasUserID: res.HasUserID}, nil
}
