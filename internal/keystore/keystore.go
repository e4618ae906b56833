package keystore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// KeyStore holds PEM key files on disk, one file per creator. Private keys
// written by the registration tool live here; the lookup service never reads
// them.
type KeyStore struct {
	basePath string
}

func NewKeyStore(basePath string) (*KeyStore, error) {
	if err := os.MkdirAll(basePath, 0700); err != nil {
		return nil, fmt.Errorf("failed to create key directory: %w", err)
	}
	return &KeyStore{basePath: basePath}, nil
}

// SavePrivateKey writes a creator's private key PEM and returns the file
// name.
func (ks *KeyStore) SavePrivateKey(userID int64, pemData []byte) (string, error) {
	filename := fmt.Sprintf("creator_%d.pem", userID)
	fullPath := filepath.Join(ks.basePath, filename)

	if err := os.WriteFile(fullPath, pemData, 0600); err != nil {
		return "", fmt.Errorf("failed to write key file: %w", err)
	}
	return filename, nil
}

// Load reads a stored PEM file by name.
func (ks *KeyStore) Load(name string) ([]byte, error) {
	fullPath, err := ks.resolve(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}
	return data, nil
}

func (ks *KeyStore) Delete(name string) error {
	fullPath, err := ks.resolve(name)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil {
		return fmt.Errorf("failed to delete key file: %w", err)
	}
	return nil
}

func (ks *KeyStore) resolve(name string) (string, error) {
	cleanName := filepath.Clean(name)
	if strings.Contains(cleanName, "..") || filepath.IsAbs(cleanName) {
		return "", fmt.Errorf("invalid key file name")
	}
	return filepath.Join(ks.basePath, cleanName), nil
}
