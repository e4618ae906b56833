package main

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/vidmark/vidmark/internal/database"
	"github.com/vidmark/vidmark/internal/keystore"
	"github.com/vidmark/vidmark/internal/models"
	"github.com/vidmark/vidmark/internal/verifier"
)

func main() {
	var (
		userID  = flag.Int64("user-id", -1, "Creator's numeric ID (up to 9 digits)")
		keysDir = flag.String("keys-dir", "./keys", "Directory for generated private keys")
	)
	flag.Parse()

	if !models.ValidUserID(*userID) {
		log.Fatalf("Please provide a valid -user-id between 0 and %d", models.MaxUserID)
	}

	dbConfig := database.Config{
		Type:     getEnv("DB_TYPE", "sqlite"),
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     5432,
		User:     getEnv("DB_USER", "vidmark"),
		Password: getEnv("DB_PASSWORD", "vidmark_dev"),
		Name:     getEnv("DB_NAME", "vidmark"),
	}
	if dbConfig.Type == "sqlite" {
		dbConfig.SQLitePath = getEnv("DB_PATH", "./vidmark.db")
	}

	db, err := database.NewDB(dbConfig)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	fmt.Printf("Generating 2048-bit RSA key pair for creator %09d...\n", *userID)

	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		log.Fatal("Failed to generate key pair:", err)
	}

	publicPEM, err := verifier.ExportPublicKeyPEM(&priv.PublicKey)
	if err != nil {
		log.Fatal("Failed to export public key:", err)
	}

	creatorKey := models.NewCreatorKey(*userID, publicPEM)
	keyRepo := database.NewKeyRepository(db)
	if err := keyRepo.Upsert(context.Background(), creatorKey); err != nil {
		log.Fatal("Failed to store public key:", err)
	}

	ks, err := keystore.NewKeyStore(*keysDir)
	if err != nil {
		log.Fatal("Failed to initialize key store:", err)
	}

	privatePEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(priv),
	})
	filename, err := ks.SavePrivateKey(*userID, privatePEM)
	if err != nil {
		log.Fatal("Failed to save private key:", err)
	}

	fmt.Println("Key pair registered!")
	fmt.Printf("  Key ID:      %s\n", creatorKey.ID)
	fmt.Printf("  Creator ID:  %09d\n", creatorKey.UserID)
	fmt.Printf("  Private key: %s (keep this safe, it signs your watermarks)\n", filename)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
