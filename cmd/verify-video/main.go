package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/vidmark/vidmark/internal/capture"
	"github.com/vidmark/vidmark/internal/keys"
	"github.com/vidmark/vidmark/internal/playback"
)

// fileKeyFetcher serves a single local PEM file instead of hitting the
// key-lookup service, for verifying videos offline.
type fileKeyFetcher struct {
	pemData string
}

func (f *fileKeyFetcher) FetchPublicKey(ctx context.Context, userID int) (string, error) {
	return f.pemData, nil
}

func main() {
	var (
		input   = flag.String("input", "", "Path to the video file to verify")
		keysURL = flag.String("keys", "http://localhost:8080", "Key-lookup service base URL")
		keyFile = flag.String("key", "", "Local public key PEM file (skips the key-lookup service)")
		frames  = flag.Int("frames", 300, "Number of presented frames to simulate")
	)
	flag.Parse()

	if *input == "" {
		log.Fatal("Please provide a video file with -input flag")
	}

	source, err := capture.OpenVideo(*input)
	if err != nil {
		log.Fatal("Failed to open video:", err)
	}

	var fetcher playback.KeyFetcher
	if *keyFile != "" {
		pemData, err := os.ReadFile(*keyFile)
		if err != nil {
			log.Fatal("Failed to read key file:", err)
		}
		fetcher = &fileKeyFetcher{pemData: string(pemData)}
	} else {
		fetcher = keys.NewClient(*keysURL)
	}

	service := playback.NewService()
	defer service.StopAll()

	session := service.StartSession(source, fetcher, func(status playback.Status, userID int) {
		if status == playback.StatusVerified {
			fmt.Printf("Frame 0 verified: creator %09d\n", userID)
		} else {
			fmt.Println("Frame 0 verification failed")
		}
	})

	if session.Status() != playback.StatusVerified {
		fmt.Println("Result: FAILED (no valid watermark on frame 0)")
		os.Exit(1)
	}

	// Walk the presented frames the way a player would; the session only
	// analyzes every VerifyEveryNFrames-th index.
	checked := 0
	for i := 1; i < *frames; i++ {
		status := session.HandleFramePresented(i)
		if i%playback.VerifyEveryNFrames == 0 {
			checked++
			fmt.Printf("Frame %d: %s\n", i, status)
		}
		if status == playback.StatusFailed {
			fmt.Printf("Result: FAILED at frame %d (%d re-verifications done)\n", i, checked)
			os.Exit(1)
		}
	}

	userID, ok := session.UserID()
	if !ok {
		fmt.Println("Result: FAILED")
		os.Exit(1)
	}

	fmt.Printf("Result: VERIFIED\n")
	fmt.Printf("Creator ID: %09d\n", userID)
	fmt.Printf("Re-verified frames: %d\n", checked)
}
