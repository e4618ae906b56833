package integration

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/vidmark/vidmark/internal/api"
	"github.com/vidmark/vidmark/internal/database"
	"github.com/vidmark/vidmark/internal/stego"
)

type TestServer struct {
	Server     *httptest.Server
	App        *api.App
	DB         *database.DB
	KeyRepo    *database.KeyRepository
	ReportRepo *database.VerificationRepository
}

func setupTestServer(t *testing.T) *TestServer {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := database.NewDB(database.Config{
		Type:       "sqlite",
		SQLitePath: dbPath,
	})
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}

	keyRepo := database.NewKeyRepository(db)
	reportRepo := database.NewVerificationRepository(db)

	app := &api.App{
		KeyRepo:        keyRepo,
		ReportRepo:     reportRepo,
		ProfileBaseURL: "https://vidmark.example.com",
	}

	server := httptest.NewServer(api.NewRouter(app))

	return &TestServer{
		Server:     server,
		App:        app,
		DB:         db,
		KeyRepo:    keyRepo,
		ReportRepo: reportRepo,
	}
}

func (ts *TestServer) Cleanup() {
	ts.Server.Close()
	ts.DB.Close()
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s failed: %v", url, err)
	}
	return resp
}

var (
	rsaOnce sync.Once
	rsaKey  *rsa.PrivateKey
	rsaErr  error
)

// testRSAKey generates one 2048-bit key for the whole package; keygen is the
// slow part of these tests.
func testRSAKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	rsaOnce.Do(func() {
		rsaKey, rsaErr = rsa.GenerateKey(rand.Reader, 2048)
	})
	if rsaErr != nil {
		t.Fatalf("Failed to generate RSA key: %v", rsaErr)
	}
	return rsaKey
}

// frameSource serves one pre-built watermarked frame for every index,
// standing in for live player capture.
type frameSource struct {
	frame *stego.Frame
}

func (fs *frameSource) CaptureFrame(ctx context.Context, index int) (*stego.Frame, error) {
	if fs.frame == nil {
		return nil, fmt.Errorf("no frame available")
	}
	return fs.frame, nil
}
