package api

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/vidmark/vidmark/internal/database"
	"github.com/vidmark/vidmark/internal/verifier"
)

var (
	keyOnce sync.Once
	keyErr  error
	keyPEM  string
)

func testKeyPEM(t *testing.T) string {
	t.Helper()
	keyOnce.Do(func() {
		var priv *rsa.PrivateKey
		priv, keyErr = rsa.GenerateKey(rand.Reader, 2048)
		if keyErr != nil {
			return
		}
		keyPEM, keyErr = verifier.ExportPublicKeyPEM(&priv.PublicKey)
	})
	if keyErr != nil {
		t.Fatalf("generating test key: %v", keyErr)
	}
	return keyPEM
}

func setupTestApp(t *testing.T) (*App, http.Handler, func()) {
	t.Helper()
	db, cleanup := database.SetupTestDB(t)

	app := &App{
		KeyRepo:        database.NewKeyRepository(db),
		ReportRepo:     database.NewVerificationRepository(db),
		ProfileBaseURL: "https://vidmark.example.com",
	}
	return app, NewRouter(app), cleanup
}

func postJSON(t *testing.T, handler http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestPingHandler(t *testing.T) {
	_, handler, cleanup := setupTestApp(t)
	defer cleanup()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/ping", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "pong" {
		t.Errorf("got %d %q", rec.Code, rec.Body.String())
	}
}

func TestRegisterAndGetKey(t *testing.T) {
	_, handler, cleanup := setupTestApp(t)
	defer cleanup()
	pem := testKeyPEM(t)

	rec := postJSON(t, handler, "/api/keys", map[string]interface{}{
		"user_id":        123456789,
		"public_key_pem": pem,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/keys/123456789", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/x-pem-file" {
		t.Errorf("content type = %q", ct)
	}
	if rec.Body.String() != pem {
		t.Error("served PEM differs from the registered one")
	}
}

func TestRegisterKey_Validation(t *testing.T) {
	_, handler, cleanup := setupTestApp(t)
	defer cleanup()
	pem := testKeyPEM(t)

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"bad pem", map[string]interface{}{"user_id": 1, "public_key_pem": "nope"}},
		{"user id too large", map[string]interface{}{"user_id": 1000000000, "public_key_pem": pem}},
		{"negative user id", map[string]interface{}{"user_id": -1, "public_key_pem": pem}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, handler, "/api/keys", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestRegisterKey_RejectsWrongKeySize(t *testing.T) {
	_, handler, cleanup := setupTestApp(t)
	defer cleanup()

	priv, err := rsa.GenerateKey(rand.Reader, 1024)
	if err != nil {
		t.Fatalf("keygen: %v", err)
	}
	smallPEM, err := verifier.ExportPublicKeyPEM(&priv.PublicKey)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	rec := postJSON(t, handler, "/api/keys", map[string]interface{}{
		"user_id":        1,
		"public_key_pem": smallPEM,
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("1024-bit key accepted: status %d", rec.Code)
	}
}

func TestGetKey_NotFound(t *testing.T) {
	_, handler, cleanup := setupTestApp(t)
	defer cleanup()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/keys/555", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestKeyQRHandler(t *testing.T) {
	_, handler, cleanup := setupTestApp(t)
	defer cleanup()

	postJSON(t, handler, "/api/keys", map[string]interface{}{
		"user_id":        42,
		"public_key_pem": testKeyPEM(t),
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/keys/42/qr", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp keyQRResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ProfileURL != "https://vidmark.example.com/creators/42" {
		t.Errorf("profile URL = %q", resp.ProfileURL)
	}
}

func TestReportAndListVerifications(t *testing.T) {
	_, handler, cleanup := setupTestApp(t)
	defer cleanup()

	for i, status := range []string{"verified", "failed"} {
		rec := postJSON(t, handler, "/api/verifications", map[string]interface{}{
			"video_url":   fmt.Sprintf("https://cdn.example.com/v/%d.mp4", i),
			"user_id":     7,
			"status":      status,
			"frame_index": i * 10,
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("report status = %d: %s", rec.Code, rec.Body.String())
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/verifications?user_id=7", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}

	var items []reportItem
	if err := json.NewDecoder(rec.Body).Decode(&items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("got %d reports, want 2", len(items))
	}
}

func TestReportVerification_Validation(t *testing.T) {
	_, handler, cleanup := setupTestApp(t)
	defer cleanup()

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing video url", map[string]interface{}{"user_id": 1, "status": "verified"}},
		{"non-terminal status", map[string]interface{}{"video_url": "u", "user_id": 1, "status": "verifying"}},
		{"unknown status", map[string]interface{}{"video_url": "u", "user_id": 1, "status": "maybe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, handler, "/api/verifications", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestListVerifications_RequiresUserID(t *testing.T) {
	_, handler, cleanup := setupTestApp(t)
	defer cleanup()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/verifications", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	if !strings.Contains(rec.Body.String(), "user_id") {
		t.Errorf("error body should mention user_id: %s", rec.Body.String())
	}
}
