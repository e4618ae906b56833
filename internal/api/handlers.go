package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vidmark/vidmark/internal/database"
	"github.com/vidmark/vidmark/internal/models"
	"github.com/vidmark/vidmark/internal/playback"
	"github.com/vidmark/vidmark/internal/stego"
	"github.com/vidmark/vidmark/internal/verifier"
)

type App struct {
	KeyRepo    *database.KeyRepository
	ReportRepo *database.VerificationRepository

	// ProfileBaseURL is where the verified badge's QR code points:
	// {ProfileBaseURL}/creators/{userID}.
	ProfileBaseURL string
}

func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}

type registerKeyRequest struct {
	UserID       int64  `json:"user_id"`
	PublicKeyPEM string `json:"public_key_pem"`
}

type registerKeyResponse struct {
	ID     string `json:"id"`
	UserID int64  `json:"user_id"`
}

// RegisterKeyHandler stores (or rotates) a creator's public key. The PEM
// must import as an RSA key of the watermark's 2048-bit contract before it
// is accepted.
func (app *App) RegisterKeyHandler(w http.ResponseWriter, r *http.Request) {
	var req registerKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !models.ValidUserID(req.UserID) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("user_id must be between 0 and %d", models.MaxUserID))
		return
	}

	key, err := verifier.ImportPublicKeyFromPEM(req.PublicKeyPEM)
	if err != nil {
		writeError(w, http.StatusBadRequest, "public_key_pem is not a valid RSA public key")
		return
	}
	if key.Size() != stego.SignatureLength {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("expected a %d-bit RSA key", stego.SignatureLength*8))
		return
	}

	creatorKey := models.NewCreatorKey(req.UserID, req.PublicKeyPEM)
	if err := app.KeyRepo.Upsert(r.Context(), creatorKey); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store key")
		return
	}

	writeJSON(w, http.StatusCreated, registerKeyResponse{ID: creatorKey.ID, UserID: creatorKey.UserID})
}

// GetKeyHandler serves the creator's public key verbatim as PEM. This is the
// endpoint verifying players hit once per session.
func (app *App) GetKeyHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}

	key, err := app.KeyRepo.GetByUserID(r.Context(), userID)
	if errors.Is(err, database.ErrKeyNotFound) {
		writeError(w, http.StatusNotFound, "no key registered for this creator")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load key")
		return
	}

	w.Header().Set("Content-Type", "application/x-pem-file")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(key.PublicKeyPEM))
}

type keyQRResponse struct {
	UserID     int64  `json:"user_id"`
	ProfileURL string `json:"profile_url"`
}

// KeyQRHandler resolves the profile link the verified badge's QR code
// displays for a creator.
func (app *App) KeyQRHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}

	if _, err := app.KeyRepo.GetByUserID(r.Context(), userID); err != nil {
		if errors.Is(err, database.ErrKeyNotFound) {
			writeError(w, http.StatusNotFound, "no key registered for this creator")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load key")
		return
	}

	writeJSON(w, http.StatusOK, keyQRResponse{
		UserID:     userID,
		ProfileURL: fmt.Sprintf("%s/creators/%d", app.ProfileBaseURL, userID),
	})
}

type reportRequest struct {
	VideoURL   string `json:"video_url"`
	UserID     int64  `json:"user_id"`
	Status     string `json:"status"`
	FrameIndex int    `json:"frame_index"`
}

// ReportVerificationHandler records a session outcome a player chose to
// report. Only terminal states are accepted.
func (app *App) ReportVerificationHandler(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.VideoURL == "" {
		writeError(w, http.StatusBadRequest, "video_url is required")
		return
	}
	if req.Status != string(playback.StatusVerified) && req.Status != string(playback.StatusFailed) {
		writeError(w, http.StatusBadRequest, "status must be verified or failed")
		return
	}
	if !models.ValidUserID(req.UserID) {
		writeError(w, http.StatusBadRequest, "invalid user_id")
		return
	}

	report := models.NewVerificationReport(req.VideoURL, req.UserID, req.Status, req.FrameIndex)
	if err := app.ReportRepo.Insert(r.Context(), report); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store report")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": report.ID})
}

type reportItem struct {
	ID         string `json:"id"`
	VideoURL   string `json:"video_url"`
	UserID     int64  `json:"user_id"`
	Status     string `json:"status"`
	FrameIndex int    `json:"frame_index"`
	ReportedAt string `json:"reported_at"`
}

func (app *App) ListVerificationsHandler(w http.ResponseWriter, r *http.Request) {
	userIDStr := r.URL.Query().Get("user_id")
	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "user_id query parameter is required")
		return
	}

	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if n, err := strconv.Atoi(limitStr); err == nil && n > 0 {
			limit = n
		}
	}

	reports, err := app.ReportRepo.ListByUserID(r.Context(), userID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list reports")
		return
	}

	items := make([]reportItem, 0, len(reports))
	for _, report := range reports {
		items = append(items, reportItem{
			ID:         report.ID,
			VideoURL:   report.VideoURL,
			UserID:     report.UserID,
			Status:     report.Status,
			FrameIndex: report.FrameIndex,
			ReportedAt: report.ReportedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	writeJSON(w, http.StatusOK, items)
}

func parseUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil || !models.ValidUserID(userID) {
		writeError(w, http.StatusBadRequest, "invalid user ID")
		return 0, false
	}
	return userID, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
