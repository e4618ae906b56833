package database

import (
	"context"
	"fmt"

	"github.com/vidmark/vidmark/internal/models"
)

type VerificationRepository struct {
	db *DB
}

func NewVerificationRepository(db *DB) *VerificationRepository {
	return &VerificationRepository{db: db}
}

func (r *VerificationRepository) Insert(ctx context.Context, report *models.VerificationReport) error {
	query := `
		INSERT INTO verifications (id, video_url, user_id, status, frame_index, reported_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.conn.ExecContext(ctx, query,
		report.ID, report.VideoURL, report.UserID, report.Status,
		report.FrameIndex, report.ReportedAt)
	if err != nil {
		return fmt.Errorf("failed to insert verification report: %w", err)
	}
	return nil
}

// ListByUserID returns the most recent reports naming a creator, newest
// first, capped at limit.
func (r *VerificationRepository) ListByUserID(ctx context.Context, userID int64, limit int) ([]models.VerificationReport, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, video_url, user_id, status, frame_index, reported_at
		FROM verifications
		WHERE user_id = $1
		ORDER BY reported_at DESC
		LIMIT $2`

	rows, err := r.db.conn.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list verification reports: %w", err)
	}
	defer rows.Close()

	var reports []models.VerificationReport
	for rows.Next() {
		var report models.VerificationReport
		if err := rows.Scan(&report.ID, &report.VideoURL, &report.UserID,
			&report.Status, &report.FrameIndex, &report.ReportedAt); err != nil {
			return nil, fmt.Errorf("failed to scan verification report: %w", err)
		}
		reports = append(reports, report)
	}

	return reports, rows.Err()
}
