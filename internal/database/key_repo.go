package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vidmark/vidmark/internal/models"
)

// ErrKeyNotFound marks a lookup for a creator that never registered a key.
var ErrKeyNotFound = errors.New("creator key not found")

type KeyRepository struct {
	db *DB
}

func NewKeyRepository(db *DB) *KeyRepository {
	return &KeyRepository{db: db}
}

// Upsert inserts a creator key or replaces the PEM for an already
// registered user ID. Both supported databases accept the $n placeholders
// and ON CONFLICT form.
func (r *KeyRepository) Upsert(ctx context.Context, key *models.CreatorKey) error {
	query := `
		INSERT INTO creator_keys (id, user_id, public_key_pem, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id)
		DO UPDATE SET public_key_pem = EXCLUDED.public_key_pem`

	_, err := r.db.conn.ExecContext(ctx, query,
		key.ID, key.UserID, key.PublicKeyPEM, key.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert creator key: %w", err)
	}
	return nil
}

func (r *KeyRepository) GetByUserID(ctx context.Context, userID int64) (*models.CreatorKey, error) {
	query := `
		SELECT id, user_id, public_key_pem, created_at
		FROM creator_keys
		WHERE user_id = $1`

	var key models.CreatorKey
	err := r.db.conn.QueryRowContext(ctx, query, userID).Scan(
		&key.ID, &key.UserID, &key.PublicKeyPEM, &key.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get creator key: %w", err)
	}
	return &key, nil
}

func (r *KeyRepository) List(ctx context.Context) ([]models.CreatorKey, error) {
	query := `
		SELECT id, user_id, public_key_pem, created_at
		FROM creator_keys
		ORDER BY created_at DESC`

	rows, err := r.db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list creator keys: %w", err)
	}
	defer rows.Close()

	var keys []models.CreatorKey
	for rows.Next() {
		var key models.CreatorKey
		if err := rows.Scan(&key.ID, &key.UserID, &key.PublicKeyPEM, &key.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan creator key: %w", err)
		}
		keys = append(keys, key)
	}

	return keys, rows.Err()
}
