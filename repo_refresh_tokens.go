package identity

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RefreshTokens is the refresh token registry. One live token per principal:
// Put is a single-statement upsert keyed on user_id, so concurrent rotations
// for the same principal resolve last-writer-wins without a torn row.
// Expiry is lazy; rows are checked on use, never swept.
type RefreshTokens interface {
	Put(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error
	FindValid(ctx context.Context, token string, now time.Time) (*RefreshToken, error)
	DeleteForUser(ctx context.Context, userID uuid.UUID) error
}

type refreshTokens struct {
	db *bun.DB
}

// NewRefreshTokensRepository creates the registry over bun.
func NewRefreshTokensRepository(db *bun.DB) RefreshTokens {
	return &refreshTokens{db: db}
}

func (r *refreshTokens) Put(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	record := &RefreshToken{
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
	}

	_, err := r.db.NewInsert().
		Model(record).
		On("CONFLICT (user_id) DO UPDATE").
		Set("token = EXCLUDED.token").
		Set("expires_at = EXCLUDED.expires_at").
		Exec(ctx)

	return err
}

func (r *refreshTokens) FindValid(ctx context.Context, token string, now time.Time) (*RefreshToken, error) {
	record := &RefreshToken{}

	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.token = ?", token).
		Where("?TableAlias.expires_at > ?", now).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	return record, nil
}

func (r *refreshTokens) DeleteForUser(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.NewDelete().
		Model((*RefreshToken)(nil)).
		Where("user_id = ?", userID).
		Exec(ctx)
	return err
}
