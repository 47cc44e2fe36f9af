package identity

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ResetCodes is the reset code registry. A principal may hold several codes
// transiently; a successful reset deletes all of them at once.
type ResetCodes interface {
	Create(ctx context.Context, record *ResetCode) (*ResetCode, error)
	FindValid(ctx context.Context, userID uuid.UUID, code string, now time.Time) (*ResetCode, error)
	DeleteForUser(ctx context.Context, userID uuid.UUID) error
	DeleteForUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) error
}

type resetCodes struct {
	db *bun.DB
}

// NewResetCodesRepository creates the registry over bun.
func NewResetCodesRepository(db *bun.DB) ResetCodes {
	return &resetCodes{db: db}
}

func (r *resetCodes) Create(ctx context.Context, record *ResetCode) (*ResetCode, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	_, err := r.db.NewInsert().
		Model(record).
		Exec(ctx)

	if err != nil {
		return nil, err
	}

	return record, nil
}

func (r *resetCodes) FindValid(ctx context.Context, userID uuid.UUID, code string, now time.Time) (*ResetCode, error) {
	record := &ResetCode{}

	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.user_id = ?", userID).
		Where("?TableAlias.code = ?", code).
		Where("?TableAlias.expires_at > ?", now).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidResetCode
		}
		return nil, err
	}

	return record, nil
}

func (r *resetCodes) DeleteForUser(ctx context.Context, userID uuid.UUID) error {
	return r.DeleteForUserTx(ctx, r.db, userID)
}

func (r *resetCodes) DeleteForUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) error {
	_, err := tx.NewDelete().
		Model((*ResetCode)(nil)).
		Where("user_id = ?", userID).
		Exec(ctx)
	return err
}
