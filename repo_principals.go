package identity

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var updatePasswordHashSQL = `UPDATE "users" AS "usr"
SET
	"password_hash" = ?,
	"updated_at" = ?
WHERE
	"usr"."id" = ?
RETURNING *;`

var archivePrincipalSQL = `UPDATE "users" AS "usr"
SET
	"archived" = TRUE,
	"updated_at" = ?
WHERE
	"usr"."id" = ?
RETURNING *;`

// Principals is the credential store. Email matching is case-sensitive and
// exact; archived principals stay readable by id but drop out of active
// listings.
type Principals interface {
	repository.Repository[*User]

	Create(ctx context.Context, record *User, criteria ...repository.InsertCriteria) (*User, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *User, criteria ...repository.InsertCriteria) (*User, error)
	Update(ctx context.Context, record *User, criteria ...repository.UpdateCriteria) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error)
	EmailInUse(ctx context.Context, email string, excludeID uuid.UUID) (bool, error)
	ListActive(ctx context.Context) ([]*User, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*User, error)
	Archive(ctx context.Context, id uuid.UUID) (*User, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdatePasswordHashTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error
}

type principals struct {
	repository.Repository[*User]
	db *bun.DB
}

var (
	_ Principals                   = (*principals)(nil)
	_ repository.Repository[*User] = (*principals)(nil)
)

// NewPrincipalsRepository builds the users repository.
func NewPrincipalsRepository(db *bun.DB) Principals {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &principals{
		Repository: repo,
		db:         db,
	}
}

func (p *principals) Create(ctx context.Context, record *User, criteria ...repository.InsertCriteria) (*User, error) {
	return p.CreateTx(ctx, p.db, record, criteria...)
}

func (p *principals) CreateTx(ctx context.Context, tx bun.IDB, record *User, criteria ...repository.InsertCriteria) (*User, error) {
	preparePrincipalDefaults(record)
	return p.Repository.CreateTx(ctx, tx, record, criteria...)
}

func (p *principals) Update(ctx context.Context, record *User, criteria ...repository.UpdateCriteria) (*User, error) {
	return p.Repository.UpdateTx(ctx, p.db, record, criteria...)
}

func (p *principals) GetByEmail(ctx context.Context, email string) (*User, error) {
	return p.GetByEmailTx(ctx, p.db, email)
}

func (p *principals) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error) {
	record := &User{}

	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", email).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"email": email})
		}
		return nil, err
	}

	return record, nil
}

func (p *principals) EmailInUse(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	q := p.db.NewSelect().
		Model((*User)(nil)).
		Where("?TableAlias.email = ?", email).
		Where("?TableAlias.archived = ?", false)

	if excludeID != uuid.Nil {
		q = q.Where("?TableAlias.id != ?", excludeID)
	}

	count, err := q.Count(ctx)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (p *principals) ListActive(ctx context.Context) ([]*User, error) {
	var records []*User

	err := p.db.NewSelect().
		Model(&records).
		Where("?TableAlias.archived = ?", false).
		Order("created_at ASC").
		Scan(ctx)

	if err != nil {
		return nil, err
	}

	return records, nil
}

func (p *principals) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*User, error) {
	if len(ids) == 0 {
		return []*User{}, nil
	}

	var records []*User

	err := p.db.NewSelect().
		Model(&records).
		Where("?TableAlias.id IN (?)", bun.In(ids)).
		Scan(ctx)

	if err != nil {
		return nil, err
	}

	return records, nil
}

func (p *principals) Archive(ctx context.Context, id uuid.UUID) (*User, error) {
	res, err := p.Repository.RawTx(ctx, p.db, archivePrincipalSQL, time.Now(), id.String())
	if err != nil {
		return nil, err
	}

	if len(res) == 0 {
		return nil, repository.NewRecordNotFound().
			WithMetadata(map[string]any{"id": id.String()})
	}

	return res[0], nil
}

func (p *principals) UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return p.UpdatePasswordHashTx(ctx, p.db, id, passwordHash)
}

func (p *principals) UpdatePasswordHashTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error {
	res, err := p.Repository.RawTx(ctx, tx, updatePasswordHashSQL, passwordHash, time.Now(), id.String())
	if err != nil {
		return err
	}

	if len(res) == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{"id": id.String()})
	}

	return nil
}

func preparePrincipalDefaults(record *User) {
	if record == nil {
		return
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}
