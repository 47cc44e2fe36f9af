package identity

import (
	"context"
	"errors"
	"runtime"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// Hasher wraps bcrypt with a configurable work factor. Hashing is deliberately
// slow, so a weighted semaphore bounds how many hashes run at once: a burst of
// signups cannot starve token verification happening on other requests.
type Hasher struct {
	cost int
	sem  *semaphore.Weighted
}

// NewHasher creates a Hasher. Non-positive cost falls back to 12; an
// explicit limit of 0 bounds concurrency to the number of CPUs.
func NewHasher(cost int, limit int) *Hasher {
	if cost <= 0 {
		cost = 12
	}
	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	return &Hasher{
		cost: cost,
		sem:  semaphore.NewWeighted(int64(limit)),
	}
}

// HashPassword will generate a password hash
func (h *Hasher) HashPassword(ctx context.Context, password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyPassword
	}

	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer h.sem.Release(1)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	return string(hash), err
}

// ComparePasswordAndHash will validate the given cleartext password matches
// the hashed password
func (h *Hasher) ComparePasswordAndHash(ctx context.Context, password, hash string) error {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer h.sem.Release(1)

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		return err
	}
	return nil
}

// RandomPasswordHash produces an unusable local password for principals
// created through the federated path.
func (h *Hasher) RandomPasswordHash(ctx context.Context) (string, error) {
	return h.HashPassword(ctx, uuid.NewString())
}
