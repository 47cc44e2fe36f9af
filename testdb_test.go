package identity_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	identity "github.com/moodymap/go-identity"
)

const (
	sqliteCreateUsers = `CREATE TABLE users (
    id TEXT NOT NULL PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    role_id TEXT,
    profile_picture TEXT,
    user_type TEXT,
    google_subject TEXT,
    archived BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`

	sqliteCreateRefreshTokens = `CREATE TABLE refresh_tokens (
    user_id TEXT NOT NULL PRIMARY KEY,
    token TEXT NOT NULL,
    expires_at TIMESTAMP NOT NULL
);`

	sqliteCreateResetCodes = `CREATE TABLE reset_codes (
    id TEXT NOT NULL PRIMARY KEY,
    user_id TEXT NOT NULL,
    code TEXT NOT NULL,
    expires_at TIMESTAMP NOT NULL
);`
)

func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	for _, ddl := range []string{sqliteCreateUsers, sqliteCreateRefreshTokens, sqliteCreateResetCodes} {
		_, err = db.Exec(ddl)
		require.NoError(t, err)
	}

	t.Cleanup(func() {
		_ = db.Close()
		_ = sqldb.Close()
	})

	return db
}

// testClock is a mutable time source shared between a Service and its
// assertions.
type testClock struct {
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// newTestService wires a Service over an in memory database with a cheap
// bcrypt cost and a controllable clock.
func newTestService(t *testing.T, cfg identity.SimpleConfig) (*identity.Service, identity.RepositoryManager, *testClock) {
	t.Helper()

	if cfg.SigningKey == "" {
		cfg.SigningKey = "test-signing-secret"
	}

	db := setupTestDB(t)
	repo := identity.NewRepositoryManager(db)
	clock := newTestClock()

	svc := identity.NewService(repo, cfg).
		WithHasher(identity.NewHasher(4, 0)).
		WithClock(clock.Now)

	return svc, repo, clock
}
