package identity_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	identity "github.com/moodymap/go-identity"
)

func TestExchangeExternalIdentityFirstSeen(t *testing.T) {
	svc, repo, _ := newTestService(t, identity.SimpleConfig{})
	ctx := context.Background()

	userRole := &identity.Role{ID: uuid.New(), Name: "user"}
	roles := new(MockRoleProvider)
	roles.On("GetRoleByName", ctx, "user").Return(userRole, nil)
	svc.WithRoleProvider(roles)

	verifier := new(MockExternalVerifier)
	verifier.On("Verify", ctx, "good-token").Return(&identity.ExternalProfile{
		Subject:   "google-oauth2|12345",
		Email:     "fed@x.com",
		Name:      "Fed User",
		AvatarURL: "https://example.com/pic.png",
	}, nil)
	svc.WithExternalVerifier(verifier)

	pair, err := svc.ExchangeExternalIdentity(ctx, "good-token")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	user, err := repo.Principals().GetByEmail(ctx, "fed@x.com")
	require.NoError(t, err)
	assert.Equal(t, pair.UserID, user.ID)
	assert.Equal(t, "google-oauth2|12345", user.GoogleSubject)
	assert.Equal(t, "Fed User", user.Name)
	assert.NotEmpty(t, user.PasswordHash)
	require.NotNil(t, user.RoleID)
	assert.Equal(t, userRole.ID, *user.RoleID)

	// The placeholder password is not a usable credential.
	_, err = svc.Login(ctx, identity.LoginMessage{Email: "fed@x.com", Password: "anything1"})
	require.ErrorIs(t, err, identity.ErrInvalidCredentials)
}

func TestExchangeExternalIdentityReturning(t *testing.T) {
	svc, repo, _ := newTestService(t, identity.SimpleConfig{})
	ctx := context.Background()

	existing := signupUser(t, svc, "fed@x.com", "secret123")

	verifier := new(MockExternalVerifier)
	verifier.On("Verify", ctx, mock.Anything).Return(&identity.ExternalProfile{
		Subject: "google-oauth2|12345",
		Email:   "fed@x.com",
		Name:    "Fed User",
	}, nil)
	svc.WithExternalVerifier(verifier)

	pair, err := svc.ExchangeExternalIdentity(ctx, "good-token")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, pair.UserID)

	// Resolving by email must not mint a second principal.
	count, err := repo.Principals().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestExchangeExternalIdentityInvalidToken(t *testing.T) {
	svc, _, _ := newTestService(t, identity.SimpleConfig{})
	ctx := context.Background()

	verifier := new(MockExternalVerifier)
	verifier.On("Verify", ctx, "bad-token").Return(nil, identity.ErrExternalTokenInvalid)
	svc.WithExternalVerifier(verifier)

	_, err := svc.ExchangeExternalIdentity(ctx, "bad-token")
	require.Error(t, err)

	var richErr *errors.Error
	require.True(t, errors.As(err, &richErr))
	assert.Equal(t, errors.CategoryAuth, richErr.Category)
}

func TestExchangeExternalIdentityWithoutVerifier(t *testing.T) {
	svc, _, _ := newTestService(t, identity.SimpleConfig{})

	_, err := svc.ExchangeExternalIdentity(context.Background(), "whatever")
	require.Error(t, err)
}

func TestExchangeExternalIdentityEmptyProfile(t *testing.T) {
	svc, _, _ := newTestService(t, identity.SimpleConfig{})
	ctx := context.Background()

	verifier := new(MockExternalVerifier)
	verifier.On("Verify", ctx, mock.Anything).Return(&identity.ExternalProfile{
		Subject: "google-oauth2|12345",
	}, nil)
	svc.WithExternalVerifier(verifier)

	_, err := svc.ExchangeExternalIdentity(ctx, "token-without-email")
	require.ErrorIs(t, err, identity.ErrExternalTokenInvalid)
}
