package identity

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"google.golang.org/api/idtoken"
)

// GoogleVerifier validates Google ID tokens against Google's published
// certificates and the configured OAuth client id.
type GoogleVerifier struct {
	clientID string
}

var _ ExternalVerifier = (*GoogleVerifier)(nil)

// NewGoogleVerifier creates a verifier bound to an OAuth client id. The
// audience check rejects tokens minted for other applications.
func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID}
}

// Verify checks signature, expiry, and audience, and maps the token payload
// to an ExternalProfile.
func (g *GoogleVerifier) Verify(ctx context.Context, token string) (*ExternalProfile, error) {
	payload, err := idtoken.Validate(ctx, token, g.clientID)
	if err != nil {
		return nil, ErrExternalTokenInvalid.Clone()
	}

	profile := &ExternalProfile{
		Subject: payload.Subject,
	}

	if email, ok := payload.Claims["email"].(string); ok {
		profile.Email = email
	}

	if name, ok := payload.Claims["name"].(string); ok {
		profile.Name = name
	}

	if picture, ok := payload.Claims["picture"].(string); ok {
		profile.AvatarURL = picture
	}

	return profile, nil
}

// ExchangeExternalIdentity turns a verified external token into a local
// session. First-seen identities get a principal with an unusable random
// password and the default role; returning identities resolve by email.
func (s *Service) ExchangeExternalIdentity(ctx context.Context, externalToken string) (*TokenPair, error) {
	if s.verifier == nil {
		return nil, errors.New("no external identity verifier configured", errors.CategoryInternal)
	}

	profile, err := s.verifier.Verify(ctx, externalToken)
	if err != nil {
		var richErr *errors.Error
		if errors.As(err, &richErr) && richErr.Category == errors.CategoryAuth {
			return nil, err
		}
		return nil, errors.Wrap(err, errors.CategoryAuth, "external identity verification failed").
			WithCode(errors.CodeUnauthorized)
	}

	if profile == nil || profile.Email == "" {
		return nil, ErrExternalTokenInvalid
	}

	user, err := s.findOrCreateExternalUser(ctx, profile)
	if err != nil {
		return nil, err
	}

	if user.Archived && !s.allowArchived {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.generateTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, ActivityEventExternalLogin, user.ID, map[string]any{"subject": profile.Subject})

	return pair, nil
}

func (s *Service) findOrCreateExternalUser(ctx context.Context, profile *ExternalProfile) (*User, error) {
	user, err := s.repo.Principals().GetByEmail(ctx, profile.Email)
	if err == nil {
		return user, nil
	}

	if !repository.IsRecordNotFound(err) {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to resolve external identity")
	}

	// The local password is random and never disclosed, so the account can
	// only ever authenticate through the external provider or a reset flow.
	hash, err := s.hasher.RandomPasswordHash(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to generate placeholder password")
	}

	user = &User{
		Name:           profile.Name,
		Email:          profile.Email,
		PasswordHash:   hash,
		ProfilePicture: profile.AvatarURL,
		GoogleSubject:  profile.Subject,
	}

	if user.Name == "" {
		user.Name = profile.Email
	}

	if s.roles != nil && s.defaultRoleName != "" {
		role, err := s.roles.GetRoleByName(ctx, s.defaultRoleName)
		if err == nil && role != nil {
			roleID := role.ID
			user.RoleID = &roleID
		}
	}

	user, err = s.repo.Principals().Create(ctx, user)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create external identity user")
	}

	s.emit(ctx, ActivityEventSignup, user.ID, map[string]any{"external": true})

	return user, nil
}
