package identity

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// Service orchestrates every identity operation. It is the only writer of
// principals, refresh tokens, and reset codes; collaborators are injected
// and owned by the caller.
type Service struct {
	repo              RepositoryManager
	tokens            TokenService
	hasher            *Hasher
	mailer            Mailer
	roles             RoleProvider
	verifier          ExternalVerifier
	sink              ActivitySink
	logger            Logger
	refreshExpiration time.Duration
	resetExpiration   time.Duration
	allowArchived     bool
	defaultRoleName   string
	now               func() time.Time
}

// NewService creates a Service from the repository manager and config.
// Collaborators default to inert implementations; override them with the
// With* builders.
func NewService(repo RepositoryManager, cfg Config) *Service {
	tokens := NewTokenService(
		[]byte(cfg.GetSigningKey()),
		cfg.GetTokenExpiration(),
		cfg.GetIssuer(),
		cfg.GetAudience(),
		defLogger{},
	)

	return &Service{
		repo:              repo,
		tokens:            tokens,
		hasher:            NewHasher(cfg.GetBcryptCost(), 0),
		mailer:            NewLogMailer(defLogger{}),
		sink:              noopActivitySink{},
		logger:            defLogger{},
		refreshExpiration: time.Duration(cfg.GetRefreshExpiration()) * time.Hour,
		resetExpiration:   time.Duration(cfg.GetResetCodeExpiration()) * time.Hour,
		allowArchived:     cfg.ArchivedCanAuthenticate(),
		defaultRoleName:   cfg.GetDefaultRoleName(),
		now:               time.Now,
	}
}

func (s *Service) WithLogger(logger Logger) *Service {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithMailer sets the notification collaborator used for reset codes.
func (s *Service) WithMailer(mailer Mailer) *Service {
	if mailer != nil {
		s.mailer = mailer
	}
	return s
}

// WithRoleProvider sets the role-management collaborator.
func (s *Service) WithRoleProvider(roles RoleProvider) *Service {
	s.roles = roles
	return s
}

// WithExternalVerifier sets the federated identity verifier.
func (s *Service) WithExternalVerifier(verifier ExternalVerifier) *Service {
	s.verifier = verifier
	return s
}

// WithActivitySink configures an ActivitySink for emitting identity events.
func (s *Service) WithActivitySink(sink ActivitySink) *Service {
	s.sink = normalizeActivitySink(sink)
	return s
}

// WithTokenService overrides the access token signer.
func (s *Service) WithTokenService(tokens TokenService) *Service {
	if tokens != nil {
		s.tokens = tokens
	}
	return s
}

// WithHasher overrides the password hasher.
func (s *Service) WithHasher(hasher *Hasher) *Service {
	if hasher != nil {
		s.hasher = hasher
	}
	return s
}

// WithClock overrides the time source, used to exercise expiry behavior.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// TokenService returns the token service instance used by this Service.
func (s *Service) TokenService() TokenService {
	return s.tokens
}

// Signup registers a new principal. The email must not belong to a
// non-archived principal; the password is hashed before storage and the
// returned record never re-exposes the hash.
func (s *Service) Signup(ctx context.Context, msg SignupMessage) (*User, error) {
	if err := msg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "invalid signup payload")
	}

	inUse, err := s.repo.Principals().EmailInUse(ctx, msg.Email, uuid.Nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to check email availability")
	}
	if inUse {
		return nil, ErrEmailInUse
	}

	hash, err := s.hasher.HashPassword(ctx, msg.Password)
	if err != nil {
		var richErr *errors.Error
		if errors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
	}

	user := &User{
		Name:         msg.Name,
		Email:        msg.Email,
		PasswordHash: hash,
	}

	if user, err = s.repo.Principals().Create(ctx, user); err != nil {
		// The availability pre-check excludes archived holders, so the
		// insert can still trip the unique index. Re-check ownership to tell
		// that apart from a storage failure.
		if _, lookupErr := s.repo.Principals().GetByEmail(ctx, msg.Email); lookupErr == nil {
			return nil, ErrEmailInUse
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "could not create user")
	}

	s.emit(ctx, ActivityEventSignup, user.ID, map[string]any{"email": user.Email})

	return user.PublicProfile(), nil
}

// Login verifies the credential pair and issues a token pair. An unknown
// email and a password mismatch surface the same error value so callers
// cannot tell which accounts exist.
func (s *Service) Login(ctx context.Context, msg LoginMessage) (*TokenPair, error) {
	if err := msg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "invalid login payload")
	}

	user, err := s.repo.Principals().GetByEmail(ctx, msg.Email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			s.emit(ctx, ActivityEventLoginFailure, uuid.Nil, map[string]any{"email": msg.Email})
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during login")
	}

	if user.Archived && !s.allowArchived {
		s.emit(ctx, ActivityEventLoginFailure, user.ID, map[string]any{"archived": true})
		return nil, ErrInvalidCredentials
	}

	if err := s.hasher.ComparePasswordAndHash(ctx, msg.Password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrMismatchedHashAndPassword) {
			s.emit(ctx, ActivityEventLoginFailure, user.ID, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to verify password")
	}

	pair, err := s.generateTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, ActivityEventLoginSuccess, user.ID, nil)

	return pair, nil
}

// ChangePassword verifies the old password and stores a hash of the new one.
// Outstanding access tokens stay valid until natural expiry; that exposure
// window is bounded by the access token lifetime.
func (s *Service) ChangePassword(ctx context.Context, msg ChangePasswordMessage) error {
	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, errors.CategoryValidation, "invalid change password payload")
	}

	user, err := s.repo.Principals().GetByID(ctx, msg.UserID.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrPrincipalNotFound
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user")
	}

	if err := s.hasher.ComparePasswordAndHash(ctx, msg.OldPassword, user.PasswordHash); err != nil {
		if errors.Is(err, ErrMismatchedHashAndPassword) {
			return ErrInvalidCredentials
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to verify password")
	}

	hash, err := s.hasher.HashPassword(ctx, msg.NewPassword)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
	}

	if err := s.repo.Principals().UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to update password")
	}

	s.emit(ctx, ActivityEventPasswordChanged, user.ID, nil)

	return nil
}

// Refresh exchanges a live refresh token for a fresh token pair, rotating
// the stored value. The presented token becomes permanently unusable even
// when it has not expired yet; a replayed token fails closed.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	record, err := s.repo.RefreshTokens().FindValid(ctx, refreshToken, s.now())
	if err != nil {
		if errors.Is(err, ErrInvalidRefreshToken) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to look up refresh token")
	}

	user, err := s.repo.Principals().GetByID(ctx, record.UserID.String())
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "refresh token references missing user")
	}

	if user.Archived && !s.allowArchived {
		return nil, ErrInvalidRefreshToken
	}

	pair, err := s.generateTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, ActivityEventTokenRefresh, user.ID, nil)

	return pair, nil
}

// generateTokens issues an access token and rotates the refresh token in a
// single upsert keyed by principal.
func (s *Service) generateTokens(ctx context.Context, user *User) (*TokenPair, error) {
	accessToken, err := s.tokens.Generate(user)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to sign access token")
	}

	// uuid v4 carries 122 bits from crypto/rand, enough to make collisions
	// and guesses negligible.
	refreshToken := uuid.NewString()
	expiresAt := s.now().Add(s.refreshExpiration)

	if err := s.repo.RefreshTokens().Put(ctx, user.ID, refreshToken, expiresAt); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to store refresh token")
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		UserID:       user.ID,
	}, nil
}

func (s *Service) emit(ctx context.Context, eventType ActivityEventType, userID uuid.UUID, metadata map[string]any) {
	event := ActivityEvent{
		EventType:  eventType,
		Metadata:   metadata,
		OccurredAt: s.now(),
	}

	if userID != uuid.Nil {
		event.UserID = userID.String()
	}

	if event.Metadata == nil {
		event.Metadata = map[string]any{}
	}

	if err := normalizeActivitySink(s.sink).Record(ctx, event); err != nil {
		s.logger.Warn("activity sink record error: %v", err)
	}
}
