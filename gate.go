package identity

import (
	"strings"

	"github.com/goliatone/go-router"
)

// AuthenticationGate is the request-scoped bearer check. It trusts the token
// entirely once the signature verifies and never touches the database, so a
// stolen token stays valid until its (short) expiry.
type AuthenticationGate struct {
	validator    TokenValidator
	scheme       string
	contextKey   string
	logger       Logger
	ErrorHandler func(ctx router.Context, err error) error
}

// NewAuthenticationGate builds the gate from the token validator and config.
func NewAuthenticationGate(validator TokenValidator, cfg Config) *AuthenticationGate {
	gate := &AuthenticationGate{
		validator:  validator,
		scheme:     cfg.GetAuthScheme(),
		contextKey: cfg.GetContextKey(),
		logger:     defLogger{},
	}

	if gate.scheme == "" {
		gate.scheme = "Bearer"
	}

	if gate.contextKey == "" {
		gate.contextKey = "user"
	}

	gate.ErrorHandler = func(ctx router.Context, err error) error {
		return err
	}

	return gate
}

// WithLogger overrides the gate logger.
func (g *AuthenticationGate) WithLogger(logger Logger) *AuthenticationGate {
	if logger != nil {
		g.logger = logger
	}
	return g
}

// Middleware authenticates the request. Claims are stored under the gate's
// context key for handlers and propagated into the request context for code
// below the transport layer.
func (g *AuthenticationGate) Middleware() router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			raw, err := g.extractToken(ctx)
			if err != nil {
				return g.ErrorHandler(ctx, err)
			}

			claims, err := g.validator.Validate(raw)
			if err != nil {
				g.logger.Debug("token validation error: %v", err)
				return g.ErrorHandler(ctx, ErrInvalidToken)
			}

			ctx.Locals(g.contextKey, claims)
			ctx.SetContext(WithClaimsContext(ctx.Context(), claims))

			return ctx.Next()
		}
	}
}

func (g *AuthenticationGate) extractToken(ctx router.Context) (string, error) {
	return ParseBearerToken(ctx.Header(router.HeaderAuthorization), g.scheme)
}

// ParseBearerToken pulls the credential out of an Authorization header
// value. Absent header, wrong scheme, and empty credential all collapse
// into the same malformed-presentation error.
func ParseBearerToken(header, scheme string) (string, error) {
	if header == "" {
		return "", ErrInvalidTokenFormat
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], scheme) {
		return "", ErrInvalidTokenFormat
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", ErrInvalidTokenFormat
	}

	return token, nil
}

// ClaimsFromRouteContext reads the claims that Middleware stored for the
// request, or nil when the route was not authenticated.
func (g *AuthenticationGate) ClaimsFromRouteContext(ctx router.Context) AuthClaims {
	raw := ctx.Locals(g.contextKey)
	if raw == nil {
		return nil
	}

	claims, ok := raw.(AuthClaims)
	if !ok {
		return nil
	}

	return claims
}
