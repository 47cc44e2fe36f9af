package identity

import (
	"context"
	"fmt"
)

// Logger is the minimal logging surface this package needs
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Config holds identity options
type Config interface {
	GetSigningKey() string
	GetTokenExpiration() int
	GetRefreshExpiration() int
	GetResetCodeExpiration() int
	GetIssuer() string
	GetAudience() []string
	GetContextKey() string
	GetAuthScheme() string
	GetBcryptCost() int
	GetGoogleClientID() string
	GetDefaultRoleName() string
	ArchivedCanAuthenticate() bool
}

// Mailer delivers out-of-band notifications such as reset codes. Delivery
// failures must never be distinguishable in the caller-facing response.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// ExternalProfile is the verified payload an external identity provider
// returns for a federated principal.
type ExternalProfile struct {
	Subject   string
	Email     string
	Name      string
	AvatarURL string
}

// ExternalVerifier checks a federated identity token against the provider's
// public verification contract (signature and audience).
type ExternalVerifier interface {
	Verify(ctx context.Context, token string) (*ExternalProfile, error)
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] IDENTITY "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] IDENTITY "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] IDENTITY "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] IDENTITY "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
