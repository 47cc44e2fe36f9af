package identity

// SimpleConfig is a plain struct implementation of Config with defaults that
// match the product decisions documented in doc.go. Zero values fall back to
// those defaults so tests and wiring code only set what they care about.
type SimpleConfig struct {
	SigningKey          string
	TokenExpiration     int // hours, access token
	RefreshExpiration   int // hours, refresh token
	ResetCodeExpiration int // hours, password reset code
	Issuer              string
	Audience            []string
	ContextKey          string
	AuthScheme          string
	BcryptCost          int
	GoogleClientID      string
	DefaultRoleName     string
	AllowArchivedLogin  bool
}

func (c SimpleConfig) GetSigningKey() string { return c.SigningKey }

func (c SimpleConfig) GetTokenExpiration() int {
	if c.TokenExpiration <= 0 {
		return 10
	}
	return c.TokenExpiration
}

func (c SimpleConfig) GetRefreshExpiration() int {
	if c.RefreshExpiration <= 0 {
		return 72
	}
	return c.RefreshExpiration
}

func (c SimpleConfig) GetResetCodeExpiration() int {
	if c.ResetCodeExpiration <= 0 {
		return 1
	}
	return c.ResetCodeExpiration
}

func (c SimpleConfig) GetIssuer() string { return c.Issuer }

func (c SimpleConfig) GetAudience() []string { return c.Audience }

func (c SimpleConfig) GetContextKey() string {
	if c.ContextKey == "" {
		return "user"
	}
	return c.ContextKey
}

func (c SimpleConfig) GetAuthScheme() string {
	if c.AuthScheme == "" {
		return "Bearer"
	}
	return c.AuthScheme
}

func (c SimpleConfig) GetBcryptCost() int {
	if c.BcryptCost <= 0 {
		return 12
	}
	return c.BcryptCost
}

func (c SimpleConfig) GetGoogleClientID() string { return c.GoogleClientID }

func (c SimpleConfig) GetDefaultRoleName() string {
	if c.DefaultRoleName == "" {
		return "user"
	}
	return c.DefaultRoleName
}

func (c SimpleConfig) ArchivedCanAuthenticate() bool { return c.AllowArchivedLogin }

var _ Config = SimpleConfig{}
