package auth

import (
	"time"

	"github.com/caarlos0/env/v11"
	goerrors "github.com/goliatone/go-errors"
)

// DefaultSigningKey is an intentionally obvious placeholder. Deployments must
// override it; ParseEnvConfig refuses to hand it out unless explicitly allowed.
const DefaultSigningKey = "your-secret-key-change-this-in-production-use-openssl-rand-hex-32"

// DefaultTokenTTL bounds the lifetime of issued access tokens.
const DefaultTokenTTL = 30 * time.Minute

// EnvConfig is the environment-backed Config implementation. Construct it once
// at startup and treat it as read-only for the process lifetime.
type EnvConfig struct {
	SigningKey string        `env:"AUTH_SIGNING_KEY" envDefault:"your-secret-key-change-this-in-production-use-openssl-rand-hex-32"`
	TokenTTL   time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"30m"`
	Issuer     string        `env:"AUTH_ISSUER" envDefault:"platziflix"`
	ContextKey string        `env:"AUTH_CONTEXT_KEY" envDefault:"current_user"`
	AuthScheme string        `env:"AUTH_SCHEME" envDefault:"Bearer"`

	// AllowInsecureKey permits running with DefaultSigningKey, for local
	// development and tests only.
	AllowInsecureKey bool `env:"AUTH_ALLOW_INSECURE_KEY" envDefault:"false"`
}

var _ Config = (*EnvConfig)(nil)

// ParseEnvConfig loads configuration from environment variables.
func ParseEnvConfig() (*EnvConfig, error) {
	cfg := &EnvConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse auth config from environment")
	}

	if cfg.SigningKey == "" {
		cfg.SigningKey = DefaultSigningKey
	}

	if cfg.SigningKey == DefaultSigningKey && !cfg.AllowInsecureKey {
		return nil, goerrors.New("AUTH_SIGNING_KEY is still the insecure default", goerrors.CategoryBadInput).
			WithCode(goerrors.CodeBadRequest)
	}

	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = DefaultTokenTTL
	}

	return cfg, nil
}

func (c *EnvConfig) GetSigningKey() string {
	return c.SigningKey
}

func (c *EnvConfig) GetTokenTTL() time.Duration {
	return c.TokenTTL
}

func (c *EnvConfig) GetIssuer() string {
	return c.Issuer
}

func (c *EnvConfig) GetContextKey() string {
	if c.ContextKey == "" {
		return "current_user"
	}
	return c.ContextKey
}

func (c *EnvConfig) GetAuthScheme() string {
	if c.AuthScheme == "" {
		return "Bearer"
	}
	return c.AuthScheme
}
