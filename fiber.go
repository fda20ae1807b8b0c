package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
)

// DefaultContextKey is where the resolved user is stored in request locals.
const DefaultContextKey = "current_user"

// ResolverConfig wires the request-time identity resolution pipeline.
type ResolverConfig struct {
	TokenService TokenService
	Users        Users
	// ContextKey is the locals key for the resolved *User. Defaults to
	// DefaultContextKey.
	ContextKey string
	// AuthScheme defaults to "Bearer".
	AuthScheme string
	// Filter skips the middleware when it returns true.
	Filter func(*fiber.Ctx) bool
	// ErrorHandler renders resolution failures. Defaults to ErrorHandler.
	ErrorHandler func(*fiber.Ctx, error) error
	Logger       Logger
}

func (cfg ResolverConfig) withDefaults() ResolverConfig {
	if cfg.TokenService == nil {
		panic("AUTH: resolver configuration: TokenService is required.")
	}
	if cfg.Users == nil {
		panic("AUTH: resolver configuration: Users is required.")
	}
	if cfg.ContextKey == "" {
		cfg.ContextKey = DefaultContextKey
	}
	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = ErrorHandler
	}
	if cfg.Logger == nil {
		cfg.Logger = defLogger{}
	}
	return cfg
}

// Protected returns middleware that runs the identity resolution pipeline:
// extract the bearer token, validate it, parse the subject, and look up a
// live active user. The resolved *User is attached to request locals for
// downstream handlers and guards.
func Protected(config ResolverConfig) fiber.Handler {
	cfg := config.withDefaults()

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		raw, err := TokenFromHeader(c, cfg.AuthScheme)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		claims, err := cfg.TokenService.Validate(raw)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		id, err := claims.UserID()
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		user, err := cfg.Users.GetActiveByID(c.UserContext(), id)
		if err != nil {
			if goerrors.IsNotFound(err) {
				return cfg.ErrorHandler(c, ErrUnauthenticated)
			}
			cfg.Logger.Error("identity resolution lookup failed", "error", err)
			return cfg.ErrorHandler(c, err)
		}

		c.Locals(cfg.ContextKey, user)
		return c.Next()
	}
}

// RequireActiveUser re-checks the active flag on the resolved user. The flag
// can flip between token issuance and use, so protected handlers that mutate
// state stack this guard behind Protected.
func RequireActiveUser(contextKey ...string) fiber.Handler {
	key := DefaultContextKey
	if len(contextKey) > 0 && contextKey[0] != "" {
		key = contextKey[0]
	}

	return func(c *fiber.Ctx) error {
		user, err := CurrentUser(c, key)
		if err != nil {
			return ErrorHandler(c, err)
		}
		if !user.IsActive {
			return ErrorHandler(c, ErrInactiveUser)
		}
		return c.Next()
	}
}

// RequireSuperuser gates administrative routes on the is_superuser flag.
func RequireSuperuser(contextKey ...string) fiber.Handler {
	key := DefaultContextKey
	if len(contextKey) > 0 && contextKey[0] != "" {
		key = contextKey[0]
	}

	return func(c *fiber.Ctx) error {
		user, err := CurrentUser(c, key)
		if err != nil {
			return ErrorHandler(c, err)
		}
		if !user.IsSuperuser {
			return ErrorHandler(c, goerrors.New("not enough privileges", goerrors.CategoryAuthz).
				WithCode(goerrors.CodeForbidden))
		}
		return c.Next()
	}
}

// CurrentUser returns the resolved user attached by Protected.
func CurrentUser(c *fiber.Ctx, contextKey ...string) (*User, error) {
	key := DefaultContextKey
	if len(contextKey) > 0 && contextKey[0] != "" {
		key = contextKey[0]
	}

	user, ok := c.Locals(key).(*User)
	if !ok || user == nil {
		return nil, ErrUnauthenticated
	}
	return user, nil
}

// TokenFromHeader extracts the raw token from the Authorization header.
// A missing header or a scheme mismatch is a hard failure.
func TokenFromHeader(c *fiber.Ctx, authScheme string) (string, error) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", ErrTokenInvalid
	}

	prefix := authScheme + " "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", ErrTokenInvalid
	}

	raw := strings.TrimSpace(header[len(prefix):])
	if raw == "" {
		return "", ErrTokenInvalid
	}

	return raw, nil
}
