package auth

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// Auther orchestrates registration, login, and token issuance. It keeps no
// mutable state beyond the configuration captured at construction time.
type Auther struct {
	repo         RepositoryManager
	tokenService TokenService
	logger       Logger
}

var _ Authenticator = (*Auther)(nil)

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(repo RepositoryManager, cfg Config) *Auther {
	tokenService := NewTokenService(
		[]byte(cfg.GetSigningKey()),
		cfg.GetTokenTTL(),
		cfg.GetIssuer(),
		defLogger{},
	)

	return &Auther{
		repo:         repo,
		logger:       defLogger{},
		tokenService: tokenService,
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = logger
	// Update the TokenService logger as well. A service injected via
	// WithTokenService is left alone; it carries its own logger.
	if ts, ok := s.tokenService.(*TokenServiceImpl); ok {
		ts.logger = logger
	}
	return s
}

// WithTokenService sets a custom token service, mainly for tests.
func (s *Auther) WithTokenService(ts TokenService) *Auther {
	s.tokenService = ts
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// RegisterUser hashes the password and persists a new active, non-superuser
// account. The insert runs in a transaction; a concurrent registration for
// the same email loses against the unique index and surfaces as
// ErrDuplicateEmail.
func (s *Auther) RegisterUser(ctx context.Context, email, password, fullName string) (*User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	user := &User{
		Email:          email,
		HashedPassword: hash,
		FullName:       fullName,
		IsActive:       true,
		IsSuperuser:    false,
	}

	err = s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := s.repo.Users().GetByEmailTx(ctx, tx, email); err == nil {
			return ErrDuplicateEmail
		} else if !goerrors.IsNotFound(err) {
			return err
		}

		created, err := s.repo.Users().CreateTx(ctx, tx, user)
		if err != nil {
			return err
		}

		user = created
		return nil
	})

	if err != nil {
		if IsDuplicateEmailError(err) {
			s.logger.Info("RegisterUser rejected duplicate email")
			return nil, ErrDuplicateEmail
		}
		s.logger.Error("RegisterUser failed", "error", err)
		return nil, err
	}

	return user, nil
}

// Login verifies credentials against the stored digest. Unknown email and
// wrong password return the same ErrInvalidCredentials so callers cannot
// tell whether the address is registered.
func (s *Auther) Login(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.Users().GetByEmail(ctx, email)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("Login user lookup failed", "error", err)
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user during verification")
	}

	if err := ComparePasswordAndHash(password, user.HashedPassword); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// IssueToken mints a bearer token for the given user.
func (s *Auther) IssueToken(user *User) (Token, error) {
	raw, err := s.tokenService.Generate(user)
	if err != nil {
		s.logger.Error("IssueToken failed", "error", err)
		return Token{}, err
	}

	return Token{
		AccessToken: raw,
		TokenType:   TokenTypeBearer,
	}, nil
}

// LoginToken combines Login and IssueToken for callers that only need the
// resulting bearer token.
func (s *Auther) LoginToken(ctx context.Context, email, password string) (Token, error) {
	user, err := s.Login(ctx, email, password)
	if err != nil {
		return Token{}, err
	}
	return s.IssueToken(user)
}

// GetUserByID returns a non-deleted user regardless of active status.
func (s *Auther) GetUserByID(ctx context.Context, id int64) (*User, error) {
	return s.repo.Users().GetByID(ctx, id)
}
