package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// ErrUserNotFound is returned by lookups that match no visible record.
var ErrUserNotFound = goerrors.New("user not found", goerrors.CategoryNotFound).
	WithCode(goerrors.CodeNotFound)

// Users is the store contract the auth service consumes. Soft-deleted
// records are invisible to every lookup except GetByIDUnscoped.
type Users interface {
	// GetByEmail finds a non-deleted, active user by email.
	GetByEmail(ctx context.Context, email string) (*User, error)
	// GetByEmailTx is GetByEmail running against an open transaction.
	// Lookups inside RunInTx must use it; the pool may have no free
	// connection while the transaction is open.
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error)
	// GetByID finds a non-deleted user by ID regardless of active flag.
	GetByID(ctx context.Context, id int64) (*User, error)
	// GetActiveByID finds a non-deleted, active user by ID.
	GetActiveByID(ctx context.Context, id int64) (*User, error)
	// GetByIDUnscoped finds a user by ID including soft-deleted records.
	GetByIDUnscoped(ctx context.Context, id int64) (*User, error)

	Create(ctx context.Context, record *User) (*User, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *User) (*User, error)

	// SoftDelete marks the record logically removed. The row stays behind
	// so the email can be claimed again by a later registration.
	SoftDelete(ctx context.Context, id int64) error
}

type users struct {
	db *bun.DB
}

var _ Users = (*users)(nil)

func NewUsersRepository(db *bun.DB) Users {
	return &users{db: db}
}

func (a *users) GetByEmail(ctx context.Context, email string) (*User, error) {
	return a.getByEmail(ctx, a.db, email)
}

func (a *users) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error) {
	return a.getByEmail(ctx, tx, email)
}

func (a *users) getByEmail(ctx context.Context, idb bun.IDB, email string) (*User, error) {
	record := &User{}
	err := idb.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", email).
		Where("?TableAlias.is_active = ?", true).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, a.mapLookupError(err, map[string]any{"email": email})
	}

	return record, nil
}

func (a *users) GetByID(ctx context.Context, id int64) (*User, error) {
	record := &User{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, a.mapLookupError(err, map[string]any{"id": id})
	}

	return record, nil
}

func (a *users) GetActiveByID(ctx context.Context, id int64) (*User, error) {
	record := &User{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.is_active = ?", true).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, a.mapLookupError(err, map[string]any{"id": id})
	}

	return record, nil
}

func (a *users) GetByIDUnscoped(ctx context.Context, id int64) (*User, error) {
	record := &User{}
	err := a.db.NewSelect().
		Model(record).
		WhereAllWithDeleted().
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, a.mapLookupError(err, map[string]any{"id": id})
	}

	return record, nil
}

func (a *users) Create(ctx context.Context, record *User) (*User, error) {
	return a.CreateTx(ctx, a.db, record)
}

func (a *users) CreateTx(ctx context.Context, tx bun.IDB, record *User) (*User, error) {
	prepareUserDefaults(record)

	if _, err := tx.NewInsert().Model(record).Returning("*").Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist user")
	}

	return record, nil
}

func (a *users) SoftDelete(ctx context.Context, id int64) error {
	res, err := a.db.NewDelete().
		Model((*User)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete user")
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (a *users) mapLookupError(err error, meta map[string]any) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return goerrors.New("user not found", goerrors.CategoryNotFound).
			WithCode(goerrors.CodeNotFound).
			WithMetadata(meta)
	}
	return goerrors.Wrap(err, goerrors.CategoryInternal, "user lookup failed")
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}

	now := time.Now()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = now
	}
}

// isUniqueViolation detects unique-index conflicts across the supported
// drivers (sqlite and postgres phrase the error differently).
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "constraint failed: users.email")
}
