package auth

import (
	"strconv"
	"time"

	"github.com/uptrace/bun"
)

// User is the user model. Email uniqueness is enforced by a partial unique
// index that only covers non-deleted rows, so an address can be registered
// again after the previous account was soft deleted.
type User struct {
	bun.BaseModel  `bun:"table:users,alias:usr"`
	ID             int64      `bun:"id,pk,autoincrement" json:"id,omitempty"`
	Email          string     `bun:"email,notnull" json:"email,omitempty"`
	HashedPassword string     `bun:"hashed_password,notnull" json:"-"`
	FullName       string     `bun:"full_name,notnull" json:"full_name,omitempty"`
	IsActive       bool       `bun:"is_active,notnull" json:"is_active"`
	IsSuperuser    bool       `bun:"is_superuser,notnull" json:"is_superuser"`
	CreatedAt      time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt      *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// Subject returns the user ID in the form embedded in token claims.
func (u *User) Subject() string {
	return strconv.FormatInt(u.ID, 10)
}

// IsDeleted reports whether the record has been soft deleted.
func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil && !u.DeletedAt.IsZero()
}

// Token is the credential pair returned to callers after a successful login.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// TokenTypeBearer is the only token type we issue.
const TokenTypeBearer = "bearer"
