package auth

import (
	"context"
	"database/sql"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// RepositoryManager exposes all repositories
type RepositoryManager interface {
	Users() Users
	RunInTx(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, tx bun.Tx) error) error
	Migrate(ctx context.Context) error
}

type mngr struct {
	db    *bun.DB
	users Users
}

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:    db,
		users: NewUsersRepository(db),
	}
}

func (m *mngr) Users() Users {
	return m.users
}

func (m *mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, tx bun.Tx) error) error {
	return m.db.RunInTx(ctx, opts, fn)
}

// Migrate applies the embedded schema migrations. Statements run one at a
// time since not every driver executes multi-statement scripts.
func (m *mngr) Migrate(ctx context.Context) error {
	entries, err := migrationsFS.ReadDir("data/sql/migrations")
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read embedded migrations")
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		script, err := migrationsFS.ReadFile("data/sql/migrations/" + entry.Name())
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read migration "+entry.Name())
		}

		for _, stmt := range splitStatements(string(script)) {
			if _, err := m.db.ExecContext(ctx, stmt); err != nil {
				return goerrors.Wrap(err, goerrors.CategoryInternal, "migration "+entry.Name()+" failed")
			}
		}
	}

	return nil
}

func splitStatements(script string) []string {
	parts := strings.Split(script, ";")
	stmts := make([]string, 0, len(parts))
	for _, part := range parts {
		if stmt := strings.TrimSpace(part); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}
