package auth_test

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	auth "github.com/platziflix/go-auth"
)

// quietLogger swallows log output so tests stay readable.
type quietLogger struct{}

func (quietLogger) Debug(format string, args ...any) {}
func (quietLogger) Info(format string, args ...any)  {}
func (quietLogger) Error(format string, args ...any) {}

type testConfig struct {
	signingKey string
	tokenTTL   time.Duration
}

func (c testConfig) GetSigningKey() string { return c.signingKey }

func (c testConfig) GetTokenTTL() time.Duration { return c.tokenTTL }

func (c testConfig) GetIssuer() string { return "go-auth-test" }

func (c testConfig) GetContextKey() string { return auth.DefaultContextKey }

func (c testConfig) GetAuthScheme() string { return "Bearer" }

func newTestConfig() testConfig {
	return testConfig{
		signingKey: "test-signing-key-not-for-production",
		tokenTTL:   30 * time.Minute,
	}
}

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())

	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	return db
}

func newTestRepo(t *testing.T) auth.RepositoryManager {
	t.Helper()

	repo := auth.NewRepositoryManager(newTestDB(t))
	require.NoError(t, repo.Migrate(context.Background()))

	return repo
}

func newTestAuther(t *testing.T) (*auth.Auther, auth.RepositoryManager) {
	t.Helper()

	repo := newTestRepo(t)
	auther := auth.NewAuthenticator(repo, newTestConfig()).WithLogger(quietLogger{})

	return auther, repo
}
