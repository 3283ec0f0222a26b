package storage

import (
	"errors"
	"strings"

	"github.com/julianstephens/pillars/internal/storage/postgres"
	"github.com/julianstephens/pillars/internal/storage/sqlite"
)

// Migrator is implemented by providers that can apply schema migrations on demand.
type Migrator interface {
	Migrate(logFn func(string)) (int, error)
}

// IsPostgres reports whether config names a PostgreSQL database rather than a SQLite file.
func IsPostgres(config string) bool {
	return strings.HasPrefix(config, "postgres://") || strings.HasPrefix(config, "postgresql://")
}

// HasEmbeddedCredentials reports whether a PostgreSQL connection string carries a password.
func HasEmbeddedCredentials(connStr string) bool {
	ok, err := postgres.ValidateConnString(connStr)
	return !ok && errors.Is(err, postgres.ErrEmbeddedCredentials)
}

// New returns the provider for config: a PostgreSQL connection string or a SQLite path.
func New(config string) Provider {
	if IsPostgres(config) {
		return postgres.New(config)
	}
	return sqlite.NewStore(config)
}

var (
	_ Provider = (*sqlite.Store)(nil)
	_ Provider = (*postgres.Store)(nil)
	_ Migrator = (*sqlite.Store)(nil)
	_ Migrator = (*postgres.Store)(nil)
)
