package history

import (
	"strings"

	"github.com/devwithfarshi/ai-playground/internal/history/postgres"
	"github.com/devwithfarshi/ai-playground/internal/history/sqlite"
)

// IsPostgresDSN reports whether location names a PostgreSQL database rather
// than a SQLite file.
func IsPostgresDSN(location string) bool {
	l := strings.ToLower(strings.TrimSpace(location))
	return strings.HasPrefix(l, "postgres://") || strings.HasPrefix(l, "postgresql://")
}

// Open returns a Store for location: a postgres:// DSN selects PostgreSQL,
// anything else is a SQLite file path.
func Open(location string, logger Logger) (Store, error) {
	location = strings.TrimSpace(location)
	if IsPostgresDSN(location) {
		kv, err := postgres.New(location, 0, 0, 0, 0)
		if err != nil {
			return nil, err
		}
		return NewKVStore(kv, logger), nil
	}
	kv, err := sqlite.New(location)
	if err != nil {
		return nil, err
	}
	return NewKVStore(kv, logger), nil
}
