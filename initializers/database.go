package initializers

import (
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/lib/pq"
)

// OpenDatabase opens the postgres pool and returns a goqu handle. The
// handle is opened once at startup and passed into the stores; nothing
// in this codebase reaches for a package-level connection.
func OpenDatabase(dsn string) (*goqu.Database, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return goqu.New("postgres", db), nil
}
