// Package catalog defines the library catalog: genres, languages, authors,
// books and the physical copies of books that can be lent out.
//
// Entities are plain structs. Their table layout, default ordering,
// relations and on-delete policies are declared as model.Schema values in
// schema.go, and Store performs validated writes and relation-aware reads
// against a sqlite or postgres database.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a record with the requested key does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrValidation wraps field constraint violations found before a write.
	ErrValidation = errors.New("validation failed")
	// ErrUnknownDialect is returned by DialectFor for unsupported drivers.
	ErrUnknownDialect = errors.New("unknown dialect")
)

// Dialect captures what differs between the supported databases.
type Dialect struct {
	// Driver is the database/sql driver name.
	Driver string

	goose       string
	placeholder squirrel.PlaceholderFormat
	uuid        func(uuid.UUID) string
}

var (
	SQLite = Dialect{
		Driver:      "sqlite3",
		goose:       "sqlite3",
		placeholder: squirrel.Question,
		uuid:        hexUUID,
	}
	Postgres = Dialect{
		Driver:      "pgx",
		goose:       "postgres",
		placeholder: squirrel.Dollar,
		uuid:        uuid.UUID.String,
	}
)

func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case SQLite.Driver, "sqlite":
		return SQLite, nil
	case Postgres.Driver, "postgres":
		return Postgres, nil
	default:
		return Dialect{}, fmt.Errorf("%w: %q", ErrUnknownDialect, driver)
	}
}

// sqlite keeps uuids as 32 hex characters without dashes.
func hexUUID(id uuid.UUID) string {
	return strings.ReplaceAll(id.String(), "-", "")
}
