package catalog

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*/*.sql
var migrations embed.FS

// goose keeps its dialect and filesystem in package state.
var gooseMu sync.Mutex

// Migrate brings the schema up to date.
func (s *Store) Migrate(ctx context.Context) error {
	return s.runGoose(func() error {
		return goose.UpContext(ctx, s.db, s.migrationsDir())
	})
}

// MigrateDown rolls back every migration.
func (s *Store) MigrateDown(ctx context.Context) error {
	return s.runGoose(func() error {
		return goose.ResetContext(ctx, s.db, s.migrationsDir())
	})
}

func (s *Store) migrationsDir() string {
	return path.Join("migrations", s.dialect.goose)
}

func (s *Store) runGoose(fn func() error) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{slog.Default().With("component", "migrate")})
	if err := goose.SetDialect(s.dialect.goose); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if err := fn(); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	return nil
}

type gooseLogger struct {
	*slog.Logger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
	os.Exit(1)
}
