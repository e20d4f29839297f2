// Package migration applies the embedded schema migrations with golang-migrate.
package migration

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/hashicorp/go-hclog"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrator wraps a golang-migrate instance bound to the embedded migrations.
type Migrator struct {
	m      *migrate.Migrate
	logger hclog.Logger
}

// New prepares a migrator on its own connection to dsn, separate from the
// application pool. Callers must Close it.
func New(dsn string, logger hclog.Logger) (*Migrator, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	logger = logger.Named("migration")

	dbURL, err := databaseURL(dsn)
	if err != nil {
		return nil, err
	}
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to load migration source: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dbURL)
	if err != nil {
		_ = src.Close()
		return nil, fmt.Errorf("failed to create migration instance: %w", err)
	}
	m.Log = &logAdapter{logger: logger}

	return &Migrator{m: m, logger: logger}, nil
}

// databaseURL points a postgres DSN at the pgx/v5 migrate driver.
func databaseURL(dsn string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid database url: %w", err)
	}
	switch u.Scheme {
	case "postgres", "postgresql", "pgx5":
	default:
		return "", fmt.Errorf("unsupported database url scheme %q", u.Scheme)
	}
	u.Scheme = "pgx5"
	return u.String(), nil
}

// Close releases the source and the migration connection.
func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	return errors.Join(srcErr, dbErr)
}

// Up applies every pending migration. An up-to-date schema is not an error.
func (mg *Migrator) Up(ctx context.Context) error {
	return mg.run(ctx, "up", mg.m.Up)
}

// Down reverts the given number of migrations.
func (mg *Migrator) Down(ctx context.Context, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", steps)
	}
	return mg.run(ctx, "down", func() error { return mg.m.Steps(-steps) })
}

// Version reports the applied version. A fresh database yields version 0.
func (mg *Migrator) Version() (version uint, dirty bool, err error) {
	version, dirty, err = mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

func (mg *Migrator) run(ctx context.Context, direction string, fn func() error) error {
	start := time.Now()
	mg.logger.Info("db migration starting", "direction", direction)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			mg.m.GracefulStop <- true
		case <-done:
		}
	}()

	if err := fn(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			mg.logger.Info("db migration skipped, schema is up to date",
				"direction", direction,
				"duration_ms", time.Since(start).Milliseconds())
			return nil
		}
		mg.logger.Error("db migration failed",
			"direction", direction,
			"error", err,
			"duration_ms", time.Since(start).Milliseconds())
		return fmt.Errorf("migration %s failed: %w", direction, err)
	}

	version, dirty, _ := mg.Version()
	mg.logger.Info("db migration finished",
		"direction", direction,
		"version", version,
		"dirty", dirty,
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

// EnsureMigrated brings the schema at dsn up to date and closes its connection.
func EnsureMigrated(ctx context.Context, dsn string, logger hclog.Logger) (err error) {
	mg, err := New(dsn, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := mg.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close migrator: %w", cerr)
		}
	}()
	return mg.Up(ctx)
}

type logAdapter struct {
	logger hclog.Logger
}

func (l *logAdapter) Printf(format string, v ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l *logAdapter) Verbose() bool {
	return l.logger.IsDebug()
}
