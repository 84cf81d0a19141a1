package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

const (
	databaseURLFlag   = "database-url"
	migrationPathFlag = "migrations-path"
	downFlag          = "down"
)

func main() {
	_ = godotenv.Load()

	databaseURL := pflag.StringP(databaseURLFlag, "d", os.Getenv("DATABASE_URL"), "postgres connection URL")
	migrationsPath := pflag.StringP(migrationPathFlag, "m", "migrations", "directory with migration files")
	down := pflag.Int(downFlag, 0, "roll back this many migrations instead of applying")
	pflag.Parse()

	if *databaseURL == "" {
		slog.Error("too few args", "err", fmt.Errorf("--%s flag or DATABASE_URL: required", databaseURLFlag))
		os.Exit(2)
	}

	m, err := migrate.New(
		"file://"+*migrationsPath,
		toMigrateURL(*databaseURL),
	)
	if err != nil {
		slog.Error("failed to init migrations", "err", err)
		os.Exit(2)
	}
	m.Log = &migrationLogger{logger: slog.Default()}

	if *down > 0 {
		err = m.Steps(-*down)
	} else {
		err = m.Up()
	}
	if err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.Log.Printf("no migrations to apply")
			return
		}
		slog.Error("failed to migrate", "err", err)
		os.Exit(2)
	}
	m.Log.Printf("migrations applied")
}

// toMigrateURL swaps the postgres scheme for the pgx v5 driver's.
func toMigrateURL(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(dsn, prefix); ok {
			return "pgx5://" + rest
		}
	}
	return dsn
}

type migrationLogger struct {
	logger *slog.Logger
}

func (ml *migrationLogger) Printf(format string, v ...any) {
	ml.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (ml *migrationLogger) Verbose() bool {
	return true
}
