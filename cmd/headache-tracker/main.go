// Command headache-tracker runs the headache diary API and the maintenance
// commands that operate on the same database.
//
// @title       Headache Tracker API
// @version     1.0
// @description Headache diary and medication tracker.
// @BasePath    /api
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/tbourn/headache-tracker/internal/config"
	"github.com/tbourn/headache-tracker/internal/repo"
	"github.com/tbourn/headache-tracker/internal/sysutil"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// dbTarget is the --db flag: a SQLite path or a Postgres DSN depending on
// DB_DRIVER.
var dbTarget string

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "headache-tracker",
		Short:        "Headache diary and medication tracker",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// A missing .env is normal outside local development.
			_ = godotenv.Load()
			return nil
		},
	}
	root.PersistentFlags().StringVar(&dbTarget, "db", "", "database file (sqlite) or DSN (postgres); overrides DB_PATH / DATABASE_URL")

	root.AddCommand(serveCmd())
	root.AddCommand(migrateCmd())
	root.AddCommand(importCmd())
	root.AddCommand(exportCmd())
	root.AddCommand(versionCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "headache-tracker %s\n", version)
		},
	}
}

// app is what every command needs once configuration is loaded: the
// validated config, a logger and a migrated database handle.
type app struct {
	cfg config.Config
	db  *gorm.DB
	log zerolog.Logger
}

// bootstrap loads configuration, installs the global logger writing to
// logOut and opens the configured database, migrating the schema.
func bootstrap(logOut io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	l := sysutil.InitLogger(logOut, cfg.LogLevel, cfg.LogPretty)

	target := cfg.DBPath
	if cfg.DBDriver == config.DriverPostgres {
		target = cfg.DatabaseURL
	}
	target = sysutil.FirstNonEmpty(dbTarget, target)

	db, err := repo.Open(cfg.DBDriver, target)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.DBDriver, err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		closeDB(db)
		return nil, fmt.Errorf("migrate: %w", err)
	}
	l.Debug().Str("driver", cfg.DBDriver).Msg("database ready")
	return &app{cfg: cfg, db: db, log: l}, nil
}

func (a *app) Close() {
	closeDB(a.db)
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
