package main

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	web "runclub/internal/adapters/http"
	"runclub/internal/adapters/http/perf"
	"runclub/internal/adapters/storage"
	attendanceStore "runclub/internal/adapters/storage/attendance"
	memberStore "runclub/internal/adapters/storage/member"
	missionStore "runclub/internal/adapters/storage/mission"
	recordStore "runclub/internal/adapters/storage/record"
	"runclub/internal/config"
	"runclub/internal/logger"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

var (
	configFile string
	cfg        *config.Config
	logCloser  io.Closer
)

var rootCmd = &cobra.Command{
	Use:           "runclub",
	Short:         "Running club administration",
	Long:          "Runclub tracks members, running records and weekly team missions.",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(configFile)
		if err != nil {
			return err
		}
		cfg = c
		logCloser = logger.Init(cfg.Log)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			logCloser.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML config file (default: first of "+fmt.Sprint(config.DefaultPaths)+")")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openDB opens and migrates the configured database.
func openDB() (*sql.DB, error) {
	db, err := storage.Open(cfg.Database.Path, cfg.Database.MaxConns)
	if err != nil {
		return nil, err
	}
	if err := storage.MigrateDB(db, cfg.Database.Path); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, nil
}

// newStores builds every store over db, timing queries when collector is set.
func newStores(db *sql.DB, collector *perf.Collector) *web.Stores {
	var conn storage.SQLDB = db
	if collector != nil {
		conn = storage.NewTimedDB(db, collector, time.Duration(cfg.Database.SlowQueryMS)*time.Millisecond)
	}
	return &web.Stores{
		MemberStore:     memberStore.NewSQLiteStore(conn),
		RecordStore:     recordStore.NewSQLiteStore(conn),
		MissionStore:    missionStore.NewSQLiteStore(conn),
		AttendanceStore: attendanceStore.NewSQLiteStore(conn),
	}
}
