package repository

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"taskboard/internal/config"
	"taskboard/internal/logger"
	"taskboard/internal/model"
)

// Open connects to the configured database and migrates the schema. The
// caller owns the returned handle and must Close it on shutdown.
func Open(cfg *config.Config, log *logger.Logger) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	switch cfg.DBDriver {
	case "postgres":
		db, err = gorm.Open(postgres.Open(cfg.PostgresDSN()), gormConfig(log))
	case "sqlite":
		if !strings.HasPrefix(cfg.SQLitePath, "file:") {
			if mkErr := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); mkErr != nil {
				return nil, fmt.Errorf("create sqlite directory: %w", mkErr)
			}
		}
		db, err = OpenSQLite(cfg.SQLitePath+"?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL", log)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}
	log.Infow("database_connected", "driver", cfg.DBDriver)

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	log.Infow("database_migrated")
	return db, nil
}

// OpenSQLite opens a sqlite database limited to a single connection, which
// makes the sqlite write lock the serialization point for every transaction.
func OpenSQLite(dsn string, log *logger.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig(log))
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Task{},
		&model.Label{},
		&model.Assignee{},
		&model.TaskLabel{},
		&model.TaskAssignee{},
		&model.TaskHistory{},
	)
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// gormWriter routes gorm's own log lines through zap.
type gormWriter struct {
	log *logger.Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.Warnf(format, args...)
}

func gormConfig(log *logger.Logger) *gorm.Config {
	return &gorm.Config{
		Logger: gormlogger.New(gormWriter{log: log.Named("gorm")}, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}
}
