package datastore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tphakala/habitwheel/internal/errors"
	"github.com/tphakala/habitwheel/internal/logging"
)

const (
	// DefaultSlowQueryThreshold defines the duration after which a query is
	// considered slow. Migration batch queries can take several hundred
	// milliseconds, so anything under a second is treated as normal.
	DefaultSlowQueryThreshold = 1 * time.Second
)

// createGormLogger configures and returns a GORM logger backed by slog.
func createGormLogger(debug bool) gormlogger.Interface {
	level := gormlogger.Warn
	if debug {
		level = gormlogger.Info
	}
	return &slogGormLogger{
		logger:        logging.ForService("datastore"),
		level:         level,
		slowThreshold: DefaultSlowQueryThreshold,
	}
}

// slogGormLogger adapts slog to GORM's logger interface.
type slogGormLogger struct {
	logger        *slog.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

func (l *slogGormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *slogGormLogger) Info(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Info {
		l.logger.InfoContext(ctx, fmt.Sprintf(msg, args...))
	}
}

func (l *slogGormLogger) Warn(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Warn {
		l.logger.WarnContext(ctx, fmt.Sprintf(msg, args...))
	}
}

func (l *slogGormLogger) Error(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Error {
		l.logger.ErrorContext(ctx, fmt.Sprintf(msg, args...))
	}
}

func (l *slogGormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	switch {
	case err != nil && l.level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		l.logger.ErrorContext(ctx, "query failed",
			"error", err, "elapsed", elapsed, "rows", rows, "sql", sql)
	case elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		l.logger.WarnContext(ctx, "slow query",
			"elapsed", elapsed, "threshold", l.slowThreshold, "rows", rows, "sql", sql)
	case l.level >= gormlogger.Info:
		l.logger.DebugContext(ctx, "query",
			"elapsed", elapsed, "rows", rows, "sql", sql)
	}
}

// performAutoMigration automates database migrations with error handling.
func performAutoMigration(db *gorm.DB, debug bool, dbType, connectionInfo string) error {
	if err := db.AutoMigrate(
		&Person{},
		&TrackerType{},
		&Tracker{},
		&Category{},
		&Round{},
		&RoundCategory{},
		&Entry{},
		&WeightEntry{},
		&AppSettings{},
	); err != nil {
		return fmt.Errorf("failed to auto-migrate %s database: %w", dbType, err)
	}

	if debug {
		logging.ForService("datastore").Debug("database migration completed",
			"type", dbType, "connection", connectionInfo)
	}

	return nil
}
