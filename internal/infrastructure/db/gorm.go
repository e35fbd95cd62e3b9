package db

import (
	"context"
	"fmt"
	"time"

	"opticash-backend/internal/config"
	"opticash-backend/internal/domain/category"
	"opticash-backend/internal/domain/ledger"
	"opticash-backend/internal/domain/loan"
	"opticash-backend/internal/domain/payment"
	"opticash-backend/internal/domain/user"
	applog "opticash-backend/pkg/logger"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options tunes the pool and the SQL logger.
type Options struct {
	LogSQL          bool
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

func defaultOptions() Options {
	return Options{
		MaxOpenConns:    30,
		MaxIdleConns:    10,
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 10 * time.Minute,
	}
}

// OpenGorm connects to the store selected by cfg.DBDriver.
func OpenGorm(cfg *config.Config) (*gorm.DB, error) {
	opts := defaultOptions()
	opts.LogSQL = cfg.DBLogSQL

	var dial gorm.Dialector
	switch cfg.DBDriver {
	case config.DriverSQLite:
		dial = sqlite.Open(cfg.SQLitePath)
		// a single writer avoids SQLITE_BUSY under concurrent requests
		opts.MaxOpenConns = 1
		opts.MaxIdleConns = 1
	default:
		dial = mysql.Open(cfg.MySQLDSN())
	}
	return OpenGormWithDialector(dial, opts)
}

func OpenGormWithDialector(dial gorm.Dialector, opts ...Options) (*gorm.DB, error) {
	o := defaultOptions()
	if len(opts) > 0 {
		o = opts[0]
	}

	zl := applog.Get()
	level := logger.Warn
	if o.LogSQL {
		level = logger.Info
	}
	gcfg := &gorm.Config{
		Logger: logger.New(zl, logger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
		NowFunc:              func() time.Time { return time.Now().UTC() },
		DisableAutomaticPing: true,
		TranslateError:       true,
	}
	db, err := gorm.Open(dial, gcfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if o.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(o.MaxOpenConns)
	}
	if o.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(o.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(o.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(o.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	zl.Info().Str("dialect", dial.Name()).Msg("gorm: connected")
	return db, nil
}

// Models lists every persisted entity in dependency order.
func Models() []any {
	return []any{
		&user.User{},
		&user.Credential{},
		&category.Category{},
		&loan.Loan{},
		&loan.Installment{},
		&payment.Payment{},
		&payment.LineItem{},
		&ledger.Income{},
		&ledger.Expense{},
	}
}

func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Ping reports whether the store answers within ctx.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
