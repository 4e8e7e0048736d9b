package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/exilewatch/exilewatch/internal/core"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options configures the database connection pool.
type Options struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Open connects to PostgreSQL and configures the connection pool. A failure
// here is fatal at startup; callers should not retry.
func Open(opts Options) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(opts.DSN), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting underlying sql.DB: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

// Migrate ensures the leagues table and the three snapshot tables exist with
// their indexes.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&League{},
		&CurrencySnapshot{},
		&CardSnapshot{},
		&ItemSnapshot{},
	)
}

// HasSnapshots reports whether any snapshot rows exist for the league in the
// given category's table. Backfill uses this to skip already-seeded leagues.
func HasSnapshots(ctx context.Context, db *gorm.DB, category core.Category, leagueID uint) (bool, error) {
	var count int64
	q := db.WithContext(ctx)

	var err error
	switch category {
	case core.CategoryCurrency:
		err = q.Model(&CurrencySnapshot{}).Where("league_id = ?", leagueID).Limit(1).Count(&count).Error
	case core.CategoryCards:
		err = q.Model(&CardSnapshot{}).Where("league_id = ?", leagueID).Limit(1).Count(&count).Error
	case core.CategoryItems:
		err = q.Model(&ItemSnapshot{}).Where("league_id = ?", leagueID).Limit(1).Count(&count).Error
	default:
		return false, fmt.Errorf("unknown category: %s", category)
	}
	if err != nil {
		return false, core.WrapError(core.ErrStorage, err)
	}
	return count > 0, nil
}
