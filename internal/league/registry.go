package league

import (
	"context"
	"errors"
	"time"

	"github.com/exilewatch/exilewatch/internal/core"
	"github.com/exilewatch/exilewatch/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Registry is the single source of truth for which leagues exist and which
// are active. It exclusively owns league identity and status; snapshots must
// only ever be written against a league the registry has already created.
type Registry struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewRegistry creates a league registry backed by the given database.
func NewRegistry(db *gorm.DB, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{db: db, log: log}
}

// Get returns the league by name, or core.ErrLeagueNotFound.
func (r *Registry) Get(ctx context.Context, name string) (storage.League, error) {
	var lg storage.League
	err := r.db.WithContext(ctx).Where("league_name = ?", name).First(&lg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return storage.League{}, core.ErrLeagueNotFound
	}
	if err != nil {
		return storage.League{}, core.WrapError(core.ErrStorage, err)
	}
	return lg, nil
}

// Ensure returns the league named name, creating it with status Active if it
// does not exist yet. Idempotent: a concurrent or repeated create hitting the
// unique-name constraint is treated as "already exists" and re-read.
func (r *Registry) Ensure(ctx context.Context, name string, startDate time.Time, permanent bool) (storage.League, error) {
	return r.ensure(ctx, name, startDate, core.StatusActive, permanent)
}

// EnsureExpired is the backfill variant of Ensure: an unknown league is
// created already Expired, and no other league's status is touched.
func (r *Registry) EnsureExpired(ctx context.Context, name string) (storage.League, error) {
	return r.ensure(ctx, name, time.Now().UTC(), core.StatusExpired, false)
}

func (r *Registry) ensure(ctx context.Context, name string, startDate time.Time, status core.LeagueStatus, permanent bool) (storage.League, error) {
	lg, err := r.Get(ctx, name)
	if err == nil {
		return lg, nil
	}
	if !errors.Is(err, core.ErrLeagueNotFound) {
		return storage.League{}, err
	}

	lg = storage.League{
		Name:      name,
		Status:    status,
		StartDate: startDate,
		Permanent: permanent,
	}
	createErr := r.db.WithContext(ctx).Create(&lg).Error
	if createErr == nil {
		r.log.Info("league registered",
			zap.String("league", name),
			zap.String("status", string(status)),
			zap.Time("start_date", startDate),
		)
		return lg, nil
	}

	// Duplicate-name race: someone else registered it first. Re-read.
	if errors.Is(createErr, gorm.ErrDuplicatedKey) {
		return r.Get(ctx, name)
	}
	return storage.League{}, core.WrapError(core.ErrStorage, createErr)
}

// ExpireAllExcept transitions every Active league to Expired, except the one
// named activeName and except permanently-active leagues. Returns the number
// of leagues expired.
func (r *Registry) ExpireAllExcept(ctx context.Context, activeName string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&storage.League{}).
		Where("status = ? AND permanent = ? AND league_name <> ?", core.StatusActive, false, activeName).
		Update("status", core.StatusExpired)
	if res.Error != nil {
		return 0, core.WrapError(core.ErrStorage, res.Error)
	}
	if res.RowsAffected > 0 {
		r.log.Info("leagues expired",
			zap.Int64("count", res.RowsAffected),
			zap.String("active", activeName),
		)
	}
	return res.RowsAffected, nil
}

// Active returns the non-permanent leagues currently marked Active.
func (r *Registry) Active(ctx context.Context) ([]storage.League, error) {
	var leagues []storage.League
	err := r.db.WithContext(ctx).
		Where("status = ? AND permanent = ?", core.StatusActive, false).
		Order("start_date DESC").
		Find(&leagues).Error
	if err != nil {
		return nil, core.WrapError(core.ErrStorage, err)
	}
	return leagues, nil
}
