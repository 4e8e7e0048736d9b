package storage

import (
	"context"
	"time"

	"github.com/exilewatch/exilewatch/internal/core"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const insertBatchSize = 500

// Writer appends normalized snapshot batches, one category per call, inside
// a single transaction. A batch either commits whole or not at all; prior
// snapshots are never mutated.
type Writer struct {
	db  *gorm.DB
	log *zap.Logger
	now func() time.Time
}

// NewWriter creates a Writer.
func NewWriter(db *gorm.DB, log *zap.Logger) *Writer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Writer{db: db, log: log, now: time.Now}
}

// AppendCurrency writes a currency batch for one league. Every row is tagged
// with the league and a single batch timestamp.
func (w *Writer) AppendCurrency(ctx context.Context, leagueID uint, records []CurrencySnapshot) error {
	if len(records) == 0 {
		return nil
	}
	stamp := w.now().UTC()
	for i := range records {
		records[i].LeagueID = leagueID
		records[i].RecordedAt = stamp
	}
	return w.insert(ctx, core.CategoryCurrency, leagueID, len(records), func(tx *gorm.DB) error {
		return tx.CreateInBatches(records, insertBatchSize).Error
	})
}

// AppendCards writes a divination card batch for one league.
func (w *Writer) AppendCards(ctx context.Context, leagueID uint, records []CardSnapshot) error {
	if len(records) == 0 {
		return nil
	}
	stamp := w.now().UTC()
	for i := range records {
		records[i].LeagueID = leagueID
		records[i].RecordedAt = stamp
	}
	return w.insert(ctx, core.CategoryCards, leagueID, len(records), func(tx *gorm.DB) error {
		return tx.CreateInBatches(records, insertBatchSize).Error
	})
}

// AppendItems writes a unique item batch for one league.
func (w *Writer) AppendItems(ctx context.Context, leagueID uint, records []ItemSnapshot) error {
	if len(records) == 0 {
		return nil
	}
	stamp := w.now().UTC()
	for i := range records {
		records[i].LeagueID = leagueID
		records[i].RecordedAt = stamp
	}
	return w.insert(ctx, core.CategoryItems, leagueID, len(records), func(tx *gorm.DB) error {
		return tx.CreateInBatches(records, insertBatchSize).Error
	})
}

// insert runs one scoped transaction. gorm.Transaction rolls back on error
// and releases the transaction on every exit path.
func (w *Writer) insert(ctx context.Context, category core.Category, leagueID uint, count int, fn func(tx *gorm.DB) error) error {
	err := w.db.WithContext(ctx).Transaction(fn)
	if err != nil {
		w.log.Error("batch rolled back",
			zap.String("category", string(category)),
			zap.Uint("league_id", leagueID),
			zap.Int("records", count),
			zap.Error(err),
		)
		return core.WrapError(core.ErrStorage, err)
	}

	w.log.Info("batch committed",
		zap.String("category", string(category)),
		zap.Uint("league_id", leagueID),
		zap.Int("records", count),
	)
	return nil
}
