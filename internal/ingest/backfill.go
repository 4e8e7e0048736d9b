package ingest

import (
	"context"
	"time"

	"github.com/exilewatch/exilewatch/internal/core"
	"github.com/exilewatch/exilewatch/internal/league"
	"github.com/exilewatch/exilewatch/internal/metrics"
	"github.com/exilewatch/exilewatch/internal/parser"
	"github.com/exilewatch/exilewatch/internal/provider/poeninja"
	"github.com/exilewatch/exilewatch/internal/storage"
	"github.com/exilewatch/exilewatch/internal/storage/archive"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// HistoricalSource yields past-league data. Implemented by the poe.ninja
// client: currency and items come from the dump archive, cards from the
// overview endpoint since dumps do not carry them.
type HistoricalSource interface {
	HistoricalDump(ctx context.Context, league string) (*poeninja.Dump, error)
	CardOverview(ctx context.Context, league string) (*poeninja.Overview, error)
}

// Summary is the outcome of one backfill run.
type Summary struct {
	Backfilled int
	Skipped    int
	Failed     []string
}

// Backfill seeds expired leagues from the provider's historical dumps. Each
// league is processed in isolation; one failure never stops the run.
type Backfill struct {
	src     HistoricalSource
	reg     *league.Registry
	db      *gorm.DB
	writer  *storage.Writer
	archive archive.Store
	metrics *metrics.Registry
	log     *zap.Logger
	now     func() time.Time
}

// NewBackfill creates a Backfill.
func NewBackfill(src HistoricalSource, reg *league.Registry, db *gorm.DB, writer *storage.Writer, store archive.Store, m *metrics.Registry, log *zap.Logger) *Backfill {
	if log == nil {
		log = zap.NewNop()
	}
	if store == nil {
		store = archive.Nop{}
	}
	return &Backfill{
		src:     src,
		reg:     reg,
		db:      db,
		writer:  writer,
		archive: store,
		metrics: m,
		log:     log,
		now:     time.Now,
	}
}

// Run backfills the named leagues one by one. A league already holding any
// snapshot rows is skipped; backfill never duplicates or mutates data.
func (b *Backfill) Run(ctx context.Context, leagues []string) (Summary, error) {
	var sum Summary
	for _, name := range leagues {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		seeded, err := b.runLeague(ctx, name)
		switch {
		case err != nil:
			b.log.Error("league backfill failed", zap.String("league", name), zap.Error(err))
			b.metrics.RecordBackfillLeague("failed")
			sum.Failed = append(sum.Failed, name)
		case seeded:
			b.metrics.RecordBackfillLeague("backfilled")
			sum.Backfilled++
		default:
			b.log.Info("league already seeded, skipping", zap.String("league", name))
			b.metrics.RecordBackfillLeague("skipped")
			sum.Skipped++
		}
	}
	return sum, nil
}

func (b *Backfill) runLeague(ctx context.Context, name string) (bool, error) {
	lg, err := b.reg.EnsureExpired(ctx, name)
	if err != nil {
		return false, err
	}

	seen, err := b.hasAnySnapshots(ctx, lg.ID)
	if err != nil {
		return false, err
	}
	if seen {
		return false, nil
	}

	dump, err := b.src.HistoricalDump(ctx, name)
	if err != nil {
		return false, err
	}
	b.archiveDump(ctx, name, dump.Raw)

	currencyRows, currencyRej := parser.CurrencyLines(dump.Currency)
	b.countRejections(core.CategoryCurrency, currencyRej)
	if err := b.writer.AppendCurrency(ctx, lg.ID, currencyRows); err != nil {
		return false, err
	}
	b.metrics.RecordIngested(string(core.CategoryCurrency), len(currencyRows))

	itemRows, itemRej := parser.ItemLines(dump.Items)
	b.countRejections(core.CategoryItems, itemRej)
	if err := b.writer.AppendItems(ctx, lg.ID, itemRows); err != nil {
		return false, err
	}
	b.metrics.RecordIngested(string(core.CategoryItems), len(itemRows))

	// Dumps carry no divination cards; the overview endpoint still serves
	// expired leagues' last indexed card prices.
	cardRows, err := b.fetchCards(ctx, name)
	if err != nil {
		b.log.Warn("card backfill unavailable", zap.String("league", name), zap.Error(err))
	} else {
		if err := b.writer.AppendCards(ctx, lg.ID, cardRows); err != nil {
			return false, err
		}
		b.metrics.RecordIngested(string(core.CategoryCards), len(cardRows))
	}

	b.log.Info("league backfilled",
		zap.String("league", name),
		zap.Int("currency", len(currencyRows)),
		zap.Int("items", len(itemRows)),
		zap.Int("cards", len(cardRows)),
	)
	return true, nil
}

func (b *Backfill) hasAnySnapshots(ctx context.Context, leagueID uint) (bool, error) {
	for _, category := range core.Categories() {
		seen, err := storage.HasSnapshots(ctx, b.db, category, leagueID)
		if err != nil {
			return false, err
		}
		if seen {
			return true, nil
		}
	}
	return false, nil
}

func (b *Backfill) fetchCards(ctx context.Context, name string) ([]storage.CardSnapshot, error) {
	ov, err := b.src.CardOverview(ctx, name)
	if err != nil {
		return nil, err
	}
	rows, rejections := parser.Cards(ov.Lines)
	b.countRejections(core.CategoryCards, rejections)
	return rows, nil
}

func (b *Backfill) archiveDump(ctx context.Context, name string, raw []byte) {
	key := archive.DumpKey(name, b.now())
	if err := b.archive.Put(ctx, key, raw); err != nil {
		b.log.Warn("dump archive failed", zap.String("key", key), zap.Error(err))
	}
}

func (b *Backfill) countRejections(category core.Category, rejections []parser.Rejection) {
	for _, r := range rejections {
		b.metrics.RecordRejection(string(category), r.Reason)
	}
}
