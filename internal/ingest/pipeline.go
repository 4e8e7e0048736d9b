// Package ingest runs the fetch -> archive -> parse -> write path for one
// league, per category. Categories are isolated: one failing category never
// blocks the others, and a failed batch leaves storage untouched.
package ingest

import (
	"context"
	"sync"
	"time"

	"github.com/exilewatch/exilewatch/internal/core"
	"github.com/exilewatch/exilewatch/internal/metrics"
	"github.com/exilewatch/exilewatch/internal/parser"
	"github.com/exilewatch/exilewatch/internal/provider/poeninja"
	"github.com/exilewatch/exilewatch/internal/storage"
	"github.com/exilewatch/exilewatch/internal/storage/archive"
	"go.uber.org/zap"
)

// Fetcher yields current category payloads for a league. Implemented by the
// poe.ninja client.
type Fetcher interface {
	CurrencyOverview(ctx context.Context, league string) (*poeninja.Overview, error)
	CardOverview(ctx context.Context, league string) (*poeninja.Overview, error)
	ItemOverview(ctx context.Context, league string) (*poeninja.Overview, error)
}

// Report is the outcome of one category run.
type Report struct {
	Category core.Category
	Fetched  int
	Written  int
	Rejected int
	Err      error
}

// Pipeline ingests one category at a time: fetch the raw payload, archive it,
// normalize entries, append the surviving rows as one batch.
type Pipeline struct {
	fetcher     Fetcher
	writer      *storage.Writer
	archive     archive.Store
	metrics     *metrics.Registry
	log         *zap.Logger
	concurrency int
	now         func() time.Time
}

// NewPipeline creates a Pipeline. concurrency bounds how many categories run
// at once within a cycle.
func NewPipeline(fetcher Fetcher, writer *storage.Writer, store archive.Store, concurrency int, m *metrics.Registry, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	if store == nil {
		store = archive.Nop{}
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Pipeline{
		fetcher:     fetcher,
		writer:      writer,
		archive:     store,
		metrics:     m,
		concurrency: concurrency,
		log:         log,
		now:         time.Now,
	}
}

// RunCycle ingests all categories for a league, at most concurrency at a
// time. Every category gets a Report; a category's failure is recorded in its
// Report and does not stop the others.
func (p *Pipeline) RunCycle(ctx context.Context, lg storage.League) []Report {
	categories := core.Categories()
	reports := make([]Report, len(categories))

	sem := make(chan struct{}, p.concurrency)
	var wg sync.WaitGroup
	for i, category := range categories {
		wg.Add(1)
		go func(i int, category core.Category) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			reports[i] = p.Run(ctx, lg, category)
		}(i, category)
	}
	wg.Wait()

	return reports
}

// Run ingests one category for a league.
func (p *Pipeline) Run(ctx context.Context, lg storage.League, category core.Category) Report {
	report := Report{Category: category}
	log := p.log.With(
		zap.String("league", lg.Name),
		zap.String("category", string(category)),
	)

	ov, err := p.fetch(ctx, lg.Name, category)
	if err != nil {
		log.Error("category fetch failed", zap.Error(err))
		p.metrics.RecordCategoryError(string(category))
		report.Err = err
		return report
	}
	report.Fetched = len(ov.Lines)

	p.archiveRaw(ctx, lg.Name, category, ov.Raw, log)

	written, rejected, err := p.parseAndWrite(ctx, lg.ID, category, ov)
	report.Written = written
	report.Rejected = rejected
	if err != nil {
		log.Error("category write failed", zap.Error(err))
		p.metrics.RecordBatchRollback(string(category))
		p.metrics.RecordCategoryError(string(category))
		report.Err = err
		return report
	}

	p.metrics.RecordIngested(string(category), written)
	log.Info("category ingested",
		zap.Int("fetched", report.Fetched),
		zap.Int("written", written),
		zap.Int("rejected", rejected),
	)
	return report
}

func (p *Pipeline) fetch(ctx context.Context, league string, category core.Category) (*poeninja.Overview, error) {
	switch category {
	case core.CategoryCurrency:
		return p.fetcher.CurrencyOverview(ctx, league)
	case core.CategoryCards:
		return p.fetcher.CardOverview(ctx, league)
	case core.CategoryItems:
		return p.fetcher.ItemOverview(ctx, league)
	}
	return nil, core.WrapError(core.ErrValidation, nil)
}

// archiveRaw is best effort: a cold-storage failure costs replayability, not
// the snapshot itself.
func (p *Pipeline) archiveRaw(ctx context.Context, league string, category core.Category, raw []byte, log *zap.Logger) {
	key := archive.PayloadKey(league, category, p.now(), "json")
	if err := p.archive.Put(ctx, key, raw); err != nil {
		log.Warn("raw payload archive failed", zap.String("key", key), zap.Error(err))
	}
}

func (p *Pipeline) parseAndWrite(ctx context.Context, leagueID uint, category core.Category, ov *poeninja.Overview) (written, rejected int, err error) {
	switch category {
	case core.CategoryCurrency:
		rows, rejections := parser.Currency(ov.Lines)
		p.countRejections(category, rejections)
		if err := p.writer.AppendCurrency(ctx, leagueID, rows); err != nil {
			return 0, len(rejections), err
		}
		return len(rows), len(rejections), nil

	case core.CategoryCards:
		rows, rejections := parser.Cards(ov.Lines)
		p.countRejections(category, rejections)
		if err := p.writer.AppendCards(ctx, leagueID, rows); err != nil {
			return 0, len(rejections), err
		}
		return len(rows), len(rejections), nil

	case core.CategoryItems:
		rows, rejections := parser.Items(ov.Lines)
		p.countRejections(category, rejections)
		if err := p.writer.AppendItems(ctx, leagueID, rows); err != nil {
			return 0, len(rejections), err
		}
		return len(rows), len(rejections), nil
	}
	return 0, 0, nil
}

func (p *Pipeline) countRejections(category core.Category, rejections []parser.Rejection) {
	for _, r := range rejections {
		p.metrics.RecordRejection(string(category), r.Reason)
		p.log.Debug("entry rejected",
			zap.String("category", string(category)),
			zap.Int("index", r.Index),
			zap.String("name", r.Name),
			zap.String("reason", r.Reason),
		)
	}
}
