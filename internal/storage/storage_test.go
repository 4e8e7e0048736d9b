package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/exilewatch/exilewatch/internal/core"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	// One connection: a second pooled conn to :memory: is a separate database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("getting sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := Migrate(db); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	return db
}

func testLeague(t *testing.T, db *gorm.DB, name string) League {
	t.Helper()
	lg := League{Name: name, Status: core.StatusActive, StartDate: time.Now()}
	if err := db.Create(&lg).Error; err != nil {
		t.Fatalf("creating league: %v", err)
	}
	return lg
}

func ptr[T any](v T) *T { return &v }

func TestWriter_AppendCurrency(t *testing.T) {
	db := newTestDB(t)
	lg := testLeague(t, db, "Settlers")
	w := NewWriter(db, nil)

	batch := []CurrencySnapshot{
		{CurrencyName: "Divine Orb", DetailsID: "divine-orb", ChaosEquivalent: 180, PayValue: ptr(181.5), TradeCount: 9000},
		{CurrencyName: "Exalted Orb", DetailsID: "exalted-orb", ChaosEquivalent: 12.5},
	}
	if err := w.AppendCurrency(context.Background(), lg.ID, batch); err != nil {
		t.Fatalf("AppendCurrency: %v", err)
	}

	var rows []CurrencySnapshot
	if err := db.Find(&rows).Error; err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].LeagueID != lg.ID {
		t.Errorf("expected league_id %d, got %d", lg.ID, rows[0].LeagueID)
	}
	if rows[0].RecordedAt.IsZero() {
		t.Error("expected batch timestamp to be stamped")
	}
	if !rows[0].RecordedAt.Equal(rows[1].RecordedAt) {
		t.Error("expected one timestamp for the whole batch")
	}
	if rows[1].PayValue != nil {
		t.Error("absent pay value should stay nil")
	}
}

func TestWriter_AppendEmptyBatch(t *testing.T) {
	db := newTestDB(t)
	lg := testLeague(t, db, "Settlers")
	w := NewWriter(db, nil)

	if err := w.AppendItems(context.Background(), lg.ID, nil); err != nil {
		t.Fatalf("empty batch should be a no-op, got %v", err)
	}
}

func TestWriter_RollbackLeavesNoPartialRows(t *testing.T) {
	db := newTestDB(t)
	lg := testLeague(t, db, "Settlers")
	w := NewWriter(db, nil)

	// Duplicate explicit primary keys force the insert to fail after the
	// batch is already in flight.
	batch := []CardSnapshot{
		{ID: 7, CardName: "The Doctor", ChaosValue: 900},
		{ID: 7, CardName: "The Nurse", ChaosValue: 120},
	}
	err := w.AppendCards(context.Background(), lg.ID, batch)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, core.ErrStorage) {
		t.Errorf("expected storage error, got %v", err)
	}

	var count int64
	db.Model(&CardSnapshot{}).Count(&count)
	if count != 0 {
		t.Errorf("expected 0 rows after rollback, got %d", count)
	}
}

func TestHasSnapshots(t *testing.T) {
	db := newTestDB(t)
	lg := testLeague(t, db, "Ritual")
	w := NewWriter(db, nil)
	ctx := context.Background()

	got, err := HasSnapshots(ctx, db, core.CategoryItems, lg.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got {
		t.Error("expected no snapshots for fresh league")
	}

	items := []ItemSnapshot{{ItemName: "Headhunter", DetailsID: "headhunter", ChaosValue: 11000, BaseType: ptr("Leather Belt")}}
	if err := w.AppendItems(ctx, lg.ID, items); err != nil {
		t.Fatal(err)
	}

	got, err = HasSnapshots(ctx, db, core.CategoryItems, lg.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got {
		t.Error("expected snapshots after append")
	}

	// Other categories stay empty.
	got, _ = HasSnapshots(ctx, db, core.CategoryCards, lg.ID)
	if got {
		t.Error("cards table should be empty")
	}
}
