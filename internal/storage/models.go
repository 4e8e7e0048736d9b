package storage

import (
	"time"

	"github.com/exilewatch/exilewatch/internal/core"
)

// League is one seasonal (or permanent) game variant with its own economy
// timeline. Rows are created on first sighting and never deleted; status only
// ever moves Active -> Expired, and permanent leagues never transition.
type League struct {
	ID        uint              `gorm:"primaryKey"`
	Name      string            `gorm:"column:league_name;uniqueIndex;not null"`
	Status    core.LeagueStatus `gorm:"not null"`
	StartDate time.Time         `gorm:"not null"`
	Permanent bool              `gorm:"not null;default:false"`
	CreatedAt time.Time

	// Associations; declare the snapshot tables' foreign keys.
	Currency []CurrencySnapshot `gorm:"foreignKey:LeagueID"`
	Cards    []CardSnapshot     `gorm:"foreignKey:LeagueID"`
	Items    []ItemSnapshot     `gorm:"foreignKey:LeagueID"`
}

func (League) TableName() string { return "leagues" }

// CurrencySnapshot is one timestamped currency exchange observation.
// Snapshots are append-only; rows are never updated or deleted.
type CurrencySnapshot struct {
	ID           uint      `gorm:"primaryKey"`
	LeagueID     uint      `gorm:"not null;index:idx_currency_league_time,priority:1;index:idx_currency_league_name,priority:1"`
	CurrencyName string    `gorm:"not null;index:idx_currency_league_name,priority:2"`
	DetailsID    string    ``
	// ChaosEquivalent is the normalized value in the common base unit.
	ChaosEquivalent float64  `gorm:"not null"`
	PayValue        *float64 ``
	ReceiveValue    *float64 ``
	TradeCount      int      ``
	RecordedAt      time.Time `gorm:"not null;index:idx_currency_league_time,priority:2"`
}

func (CurrencySnapshot) TableName() string { return "currency_prices" }

// CardSnapshot is one timestamped divination card price observation.
type CardSnapshot struct {
	ID         uint      `gorm:"primaryKey"`
	LeagueID   uint      `gorm:"not null;index:idx_cards_league_time,priority:1;index:idx_cards_league_name,priority:1"`
	CardName   string    `gorm:"not null;index:idx_cards_league_name,priority:2"`
	DetailsID  string    ``
	ChaosValue float64   `gorm:"not null"`
	StackSize  *int      ``
	TradeCount int       ``
	RecordedAt time.Time `gorm:"not null;index:idx_cards_league_time,priority:2"`
}

func (CardSnapshot) TableName() string { return "divination_cards" }

// ItemSnapshot is one timestamped unique item price observation.
type ItemSnapshot struct {
	ID            uint      `gorm:"primaryKey"`
	LeagueID      uint      `gorm:"not null;index:idx_items_league_time,priority:1;index:idx_items_league_name,priority:1"`
	ItemName      string    `gorm:"not null;index:idx_items_league_name,priority:2"`
	DetailsID     string    ``
	ChaosValue    float64   `gorm:"not null"`
	BaseType      *string   ``
	ItemType      *string   ``
	LevelRequired *int      ``
	Links         *int      ``
	RecordedAt    time.Time `gorm:"not null;index:idx_items_league_time,priority:2"`
}

func (ItemSnapshot) TableName() string { return "unique_items" }
