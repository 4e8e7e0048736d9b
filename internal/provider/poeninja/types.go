package poeninja

import "encoding/json"

// Exchange is one side of a currency trade pair (pay or receive).
type Exchange struct {
	Value *float64 `json:"value"`
	Count *int     `json:"count"`
}

// CurrencyLine is one raw entry of a currency overview payload. Optional
// fields are pointers so that absent values survive as absent.
type CurrencyLine struct {
	CurrencyTypeName string    `json:"currencyTypeName"`
	DetailsID        string    `json:"detailsId"`
	ChaosEquivalent  *float64  `json:"chaosEquivalent"`
	Pay              *Exchange `json:"pay"`
	Receive          *Exchange `json:"receive"`
}

// TradeInfo carries listing counts for item-like entries.
type TradeInfo struct {
	Count *int `json:"count"`
}

// ItemLine is one raw entry of an item overview payload. It covers both
// divination cards and unique items; each category reads the fields it needs.
type ItemLine struct {
	Name          string     `json:"name"`
	BaseType      *string    `json:"baseType"`
	ItemType      *string    `json:"itemType"`
	LevelRequired *int       `json:"levelRequired"`
	StackSize     *int       `json:"stackSize"`
	Links         *int       `json:"links"`
	ChaosValue    *float64   `json:"chaosValue"`
	DetailsID     string     `json:"detailsId"`
	TradeInfo     *TradeInfo `json:"tradeInfo"`
}

// Overview is a decoded snapshot payload. Lines stay raw so one malformed
// entry can be rejected on its own instead of failing the whole payload.
type Overview struct {
	Lines []json.RawMessage `json:"lines"`
	// Raw is the payload as received, kept for archiving.
	Raw []byte `json:"-"`
}

// Dump holds the entries extracted from a historical league dump.
type Dump struct {
	Currency []CurrencyLine
	Items    []ItemLine
	// Raw is the ZIP archive as received, kept for archiving.
	Raw []byte
}

// indexState is the provider's league index listing, newest league first.
type indexState struct {
	EconomyLeagues []indexLeague `json:"economyLeagues"`
}

type indexLeague struct {
	Name    string `json:"name"`
	Indexed bool   `json:"indexed"`
}
