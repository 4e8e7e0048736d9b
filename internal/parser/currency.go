package parser

import (
	"encoding/json"

	"github.com/exilewatch/exilewatch/internal/provider/poeninja"
	"github.com/exilewatch/exilewatch/internal/storage"
)

// Currency normalizes raw currency overview entries. The provider reports the
// pay side as base-units-per-item; it is stored inverted (items per base unit)
// so both columns read in the same direction. A zero pay value stays nil
// rather than dividing by it.
func Currency(lines []json.RawMessage) ([]storage.CurrencySnapshot, []Rejection) {
	rows := make([]storage.CurrencySnapshot, 0, len(lines))
	var rejections []Rejection

	for i, raw := range lines {
		var line poeninja.CurrencyLine
		if err := json.Unmarshal(raw, &line); err != nil {
			rejections = append(rejections, Rejection{Index: i, Reason: ReasonMalformedEntry})
			continue
		}
		row, rej := currencyRow(i, line)
		if rej != nil {
			rejections = append(rejections, *rej)
			continue
		}
		rows = append(rows, row)
	}
	return rows, rejections
}

// CurrencyLines normalizes already-typed currency entries, as produced by the
// historical dump decoder.
func CurrencyLines(lines []poeninja.CurrencyLine) ([]storage.CurrencySnapshot, []Rejection) {
	rows := make([]storage.CurrencySnapshot, 0, len(lines))
	var rejections []Rejection

	for i, line := range lines {
		row, rej := currencyRow(i, line)
		if rej != nil {
			rejections = append(rejections, *rej)
			continue
		}
		rows = append(rows, row)
	}
	return rows, rejections
}

func currencyRow(index int, line poeninja.CurrencyLine) (storage.CurrencySnapshot, *Rejection) {
	if line.CurrencyTypeName == "" {
		return storage.CurrencySnapshot{}, &Rejection{Index: index, Reason: ReasonMissingName}
	}
	if line.ChaosEquivalent == nil {
		return storage.CurrencySnapshot{}, &Rejection{Index: index, Name: line.CurrencyTypeName, Reason: ReasonMissingValue}
	}
	if *line.ChaosEquivalent < 0 {
		return storage.CurrencySnapshot{}, &Rejection{Index: index, Name: line.CurrencyTypeName, Reason: ReasonNegativeValue}
	}

	row := storage.CurrencySnapshot{
		CurrencyName:    line.CurrencyTypeName,
		DetailsID:       line.DetailsID,
		ChaosEquivalent: *line.ChaosEquivalent,
	}
	if line.Pay != nil && line.Pay.Value != nil && *line.Pay.Value > 0 {
		inverted := 1 / *line.Pay.Value
		row.PayValue = &inverted
		if line.Pay.Count != nil {
			row.TradeCount = *line.Pay.Count
		}
	}
	if line.Receive != nil && line.Receive.Value != nil {
		v := *line.Receive.Value
		row.ReceiveValue = &v
	}
	return row, nil
}
