package parser

import (
	"encoding/json"

	"github.com/exilewatch/exilewatch/internal/provider/poeninja"
	"github.com/exilewatch/exilewatch/internal/storage"
)

// Items normalizes raw unique item entries.
func Items(lines []json.RawMessage) ([]storage.ItemSnapshot, []Rejection) {
	rows := make([]storage.ItemSnapshot, 0, len(lines))
	var rejections []Rejection

	for i, raw := range lines {
		var line poeninja.ItemLine
		if err := json.Unmarshal(raw, &line); err != nil {
			rejections = append(rejections, Rejection{Index: i, Reason: ReasonMalformedEntry})
			continue
		}
		row, rej := itemRow(i, line)
		if rej != nil {
			rejections = append(rejections, *rej)
			continue
		}
		rows = append(rows, row)
	}
	return rows, rejections
}

// ItemLines normalizes already-typed item entries, as produced by the
// historical dump decoder.
func ItemLines(lines []poeninja.ItemLine) ([]storage.ItemSnapshot, []Rejection) {
	rows := make([]storage.ItemSnapshot, 0, len(lines))
	var rejections []Rejection

	for i, line := range lines {
		row, rej := itemRow(i, line)
		if rej != nil {
			rejections = append(rejections, *rej)
			continue
		}
		rows = append(rows, row)
	}
	return rows, rejections
}

func itemRow(index int, line poeninja.ItemLine) (storage.ItemSnapshot, *Rejection) {
	if line.Name == "" {
		return storage.ItemSnapshot{}, &Rejection{Index: index, Reason: ReasonMissingName}
	}
	if line.ChaosValue == nil {
		return storage.ItemSnapshot{}, &Rejection{Index: index, Name: line.Name, Reason: ReasonMissingValue}
	}
	if *line.ChaosValue < 0 {
		return storage.ItemSnapshot{}, &Rejection{Index: index, Name: line.Name, Reason: ReasonNegativeValue}
	}

	return storage.ItemSnapshot{
		ItemName:      line.Name,
		DetailsID:     line.DetailsID,
		ChaosValue:    *line.ChaosValue,
		BaseType:      line.BaseType,
		ItemType:      line.ItemType,
		LevelRequired: line.LevelRequired,
		Links:         line.Links,
	}, nil
}
