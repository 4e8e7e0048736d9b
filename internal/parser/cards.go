package parser

import (
	"encoding/json"

	"github.com/exilewatch/exilewatch/internal/provider/poeninja"
	"github.com/exilewatch/exilewatch/internal/storage"
)

// Cards normalizes raw divination card entries.
func Cards(lines []json.RawMessage) ([]storage.CardSnapshot, []Rejection) {
	rows := make([]storage.CardSnapshot, 0, len(lines))
	var rejections []Rejection

	for i, raw := range lines {
		var line poeninja.ItemLine
		if err := json.Unmarshal(raw, &line); err != nil {
			rejections = append(rejections, Rejection{Index: i, Reason: ReasonMalformedEntry})
			continue
		}
		if line.Name == "" {
			rejections = append(rejections, Rejection{Index: i, Reason: ReasonMissingName})
			continue
		}
		if line.ChaosValue == nil {
			rejections = append(rejections, Rejection{Index: i, Name: line.Name, Reason: ReasonMissingValue})
			continue
		}
		if *line.ChaosValue < 0 {
			rejections = append(rejections, Rejection{Index: i, Name: line.Name, Reason: ReasonNegativeValue})
			continue
		}

		row := storage.CardSnapshot{
			CardName:   line.Name,
			DetailsID:  line.DetailsID,
			ChaosValue: *line.ChaosValue,
			StackSize:  line.StackSize,
		}
		if line.TradeInfo != nil && line.TradeInfo.Count != nil {
			row.TradeCount = *line.TradeInfo.Count
		}
		rows = append(rows, row)
	}
	return rows, rejections
}
