package poeninja

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/exilewatch/exilewatch/internal/core"
)

const (
	dumpCurrencyFile = "currency.csv"
	dumpItemsFile    = "items.csv"
)

// decodeDump unpacks a historical dump ZIP. Each CSV uses ';' separators.
// Missing files are tolerated: some leagues ship partial dumps, and the
// caller falls back to the overview endpoints for the missing categories.
func decodeDump(body []byte) (*Dump, error) {
	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, core.WrapError(core.ErrTransport, fmt.Errorf("opening dump archive: %w", err))
	}

	dump := &Dump{Raw: body}
	for _, f := range zr.File {
		switch f.Name {
		case dumpCurrencyFile:
			rows, err := readCSV(f)
			if err != nil {
				return nil, err
			}
			dump.Currency = currencyFromRows(rows)
		case dumpItemsFile:
			rows, err := readCSV(f)
			if err != nil {
				return nil, err
			}
			dump.Items = itemsFromRows(rows)
		}
	}
	return dump, nil
}

// csvRows holds a header-indexed CSV file.
type csvRows struct {
	index map[string]int
	rows  [][]string
}

func readCSV(f *zip.File) (*csvRows, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, core.WrapError(core.ErrTransport, fmt.Errorf("opening %s: %w", f.Name, err))
	}
	defer rc.Close()

	r := csv.NewReader(rc)
	r.Comma = ';'
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, core.WrapError(core.ErrTransport, fmt.Errorf("reading %s header: %w", f.Name, err))
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, core.WrapError(core.ErrTransport, fmt.Errorf("reading %s: %w", f.Name, err))
		}
		rows = append(rows, row)
	}
	return &csvRows{index: index, rows: rows}, nil
}

func (c *csvRows) get(row []string, col string) string {
	i, ok := c.index[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// floatField returns nil for empty or non-numeric values; the parser then
// rejects such entries per-entry instead of the whole dump failing.
func floatField(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func intField(s string) *int {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

func stringField(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func currencyFromRows(c *csvRows) []CurrencyLine {
	lines := make([]CurrencyLine, 0, len(c.rows))
	for _, row := range c.rows {
		line := CurrencyLine{
			CurrencyTypeName: c.get(row, "currencyTypeName"),
			DetailsID:        c.get(row, "detailsId"),
			ChaosEquivalent:  floatField(c.get(row, "chaosEquivalent")),
		}
		if v := floatField(c.get(row, "payValue")); v != nil {
			line.Pay = &Exchange{Value: v, Count: intField(c.get(row, "payCount"))}
		}
		if v := floatField(c.get(row, "receiveValue")); v != nil {
			line.Receive = &Exchange{Value: v}
		}
		lines = append(lines, line)
	}
	return lines
}

func itemsFromRows(c *csvRows) []ItemLine {
	lines := make([]ItemLine, 0, len(c.rows))
	for _, row := range c.rows {
		lines = append(lines, ItemLine{
			Name:          c.get(row, "name"),
			BaseType:      stringField(c.get(row, "baseType")),
			ItemType:      stringField(c.get(row, "itemType")),
			LevelRequired: intField(c.get(row, "levelRequired")),
			Links:         intField(c.get(row, "links")),
			ChaosValue:    floatField(c.get(row, "chaosValue")),
			DetailsID:     c.get(row, "detailsId"),
		})
	}
	return lines
}
