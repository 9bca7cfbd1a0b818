package collector

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"PortfolioDesk/internal/model"

	"github.com/shopspring/decimal"
)

// Feed column names. The header row is a stable contract with the sheet.
const (
	colName      = "urun"
	colCategory  = "tur"
	colCost      = "toplamYatirim"
	colValue     = "guncelDeger"
	colDate      = "tarih"
	colQuantity  = "adet"
	colUnitPrice = "alisFiyati"
)

var deltaColumns = [model.PeriodCount]string{"gunluk", "haftalik", "aylik", "ucAylik", "altiAylik", "birYillik"}

// ParseFeed turns CSV text into positions. Rows without a name or with a
// non-positive cost basis are dropped without error.
func ParseFeed(data []byte) ([]model.Position, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: missing header row", ErrParse)
		}
		return nil, fmt.Errorf("%w: header: %v", ErrParse, err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(h)] = i
	}

	var positions []model.Position
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		row := feedRow{rec: rec, index: index}

		p := model.Position{
			Name:              collapse(row.get(colName)),
			Category:          collapse(row.get(colCategory)),
			CostBasis:         ParseNumber(row.get(colCost)),
			CurrentValue:      ParseNumber(row.get(colValue)),
			Quantity:          ParseNumber(row.get(colQuantity)),
			UnitPurchasePrice: ParseNumber(row.get(colUnitPrice)),
			AcquisitionDate:   strings.TrimSpace(row.get(colDate)),
		}
		for i, col := range deltaColumns {
			p.Deltas[i] = ParseNumber(row.get(col))
		}
		if p.Name == "" || p.CostBasis <= 0 {
			continue
		}
		positions = append(positions, p)
	}
	return positions, nil
}

type feedRow struct {
	rec   []string
	index map[string]int
}

func (r feedRow) get(col string) string {
	i, ok := r.index[col]
	if !ok || i >= len(r.rec) {
		return ""
	}
	return r.rec[i]
}

// collapse trims s and folds internal whitespace runs into single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ParseNumber reads a locale formatted number such as "1.234,56" or "₺ -200".
// Anything that cannot be read yields 0.
func ParseNumber(s string) float64 {
	var b strings.Builder
	negative := false
	for _, c := range strings.TrimSpace(s) {
		switch {
		case c >= '0' && c <= '9', c == ',', c == '.':
			b.WriteRune(c)
		case c == '-' && b.Len() == 0:
			negative = true
		}
	}
	cleaned := normalizeSeparators(b.String())
	if cleaned == "" {
		return 0
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0
	}
	if negative {
		d = d.Neg()
	}
	f, _ := d.Float64()
	return f
}

// normalizeSeparators converts grouping dots and a decimal comma into the
// plain form decimal.NewFromString accepts.
func normalizeSeparators(s string) string {
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		last := strings.LastIndex(s, ",")
		s = strings.ReplaceAll(s[:last], ",", "") + "." + s[last+1:]
	} else if n := strings.Count(s, "."); n > 1 {
		s = strings.ReplaceAll(s, ".", "")
	} else if n == 1 {
		whole, frac, _ := strings.Cut(s, ".")
		if len(frac) == 3 && whole != "" && whole != "0" {
			s = whole + frac
		}
	}
	if strings.Trim(s, ".") == "" {
		return ""
	}
	return s
}
