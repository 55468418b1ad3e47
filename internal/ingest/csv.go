// Package ingest parses uploaded provider CSV files into provider records
// and stages uploads in Google Cloud Storage.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dlazarev/finadvisor/internal/domain"
)

// Provider CSV sources accepted by the importer.
const (
	SourceSpending   = "spending"
	SourceInvestment = "investment"
	SourceRetirement = "retirement"
)

// ValidSource reports whether the importer understands this source name.
func ValidSource(source string) bool {
	switch source {
	case SourceSpending, SourceInvestment, SourceRetirement:
		return true
	}
	return false
}

// dateLayouts tried in order when parsing the date column.
var dateLayouts = []string{"2006-01-02", "02/01/2006", "01/02/2006", "2 Jan 2006"}

// ParseCSV reads a provider CSV export into records. Spending exports carry
// a category column; investment and retirement exports do not. A header row
// is detected and skipped; rows with an unparsable date or amount are
// skipped rather than failing the whole file.
func ParseCSV(source string, r io.Reader) ([]domain.ProviderRecord, error) {
	if !ValidSource(source) {
		return nil, fmt.Errorf("ParseCSV: unknown source %q", source)
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var records []domain.ProviderRecord
	for line := 0; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ParseCSV: line %d: %w", line+1, err)
		}
		if len(row) < 3 {
			continue
		}
		if line == 0 && isHeader(row) {
			continue
		}

		date, ok := parseDate(strings.TrimSpace(row[0]))
		if !ok {
			continue
		}
		amount, err := parseAmount(row[2])
		if err != nil {
			continue
		}

		rec := domain.ProviderRecord{
			Date:        date,
			Description: strings.TrimSpace(row[1]),
			Amount:      amount,
		}
		if source == SourceSpending && len(row) > 3 {
			rec.RawCategory = strings.TrimSpace(row[3])
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("ParseCSV: no usable rows in %s file", source)
	}
	return records, nil
}

func isHeader(row []string) bool {
	if _, ok := parseDate(strings.TrimSpace(row[0])); ok {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(row[0]))
	return strings.Contains(first, "date")
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.TrimPrefix(cleaned, "£")
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parseAmount: %q: %w", s, err)
	}
	return d, nil
}
