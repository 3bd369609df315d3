// Package amex parses American Express statement CSV files into records
// that can be previewed and imported.
package amex

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ledgerline/backend/internal/importer"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyFile = errors.New("the file does not contain any data rows")
	ErrEncoding  = errors.New("the file is not encoded as UTF-8")
)

// The columns of an Amex statement CSV. Files without a header row are
// assumed to have exactly this layout.
var columns = []string{
	"Date",
	"Description",
	"Amount",
	"Extended Details",
	"Appears On Your Statement As",
	"Address",
	"City/State",
	"Zip Code",
	"Country",
	"Reference",
	"Category",
}

// Character limits of the transaction fields the records are imported into.
const (
	maxDescription = 500
	maxVendor      = 200
	maxReference   = 100
)

// rawRow is one line of the file, keyed by column name.
type rawRow map[string]string

func (r rawRow) get(name string) string {
	return r[strings.ToLower(name)]
}

// Parse reads a statement file and returns one record per data row, in
// file order. It has no side effects and can be called repeatedly on the
// same content, e.g. to render an import preview.
//
// The first line decides the format: if it declares both a "Date" and an
// "Amount" column, it is treated as a header and its names are used for
// all subsequent rows. Otherwise every line is a data row and the fixed
// Amex column layout applies.
func Parse(r io.Reader) ([]importer.ParsedRecord, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("could not read file: %w", err)
	}

	if !utf8.Valid(content) {
		return nil, ErrEncoding
	}

	reader := csv.NewReader(strings.NewReader(string(content)))

	// Rows can have fewer fields than the header, e.g. when a trailing
	// reference is missing
	reader.FieldsPerRecord = -1

	first, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("could not read line in CSV: %w", err)
	}

	// Column index by lower-cased header name. Empty in positional mode.
	header := headerIndex(first)

	var records []importer.ParsedRecord
	lines := 1

	// Without a header, the first line already is data
	if header == nil && !blank(first) {
		records = append(records, parseRow(positionalRow(first), 1))
	}

	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("could not read line in CSV: %w", err)
		}
		lines++

		// Only headerless files skip blank lines. With a header, an
		// all-empty line is a data row and fails parsing like any other.
		if header == nil && blank(fields) {
			continue
		}

		var row rawRow
		if header != nil {
			row = headerRow(fields, header)
		} else {
			row = positionalRow(fields)
		}

		records = append(records, parseRow(row, uint(len(records)+1)))
	}

	if lines < 2 {
		return nil, ErrEmptyFile
	}

	return records, nil
}

// headerIndex decides whether the first line is a header. If it declares
// both a date and an amount column, the mapping from lower-cased column
// name to field index is returned. Otherwise nil is returned and the file
// is treated as headerless.
func headerIndex(fields []string) map[string]int {
	index := make(map[string]int, len(fields))
	for i, name := range fields {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}

	_, hasDate := index["date"]
	_, hasAmount := index["amount"]
	if !hasDate || !hasAmount {
		return nil
	}

	return index
}

func headerRow(fields []string, index map[string]int) rawRow {
	row := make(rawRow, len(index))
	for name, i := range index {
		if i < len(fields) {
			row[name] = fields[i]
		}
	}

	return row
}

func positionalRow(fields []string) rawRow {
	row := make(rawRow, len(columns))
	for i, name := range columns {
		if i < len(fields) {
			row[strings.ToLower(name)] = fields[i]
		}
	}

	return row
}

func blank(fields []string) bool {
	for _, f := range fields {
		if f != "" {
			return false
		}
	}

	return true
}

// parseRow converts one raw row into a ParsedRecord. Rows are parsed
// independently of each other; a failure only affects this record.
// When multiple fields are broken, the first error wins: date before
// amount before description.
func parseRow(row rawRow, rowNumber uint) importer.ParsedRecord {
	record := importer.ParsedRecord{
		RowNumber:      rowNumber,
		Reference:      truncate(strings.TrimSpace(row.get("Reference")), maxReference),
		SourceCategory: strings.TrimSpace(row.get("Category")),
	}

	rawDate := row.get("Date")
	if date, ok := parseDate(rawDate); ok {
		record.Date = &date
	} else {
		record.Fail(fmt.Sprintf("Invalid date format: %s", rawDate))
	}

	rawAmount := row.get("Amount")
	if amount, refund, ok := parseAmount(rawAmount); ok {
		record.Amount = &amount
		record.IsRefund = refund
	} else {
		record.Fail(fmt.Sprintf("Invalid amount format: %s", rawAmount))
	}

	// The statement description is preferred since it is what account
	// holders recognize from their statements
	description := strings.TrimSpace(row.get("Appears On Your Statement As"))
	if description == "" {
		description = strings.TrimSpace(row.get("Description"))
	}
	if description == "" {
		record.Fail("Missing description")
	}

	record.Description = truncate(description, maxDescription)
	record.Vendor = truncate(vendor(description), maxVendor)

	return record
}

// vendor returns the part of the description before the first run of two
// spaces, which on Amex statements separates the vendor from trailing
// codes.
func vendor(description string) string {
	if i := strings.Index(description, "  "); i >= 0 {
		return description[:i]
	}

	return description
}

// parseDate parses the date formats seen on Amex statements, in order:
// MM/DD/YYYY, MM/DD/YY and YYYY-MM-DD. The first matching format wins.
// Two-digit years are anchored to 2000.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if date, err := time.Parse("1/2/2006", s); err == nil {
		return date, true
	}

	if date, err := time.Parse("1/2/06", s); err == nil {
		// time.Parse anchors two-digit years 69-99 to the 1900s
		if date.Year() < 2000 {
			date = date.AddDate(100, 0, 0)
		}
		return date, true
	}

	if date, err := time.Parse("2006-1-2", s); err == nil {
		return date, true
	}

	return time.Time{}, false
}

// parseAmount parses an amount string, stripping currency formatting.
// The returned amount is always positive; a negative input marks the
// transaction as a refund.
func parseAmount(s string) (amount decimal.Decimal, refund bool, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false, false
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false, false
	}

	return amount.Abs(), amount.IsNegative(), true
}

// truncate caps a string at limit characters, counting runes so that
// multi-byte characters are not cut apart.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	return string(runes[:limit])
}
