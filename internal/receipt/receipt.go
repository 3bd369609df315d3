// Package receipt extracts structured data from receipt text, e.g. the
// text layer of a scanned receipt. Extraction is best-effort: every
// field may be missing from the result.
package receipt

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Data is the result of parsing receipt text.
type Data struct {
	Vendor string           `json:"vendor" example:"Acme Office Supply"`  // Vendor name, empty if none was found
	Amount *decimal.Decimal `json:"amount" example:"49.99"`               // Total amount, unset if none was found
	Date   *time.Time       `json:"date" example:"2026-01-15T00:00:00Z"`  // Receipt date, unset if none was found
}

// Amount patterns, most specific first. Group 1 captures the amount.
var amountPatterns = []*regexp.Regexp{
	// Labelled totals
	regexp.MustCompile(`(?i)(?:total|grand\s*total|amount\s*due|balance\s*due|amount|due)\s*[:\s]*\$?\s*(\d{1,6}(?:,\d{3})*(?:\.\d{2})?)`),
	// Dollar sign
	regexp.MustCompile(`\$\s*(\d{1,6}(?:,\d{3})*(?:\.\d{2}))`),
	// Currency code suffix
	regexp.MustCompile(`(?i)(\d{1,6}(?:,\d{3})*(?:\.\d{2}))\s*usd`),
	// Standalone decimal amounts, less reliable
	regexp.MustCompile(`(?:^|\s)(\d{1,4}\.\d{2})(?:\s|$)`),
}

// Amounts above this are assumed to be artifacts, e.g. a card number
// fragment matched as an amount.
var maxReasonableAmount = decimal.NewFromInt(100000)

type dateLayout int

const (
	layoutMDY dateLayout = iota
	layoutMDYShort
	layoutYMD
	layoutMonthName
	layoutDayMonthName
)

type datePattern struct {
	re     *regexp.Regexp
	layout dateLayout
}

var datePatterns = []datePattern{
	{regexp.MustCompile(`(\d{1,2})[/-](\d{1,2})[/-](\d{4})`), layoutMDY},
	{regexp.MustCompile(`(\d{4})[/-](\d{1,2})[/-](\d{1,2})`), layoutYMD},
	{regexp.MustCompile(`(?i)(January|February|March|April|May|June|July|August|September|October|November|December)\s+(\d{1,2}),?\s*(\d{4})`), layoutMonthName},
	{regexp.MustCompile(`(?i)(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+(\d{1,2}),?\s*(\d{4})`), layoutMonthName},
	{regexp.MustCompile(`(?i)(\d{1,2})\s+(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+(\d{4})`), layoutDayMonthName},
	{regexp.MustCompile(`(\d{1,2})[/-](\d{1,2})[/-](\d{2})(?:\D|$)`), layoutMDYShort},
}

var monthNames = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June, "july": time.July,
	"august": time.August, "september": time.September, "october": time.October,
	"november": time.November, "december": time.December,
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "jun": time.June, "jul": time.July, "aug": time.August,
	"sep": time.September, "oct": time.October, "nov": time.November,
	"dec": time.December,
}

// Explicit vendor labels, e.g. "Merchant: Acme Corp". Applied to the
// lower-cased text.
var merchantPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^\s*merchant\s*:\s*(.+)$`),
	regexp.MustCompile(`(?m)^\s*store\s*:\s*(.+)$`),
	regexp.MustCompile(`(?m)^\s*sold\s*by\s*:\s*(.+)$`),
}

// Lines that cannot be a vendor name.
var vendorSkipPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d+[/-]\d+[/-]\d+`), // Date
	regexp.MustCompile(`^\$`),                // Amount
	regexp.MustCompile(`^receipt$`),
	regexp.MustCompile(`^invoice$`),
	regexp.MustCompile(`^order$`),
	regexp.MustCompile(`^\d+$`), // Just numbers
}

var vendorSuffix = regexp.MustCompile(`(?i)\s*(inc\.?|llc|ltd\.?|corp\.?)$`)

var titleCaser = cases.Title(language.English)

// Parse extracts vendor, amount and date from receipt text.
func Parse(text string) Data {
	return Data{
		Vendor: ExtractVendor(text),
		Amount: ExtractAmount(text),
		Date:   ExtractDate(text),
	}
}

// ExtractVendor returns the vendor name, or "" if none was found.
// Explicit merchant labels win; otherwise the first line that does not
// look like a date, amount or header is used.
func ExtractVendor(text string) string {
	if text == "" {
		return ""
	}

	lower := strings.ToLower(text)

	for _, pattern := range merchantPatterns {
		if match := pattern.FindStringSubmatch(lower); match != nil {
			vendor := strings.TrimSpace(match[1])
			if len(vendor) > 2 {
				return cleanVendorName(vendor)
			}
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if vendorLineSkipped(line) {
			continue
		}

		vendor := cleanVendorName(line)
		if len(vendor) >= 2 {
			return vendor
		}

		return ""
	}

	return ""
}

func vendorLineSkipped(line string) bool {
	lower := strings.ToLower(line)
	for _, pattern := range vendorSkipPatterns {
		if pattern.MatchString(lower) {
			return true
		}
	}

	return false
}

// cleanVendorName removes company suffixes, collapses whitespace and
// title-cases the name.
func cleanVendorName(name string) string {
	name = vendorSuffix.ReplaceAllString(name, "")
	name = strings.Join(strings.Fields(name), " ")
	name = titleCaser.String(name)

	runes := []rune(name)
	if len(runes) > 200 {
		name = string(runes[:200])
	}

	return name
}

// ExtractAmount returns the most likely total amount. When several
// candidates are found, the largest reasonable one wins since that is
// usually the grand total.
func ExtractAmount(text string) *decimal.Decimal {
	if text == "" {
		return nil
	}

	var found []decimal.Decimal
	for _, pattern := range amountPatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			amount, err := decimal.NewFromString(strings.ReplaceAll(match[1], ",", ""))
			if err != nil {
				continue
			}
			if amount.IsPositive() {
				found = append(found, amount)
			}
		}
	}

	if len(found) == 0 {
		return nil
	}

	if len(found) > 1 {
		var best *decimal.Decimal
		for i := range found {
			if found[i].GreaterThanOrEqual(maxReasonableAmount) {
				continue
			}
			if best == nil || found[i].GreaterThan(*best) {
				best = &found[i]
			}
		}
		if best != nil {
			return best
		}
	}

	return &found[0]
}

// ExtractDate returns the first reasonable date in the text, trying the
// date patterns in order of reliability.
func ExtractDate(text string) *time.Time {
	if text == "" {
		return nil
	}

	for _, pattern := range datePatterns {
		for _, match := range pattern.re.FindAllStringSubmatch(text, -1) {
			date, ok := parseDateMatch(match, pattern.layout)
			if ok && reasonableDate(date) {
				return &date
			}
		}
	}

	return nil
}

func parseDateMatch(match []string, layout dateLayout) (time.Time, bool) {
	var year, day int
	var month time.Month

	switch layout {
	case layoutMDY, layoutMDYShort:
		month = time.Month(atoi(match[1]))
		day = atoi(match[2])
		year = atoi(match[3])
		if layout == layoutMDYShort && year < 100 {
			year += 2000
		}
	case layoutYMD:
		year = atoi(match[1])
		month = time.Month(atoi(match[2]))
		day = atoi(match[3])
	case layoutMonthName:
		month = monthNames[strings.ToLower(match[1])]
		day = atoi(match[2])
		year = atoi(match[3])
	case layoutDayMonthName:
		day = atoi(match[1])
		month = monthNames[strings.ToLower(match[2])]
		year = atoi(match[3])
	}

	if month < time.January || month > time.December || day < 1 || day > 31 {
		return time.Time{}, false
	}

	date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)

	// time.Date normalizes out-of-range days, e.g. February 30 becomes
	// March 2. Those inputs are invalid dates, not candidates.
	if date.Day() != day || date.Month() != month {
		return time.Time{}, false
	}

	return date, true
}

// reasonableDate limits receipt dates to five years back and one year
// ahead. Anything else is likely a misparse.
func reasonableDate(date time.Time) bool {
	year := time.Now().Year()
	min := time.Date(year-5, time.January, 1, 0, 0, 0, 0, time.UTC)
	max := time.Date(year+1, time.December, 31, 0, 0, 0, 0, time.UTC)

	return !date.Before(min) && !date.After(max)
}

// atoi converts the digits-only submatches. The patterns guarantee the
// input is numeric.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
