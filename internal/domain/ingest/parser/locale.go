package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// German statement layouts write dates as dd.MM.yyyy; newer exports use ISO.
const (
	germanDateLayout = "02.01.2006"
	isoDateLayout    = "2006-01-02"
)

// germanAmountRe accepts amounts with '.' as thousands separator and ',' as
// decimal separator, with an optional leading minus. Grouping, when present,
// must be well formed; anything else is rejected.
var germanAmountRe = regexp.MustCompile(`^-?(?:\d{1,3}(?:\.\d{3})+|\d+),\d{2}$`)

// ParseDate parses a dd.MM.yyyy or yyyy-MM-dd date. A failed parse is the
// normal "this token is not a date" outcome, not an error.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(germanDateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(isoDateLayout, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// ParseAmount parses a German-formatted amount ("1.234,56", "-45,67") into a
// decimal. Malformed or ambiguous tokens are rejected.
func ParseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if !germanAmountRe.MatchString(s) {
		return decimal.Zero, false
	}
	normalized := strings.ReplaceAll(s, ".", "")
	normalized = strings.ReplaceAll(normalized, ",", ".")
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// FormatDate renders a date in the dd.MM.yyyy form used on statements.
func FormatDate(t time.Time) string {
	return t.Format(germanDateLayout)
}

// FormatAmount renders a decimal in German statement notation with two decimal
// places and '.' grouping, the inverse of ParseAmount.
func FormatAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)

	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	parts := strings.SplitN(s, ".", 2)
	intPart, fracPart := parts[0], parts[1]

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	out := strings.Join(groups, ".") + "," + fracPart
	if negative {
		out = "-" + out
	}
	return out
}
