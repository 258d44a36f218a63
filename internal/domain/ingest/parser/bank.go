package parser

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// BankParser extracts transactions from one bank's statement layout. All bank
// parsers share the extraction engine; the per-bank variation lives in the
// bankSpec patterns.
type BankParser struct {
	spec bankSpec
}

// Name returns the bank's canonical name.
func (p *BankParser) Name() string { return p.spec.name }

// Confidence returns the fixed confidence this parser assigns.
func (p *BankParser) Confidence() float64 { return p.spec.confidence }

// Parse extracts transaction candidates and statement metadata from full
// statement text. Lines matching no pattern are skipped: statements routinely
// contain headers, totals, and disclaimers between transaction lines.
func (p *BankParser) Parse(text string) ([]ExtractedTransaction, BankStatementInfo) {
	transactions := parseLines(text, p.spec.linePrimary, p.spec.lineSecondary, p.spec.confidence)
	info := extractInfoWithSpec(text, &p.spec)
	return transactions, info
}

// parseLines walks the statement line by line, trying the primary pattern
// (booking date, value date, description, amount) before the secondary
// (single date). Shared by the bank parsers and the generic fallback.
func parseLines(text string, primary, secondary *regexp.Regexp, confidence float64) []ExtractedTransaction {
	var transactions []ExtractedTransaction

	for _, line := range splitLines(text) {
		if primary != nil {
			if m := primary.FindStringSubmatch(line); m != nil {
				if tx, ok := buildTransaction(m[1], m[2], m[3], m[4], confidence); ok {
					transactions = append(transactions, tx)
					continue
				}
			}
		}
		if secondary != nil {
			if m := secondary.FindStringSubmatch(line); m != nil {
				if tx, ok := buildTransaction(m[1], m[1], m[2], m[3], confidence); ok {
					transactions = append(transactions, tx)
				}
			}
		}
	}

	return transactions
}

// splitLines yields the trimmed, non-empty lines of a statement. Carriage
// returns from Windows-side extraction tools are dropped.
func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSpace(strings.TrimRight(l, "\r"))
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// buildTransaction normalizes one matched line. A failed date or amount parse
// means the line only looked like a transaction; it is skipped, not an error.
func buildTransaction(bookingStr, valueStr, rawDesc, amountStr string, confidence float64) (ExtractedTransaction, bool) {
	bookingDate, ok := ParseDate(bookingStr)
	if !ok {
		return ExtractedTransaction{}, false
	}
	txDate, ok := ParseDate(valueStr)
	if !ok {
		return ExtractedTransaction{}, false
	}
	raw, ok := ParseAmount(amountStr)
	if !ok {
		return ExtractedTransaction{}, false
	}

	return ExtractedTransaction{
		ID:              uuid.New(),
		TransactionDate: txDate,
		BookingDate:     bookingDate,
		Amount:          raw.Abs(),
		Type:            typeFromAmount(raw),
		Description:     CleanDescription(rawDesc),
		MerchantName:    ExtractMerchant(rawDesc),
		Reference:       ExtractReference(rawDesc),
		PaymentMethod:   DetectPaymentMethod(rawDesc),
		Confidence:      confidence,
	}, true
}
