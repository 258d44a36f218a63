package parser

import "regexp"

// GenericConfidence is the fixed confidence of the fallback parser,
// deliberately below every bank-specific parser: the format was not
// recognized, extraction is best-effort.
const GenericConfidence = 0.70

// genericFamilies is the fallback pattern cascade, tried per line in order:
// ISO-dated, German-dated with booking date, German-dated without. First
// success wins.
var genericFamilies = []struct {
	re       *regexp.Regexp
	twoDates bool
}{
	{lineOneISODate, false},
	{lineTwoGermanDates, true},
	{lineOneGermanDate, false},
}

// GenericParser handles statements no bank-specific module recognized. It
// reuses the same merchant, reference, and payment-method heuristics as the
// bank parsers so behavior is consistent regardless of path taken.
type GenericParser struct{}

// NewGenericParser returns the fallback parser.
func NewGenericParser() *GenericParser { return &GenericParser{} }

// Name identifies the fallback in results and logs.
func (p *GenericParser) Name() string { return "Generic" }

// Confidence returns the fixed fallback confidence.
func (p *GenericParser) Confidence() float64 { return GenericConfidence }

// Parse extracts what it can from unrecognized statement text.
func (p *GenericParser) Parse(text string) ([]ExtractedTransaction, BankStatementInfo) {
	var transactions []ExtractedTransaction

	for _, rawLine := range splitLines(text) {
		for _, family := range genericFamilies {
			m := family.re.FindStringSubmatch(rawLine)
			if m == nil {
				continue
			}
			var tx ExtractedTransaction
			var ok bool
			if family.twoDates {
				tx, ok = buildTransaction(m[1], m[2], m[3], m[4], GenericConfidence)
			} else {
				tx, ok = buildTransaction(m[1], m[1], m[2], m[3], GenericConfidence)
			}
			if ok {
				transactions = append(transactions, tx)
				break
			}
		}
	}

	return transactions, extractInfoWithSpec(text, nil)
}
