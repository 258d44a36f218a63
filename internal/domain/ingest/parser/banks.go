package parser

import "regexp"

// bankSpec describes one bank's statement layout: its line-level patterns and
// the metadata regions surrounding them. Confidence is fixed per bank; a
// dedicated, validated pattern is more trustworthy than the generic fallback.
type bankSpec struct {
	name       string
	confidence float64

	// linePrimary expects bookingDate, valueDate, description, amount.
	// lineSecondary covers statements without a separate booking date.
	linePrimary   *regexp.Regexp
	lineSecondary *regexp.Regexp

	accountRe *regexp.Regexp
	holderRe  *regexp.Regexp
	periodRe  *regexp.Regexp
	openingRe *regexp.Regexp
	closingRe *regexp.Regexp
}

const amountGroup = `(-?(?:\d{1,3}(?:\.\d{3})+|\d+),\d{2})`

var (
	germanDateGroup = `(\d{2}\.\d{2}\.\d{4})`
	isoDateGroup    = `(\d{4}-\d{2}-\d{2})`

	// Shared line shapes. Most German banks print either
	// "booking value description amount" or "date description amount";
	// the per-bank variation sits in the metadata regions.
	lineTwoGermanDates = regexp.MustCompile(
		`^` + germanDateGroup + `\s+` + germanDateGroup + `\s+(.+?)\s+` + amountGroup + `\s*(?:EUR|€)?$`)
	lineOneGermanDate = regexp.MustCompile(
		`^` + germanDateGroup + `\s+(.+?)\s+` + amountGroup + `\s*(?:EUR|€)?$`)
	lineTwoISODates = regexp.MustCompile(
		`^` + isoDateGroup + `\s+` + isoDateGroup + `\s+(.+?)\s+` + amountGroup + `\s*(?:EUR|€)?$`)
	lineOneISODate = regexp.MustCompile(
		`^` + isoDateGroup + `\s+(.+?)\s+` + amountGroup + `\s*(?:EUR|€)?$`)
)

// bankSpecs is the closed set of supported banks, in registration order.
// Registry substring resolution walks this order; do not reorder casually.
var bankSpecs = []bankSpec{
	{
		name:          "Deutsche Bank",
		confidence:    0.90,
		linePrimary:   lineTwoGermanDates,
		lineSecondary: lineOneGermanDate,
		accountRe:     regexp.MustCompile(`(?i)IBAN[:\s]+([A-Z]{2}\d{2}(?:\s?\d{4}){4}\s?\d{2})`),
		holderRe:      regexp.MustCompile(`(?i)Kontoinhaber[:\s]+([^\n]+)`),
		periodRe:      regexp.MustCompile(`(?i)Kontoauszug\s+vom\s+(\d{2}\.\d{2}\.\d{4})\s+bis\s+(\d{2}\.\d{2}\.\d{4})`),
		openingRe:     regexp.MustCompile(`(?i)Alter\s+Saldo[:\s]+` + amountGroup),
		closingRe:     regexp.MustCompile(`(?i)Neuer\s+Saldo[:\s]+` + amountGroup),
	},
	{
		name:          "DKB",
		confidence:    0.88,
		linePrimary:   lineTwoISODates,
		lineSecondary: lineOneISODate,
		accountRe:     regexp.MustCompile(`(?i)IBAN[:\s]+(DE\d{2}(?:\s?\d{4}){4}\s?\d{2})`),
		holderRe:      regexp.MustCompile(`(?i)Kontoinhaber(?:in)?[:\s]+([^\n]+)`),
		periodRe:      regexp.MustCompile(`(?i)Zeitraum[:\s]+(\d{2}\.\d{2}\.\d{4})\s*(?:bis|-)\s*(\d{2}\.\d{2}\.\d{4})`),
		openingRe:     regexp.MustCompile(`(?i)Anfangssaldo[:\s]+` + amountGroup),
		closingRe:     regexp.MustCompile(`(?i)Endsaldo[:\s]+` + amountGroup),
	},
	{
		name:          "ING",
		confidence:    0.88,
		linePrimary:   lineTwoGermanDates,
		lineSecondary: lineOneGermanDate,
		accountRe:     regexp.MustCompile(`(?i)IBAN[:\s]+(DE\d{2}(?:\s?\d{4}){4}\s?\d{2})`),
		holderRe:      regexp.MustCompile(`(?i)(?:Herrn?|Frau)\s+([^\n]+)`),
		periodRe:      regexp.MustCompile(`(?i)Kontoauszug\s+.*?(\d{2}\.\d{2}\.\d{4})\s*(?:bis|-)\s*(\d{2}\.\d{2}\.\d{4})`),
		openingRe:     regexp.MustCompile(`(?i)Alter\s+Saldo[:\s]+` + amountGroup),
		closingRe:     regexp.MustCompile(`(?i)Neuer\s+Saldo[:\s]+` + amountGroup),
	},
	{
		name:          "Sparkasse",
		confidence:    0.87,
		linePrimary:   lineTwoGermanDates,
		lineSecondary: lineOneGermanDate,
		accountRe:     regexp.MustCompile(`(?i)Kontonummer[:\s]+(\d{6,12})`),
		holderRe:      regexp.MustCompile(`(?i)Kontoinhaber[:\s]+([^\n]+)`),
		periodRe:      regexp.MustCompile(`(?i)Auszug\s+.*?vom\s+(\d{2}\.\d{2}\.\d{4})\s+bis\s+(\d{2}\.\d{2}\.\d{4})`),
		openingRe:     regexp.MustCompile(`(?i)Kontostand\s+am\s+\d{2}\.\d{2}\.\d{4}[:\s]+` + amountGroup),
		closingRe:     regexp.MustCompile(`(?i)Neuer\s+Kontostand[:\s]+` + amountGroup),
	},
	{
		name:          "Postbank",
		confidence:    0.86,
		linePrimary:   lineTwoGermanDates,
		lineSecondary: lineOneGermanDate,
		accountRe:     regexp.MustCompile(`(?i)Konto(?:-Nr\.?|nummer)[:\s]+(\d{6,12})`),
		holderRe:      regexp.MustCompile(`(?i)Kontoinhaber[:\s]+([^\n]+)`),
		periodRe:      regexp.MustCompile(`(?i)Auszugszeitraum[:\s]+(\d{2}\.\d{2}\.\d{4})\s*(?:bis|-)\s*(\d{2}\.\d{2}\.\d{4})`),
		openingRe:     regexp.MustCompile(`(?i)Alter\s+Kontostand[:\s]+` + amountGroup),
		closingRe:     regexp.MustCompile(`(?i)Neuer\s+Kontostand[:\s]+` + amountGroup),
	},
	{
		name:          "Commerzbank",
		confidence:    0.87,
		linePrimary:   lineTwoGermanDates,
		lineSecondary: lineOneGermanDate,
		accountRe:     regexp.MustCompile(`(?i)IBAN[:\s]+(DE\d{2}(?:\s?\d{4}){4}\s?\d{2})`),
		holderRe:      regexp.MustCompile(`(?i)Kontoinhaber[:\s]+([^\n]+)`),
		periodRe:      regexp.MustCompile(`(?i)Zeitraum[:\s]+(\d{2}\.\d{2}\.\d{4})\s*(?:bis|-)\s*(\d{2}\.\d{2}\.\d{4})`),
		openingRe:     regexp.MustCompile(`(?i)Alter\s+Saldo[:\s]+` + amountGroup),
		closingRe:     regexp.MustCompile(`(?i)Neuer\s+Saldo[:\s]+` + amountGroup),
	},
	{
		name:          "Volksbank",
		confidence:    0.85,
		linePrimary:   lineTwoGermanDates,
		lineSecondary: lineOneGermanDate,
		accountRe:     regexp.MustCompile(`(?i)Konto(?:nummer)?[:\s]+(\d{6,12})`),
		holderRe:      regexp.MustCompile(`(?i)Kontoinhaber[:\s]+([^\n]+)`),
		periodRe:      regexp.MustCompile(`(?i)vom\s+(\d{2}\.\d{2}\.\d{4})\s+bis\s+(\d{2}\.\d{2}\.\d{4})`),
		openingRe:     regexp.MustCompile(`(?i)Anfangssaldo[:\s]+` + amountGroup),
		closingRe:     regexp.MustCompile(`(?i)Endsaldo[:\s]+` + amountGroup),
	},
	{
		name:          "Raiffeisenbank",
		confidence:    0.85,
		linePrimary:   lineTwoGermanDates,
		lineSecondary: lineOneGermanDate,
		accountRe:     regexp.MustCompile(`(?i)Konto(?:nummer)?[:\s]+(\d{6,12})`),
		holderRe:      regexp.MustCompile(`(?i)Kontoinhaber[:\s]+([^\n]+)`),
		periodRe:      regexp.MustCompile(`(?i)vom\s+(\d{2}\.\d{2}\.\d{4})\s+bis\s+(\d{2}\.\d{2}\.\d{4})`),
		openingRe:     regexp.MustCompile(`(?i)Anfangssaldo[:\s]+` + amountGroup),
		closingRe:     regexp.MustCompile(`(?i)Endsaldo[:\s]+` + amountGroup),
	},
}
