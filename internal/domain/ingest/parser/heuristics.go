package parser

import (
	"regexp"
	"strings"
)

// Payment-method labels as they appear to reviewers. Detection below is a
// fixed-priority keyword test; reordering it changes results.
const (
	MethodCardPayment   = "Kartenzahlung"
	MethodDirectDebit   = "Lastschrift"
	MethodBankTransfer  = "Überweisung"
	MethodCreditNote    = "Gutschrift"
	MethodStandingOrder = "Dauerauftrag"
)

// merchantPatterns is an ordered cascade; the first capturing match wins.
// Order: card payment, direct debit, bank transfer, cash withdrawal, credit
// note. Every bank module and the fallback use the same order.
var merchantPatterns = []*regexp.Regexp{
	// Card payment: merchant up to the "SAGT DANKE" boilerplate or a trailing
	// dd.MM timestamp.
	regexp.MustCompile(`(?i)(?:KARTENZAHLUNG|GIROCARD|KARTE)\s+(.+?)(?:\s+SAGT\s+DANKE.*|\s+\d{2}\.\d{2}(?:\.\d{2,4})?(?:\s+\d{2}:\d{2})?.*)?$`),
	// Direct debit: creditor up to mandate/reference noise.
	regexp.MustCompile(`(?i)(?:SEPA-?LASTSCHRIFT|FOLGELASTSCHRIFT|EINMALLASTSCHRIFT|LASTSCHRIFT|EINZUG)\s+(?:VON\s+)?(.+?)(?:\s+(?:MANDATSREF|MANDAT|MREF|EREF|GLAEUBIGER|GLÄUBIGER).*)?$`),
	// Bank transfer: counterparty up to IBAN/BIC/purpose noise.
	regexp.MustCompile(`(?i)(?:SEPA-?(?:UEBERWEISUNG|ÜBERWEISUNG)|UEBERWEISUNG|ÜBERWEISUNG|DAUERAUFTRAG)\s+(?:AN\s+|VON\s+)?(.+?)(?:\s+(?:IBAN|BIC|VERWENDUNGSZWECK|SVWZ).*)?$`),
	// Cash withdrawal: the ATM location.
	regexp.MustCompile(`(?i)(?:BARGELDAUSZAHLUNG|GELDAUTOMAT|AUSZAHLUNG\s+GA)\s+(.+?)(?:\s+\d{2}\.\d{2}(?:\.\d{2,4})?.*)?$`),
	// Credit note: the sender.
	regexp.MustCompile(`(?i)GUTSCHRIFT\s+(?:VON\s+)?(.+?)(?:\s+(?:IBAN|EREF|REF).*)?$`),
}

// referencePatterns is evaluated top-to-bottom: mandate reference first, then
// end-to-end, customer reference, and a generic "Ref" catch-all.
var referencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:MANDATSREF(?:ERENZ)?|MREF)[+:.]?\s*([A-Za-z0-9./-]+)`),
	regexp.MustCompile(`(?i)(?:END-?TO-?END(?:-?REF(?:ERENZ)?)?|EREF)[+:.]?\s*([A-Za-z0-9./-]+)`),
	regexp.MustCompile(`(?i)(?:KUNDENREFERENZ|KREF)[+:.]?\s*([A-Za-z0-9./-]+)`),
	regexp.MustCompile(`(?i)\bREF[+:.]\s*([A-Za-z0-9./-]+)`),
}

// boilerplateTokens are banking noise stripped from descriptions before they
// reach review. SEPA tag prefixes (SVWZ+ et al.) lose the tag, not the value.
var boilerplateTokens = []string{
	"SAGT DANKE",
	"SAGT DANKE.",
	"VIELEN DANK",
	"VIELEN DANK FUER IHREN EINKAUF",
	"SVWZ+",
	"EREF+",
	"MREF+",
	"KREF+",
	"CRED+",
	"ABWA+",
	"ELV",
	"GIROCARD",
	"KONTAKTLOS",
}

// boilerplateRes match the tokens case-insensitively. Matching on the raw
// description avoids offset math against a case-folded copy, which is not
// byte-length-preserving for every rune.
var boilerplateRes = func() []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(boilerplateTokens))
	for i, token := range boilerplateTokens {
		res[i] = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(token))
	}
	return res
}()

var whitespaceRe = regexp.MustCompile(`\s+`)

// ExtractMerchant runs the merchant pattern cascade over a raw line
// description. Returns "" when nothing matches; merchants are optional.
func ExtractMerchant(description string) string {
	for _, re := range merchantPatterns {
		if m := re.FindStringSubmatch(description); m != nil {
			merchant := strings.TrimSpace(m[1])
			if merchant != "" {
				return merchant
			}
		}
	}
	return ""
}

// ExtractReference pulls the first reference number found, trying mandate,
// end-to-end, and customer references before the generic form.
func ExtractReference(description string) string {
	for _, re := range referencePatterns {
		if m := re.FindStringSubmatch(description); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// DetectPaymentMethod labels the payment method from description keywords.
// Priority: card payment, direct debit, bank transfer, credit note, standing
// order. Returns "" for lines that carry no recognizable method.
func DetectPaymentMethod(description string) string {
	upper := strings.ToUpper(description)
	switch {
	case containsAny(upper, "KARTENZAHLUNG", "GIROCARD", "KARTE", "EC-"):
		return MethodCardPayment
	case containsAny(upper, "LASTSCHRIFT", "EINZUG", "SEPA-ELV"):
		return MethodDirectDebit
	case containsAny(upper, "UEBERWEISUNG", "ÜBERWEISUNG", "GEHALT", "LOHN"):
		return MethodBankTransfer
	case strings.Contains(upper, "GUTSCHRIFT"):
		return MethodCreditNote
	case strings.Contains(upper, "DAUERAUFTRAG"):
		return MethodStandingOrder
	}
	return ""
}

// CleanDescription strips known banking boilerplate and collapses internal
// whitespace. It never empties a description that had content.
func CleanDescription(description string) string {
	cleaned := strings.TrimSpace(description)

	for _, re := range boilerplateRes {
		cleaned = re.ReplaceAllString(cleaned, " ")
	}

	cleaned = whitespaceRe.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return strings.TrimSpace(whitespaceRe.ReplaceAllString(description, " "))
	}
	return cleaned
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
