package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/kontowerk/statement-ingest/pkg/money"
)

// Generic metadata patterns, used when a bank spec has none of its own or its
// pattern found nothing. All extraction here is best-effort: a field that is
// not in the text stays unset.
var (
	genericAccountRe = regexp.MustCompile(`(?i)(?:IBAN[:\s]+([A-Z]{2}\d{2}(?:\s?\d{4}){4}\s?\d{2})|Konto(?:nummer|-Nr\.?)[:\s]+(\d{6,12}))`)
	genericHolderRe  = regexp.MustCompile(`(?i)(?:Kontoinhaber(?:in)?|Inhaber)[:\s]+([^\n]+)`)
	genericPeriodRe  = regexp.MustCompile(`(?i)(?:vom|Zeitraum[:\s]*)\s*(\d{2}\.\d{2}\.\d{4})\s*(?:bis|-)\s*(\d{2}\.\d{2}\.\d{4})`)
	genericOpeningRe = regexp.MustCompile(`(?i)(?:Alter\s+(?:Saldo|Kontostand)|Anfangssaldo)[:\s]+` + amountGroup)
	genericClosingRe = regexp.MustCompile(`(?i)(?:Neuer\s+(?:Saldo|Kontostand)|Endsaldo)[:\s]+` + amountGroup)
)

// ExtractStatementInfo pulls account, holder, period, and balance metadata for
// the named bank, falling back to the generic patterns. The bank name is kept
// verbatim; parsing never invents one.
func ExtractStatementInfo(text, bankName string) BankStatementInfo {
	var spec *bankSpec
	for i := range bankSpecs {
		if strings.EqualFold(bankSpecs[i].name, bankName) {
			spec = &bankSpecs[i]
			break
		}
	}
	info := extractInfoWithSpec(text, spec)
	if bankName != "" {
		info.BankName = bankName
	}
	return info
}

func extractInfoWithSpec(text string, spec *bankSpec) BankStatementInfo {
	name := ""
	if spec != nil {
		name = spec.name
	}
	info := newStatementInfo(name)
	if strings.TrimSpace(text) == "" {
		return info
	}

	info.AccountNumber = firstGroup(text, specAccountRe(spec), genericAccountRe)
	info.AccountHolder = strings.TrimSpace(firstGroup(text, specHolderRe(spec), genericHolderRe))

	if start, end, ok := extractPeriod(text, specPeriodRe(spec)); ok {
		info.PeriodStart = &start
		info.PeriodEnd = &end
	}

	if bal, ok := extractBalance(text, specOpeningRe(spec), genericOpeningRe); ok {
		info.OpeningBalance = bal
	}
	if bal, ok := extractBalance(text, specClosingRe(spec), genericClosingRe); ok {
		info.ClosingBalance = bal
	}

	return info
}

func specAccountRe(spec *bankSpec) *regexp.Regexp {
	if spec == nil {
		return nil
	}
	return spec.accountRe
}

func specHolderRe(spec *bankSpec) *regexp.Regexp {
	if spec == nil {
		return nil
	}
	return spec.holderRe
}

func specPeriodRe(spec *bankSpec) *regexp.Regexp {
	if spec == nil {
		return nil
	}
	return spec.periodRe
}

func specOpeningRe(spec *bankSpec) *regexp.Regexp {
	if spec == nil {
		return nil
	}
	return spec.openingRe
}

func specClosingRe(spec *bankSpec) *regexp.Regexp {
	if spec == nil {
		return nil
	}
	return spec.closingRe
}

// firstGroup returns the first non-empty capture from the bank-specific regex,
// then from the generic one.
func firstGroup(text string, res ...*regexp.Regexp) string {
	for _, re := range res {
		if re == nil {
			continue
		}
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		for _, g := range m[1:] {
			if g = strings.TrimSpace(g); g != "" {
				return g
			}
		}
	}
	return ""
}

// ReconcileBalances checks the extracted transactions against the statement's
// own balances: opening plus the net of all transactions must equal closing.
// ok is false when either balance is missing from the statement.
func ReconcileBalances(info BankStatementInfo, transactions []ExtractedTransaction) (matched, ok bool) {
	if info.OpeningBalance == nil || info.ClosingBalance == nil {
		return false, false
	}
	currency := info.OpeningBalance.Currency()
	net := money.Zero(currency)
	for i := range transactions {
		amount := money.NewFromDecimal(transactions[i].Amount, currency)
		var err error
		if transactions[i].Type == TypeExpense {
			net, err = net.Subtract(amount)
		} else {
			net, err = net.Add(amount)
		}
		if err != nil {
			return false, false
		}
	}
	expected, err := info.OpeningBalance.Add(net)
	if err != nil {
		return false, false
	}
	return expected.Equals(info.ClosingBalance), true
}

func extractPeriod(text string, specRe *regexp.Regexp) (start, end time.Time, ok bool) {
	for _, re := range []*regexp.Regexp{specRe, genericPeriodRe} {
		if re == nil {
			continue
		}
		m := re.FindStringSubmatch(text)
		if m == nil || len(m) < 3 {
			continue
		}
		s, okS := ParseDate(m[1])
		e, okE := ParseDate(m[2])
		if okS && okE {
			return s, e, true
		}
	}
	return start, end, false
}

func extractBalance(text string, res ...*regexp.Regexp) (*money.Money, bool) {
	raw := firstGroup(text, res...)
	if raw == "" {
		return nil, false
	}
	bal, err := money.NewFromGermanString(raw, money.EUR)
	if err != nil {
		return nil, false
	}
	return bal, true
}
