package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractMerchant(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        string
	}{
		{
			name:        "card payment with boilerplate tail",
			description: "KARTENZAHLUNG REWE SAGT DANKE 03.03 12:30",
			want:        "REWE",
		},
		{
			name:        "card payment with timestamp tail",
			description: "KARTENZAHLUNG EDEKA NEUKAUF 05.03.2024 09:12",
			want:        "EDEKA NEUKAUF",
		},
		{
			name:        "girocard",
			description: "GIROCARD ARAL TANKSTELLE 12.03 18:44",
			want:        "ARAL TANKSTELLE",
		},
		{
			name:        "direct debit with mandate reference",
			description: "SEPA-LASTSCHRIFT VON TELEKOM DEUTSCHLAND GMBH MANDATSREF TD12345",
			want:        "TELEKOM DEUTSCHLAND GMBH",
		},
		{
			name:        "direct debit plain",
			description: "LASTSCHRIFT STADTWERKE MUENCHEN",
			want:        "STADTWERKE MUENCHEN",
		},
		{
			name:        "transfer with IBAN tail",
			description: "UEBERWEISUNG AN MAX MUSTERMANN IBAN DE89370400440532013000",
			want:        "MAX MUSTERMANN",
		},
		{
			name:        "cash withdrawal",
			description: "GELDAUTOMAT HAUPTBAHNHOF BERLIN 07.03 22:10",
			want:        "HAUPTBAHNHOF BERLIN",
		},
		{
			name:        "credit note",
			description: "GUTSCHRIFT VON MUSTERMANN GMBH",
			want:        "MUSTERMANN GMBH",
		},
		{
			name:        "no recognizable pattern",
			description: "SONSTIGER UMSATZ",
			want:        "",
		},
		{
			name:        "empty",
			description: "",
			want:        "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractMerchant(tt.description))
		})
	}
}

func TestExtractReference(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        string
	}{
		{"mandate reference", "LASTSCHRIFT TELEKOM MANDATSREF: TD-998877", "TD-998877"},
		{"mref tag", "LASTSCHRIFT VODAFONE MREF+VF001122", "VF001122"},
		{"end to end", "UEBERWEISUNG MIETE EREF+RG-2024-03", "RG-2024-03"},
		{"customer reference", "KUNDENREFERENZ: KD445566", "KD445566"},
		{"generic ref", "ZAHLUNG REF: ABC123", "ABC123"},
		{"mandate wins over generic", "MANDATSREF M-1 REF: R-2", "M-1"},
		{"none", "KARTENZAHLUNG REWE", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractReference(tt.description))
		})
	}
}

func TestDetectPaymentMethod(t *testing.T) {
	tests := []struct {
		description string
		want        string
	}{
		{"KARTENZAHLUNG REWE SAGT DANKE", MethodCardPayment},
		{"girocard EDEKA", MethodCardPayment},
		{"SEPA-LASTSCHRIFT TELEKOM", MethodDirectDebit},
		{"EINZUG STADTWERKE", MethodDirectDebit},
		{"UEBERWEISUNG MIETE MAERZ", MethodBankTransfer},
		{"ÜBERWEISUNG AN MAX", MethodBankTransfer},
		{"GEHALT FEBRUAR", MethodBankTransfer},
		{"GUTSCHRIFT RUECKZAHLUNG", MethodCreditNote},
		{"SONSTIGER UMSATZ", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectPaymentMethod(tt.description))
		})
	}
}

func TestDetectPaymentMethodPriority(t *testing.T) {
	// A line naming both a card payment and a direct debit is labeled by the
	// higher-priority method.
	assert.Equal(t, MethodCardPayment, DetectPaymentMethod("KARTENZAHLUNG LASTSCHRIFT MIX"))
	assert.Equal(t, MethodDirectDebit, DetectPaymentMethod("LASTSCHRIFT GUTSCHRIFT KORREKTUR"))
}

func TestCleanDescription(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "strips thanks boilerplate",
			input: "KARTENZAHLUNG REWE SAGT DANKE 03.03 12:30",
			want:  "KARTENZAHLUNG REWE 03.03 12:30",
		},
		{
			name:  "strips sepa tags",
			input: "LASTSCHRIFT TELEKOM SVWZ+Rechnung Maerz",
			want:  "LASTSCHRIFT TELEKOM Rechnung Maerz",
		},
		{
			name:  "collapses whitespace",
			input: "UEBERWEISUNG    MIETE\t MAERZ",
			want:  "UEBERWEISUNG MIETE MAERZ",
		},
		{
			name:  "plain text untouched",
			input: "MIETE MAERZ 2024",
			want:  "MIETE MAERZ 2024",
		},
		{
			name:  "never empties content",
			input: "ELV",
			want:  "ELV",
		},
		{
			name:  "strips lowercase boilerplate",
			input: "kartenzahlung rewe sagt danke",
			want:  "kartenzahlung rewe",
		},
		{
			name:  "rune that grows under case folding before token",
			input: "ȿȿȿȿ SAGT DANKE REWE",
			want:  "ȿȿȿȿ REWE",
		},
		{
			name:  "rune that shrinks under case folding before token",
			input: "ıı KARTENZAHLUNG SAGT DANKE",
			want:  "ıı KARTENZAHLUNG",
		},
		{
			name:  "empty stays empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanDescription(tt.input))
		})
	}
}
