package parser

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenericParserMixedFormats(t *testing.T) {
	p := NewGenericParser()

	text := `Irgendeine Bank
2024-03-03 KARTENZAHLUNG REWE BERLIN -45,67
01.03.2024 03.03.2024 LASTSCHRIFT TELEKOM -39,99
05.03.2024 GUTSCHRIFT VON MUSTERMANN GMBH 1.000,00
kein Umsatz`

	transactions, info := p.Parse(text)
	require.Len(t, transactions, 3)

	iso := transactions[0]
	assert.Equal(t, time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC), iso.TransactionDate)
	assert.Equal(t, iso.BookingDate, iso.TransactionDate)
	assert.True(t, iso.Amount.Equal(decimal.NewFromFloat(45.67)))
	assert.Equal(t, TypeExpense, iso.Type)

	twoDates := transactions[1]
	assert.Equal(t, time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC), twoDates.TransactionDate)
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), twoDates.BookingDate)

	credit := transactions[2]
	assert.Equal(t, TypeIncome, credit.Type)
	assert.Equal(t, "MUSTERMANN GMBH", credit.MerchantName)

	// The fallback does not know a bank.
	assert.Equal(t, "", info.BankName)
	assert.Equal(t, "EUR", info.Currency)
}

func TestGenericParserConfidence(t *testing.T) {
	p := NewGenericParser()
	assert.Equal(t, "Generic", p.Name())
	assert.InDelta(t, 0.70, p.Confidence(), 0.001)

	transactions, _ := p.Parse("03.03.2024 KARTENZAHLUNG REWE -45,67")
	require.Len(t, transactions, 1)
	assert.InDelta(t, 0.70, transactions[0].Confidence, 0.001)
}

func TestGenericParserSharedHeuristics(t *testing.T) {
	// The fallback applies the same merchant and method heuristics as the
	// bank parsers.
	p := NewGenericParser()

	transactions, _ := p.Parse("03.03.2024 KARTENZAHLUNG REWE SAGT DANKE 03.03 12:30 -45,67")
	require.Len(t, transactions, 1)
	assert.Equal(t, "REWE", transactions[0].MerchantName)
	assert.Equal(t, MethodCardPayment, transactions[0].PaymentMethod)
	assert.NotContains(t, transactions[0].Description, "SAGT DANKE")
}

func TestGenericParserNothingRecognizable(t *testing.T) {
	p := NewGenericParser()

	transactions, info := p.Parse("Sehr geehrte Damen und Herren,\nhiermit bestätigen wir den Eingang.")
	assert.Empty(t, transactions)
	assert.Equal(t, "EUR", info.Currency)
}
