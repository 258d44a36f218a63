package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromGermanString(t *testing.T) {
	tests := []struct {
		input string
		cents int64
	}{
		{"45,67", 4567},
		{"-45,67", -4567},
		{"1.234,56", 123456},
		{"12.345.678,90", 1234567890},
		{"0,01", 1},
		{"€ 99,00", 9900},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			m, err := NewFromGermanString(tt.input, EUR)
			require.NoError(t, err)
			assert.Equal(t, tt.cents, m.Amount())
			assert.Equal(t, EUR, m.Currency())
		})
	}
}

func TestNewFromGermanString_Invalid(t *testing.T) {
	_, err := NewFromGermanString("nicht zahlbar", EUR)
	assert.Error(t, err)
}

func TestNewFromDecimal_Rounds(t *testing.T) {
	m := NewFromDecimal(decimal.RequireFromString("10.005"), EUR)
	assert.Equal(t, int64(1001), m.Amount())
}

func TestArithmetic(t *testing.T) {
	a := New(1050, EUR)
	b := New(450, EUR)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), sum.Amount())

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.Equal(t, int64(600), diff.Amount())

	_, err = a.Add(New(100, USD))
	assert.Error(t, err)
}

func TestNilSafety(t *testing.T) {
	var m *Money
	assert.True(t, m.IsZero())
	assert.False(t, m.IsNegative())
	assert.Equal(t, int64(0), m.Amount())
	assert.True(t, m.Equals(Zero(EUR)))
}

func TestJSONRoundTrip(t *testing.T) {
	m := New(-4567, EUR)
	data, err := json.Marshal(m)
	require.NoError(t, err)

	var back Money
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, int64(-4567), back.Amount())
	assert.Equal(t, EUR, back.Currency())
}

func TestToDecimal(t *testing.T) {
	m := New(123456, EUR)
	assert.Equal(t, "1234.56", m.ToDecimal().StringFixed(2))
	assert.Equal(t, "1234.56", m.String())
}
