// Package parser turns extracted bank-statement text into normalized
// transaction candidates. It hosts the per-bank parsers, the generic fallback,
// the bank registry, and the statement-metadata extractor.
package parser

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kontowerk/statement-ingest/pkg/money"
)

// TransactionType classifies the direction of a transaction.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// typeFromAmount derives the transaction type from the sign of a raw parsed
// amount. Negative means money left the account.
func typeFromAmount(raw decimal.Decimal) TransactionType {
	if raw.IsNegative() {
		return TypeExpense
	}
	return TypeIncome
}

// ExtractedTransaction is a candidate transaction produced by parsing a
// statement line. It is a transient, run-scoped value; persistence happens in
// the surrounding import workflow.
//
// Amount is always a non-negative magnitude; Type carries the sign that
// produced it. Confidence reflects parser provenance and is never recalculated
// downstream.
type ExtractedTransaction struct {
	ID              uuid.UUID       `json:"id"`
	TransactionDate time.Time       `json:"transaction_date"`
	BookingDate     time.Time       `json:"booking_date"`
	Amount          decimal.Decimal `json:"amount"`
	Type            TransactionType `json:"type"`
	Description     string          `json:"description"`
	MerchantName    string          `json:"merchant_name,omitempty"`
	Reference       string          `json:"reference,omitempty"`
	PaymentMethod   string          `json:"payment_method,omitempty"`
	Confidence      float64         `json:"confidence"`

	SuggestedCategoryID   *uuid.UUID `json:"suggested_category_id,omitempty"`
	SuggestedCategoryName string     `json:"suggested_category_name,omitempty"`

	DuplicateOfID  *uuid.UUID `json:"duplicate_of_id,omitempty"`
	DuplicateScore float64    `json:"duplicate_score,omitempty"`
}

// BankStatementInfo carries statement-level metadata extracted from the same
// text. Absent fields stay unset: downstream consumers must be able to tell
// "not present in document" from "present and zero".
type BankStatementInfo struct {
	BankName       string       `json:"bank_name"`
	Currency       string       `json:"currency"`
	AccountNumber  string       `json:"account_number,omitempty"`
	AccountHolder  string       `json:"account_holder,omitempty"`
	PeriodStart    *time.Time   `json:"period_start,omitempty"`
	PeriodEnd      *time.Time   `json:"period_end,omitempty"`
	OpeningBalance *money.Money `json:"opening_balance,omitempty"`
	ClosingBalance *money.Money `json:"closing_balance,omitempty"`
}

// newStatementInfo returns an empty-but-valid info record for a bank.
func newStatementInfo(bankName string) BankStatementInfo {
	return BankStatementInfo{
		BankName: bankName,
		Currency: money.EUR,
	}
}
