// Package ledger defines balanced double-entry ledger transactions and
// the period grouping and balance verification over them.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account type codes carried on ledger lines.
const (
	AccountTypeBank     = "bank"
	AccountTypeRevenue  = "revenue"
	AccountTypeExpense  = "expense"
	AccountTypeSuspense = "suspense"
	AccountTypeVAT      = "vat"
	AccountTypeClearing = "clearing"
)

// Line is one ledger posting. Lines are always produced in matched pairs
// whose home-currency amounts sum to zero; both members of a pair carry
// the same foreign-amount, currency and rate metadata.
type Line struct {
	Date        time.Time
	Account     string
	AccountType string
	Description string
	Amount      decimal.Decimal // signed, home currency

	ForeignAmount   decimal.Decimal
	ForeignCurrency string
	Rate            decimal.Decimal

	Note string
}

// Transaction is the booking for one resolved source transaction: an
// ordered list of balanced lines plus a snapshot of the processor's
// reported balance after the triggering record.
type Transaction struct {
	Date           time.Time
	Reference      string
	SourceType     string // processor transaction type of the source record
	Lines          []Line
	ClosingBalance decimal.Decimal
}

// Sum returns the home-currency sum of all lines. It is zero for every
// transaction produced by the line builder.
func (t Transaction) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range t.Lines {
		sum = sum.Add(l.Amount)
	}
	return sum
}

// BankSum returns the sum of the transaction's bank-account lines.
func (t Transaction) BankSum() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range t.Lines {
		if l.AccountType == AccountTypeBank {
			sum = sum.Add(l.Amount)
		}
	}
	return sum
}

// Month returns the YYYY-MM period key of the transaction.
func (t Transaction) Month() string {
	return t.Date.Format("2006-01")
}
