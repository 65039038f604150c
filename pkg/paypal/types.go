// Package paypal provides typed PayPal account-statement records and
// parsing from raw statement rows.
package paypal

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction type codes as they appear in PayPal statement downloads.
const (
	TypeCurrencyConversion = "Currency Conversion"
	TypeWithdrawal         = "Withdraw Funds to Bank Account"
	TypeDeposit            = "Add Funds from a Bank Account"
	TypeCardDeposit        = "Charge From Credit Card"
	TypeCardWithdrawal     = "Credit to Credit Card"
	TypeRefund             = "Refund"
	TypeReversal           = "Payment Reversal"

	TypeCancelledHold        = "Cancellation of Hold for Dispute Resolution"
	TypePreapprovedPayment   = "Preapproved Payment Bill User Payment"
	TypeHoldReversal         = "Reversal of General Account Hold"
	TypeChargebackReversal   = "Cancellation of Chargeback"
	TypePaymentReviewRelease = "Payment Review Release"

	TypeDisputeHold       = "Hold for Dispute Investigation"
	TypeAccountHold       = "General Account Hold"
	TypePaymentReviewHold = "Payment Review Hold"
)

// Transaction is one typed statement record. Instances are never mutated
// after parsing; the conversion grouper derives new Transactions when it
// synthesizes a combined foreign-currency sale.
type Transaction struct {
	Timestamp   time.Time
	Type        string
	Status      string
	Currency    string
	Gross       decimal.Decimal
	Fee         decimal.Decimal
	Net         decimal.Decimal
	Payer       string // From Email Address
	Payee       string // To Email Address
	TxnRef      string // own transaction reference
	RelatedRef  string // reference to a linked transaction, may be empty
	CountryCode string
	Balance     decimal.Decimal // account balance after this transaction
	Memo        bool            // memo records carry no balance impact

	// Populated only on records synthesized by the conversion grouper.
	RateKnown      bool
	ConversionRate decimal.Decimal // foreign → home, 7 decimal places
	Remainder      decimal.Decimal // home-currency residue left by the conversion
}

// Date returns the calendar day of the transaction, without time of day.
func (t Transaction) Date() time.Time {
	y, m, d := t.Timestamp.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Timestamp.Location())
}

// Month returns the YYYY-MM period key of the transaction.
func (t Transaction) Month() string {
	return t.Timestamp.Format("2006-01")
}
