package convert

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/shunichi-ikebuchi/paypal-ledger/pkg/config"
	"github.com/shunichi-ikebuchi/paypal-ledger/pkg/ledger"
	"github.com/shunichi-ikebuchi/paypal-ledger/pkg/paypal"
)

// ErrNegativeVATRate indicates a malformed VAT-rate configuration; a
// rate of -1 would divide by zero.
var ErrNegativeVATRate = errors.New("negative VAT rate")

var one = decimal.NewFromInt(1)

// LineBuilder computes the VAT-split, fee-split and foreign-currency
// amounts for a transaction and emits balanced line pairs.
//
// The rounding rules are fixed and deliberately asymmetric in the
// business's favor: the net of gross rounds down, the net of fee rounds
// up, and VAT is always gross minus the rounded net, never rounded on
// its own. Home equivalents of foreign amounts are recomputed from the
// unrounded foreign components times the conversion rate, each rounded
// half-up independently, never by rescaling the rounded foreign split.
type LineBuilder struct {
	tables *config.Tables
}

// NewLineBuilder creates a LineBuilder over the given tables.
func NewLineBuilder(tables *config.Tables) *LineBuilder {
	return &LineBuilder{tables: tables}
}

// split is the net/VAT breakdown of one total, in home currency, plus
// the foreign-currency breakdown for converted transactions.
type split struct {
	net, vat       decimal.Decimal // home currency
	netFor, vatFor decimal.Decimal // foreign currency, zero otherwise
}

// booking is one logical amount to post as a balanced pair.
type booking struct {
	amount      decimal.Decimal // home currency
	foreign     decimal.Decimal
	account     string
	accountType string
	note        string
}

// Build emits the ordered balanced line pairs for one resolved, fully
// classified transaction. Zero amounts produce no lines.
func (b *LineBuilder) Build(tx paypal.Transaction, cls Classification, sel Selection) ([]ledger.Line, error) {
	if sel.VATRate.Sign() < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNegativeVATRate, sel.VATRate)
	}

	foreign := tx.RateKnown && tx.Currency != b.tables.HomeCurrency
	separateVAT := b.tables.VATAccount != ""

	sale := b.split(tx.Gross, sel.VATRate, foreign, tx.ConversionRate, false)

	bookings := []booking{{
		amount:      sale.net,
		foreign:     sale.netFor,
		account:     sel.Account,
		accountType: sel.AccountType,
		note:        sel.Tag,
	}}
	if separateVAT {
		bookings = append(bookings, booking{
			amount:      sale.vat,
			foreign:     sale.vatFor,
			account:     b.tables.VATAccount,
			accountType: ledger.AccountTypeVAT,
			note:        vatNote(sel.VATRate),
		})
	}

	if !tx.Fee.IsZero() {
		fee := b.split(tx.Fee, sel.VATRate, foreign, tx.ConversionRate, true)
		bookings = append(bookings, booking{
			amount:      fee.net,
			foreign:     fee.netFor,
			account:     sel.Account,
			accountType: sel.AccountType,
			note:        "processing fee",
		})
		if separateVAT {
			bookings = append(bookings, booking{
				amount:      fee.vat,
				foreign:     fee.vatFor,
				account:     b.tables.VATAccount,
				accountType: ledger.AccountTypeVAT,
				note:        vatNote(sel.VATRate),
			})
		}
	}

	// Residue a conversion group left on the account, already converted
	// to home currency, posted against the currency-clearing account.
	if foreign && !tx.Remainder.IsZero() {
		bookings = append(bookings, booking{
			amount:      tx.Remainder,
			account:     b.tables.ClearingAccount,
			accountType: ledger.AccountTypeClearing,
			note:        "conversion remainder",
		})
	}

	description := describe(tx, cls)

	var lines []ledger.Line
	for _, bk := range bookings {
		if bk.amount.IsZero() {
			continue
		}
		lines = append(lines, b.pair(tx, foreign, description, bk)...)
	}
	return lines, nil
}

// split breaks a total into net and VAT. The fee split rounds its net
// up where the sale split rounds down; VAT is always the remainder.
func (b *LineBuilder) split(total, vatRate decimal.Decimal, foreign bool, convRate decimal.Decimal, up bool) split {
	exactNet := total.Div(one.Add(vatRate))

	if foreign {
		netFor := round2(exactNet, up)
		return split{
			net:    exactNet.Mul(convRate).Round(2),
			vat:    total.Sub(exactNet).Mul(convRate).Round(2),
			netFor: netFor,
			vatFor: total.Sub(netFor),
		}
	}

	net := round2(exactNet, up)
	return split{net: net, vat: total.Sub(net)}
}

func round2(d decimal.Decimal, up bool) decimal.Decimal {
	if up {
		return d.RoundUp(2)
	}
	return d.RoundDown(2)
}

// pair emits the balanced pair for one booking: the target line with the
// amount negated and the mirrored line on the PayPal bank account.
func (b *LineBuilder) pair(tx paypal.Transaction, foreign bool, description string, bk booking) []ledger.Line {
	var foreignCurrency string
	var rate decimal.Decimal
	if foreign {
		foreignCurrency = tx.Currency
		rate = tx.ConversionRate
	}

	target := ledger.Line{
		Date:            tx.Date(),
		Account:         bk.account,
		AccountType:     bk.accountType,
		Description:     description,
		Amount:          bk.amount.Neg(),
		ForeignAmount:   bk.foreign.Neg(),
		ForeignCurrency: foreignCurrency,
		Rate:            rate,
		Note:            bk.note,
	}
	mirror := ledger.Line{
		Date:            tx.Date(),
		Account:         b.tables.PayPalAccount,
		AccountType:     ledger.AccountTypeBank,
		Description:     description,
		Amount:          bk.amount,
		ForeignAmount:   bk.foreign,
		ForeignCurrency: foreignCurrency,
		Rate:            rate,
		Note:            bk.note,
	}
	return []ledger.Line{target, mirror}
}

func vatNote(rate decimal.Decimal) string {
	return "VAT " + rate.Mul(decimal.NewFromInt(100)).String() + "%"
}

func describe(tx paypal.Transaction, cls Classification) string {
	counterparty := tx.Payer
	if cls.Direction == DirectionPurchase {
		counterparty = tx.Payee
	}
	if counterparty == "" {
		return tx.Type
	}
	return tx.Type + " " + counterparty
}
