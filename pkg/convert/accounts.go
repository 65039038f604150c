package convert

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/shunichi-ikebuchi/paypal-ledger/pkg/config"
	"github.com/shunichi-ikebuchi/paypal-ledger/pkg/ledger"
	"github.com/shunichi-ikebuchi/paypal-ledger/pkg/paypal"
)

// ErrUnconfiguredRegion indicates a gap in the account or VAT tables.
// This is a setup defect, not a data defect; it aborts the whole run.
var ErrUnconfiguredRegion = errors.New("unconfigured region")

// UnknownCreditorTag marks invoice-required purchases booked to the
// creditors-suspense account until an invoice identifies the creditor.
const UnknownCreditorTag = "unknown creditor"

// Selection is the outcome of account selection for one transaction.
type Selection struct {
	Account     string
	AccountType string
	VATRate     decimal.Decimal
	Tag         string
}

// Selector maps (direction, region, transaction type) to a ledger
// account and VAT rate using the configured tables.
type Selector struct {
	tables *config.Tables
}

// NewSelector creates a Selector over the given tables.
func NewSelector(tables *config.Tables) *Selector {
	return &Selector{tables: tables}
}

// Select returns the ledger account, account-type code and VAT rate for
// a classified transaction.
func (s *Selector) Select(tx paypal.Transaction, cls Classification) (Selection, error) {
	if cls.Direction == DirectionBank {
		return Selection{
			Account:     s.tables.ClearingAccount,
			AccountType: ledger.AccountTypeClearing,
			VATRate:     decimal.Zero,
		}, nil
	}

	region := cls.Region
	// A non-home-currency transaction cannot be confirmed intra-EU, so
	// an ambiguous region falls back to Other for account and VAT
	// purposes. The same-currency ambiguous case deliberately keeps the
	// standard rate instead: a business rule, not a derivation.
	if region == RegionUnknown && tx.Currency != s.tables.HomeCurrency {
		region = RegionOther
	}

	if cls.Direction == DirectionPurchase && s.tables.InvoiceRequired {
		if entry, ok := s.tables.Payer(tx.Payee); ok {
			return Selection{
				Account:     entry.Account,
				AccountType: entry.Type,
				VATRate:     decimal.Zero,
			}, nil
		}
		return Selection{
			Account:     s.tables.CreditorsSuspense,
			AccountType: ledger.AccountTypeSuspense,
			VATRate:     decimal.Zero,
			Tag:         UnknownCreditorTag,
		}, nil
	}

	var account string
	var ok bool
	accountType := ledger.AccountTypeRevenue
	if cls.Direction == DirectionSale {
		account, ok = s.tables.SaleAccount(string(region))
	} else {
		account, ok = s.tables.PurchaseAccount(string(region))
		accountType = ledger.AccountTypeExpense
	}
	if !ok {
		return Selection{}, fmt.Errorf("%w: no %s account for region %s", ErrUnconfiguredRegion, cls.Direction, region)
	}

	rate, ok := s.tables.VATRate(string(region))
	if !ok {
		return Selection{}, fmt.Errorf("%w: no VAT rate for region %s", ErrUnconfiguredRegion, region)
	}

	return Selection{
		Account:     account,
		AccountType: accountType,
		VATRate:     rate,
	}, nil
}
