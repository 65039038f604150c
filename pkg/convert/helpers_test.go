package convert

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shunichi-ikebuchi/paypal-ledger/pkg/config"
	"github.com/shunichi-ikebuchi/paypal-ledger/pkg/paypal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// testTables returns a full conversion configuration with the standard
// Dutch 21% rate and VAT kept inline on the lines.
func testTables() *config.Tables {
	return &config.Tables{
		HomeCurrency:      "EUR",
		HomeCountry:       "NL",
		EUCountries:       []string{"BE", "DE", "FR"},
		PayPalAccount:     "Assets:PayPal",
		ClearingAccount:   "Assets:Clearing",
		CreditorsSuspense: "Liabilities:Creditors",
		SaleAccounts: map[string]string{
			config.RegionLocal:     "Income:Local",
			config.RegionEUPrivate: "Income:EUPrivate",
			config.RegionEUICP:     "Income:EUICP",
			config.RegionOther:     "Income:Export",
			config.RegionUnknown:   "Income:Unclassified",
		},
		PurchaseAccounts: map[string]string{
			config.RegionLocal:     "Expenses:Local",
			config.RegionEUPrivate: "Expenses:EUPrivate",
			config.RegionEUICP:     "Expenses:EUICP",
			config.RegionOther:     "Expenses:Import",
			config.RegionUnknown:   "Expenses:Unclassified",
		},
		VATRates: map[string]decimal.Decimal{
			config.RegionLocal:     dec("0.21"),
			config.RegionEUPrivate: dec("0.21"),
			config.RegionEUICP:     decimal.Zero,
			config.RegionOther:     decimal.Zero,
			config.RegionUnknown:   dec("0.21"),
		},
	}
}

// separateVATTables books VAT splits against their own account, which
// makes the bank side of each transaction carry the full gross.
func separateVATTables() *config.Tables {
	tables := testTables()
	tables.VATAccount = "Liabilities:VAT"
	return tables
}

type txOpt func(*paypal.Transaction)

func withFee(fee string) txOpt {
	return func(tx *paypal.Transaction) { tx.Fee = dec(fee) }
}

func withRelated(ref string) txOpt {
	return func(tx *paypal.Transaction) { tx.RelatedRef = ref }
}

func withCountry(cc string) txOpt {
	return func(tx *paypal.Transaction) { tx.CountryCode = cc }
}

func withBalance(balance string) txOpt {
	return func(tx *paypal.Transaction) { tx.Balance = dec(balance) }
}

func withPayee(payee string) txOpt {
	return func(tx *paypal.Transaction) { tx.Payee = payee }
}

func makeTx(ref, date, typ, currency, gross, net string, opts ...txOpt) paypal.Transaction {
	tx := paypal.Transaction{
		Timestamp:   day(date).Add(12 * time.Hour),
		Type:        typ,
		Status:      "Completed",
		Currency:    currency,
		Gross:       dec(gross),
		Net:         dec(net),
		Fee:         decimal.Zero,
		Payer:       "buyer@example.com",
		TxnRef:      ref,
		CountryCode: "NL",
	}
	for _, opt := range opts {
		opt(&tx)
	}
	return tx
}
