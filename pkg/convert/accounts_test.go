package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shunichi-ikebuchi/paypal-ledger/pkg/config"
	"github.com/shunichi-ikebuchi/paypal-ledger/pkg/ledger"
)

func TestSelectBankTransfer(t *testing.T) {
	s := NewSelector(testTables())
	tx := makeTx("T1", "2024-01-15", "General Withdrawal", "EUR", "-150.00", "-150.00")

	sel, err := s.Select(tx, Classification{Direction: DirectionBank, Region: RegionUnknown})
	require.NoError(t, err)

	assert.Equal(t, "Assets:Clearing", sel.Account)
	assert.Equal(t, ledger.AccountTypeClearing, sel.AccountType)
	assert.True(t, sel.VATRate.IsZero())
}

func TestSelectByDirectionAndRegion(t *testing.T) {
	tests := []struct {
		name      string
		direction Direction
		region    Region
		account   string
		accType   string
		vatRate   string
	}{
		{"local sale", DirectionSale, RegionLocal, "Income:Local", ledger.AccountTypeRevenue, "0.21"},
		{"eu private sale", DirectionSale, RegionEUPrivate, "Income:EUPrivate", ledger.AccountTypeRevenue, "0.21"},
		{"eu icp sale", DirectionSale, RegionEUICP, "Income:EUICP", ledger.AccountTypeRevenue, "0"},
		{"export sale", DirectionSale, RegionOther, "Income:Export", ledger.AccountTypeRevenue, "0"},
		{"local purchase", DirectionPurchase, RegionLocal, "Expenses:Local", ledger.AccountTypeExpense, "0.21"},
		{"import purchase", DirectionPurchase, RegionOther, "Expenses:Import", ledger.AccountTypeExpense, "0"},
		{"unclassified sale", DirectionSale, RegionUnknown, "Income:Unclassified", ledger.AccountTypeRevenue, "0.21"},
	}

	s := NewSelector(testTables())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := makeTx("T1", "2024-01-15", "Website Payment", "EUR", "100.00", "100.00")

			sel, err := s.Select(tx, Classification{Direction: tt.direction, Region: tt.region})
			require.NoError(t, err)

			assert.Equal(t, tt.account, sel.Account)
			assert.Equal(t, tt.accType, sel.AccountType)
			assert.True(t, sel.VATRate.Equal(dec(tt.vatRate)), "got %s", sel.VATRate)
		})
	}
}

func TestSelectUnknownRegionForeignCurrency(t *testing.T) {
	// A transaction that is not even in the home currency cannot be a
	// home or intra-EU deal, so the ambiguous region resolves to Other.
	s := NewSelector(testTables())
	tx := makeTx("T1", "2024-01-15", "Website Payment", "USD", "100.00", "100.00", withCountry(""))

	sel, err := s.Select(tx, Classification{Direction: DirectionSale, Region: RegionUnknown})
	require.NoError(t, err)

	assert.Equal(t, "Income:Export", sel.Account)
	assert.True(t, sel.VATRate.IsZero())
}

func TestSelectInvoiceRequiredPurchases(t *testing.T) {
	tables := testTables()
	tables.InvoiceRequired = true
	tables.Payers = map[string]config.PayerAccount{
		"hosting@example.com": {Account: "Expenses:Hosting", Type: ledger.AccountTypeExpense},
	}
	s := NewSelector(tables)

	t.Run("registered payee", func(t *testing.T) {
		tx := makeTx("T1", "2024-01-15", "Website Payment", "EUR", "-100.00", "-100.00",
			withPayee("hosting@example.com"))

		sel, err := s.Select(tx, Classification{Direction: DirectionPurchase, Region: RegionLocal})
		require.NoError(t, err)

		assert.Equal(t, "Expenses:Hosting", sel.Account)
		assert.Equal(t, ledger.AccountTypeExpense, sel.AccountType)
		assert.True(t, sel.VATRate.IsZero())
		assert.Empty(t, sel.Tag)
	})

	t.Run("unregistered payee parks on suspense", func(t *testing.T) {
		tx := makeTx("T1", "2024-01-15", "Website Payment", "EUR", "-100.00", "-100.00",
			withPayee("stranger@example.com"))

		sel, err := s.Select(tx, Classification{Direction: DirectionPurchase, Region: RegionLocal})
		require.NoError(t, err)

		assert.Equal(t, "Liabilities:Creditors", sel.Account)
		assert.Equal(t, ledger.AccountTypeSuspense, sel.AccountType)
		assert.Equal(t, UnknownCreditorTag, sel.Tag)
	})

	t.Run("sales bypass the registry", func(t *testing.T) {
		tx := makeTx("T1", "2024-01-15", "Website Payment", "EUR", "100.00", "100.00")

		sel, err := s.Select(tx, Classification{Direction: DirectionSale, Region: RegionLocal})
		require.NoError(t, err)

		assert.Equal(t, "Income:Local", sel.Account)
	})
}

func TestSelectUnconfiguredRegion(t *testing.T) {
	tables := testTables()
	delete(tables.SaleAccounts, config.RegionEUICP)
	s := NewSelector(tables)
	tx := makeTx("T1", "2024-01-15", "Website Payment", "EUR", "100.00", "100.00")

	_, err := s.Select(tx, Classification{Direction: DirectionSale, Region: RegionEUICP})
	require.ErrorIs(t, err, ErrUnconfiguredRegion)

	tables = testTables()
	delete(tables.VATRates, config.RegionLocal)
	s = NewSelector(tables)

	_, err = s.Select(tx, Classification{Direction: DirectionSale, Region: RegionLocal})
	require.ErrorIs(t, err, ErrUnconfiguredRegion)
}
