package paypal

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecord() Record {
	return Record{
		Date:           "15/01/2024 10:30:00",
		Type:           "Website Payment",
		Status:         "Completed",
		Currency:       "EUR",
		Gross:          "100.00",
		Fee:            "-5.00",
		Net:            "95.00",
		FromEmail:      "buyer@example.com",
		ToEmail:        "merchant@example.com",
		TransactionID:  "TXN001",
		ReferenceTxnID: "",
		CountryCode:    "NL",
		Balance:        "195.00",
		BalanceImpact:  "Credit",
	}
}

func TestParseRecord(t *testing.T) {
	tx, err := ParseRecord(validRecord())
	require.NoError(t, err)

	assert.Equal(t, "Website Payment", tx.Type)
	assert.Equal(t, "EUR", tx.Currency)
	assert.True(t, tx.Gross.Equal(decimal.RequireFromString("100.00")))
	assert.True(t, tx.Fee.Equal(decimal.RequireFromString("-5.00")))
	assert.True(t, tx.Net.Equal(decimal.RequireFromString("95.00")))
	assert.Equal(t, "TXN001", tx.TxnRef)
	assert.Equal(t, "NL", tx.CountryCode)
	assert.True(t, tx.Balance.Equal(decimal.RequireFromString("195.00")))
	assert.False(t, tx.Memo)
	assert.Equal(t, "2024-01-15", tx.Date().Format("2006-01-02"))
	assert.Equal(t, "2024-01", tx.Month())
}

func TestParseRecordDateFormats(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		wantDay string
		wantErr bool
	}{
		{"european", "15/01/2024 10:30:00", "2024-01-15", false},
		{"iso", "2024-01-15 10:30:00", "2024-01-15", false},
		{"date only", "2024-01-15", "", true},
		{"free text", "Jan 15, 2024", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validRecord()
			rec.Date = tt.date
			tx, err := ParseRecord(rec)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrMalformedRow)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDay, tx.Date().Format("2006-01-02"))
		})
	}
}

func TestParseRecordMalformedMoney(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Record)
	}{
		{"gross", func(r *Record) { r.Gross = "abc" }},
		{"fee", func(r *Record) { r.Fee = "1.2.3" }},
		{"net", func(r *Record) { r.Net = "€95" }},
		{"balance", func(r *Record) { r.Balance = "-" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validRecord()
			tt.mutate(&rec)
			_, err := ParseRecord(rec)
			require.ErrorIs(t, err, ErrMalformedRow)
		})
	}
}

func TestParseRecordEmptyAmountsAreZero(t *testing.T) {
	rec := validRecord()
	rec.Fee = ""
	tx, err := ParseRecord(rec)
	require.NoError(t, err)
	assert.True(t, tx.Fee.IsZero())
}

func TestParseRecordThousandsSeparators(t *testing.T) {
	rec := validRecord()
	rec.Gross = "1,234.56"
	tx, err := ParseRecord(rec)
	require.NoError(t, err)
	assert.True(t, tx.Gross.Equal(decimal.RequireFromString("1234.56")))
}

func TestParseRecordMemoFlag(t *testing.T) {
	rec := validRecord()
	rec.BalanceImpact = "Memo"
	tx, err := ParseRecord(rec)
	require.NoError(t, err)
	assert.True(t, tx.Memo)
}

func TestReadStatement(t *testing.T) {
	csv := strings.Join([]string{
		`Date,Time,Type,Status,Currency,Gross,Fee,Net,From Email Address,To Email Address,Transaction ID,Reference Txn ID,Country Code,Balance,Balance Impact`,
		`15/01/2024,10:30:00,Website Payment,Completed,EUR,100.00,-5.00,95.00,buyer@example.com,merchant@example.com,TXN001,,NL,195.00,Credit`,
		`15/01/2024,11:00:00,Refund,Completed,EUR,-50.00,2.50,-47.50,merchant@example.com,buyer@example.com,TXN002,TXN001,NL,147.50,Debit`,
	}, "\n")

	rows, err := ReadStatement(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "15/01/2024 10:30:00", rows[0].Date)
	assert.Equal(t, "Website Payment", rows[0].Type)
	assert.Equal(t, "TXN001", rows[0].TransactionID)
	assert.Equal(t, "TXN001", rows[1].ReferenceTxnID)

	tx, err := ParseRecord(rows[1])
	require.NoError(t, err)
	assert.Equal(t, "Refund", tx.Type)
	assert.True(t, tx.Net.Equal(decimal.RequireFromString("-47.50")))
}

func TestReadStatementHeaderByteOrderMark(t *testing.T) {
	// Exports saved as UTF-8-with-BOM prefix the first header cell.
	csv := strings.Join([]string{
		"\ufeff" + `Date,Type,Status,Currency,Gross,Fee,Net,Transaction ID,Balance`,
		`2024-01-15 10:30:00,Website Payment,Completed,EUR,100.00,0.00,100.00,TXN001,100.00`,
	}, "\n")

	rows, err := ReadStatement(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2024-01-15 10:30:00", rows[0].Date)
}

func TestReadStatementCombinedDateColumn(t *testing.T) {
	csv := strings.Join([]string{
		`Date,Type,Status,Currency,Gross,Fee,Net,Transaction ID,Balance`,
		`2024-01-15 10:30:00,Website Payment,Completed,EUR,100.00,0.00,100.00,TXN001,100.00`,
	}, "\n")

	rows, err := ReadStatement(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	tx, err := ParseRecord(rows[0])
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", tx.Date().Format("2006-01-02"))
}
