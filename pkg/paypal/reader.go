package paypal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrMalformedRow indicates a statement row whose monetary or date fields
// could not be parsed. The error is local to one record; callers decide
// whether to skip the row or abort the run.
var ErrMalformedRow = errors.New("malformed statement row")

// Accepted timestamp layouts. PayPal download settings produce either,
// depending on the account's locale.
var timestampLayouts = []string{
	"02/01/2006 15:04:05",
	"2006-01-02 15:04:05",
}

// Record holds the raw string fields of one statement row, already
// demultiplexed from the source encoding.
type Record struct {
	Date           string
	Type           string
	Status         string
	Currency       string
	Gross          string
	Fee            string
	Net            string
	FromEmail      string
	ToEmail        string
	TransactionID  string
	ReferenceTxnID string
	CountryCode    string
	Balance        string
	BalanceImpact  string
}

// ParseRecord converts a raw row into a typed Transaction. Money fields
// become exact decimals and the date must match one of the accepted
// layouts; anything else fails with a wrapped ErrMalformedRow.
func ParseRecord(rec Record) (Transaction, error) {
	ts, err := parseTimestamp(rec.Date)
	if err != nil {
		return Transaction{}, err
	}

	gross, err := parseAmount("gross", rec.Gross)
	if err != nil {
		return Transaction{}, err
	}
	fee, err := parseAmount("fee", rec.Fee)
	if err != nil {
		return Transaction{}, err
	}
	net, err := parseAmount("net", rec.Net)
	if err != nil {
		return Transaction{}, err
	}
	balance, err := parseAmount("balance", rec.Balance)
	if err != nil {
		return Transaction{}, err
	}

	return Transaction{
		Timestamp:   ts,
		Type:        strings.TrimSpace(rec.Type),
		Status:      strings.TrimSpace(rec.Status),
		Currency:    strings.ToUpper(strings.TrimSpace(rec.Currency)),
		Gross:       gross,
		Fee:         fee,
		Net:         net,
		Payer:       strings.TrimSpace(rec.FromEmail),
		Payee:       strings.TrimSpace(rec.ToEmail),
		TxnRef:      strings.TrimSpace(rec.TransactionID),
		RelatedRef:  strings.TrimSpace(rec.ReferenceTxnID),
		CountryCode: strings.ToUpper(strings.TrimSpace(rec.CountryCode)),
		Balance:     balance,
		Memo:        strings.EqualFold(strings.TrimSpace(rec.BalanceImpact), "Memo"),
	}, nil
}

func parseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognized date %q", ErrMalformedRow, value)
}

func parseAmount(field, value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, nil
	}
	// Statements use thousands separators in some locales.
	value = strings.ReplaceAll(value, ",", "")
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %s field %q", ErrMalformedRow, field, value)
	}
	return d, nil
}

// Statement column headers recognized by ReadStatement.
var statementColumns = map[string]func(*Record, string){
	"date":               func(r *Record, v string) { r.Date = v },
	"type":               func(r *Record, v string) { r.Type = v },
	"status":             func(r *Record, v string) { r.Status = v },
	"currency":           func(r *Record, v string) { r.Currency = v },
	"gross":              func(r *Record, v string) { r.Gross = v },
	"fee":                func(r *Record, v string) { r.Fee = v },
	"net":                func(r *Record, v string) { r.Net = v },
	"from email address": func(r *Record, v string) { r.FromEmail = v },
	"to email address":   func(r *Record, v string) { r.ToEmail = v },
	"transaction id":     func(r *Record, v string) { r.TransactionID = v },
	"reference txn id":   func(r *Record, v string) { r.ReferenceTxnID = v },
	"country code":       func(r *Record, v string) { r.CountryCode = v },
	"balance":            func(r *Record, v string) { r.Balance = v },
	"balance impact":     func(r *Record, v string) { r.BalanceImpact = v },
}

// ReadStatement reads a PayPal statement CSV download and returns its rows
// as Records, in file order. Columns are matched by header name; separate
// Date and Time columns are combined into the Date field.
func ReadStatement(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read statement header: %w", err)
	}

	setters := make([]func(*Record, string), len(header))
	timeCol := -1
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF")))
		if key == "time" {
			timeCol = i
			continue
		}
		setters[i] = statementColumns[key]
	}

	var records []Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read statement row: %w", err)
		}

		var rec Record
		for i, value := range row {
			if i < len(setters) && setters[i] != nil {
				setters[i](&rec, value)
			}
		}
		if timeCol >= 0 && timeCol < len(row) {
			rec.Date = strings.TrimSpace(rec.Date) + " " + strings.TrimSpace(row[timeCol])
		}
		records = append(records, rec)
	}

	return records, nil
}
