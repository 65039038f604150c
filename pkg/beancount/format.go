// Package beancount renders ledger transactions as Beancount text and
// manages the monthly ledger files.
package beancount

import (
	"fmt"
	"strings"

	"github.com/shunichi-ikebuchi/paypal-ledger/pkg/ledger"
)

const amountColumn = 60

// FormatTransaction formats a ledger transaction as a Beancount entry.
func FormatTransaction(txn ledger.Transaction, currency string) string {
	var sb strings.Builder

	sb.WriteString(txn.Date.Format("2006-01-02"))
	sb.WriteString(" *")
	if len(txn.Lines) > 0 {
		sb.WriteString(fmt.Sprintf(" %q", txn.Lines[0].Description))
	}
	if txn.Reference != "" {
		sb.WriteString(" #")
		sb.WriteString(txn.Reference)
	}
	sb.WriteString("\n")

	for _, line := range txn.Lines {
		sb.WriteString("  ")
		sb.WriteString(line.Account)

		spaces := amountColumn - len(line.Account)
		if spaces < 1 {
			spaces = 1
		}
		sb.WriteString(strings.Repeat(" ", spaces))

		sb.WriteString(line.Amount.StringFixed(2))
		sb.WriteString(" ")
		sb.WriteString(currency)

		if line.ForeignCurrency != "" && !line.ForeignAmount.IsZero() {
			sb.WriteString(fmt.Sprintf(" ; %s %s @ %s",
				line.ForeignAmount.StringFixed(2),
				line.ForeignCurrency,
				line.Rate.String(),
			))
			if line.Note != "" {
				sb.WriteString(", " + line.Note)
			}
		} else if line.Note != "" {
			sb.WriteString(" ; " + line.Note)
		}

		sb.WriteString("\n")
	}

	return sb.String()
}
