package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Rounding introduces at most this much drift per transaction between
// the booked bank lines and the processor's reported balance.
var balanceTolerance = decimal.RequireFromString("0.02")

// VerifyBalances replays all bank-account lines in input order and checks
// the running sum against each transaction's reported closing balance.
// The allowed deviation grows by the per-transaction rounding bias, so a
// long run is permitted proportionally more accumulated drift.
func VerifyBalances(txns []Transaction, initialBalance decimal.Decimal) error {
	running := decimal.Zero
	for i, txn := range txns {
		running = running.Add(txn.BankSum())

		expected := txn.ClosingBalance.Sub(initialBalance)
		tolerance := balanceTolerance.Mul(decimal.NewFromInt(int64(i + 1)))
		if running.Sub(expected).Abs().GreaterThan(tolerance) {
			return fmt.Errorf("balance mismatch at %s (%s): booked %s, processor reports %s (tolerance %s)",
				txn.Reference,
				txn.Date.Format("2006-01-02"),
				running.StringFixed(2),
				expected.StringFixed(2),
				tolerance.StringFixed(2),
			)
		}
	}
	return nil
}
