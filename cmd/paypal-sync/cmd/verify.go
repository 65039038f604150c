package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/shunichi-ikebuchi/paypal-ledger/pkg/config"
	"github.com/shunichi-ikebuchi/paypal-ledger/pkg/convert"
	"github.com/shunichi-ikebuchi/paypal-ledger/pkg/ledger"
)

var (
	verifyStatement string
	initialBalance  string
)

// verifyCmd represents the verify command.
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the booked balance against a statement",
	Long: `Convert a statement in memory, without writing anything, and
check that the running sum of bank-account lines reconciles with the
balance the processor reports after each transaction.

Example:
  paypal-sync verify --statement download.csv --initial-balance 120.50`,
	Run: runVerify,
}

func init() {
	verifyCmd.Flags().StringVar(&verifyStatement, "statement", "", "Statement CSV file (required)")
	verifyCmd.Flags().StringVar(&initialBalance, "initial-balance", "0", "Account balance before the first statement row")

	verifyCmd.MarkFlagRequired("statement")
}

func runVerify(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	if err := cfg.Validate("ledger.tables"); err != nil {
		exitOnError(err, "invalid configuration")
	}

	tables, err := config.LoadTables(cfg.Ledger.TablesPath)
	exitOnError(err, "failed to load conversion tables")

	initial, err := decimal.NewFromString(initialBalance)
	exitOnError(err, "invalid --initial-balance")

	records := readStatementFile(verifyStatement)

	converter := convert.New(tables)
	result, err := converter.Run(records)
	exitOnError(err, "conversion failed")

	if err := ledger.VerifyBalances(result.Transactions, initial); err != nil {
		exitOnError(err, "balance verification failed")
	}

	slog.Info("Balance verified", "transactions", len(result.Transactions))
	fmt.Printf("OK: %d transactions reconcile with the statement balance\n", len(result.Transactions))
}
