package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/shunichi-ikebuchi/paypal-ledger/pkg/config"
	"github.com/shunichi-ikebuchi/paypal-ledger/pkg/db"
	"github.com/shunichi-ikebuchi/paypal-ledger/pkg/pathutil"
)

// statsCmd represents the stats command.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display conversion statistics",
	Long: `Display statistics about booked transactions.

Shows:
- Total number of booked transactions
- Last conversion timestamp

Example:
  paypal-sync stats`,
	Run: runStats,
}

func runStats(cmd *cobra.Command, args []string) {
	slog.Info("Loading configuration")

	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	if err := cfg.Validate("ledger.root"); err != nil {
		exitOnError(err, "invalid configuration")
	}

	pathResolver := pathutil.New(pathutil.Config{
		LedgerRoot:   cfg.Ledger.Root,
		DatabasePath: cfg.Ledger.DBPath,
	})

	dbPath := pathResolver.GetDatabasePath()
	slog.Debug("Opening database", "path", dbPath)

	conn, err := db.Open(dbPath)
	exitOnError(err, "failed to open database")
	defer conn.Close()

	history := db.NewConversionHistory(conn)

	stats, err := history.GetStats()
	exitOnError(err, "failed to get statistics")

	fmt.Println("\n=== Conversion Statistics ===")
	fmt.Printf("Total booked transactions: %d\n", stats.TotalTransactions)

	if stats.LastRun.Valid {
		fmt.Printf("Last run:                  %s\n", stats.LastRun.String)
	} else {
		fmt.Printf("Last run:                  (never)\n")
	}

	lastStatement, err := history.GetMetadata("last_statement")
	exitOnError(err, "failed to get run metadata")
	if lastStatement != "" {
		fmt.Printf("Last statement:            %s\n", lastStatement)
	}

	fmt.Println()

	slog.Info("Statistics displayed successfully")
}
