package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/shunichi-ikebuchi/paypal-ledger/pkg/beancount"
	"github.com/shunichi-ikebuchi/paypal-ledger/pkg/config"
	"github.com/shunichi-ikebuchi/paypal-ledger/pkg/convert"
	"github.com/shunichi-ikebuchi/paypal-ledger/pkg/db"
	"github.com/shunichi-ikebuchi/paypal-ledger/pkg/ledger"
	"github.com/shunichi-ikebuchi/paypal-ledger/pkg/pathutil"
	"github.com/shunichi-ikebuchi/paypal-ledger/pkg/paypal"
)

var (
	statementFile string
	dryRun        bool
	skipMalformed bool
)

// convertCmd represents the convert command.
var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a PayPal statement to ledger files",
	Long: `Convert a PayPal statement CSV download to monthly ledger files.

This command:
1. Reads and parses the statement rows
2. Runs the conversion pipeline (grouping, classification, line building)
3. Filters out already booked transactions
4. Appends to monthly Beancount files
5. Records conversion history in SQLite

Example:
  paypal-sync convert --statement download.csv
  paypal-sync convert --statement download.csv --dry-run`,
	Run: runConvert,
}

func init() {
	convertCmd.Flags().StringVar(&statementFile, "statement", "", "Statement CSV file (required)")
	convertCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Dry run mode (no file writes)")
	convertCmd.Flags().BoolVar(&skipMalformed, "skip-malformed", false, "Skip rows that fail to parse instead of aborting")

	convertCmd.MarkFlagRequired("statement")
}

func runConvert(cmd *cobra.Command, args []string) {
	slog.Info("Starting conversion", "statement", statementFile, "dry_run", dryRun)

	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	if err := cfg.Validate("ledger.root", "ledger.tables"); err != nil {
		exitOnError(err, "invalid configuration")
	}

	tables, err := config.LoadTables(cfg.Ledger.TablesPath)
	exitOnError(err, "failed to load conversion tables")

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

	records := readStatementFile(statementFile)

	converter := convert.New(tables)
	result, err := converter.Run(records)
	exitOnError(err, "conversion failed")

	slog.Info("Converted statement",
		"transactions", len(result.Transactions),
		"memo_skipped", result.MemoSkipped,
		"groups_aborted", result.GroupsAborted,
		"salvaged", result.Salvaged,
	)

	// Filter out transactions booked by an earlier run.
	converted, err := history.ConvertedRefs()
	exitOnError(err, "failed to get conversion history")

	var newTxns []ledger.Transaction
	for _, txn := range result.Transactions {
		if !converted[txn.Reference] {
			newTxns = append(newTxns, txn)
		}
	}
	slog.Info("New transactions to book",
		"new", len(newTxns),
		"skipped", len(result.Transactions)-len(newTxns),
	)

	if len(newTxns) == 0 {
		fmt.Println("No new transactions to book")
		return
	}

	repo := beancount.NewFileSystemRepository(pathResolver)
	byMonth := ledger.GroupByMonth(newTxns)

	filesWritten := []string{}
	for _, monthKey := range ledger.MonthKeys(byMonth) {
		monthTxns := byMonth[monthKey]

		filePath, err := pathResolver.GetMonthFilePath(monthKey)
		if err != nil {
			slog.Error("Failed to get month file path", "month", monthKey, "error", err)
			continue
		}

		if dryRun {
			fmt.Printf("[DRY RUN] Would append to %s\n", filePath)
			for _, txn := range monthTxns {
				fmt.Println(beancount.FormatTransaction(txn, tables.HomeCurrency))
			}
			continue
		}

		if err := repo.EnsureMonthFile(monthKey); err != nil {
			slog.Error("Failed to ensure month file", "month", monthKey, "error", err)
			continue
		}

		for _, txn := range monthTxns {
			formatted := beancount.FormatTransaction(txn, tables.HomeCurrency)

			if err := repo.AppendTransaction(monthKey, formatted); err != nil {
				slog.Error("Failed to append transaction", "ref", txn.Reference, "error", err)
				continue
			}

			if err := history.Record(db.ConversionRecord{
				TxnRef:     txn.Reference,
				TxnType:    txn.SourceType,
				IssueDate:  txn.Date.Format("2006-01-02"),
				Amount:     txn.BankSum().StringFixed(2),
				Currency:   tables.HomeCurrency,
				LedgerFile: filePath,
			}); err != nil {
				slog.Error("Failed to record conversion", "ref", txn.Reference, "error", err)
			}
		}

		filesWritten = append(filesWritten, filePath)
		slog.Info("Updated file", "path", filePath, "transactions", len(monthTxns))
	}

	if !dryRun {
		if err := history.SetMetadata("last_statement", statementFile); err != nil {
			slog.Error("Failed to record run metadata", "error", err)
		}
	}

	slog.Info("Conversion completed",
		"new_transactions", len(newTxns),
		"files_written", len(filesWritten),
	)
}

// readStatementFile reads and parses the statement CSV, honoring the
// --skip-malformed policy for rows that fail to parse.
func readStatementFile(path string) []paypal.Transaction {
	f, err := os.Open(path)
	exitOnError(err, "failed to open statement file")
	defer f.Close()

	rows, err := paypal.ReadStatement(f)
	exitOnError(err, "failed to read statement")

	var records []paypal.Transaction
	for i, row := range rows {
		record, err := paypal.ParseRecord(row)
		if err != nil {
			if skipMalformed {
				slog.Warn("Skipping malformed row", "row", i+2, "error", err)
				continue
			}
			exitOnError(err, fmt.Sprintf("malformed statement row %d", i+2))
		}
		records = append(records, record)
	}

	slog.Info("Parsed statement", "rows", len(rows), "records", len(records))
	return records
}
