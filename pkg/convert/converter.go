package convert

import (
	"fmt"
	"log/slog"

	"github.com/shunichi-ikebuchi/paypal-ledger/pkg/config"
	"github.com/shunichi-ikebuchi/paypal-ledger/pkg/ledger"
	"github.com/shunichi-ikebuchi/paypal-ledger/pkg/paypal"
)

// Converter is the one-pass pipeline from statement transactions to
// balanced ledger transactions. It owns run-scoped state (the conversion
// grouper and the classification memo), so one Converter must not
// process two independent streams; create one per run.
type Converter struct {
	tables     *config.Tables
	grouper    *grouper
	classifier *Classifier
	selector   *Selector
	builder    *LineBuilder
	logger     *slog.Logger
}

// Option configures a Converter.
type Option func(*Converter)

// WithRegionResolver installs a pluggable resolver for ambiguous EU
// regions.
func WithRegionResolver(resolver RegionResolver) Option {
	return func(c *Converter) {
		c.classifier.resolver = resolver
	}
}

// WithLogger replaces the default slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) {
		c.logger = logger
		c.grouper.logger = logger
	}
}

// New creates a Converter for one conversion run.
func New(tables *config.Tables, opts ...Option) *Converter {
	logger := slog.Default()
	c := &Converter{
		tables:     tables,
		grouper:    newGrouper(tables.HomeCurrency, logger),
		classifier: NewClassifier(tables, nil),
		selector:   NewSelector(tables),
		builder:    NewLineBuilder(tables),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Result is the outcome of one conversion run.
type Result struct {
	Transactions []ledger.Transaction

	MemoSkipped   int // memo records discarded up front
	GroupsAborted int // inconsistent conversion groups dropped
	Salvaged      int // home-currency members of incomplete groups
}

// Run converts an ordered statement into ordered ledger transactions.
// The input must be in the processor's original chronological order;
// reordering breaks conversion grouping and refund memoization. A
// configuration gap aborts the run; data problems are logged, counted
// and worked around per record.
func (c *Converter) Run(records []paypal.Transaction) (*Result, error) {
	result := &Result{}

	for _, record := range records {
		if record.Memo {
			result.MemoSkipped++
			continue
		}
		for _, resolved := range c.grouper.Add(record) {
			if err := c.book(resolved, result); err != nil {
				return nil, err
			}
		}
	}
	for _, resolved := range c.grouper.Flush() {
		if err := c.book(resolved, result); err != nil {
			return nil, err
		}
	}

	result.GroupsAborted = c.grouper.Aborted
	result.Salvaged = c.grouper.Salvaged
	return result, nil
}

func (c *Converter) book(tx paypal.Transaction, result *Result) error {
	cls := c.classifier.Classify(tx)

	sel, err := c.selector.Select(tx, cls)
	if err != nil {
		return fmt.Errorf("transaction %s: %w", tx.TxnRef, err)
	}

	lines, err := c.builder.Build(tx, cls, sel)
	if err != nil {
		return fmt.Errorf("transaction %s: %w", tx.TxnRef, err)
	}
	if len(lines) == 0 {
		c.logger.Debug("transaction produced no lines", "ref", tx.TxnRef, "type", tx.Type)
		return nil
	}

	result.Transactions = append(result.Transactions, ledger.Transaction{
		Date:           tx.Date(),
		Reference:      tx.TxnRef,
		SourceType:     tx.Type,
		Lines:          lines,
		ClosingBalance: tx.Balance,
	})
	return nil
}
