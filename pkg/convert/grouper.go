package convert

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shunichi-ikebuchi/paypal-ledger/pkg/paypal"
)

// ErrInconsistentConversionGroup indicates a complete 3-record currency
// conversion group whose legs do not cross-reference each other. The
// group is dropped; the run continues.
var ErrInconsistentConversionGroup = errors.New("inconsistent conversion group")

const conversionRatePlaces = 7

// keyByRelatedRef lists types that are grouped under the transaction
// they reference instead of their own reference.
var keyByRelatedRef = map[string]bool{
	paypal.TypeCurrencyConversion: true,
	paypal.TypeRefund:             true,
	paypal.TypeDeposit:            true,
	paypal.TypeReversal:           true,
}

// grouper reassembles the processor's 3-record foreign-currency
// conversion pattern into one synthetic transaction: a map of join key
// to bounded buffer with size-based completion and date-based eviction.
type grouper struct {
	home   string
	logger *slog.Logger

	groups map[string][]paypal.Transaction
	order  []string // group keys in first-seen order

	Salvaged int
	Aborted  int
}

func newGrouper(homeCurrency string, logger *slog.Logger) *grouper {
	return &grouper{
		home:   homeCurrency,
		logger: logger,
		groups: make(map[string][]paypal.Transaction),
	}
}

// Add feeds one record through the grouper and returns the transactions
// that became fully resolved: pass-throughs, salvaged members of evicted
// groups, and synthesized foreign-currency sales.
func (g *grouper) Add(tx paypal.Transaction) []paypal.Transaction {
	// A record on a new date means pending groups from earlier dates
	// will never complete.
	out := g.evictBefore(tx.Date())

	if tx.Type != paypal.TypeCurrencyConversion && tx.Currency == g.home {
		return append(out, tx)
	}

	key := tx.TxnRef
	if keyByRelatedRef[tx.Type] && tx.RelatedRef != "" {
		key = tx.RelatedRef
	}

	if _, ok := g.groups[key]; !ok {
		g.order = append(g.order, key)
	}
	g.groups[key] = append(g.groups[key], tx)

	if len(g.groups[key]) < 3 {
		return out
	}

	members := g.groups[key]
	g.drop(key)

	combined, err := combine(members, g.home)
	if err != nil {
		g.Aborted++
		g.logger.Error("dropping conversion group",
			"key", key,
			"error", err,
		)
		return out
	}
	return append(out, combined)
}

// Flush evicts all pending groups, salvaging home-currency members.
func (g *grouper) Flush() []paypal.Transaction {
	return g.evictBefore(time.Time{})
}

// evictBefore flushes groups whose date differs from the given date.
// Home-currency members are forwarded standalone as if they were
// non-converted transactions; foreign members are discarded.
func (g *grouper) evictBefore(date time.Time) []paypal.Transaction {
	var out []paypal.Transaction
	var evicted []string

	for _, key := range g.order {
		members, ok := g.groups[key]
		if !ok || len(members) == 0 {
			continue
		}
		if !date.IsZero() && members[0].Date().Equal(date) {
			continue
		}

		g.logger.Warn("incomplete conversion group",
			"key", key,
			"size", len(members),
			"date", members[0].Date().Format("2006-01-02"),
		)
		for _, m := range members {
			if m.Currency == g.home {
				g.Salvaged++
				out = append(out, m)
			}
		}
		evicted = append(evicted, key)
	}

	for _, key := range evicted {
		g.drop(key)
	}
	return out
}

func (g *grouper) drop(key string) {
	delete(g.groups, key)
	for i, k := range g.order {
		if k == key {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
}

// combine reconstructs the logical sale from a complete group: the sale
// leg, the home-currency conversion leg and the foreign-currency
// conversion leg. It derives a new record; the sources stay untouched.
func combine(members []paypal.Transaction, home string) (paypal.Transaction, error) {
	var sale, homeLeg, foreignLeg *paypal.Transaction
	for i := range members {
		m := &members[i]
		switch {
		case m.Type == paypal.TypeCurrencyConversion && m.Currency == home:
			homeLeg = m
		case m.Type == paypal.TypeCurrencyConversion:
			foreignLeg = m
		case m.Currency != home:
			sale = m
		}
	}
	if sale == nil || homeLeg == nil || foreignLeg == nil {
		return paypal.Transaction{}, fmt.Errorf("%w: legs not identifiable", ErrInconsistentConversionGroup)
	}
	if foreignLeg.Currency != sale.Currency {
		return paypal.Transaction{}, fmt.Errorf("%w: conversion leg currency %s does not match sale currency %s",
			ErrInconsistentConversionGroup, foreignLeg.Currency, sale.Currency)
	}

	// The processor tags conversion legs inconsistently: they reference
	// either the sale itself or whatever the sale references.
	for _, leg := range []*paypal.Transaction{homeLeg, foreignLeg} {
		if leg.RelatedRef != sale.TxnRef && (sale.RelatedRef == "" || leg.RelatedRef != sale.RelatedRef) {
			return paypal.Transaction{}, fmt.Errorf("%w: leg %s does not reference sale %s",
				ErrInconsistentConversionGroup, leg.TxnRef, sale.TxnRef)
		}
	}

	if foreignLeg.Net.IsZero() {
		return paypal.Transaction{}, fmt.Errorf("%w: foreign conversion leg has zero net", ErrInconsistentConversionGroup)
	}
	rate := homeLeg.Gross.DivRound(foreignLeg.Net.Neg(), conversionRatePlaces)

	combined := *sale
	combined.RateKnown = true
	combined.ConversionRate = rate
	combined.Balance = members[len(members)-1].Balance

	// PayPal sometimes leaves foreign-currency residue on the account.
	remainder := sale.Net.Add(foreignLeg.Gross)
	if !remainder.IsZero() {
		combined.Remainder = remainder.Mul(rate).Round(2)
	} else {
		combined.Remainder = decimal.Zero
	}

	return combined, nil
}
