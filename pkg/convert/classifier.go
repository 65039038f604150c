// Package convert turns PayPal statement transactions into balanced
// double-entry ledger transactions: it reassembles foreign-currency
// conversion groups, classifies each transaction into a direction and
// tax region, selects ledger accounts and VAT rates from the configured
// tables, and builds the balanced line pairs.
package convert

import (
	"github.com/shunichi-ikebuchi/paypal-ledger/pkg/config"
	"github.com/shunichi-ikebuchi/paypal-ledger/pkg/paypal"
)

// Direction is the booking direction of a transaction.
type Direction int

// Directions.
const (
	DirectionSale Direction = iota
	DirectionPurchase
	DirectionBank
)

func (d Direction) String() string {
	switch d {
	case DirectionSale:
		return "sale"
	case DirectionPurchase:
		return "purchase"
	case DirectionBank:
		return "bank"
	}
	return "unknown"
}

// Region is the tax/geography bucket driving account and VAT selection.
// Values double as keys into the configured account tables.
type Region string

// Regions.
const (
	RegionLocal     Region = config.RegionLocal
	RegionEUPrivate Region = config.RegionEUPrivate
	RegionEUICP     Region = config.RegionEUICP
	RegionOther     Region = config.RegionOther
	RegionUnknown   Region = config.RegionUnknown
)

// Classification is the outcome of classifying one transaction.
type Classification struct {
	Direction Direction
	Region    Region
}

// RegionResolver optionally resolves the ambiguous EU region of a
// transaction to EUPrivate or EUICP. Returning false leaves the region
// unresolved.
type RegionResolver func(tx paypal.Transaction) (Region, bool)

// bankTypes are transfers between PayPal and the merchant's own bank or
// card, plus raw currency conversions; they never touch revenue or
// expense accounts.
var bankTypes = map[string]bool{
	paypal.TypeWithdrawal:         true,
	paypal.TypeDeposit:            true,
	paypal.TypeCardDeposit:        true,
	paypal.TypeCardWithdrawal:     true,
	paypal.TypeCurrencyConversion: true,
}

// neverInverted lists transaction types that keep the default direction
// even when they reference another transaction. This is a literal
// business-rule table; do not extend it by inference from new processor
// types.
var neverInverted = map[string]bool{
	paypal.TypeCancelledHold:        true,
	paypal.TypePreapprovedPayment:   true,
	paypal.TypeHoldReversal:         true,
	paypal.TypeChargebackReversal:   true,
	paypal.TypePaymentReviewRelease: true,
}

// neverRefundEligible lists hold-style types that are never treated as
// refunds of the transaction they reference. Same caveat as above.
var neverRefundEligible = map[string]bool{
	paypal.TypeDisputeHold:       true,
	paypal.TypeAccountHold:       true,
	paypal.TypePaymentReviewHold: true,
}

// Classifier assigns a direction and tax region to each transaction.
// The refund memo it carries is scoped to one conversion run; a fresh
// Classifier must be used per run.
type Classifier struct {
	tables   *config.Tables
	resolver RegionResolver
	memo     map[string]Direction
}

// NewClassifier creates a Classifier for one run.
func NewClassifier(tables *config.Tables, resolver RegionResolver) *Classifier {
	return &Classifier{
		tables:   tables,
		resolver: resolver,
		memo:     make(map[string]Direction),
	}
}

// Classify determines the direction and region of a transaction. The
// direction of linked transactions is memoized under the transaction's
// own reference so that later refunds stay symmetric with their
// originals. Ambiguous regions legitimately come back Unknown; that is
// data for the account selector, not an error.
func (c *Classifier) Classify(tx paypal.Transaction) Classification {
	if bankTypes[tx.Type] {
		return Classification{Direction: DirectionBank, Region: RegionUnknown}
	}

	direction := c.direction(tx)
	if tx.TxnRef != "" {
		c.memo[tx.TxnRef] = direction
	}

	return Classification{Direction: direction, Region: c.region(tx)}
}

func (c *Classifier) direction(tx paypal.Transaction) Direction {
	refundEligible := tx.RelatedRef != "" && !neverRefundEligible[tx.Type]

	// A memoized direction for the referenced transaction wins over
	// recomputation, keeping refund bookings symmetric.
	if refundEligible {
		if direction, ok := c.memo[tx.RelatedRef]; ok {
			return direction
		}
	}

	// Default: a sale needs positive net and no reference to another
	// transaction; everything else is a purchase.
	def := DirectionPurchase
	if tx.Net.Sign() > 0 && tx.RelatedRef == "" {
		def = DirectionSale
	}

	if !refundEligible || neverInverted[tx.Type] {
		return def
	}

	// Refund inversion: the opposite of what the sign of net suggests.
	if tx.Net.Sign() > 0 {
		return DirectionPurchase
	}
	return DirectionSale
}

func (c *Classifier) region(tx paypal.Transaction) Region {
	switch {
	case tx.CountryCode == "":
		return RegionUnknown
	case tx.CountryCode == c.tables.HomeCountry:
		return RegionLocal
	case c.tables.IsEU(tx.CountryCode):
		if c.resolver != nil {
			if region, ok := c.resolver(tx); ok {
				return region
			}
		}
		return RegionUnknown
	default:
		return RegionOther
	}
}
