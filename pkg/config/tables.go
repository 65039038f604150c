package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Region keys used in the account and VAT-rate tables.
const (
	RegionLocal     = "local"
	RegionEUPrivate = "eu_private"
	RegionEUICP     = "eu_icp"
	RegionOther     = "other"
	RegionUnknown   = "unknown"
)

// PayerAccount is one entry of the payer→account registry: purchases
// from a known payer are booked directly to its ledger account.
type PayerAccount struct {
	Account string `yaml:"account"`
	Type    string `yaml:"type"`
}

// Tables holds the conversion configuration: currency/country settings,
// the per-region account and VAT-rate tables, and the special accounts.
type Tables struct {
	HomeCurrency string   `yaml:"home_currency"`
	HomeCountry  string   `yaml:"home_country"`
	EUCountries  []string `yaml:"eu_countries"`

	// PayPalAccount is the ledger account mirroring the PayPal balance;
	// every balanced pair posts its bank side here.
	PayPalAccount string `yaml:"paypal_account"`

	// ClearingAccount receives bank-transfer bookings and any
	// foreign-currency conversion remainders.
	ClearingAccount string `yaml:"clearing_account"`

	// CreditorsSuspense receives invoice-required purchases from payers
	// absent from the registry.
	CreditorsSuspense string `yaml:"creditors_suspense"`

	// VATAccount, when set, books VAT splits as their own balanced
	// pairs. When empty, lines carry the VAT rate as metadata only.
	VATAccount string `yaml:"vat_account"`

	InvoiceRequired bool `yaml:"invoice_required"`

	SaleAccounts     map[string]string `yaml:"sale_accounts"`
	PurchaseAccounts map[string]string `yaml:"purchase_accounts"`

	// VAT rates are written as decimal strings ("0.21") to keep them
	// exact; RawVATRates is the YAML form, VATRates the parsed table.
	RawVATRates map[string]string          `yaml:"vat_rates"`
	VATRates    map[string]decimal.Decimal `yaml:"-"`

	Payers map[string]PayerAccount `yaml:"payers"`

	euSet map[string]bool
}

// LoadTables loads the conversion tables from a YAML file.
func LoadTables(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tables file: %w", err)
	}

	var tables Tables
	if err := yaml.Unmarshal(data, &tables); err != nil {
		return nil, fmt.Errorf("failed to parse tables YAML: %w", err)
	}

	if err := tables.Validate(); err != nil {
		return nil, err
	}

	tables.VATRates = make(map[string]decimal.Decimal, len(tables.RawVATRates))
	for region, raw := range tables.RawVATRates {
		rate, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid VAT rate for region %s: %q", region, raw)
		}
		tables.VATRates[region] = rate
	}

	tables.buildEUSet()
	return &tables, nil
}

// Validate checks the settings a conversion cannot run without. Missing
// individual table entries surface later as unconfigured-region errors.
func (t *Tables) Validate() error {
	var missing []string
	if t.HomeCurrency == "" {
		missing = append(missing, "home_currency")
	}
	if t.HomeCountry == "" {
		missing = append(missing, "home_country")
	}
	if t.PayPalAccount == "" {
		missing = append(missing, "paypal_account")
	}
	if t.ClearingAccount == "" {
		missing = append(missing, "clearing_account")
	}
	if t.InvoiceRequired && t.CreditorsSuspense == "" {
		missing = append(missing, "creditors_suspense")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required table settings: %v", missing)
	}
	return nil
}

func (t *Tables) buildEUSet() {
	t.euSet = make(map[string]bool, len(t.EUCountries))
	for _, cc := range t.EUCountries {
		t.euSet[cc] = true
	}
}

// IsEU reports whether a country code belongs to the configured EU set.
func (t *Tables) IsEU(countryCode string) bool {
	if t.euSet == nil {
		t.buildEUSet()
	}
	return t.euSet[countryCode]
}

// SaleAccount returns the sale ledger account for a region.
func (t *Tables) SaleAccount(region string) (string, bool) {
	account, ok := t.SaleAccounts[region]
	return account, ok && account != ""
}

// PurchaseAccount returns the purchase ledger account for a region.
func (t *Tables) PurchaseAccount(region string) (string, bool) {
	account, ok := t.PurchaseAccounts[region]
	return account, ok && account != ""
}

// VATRate returns the configured VAT rate for a region.
func (t *Tables) VATRate(region string) (decimal.Decimal, bool) {
	rate, ok := t.VATRates[region]
	return rate, ok
}

// Payer returns the registry entry for a payer identifier.
func (t *Tables) Payer(id string) (PayerAccount, bool) {
	entry, ok := t.Payers[id]
	return entry, ok
}
