package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// IncomeTaxRules holds the tariff constants of one tax year (§32a EStG layout).
//
// Zone 1: income <= BasicAllowance -> 0
// Zone 2: (Zone2A*y + Zone2B)*y, y = (income - BasicAllowance)/10000
// Zone 3: (Zone3A*z + Zone3B)*z + Zone3C, z = (income - Zone2Upper)/10000
// Zone 4: Zone4Rate*income - Zone4Offset
// Zone 5: TopRate*income - TopOffset
type IncomeTaxRules struct {
	Year           int             `yaml:"year" json:"year"`
	BasicAllowance decimal.Decimal `yaml:"basic_allowance" json:"basic_allowance"`
	Zone2Upper     decimal.Decimal `yaml:"zone2_upper" json:"zone2_upper"`
	Zone2A         decimal.Decimal `yaml:"zone2_a" json:"zone2_a"`
	Zone2B         decimal.Decimal `yaml:"zone2_b" json:"zone2_b"`
	Zone3Upper     decimal.Decimal `yaml:"zone3_upper" json:"zone3_upper"`
	Zone3A         decimal.Decimal `yaml:"zone3_a" json:"zone3_a"`
	Zone3B         decimal.Decimal `yaml:"zone3_b" json:"zone3_b"`
	Zone3C         decimal.Decimal `yaml:"zone3_c" json:"zone3_c"`
	Zone4Upper     decimal.Decimal `yaml:"zone4_upper" json:"zone4_upper"`
	Zone4Rate      decimal.Decimal `yaml:"zone4_rate" json:"zone4_rate"`
	Zone4Offset    decimal.Decimal `yaml:"zone4_offset" json:"zone4_offset"`
	TopRate        decimal.Decimal `yaml:"top_rate" json:"top_rate"`
	TopOffset      decimal.Decimal `yaml:"top_offset" json:"top_offset"`
}

// DefaultIncomeTaxRules returns the 2024 tariff as amended in December 2024.
func DefaultIncomeTaxRules() IncomeTaxRules {
	return IncomeTaxRules{
		Year:           2024,
		BasicAllowance: decimal.NewFromInt(11784),
		Zone2Upper:     decimal.NewFromInt(17005),
		Zone2A:         decimal.RequireFromString("954.80"),
		Zone2B:         decimal.NewFromInt(1400),
		Zone3Upper:     decimal.NewFromInt(66760),
		Zone3A:         decimal.RequireFromString("181.19"),
		Zone3B:         decimal.NewFromInt(2397),
		Zone3C:         decimal.RequireFromString("991.21"),
		Zone4Upper:     decimal.NewFromInt(277825),
		Zone4Rate:      decimal.RequireFromString("0.42"),
		Zone4Offset:    decimal.RequireFromString("10636.31"),
		TopRate:        decimal.RequireFromString("0.45"),
		TopOffset:      decimal.RequireFromString("18971.06"),
	}
}

// Rules collects every statutory constant the engine reads. Nothing in the
// engine hard-codes law; callers may load these from configuration.
type Rules struct {
	IncomeTax IncomeTaxRules `yaml:"income_tax" json:"income_tax"`

	// TransferTaxRates maps a state code (BY, NW, ...) to the Grunderwerbsteuer percentage.
	TransferTaxRates       map[string]decimal.Decimal `yaml:"transfer_tax_rates" json:"transfer_tax_rates"`
	DefaultTransferTaxRate decimal.Decimal            `yaml:"default_transfer_tax_rate" json:"default_transfer_tax_rate"`

	// ChurchTaxRates maps a state code to the church tax percentage of income tax.
	ChurchTaxRates       map[string]decimal.Decimal `yaml:"church_tax_rates" json:"church_tax_rates"`
	DefaultChurchTaxRate decimal.Decimal            `yaml:"default_church_tax_rate" json:"default_church_tax_rate"`

	// Shares used when land+building+maintenance is zero
	DefaultLandShare     decimal.Decimal `yaml:"default_land_share" json:"default_land_share"`
	DefaultBuildingShare decimal.Decimal `yaml:"default_building_share" json:"default_building_share"`

	FurnitureDepreciationYears int `yaml:"furniture_depreciation_years" json:"furniture_depreciation_years"`

	// Applied by the sanitizer when a property leaves them at zero. The building
	// rate is the linear §7 Abs. 4 EStG rate; the loan terms only fill a tranche
	// whose amount is derived from the down payment.
	DefaultDepreciationRate decimal.Decimal `yaml:"default_depreciation_rate" json:"default_depreciation_rate"`
	DefaultInterestRate     decimal.Decimal `yaml:"default_interest_rate" json:"default_interest_rate"`
	DefaultAmortizationRate decimal.Decimal `yaml:"default_amortization_rate" json:"default_amortization_rate"`
}

// DefaultRules returns the 2024 constants.
func DefaultRules() Rules {
	return Rules{
		IncomeTax: DefaultIncomeTaxRules(),
		TransferTaxRates: map[string]decimal.Decimal{
			"BW": decimal.RequireFromString("5.0"),
			"BY": decimal.RequireFromString("3.5"),
			"BE": decimal.RequireFromString("6.0"),
			"BB": decimal.RequireFromString("6.5"),
			"HB": decimal.RequireFromString("5.0"),
			"HH": decimal.RequireFromString("5.5"),
			"HE": decimal.RequireFromString("6.0"),
			"MV": decimal.RequireFromString("6.0"),
			"NI": decimal.RequireFromString("5.0"),
			"NW": decimal.RequireFromString("6.5"),
			"RP": decimal.RequireFromString("5.0"),
			"SL": decimal.RequireFromString("6.5"),
			"SN": decimal.RequireFromString("5.5"),
			"ST": decimal.RequireFromString("5.0"),
			"SH": decimal.RequireFromString("6.5"),
			"TH": decimal.RequireFromString("5.0"),
		},
		DefaultTransferTaxRate: decimal.RequireFromString("5.0"),
		ChurchTaxRates: map[string]decimal.Decimal{
			"BW": decimal.NewFromInt(8),
			"BY": decimal.NewFromInt(8),
		},
		DefaultChurchTaxRate:       decimal.NewFromInt(9),
		DefaultLandShare:           decimal.RequireFromString("0.2"),
		DefaultBuildingShare:       decimal.RequireFromString("0.8"),
		FurnitureDepreciationYears: 10,
		DefaultDepreciationRate:    decimal.RequireFromString("2.0"),
		DefaultInterestRate:        decimal.RequireFromString("4.0"),
		DefaultAmortizationRate:    decimal.RequireFromString("2.0"),
	}
}

// TransferTaxRate returns the rate for a state code and whether the code was known.
func (r Rules) TransferTaxRate(state string) (decimal.Decimal, bool) {
	if rate, ok := r.TransferTaxRates[strings.ToUpper(strings.TrimSpace(state))]; ok {
		return rate, true
	}
	return r.DefaultTransferTaxRate, false
}

// ChurchTaxRate returns the regional church tax rate with default fallback.
func (r Rules) ChurchTaxRate(state string) decimal.Decimal {
	if rate, ok := r.ChurchTaxRates[strings.ToUpper(strings.TrimSpace(state))]; ok {
		return rate
	}
	return r.DefaultChurchTaxRate
}
