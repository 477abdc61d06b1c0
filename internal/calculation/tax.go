package calculation

import (
	"github.com/immorechner/property-calculator/internal/domain"
	"github.com/immorechner/property-calculator/pkg/money"
	"github.com/shopspring/decimal"
)

// TAX CALCULATION ASSUMPTIONS:
//
// 1. Income tax follows the five-zone tariff of §32a EStG. Zone bounds and
//    coefficients come from domain.IncomeTaxRules; the same year is used for
//    every projection year (no indexation).
//
// 2. Married couples use the splitting procedure: tax on half the joint income,
//    doubled.
//
// 3. Church tax is a flat percentage of income tax. The solidarity surcharge is
//    not modeled.

var (
	decimalTwo      = decimal.NewFromInt(2)
	decimalHundred  = decimal.NewFromInt(100)
	decimalTenThous = decimal.NewFromInt(10000)
)

// IncomeTaxCalculator handles German progressive income tax
type IncomeTaxCalculator struct {
	Rules domain.IncomeTaxRules
}

// NewIncomeTaxCalculator creates an income tax calculator for the given tariff
func NewIncomeTaxCalculator(rules domain.IncomeTaxRules) *IncomeTaxCalculator {
	return &IncomeTaxCalculator{Rules: rules}
}

// Calculate returns the income tax in whole euros. Negative income yields zero.
func (c *IncomeTaxCalculator) Calculate(income decimal.Decimal, status domain.FilingStatus) decimal.Decimal {
	if status == domain.FilingMarried {
		return c.tariff(income.Div(decimalTwo)).Mul(decimalTwo)
	}
	return c.tariff(income)
}

// tariff applies the basic (single) tariff and rounds to the nearest euro.
func (c *IncomeTaxCalculator) tariff(income decimal.Decimal) decimal.Decimal {
	r := c.Rules
	if income.LessThanOrEqual(r.BasicAllowance) {
		return decimal.Zero
	}

	var tax decimal.Decimal
	switch {
	case income.LessThanOrEqual(r.Zone2Upper):
		y := income.Sub(r.BasicAllowance).Div(decimalTenThous)
		tax = r.Zone2A.Mul(y).Add(r.Zone2B).Mul(y)
	case income.LessThanOrEqual(r.Zone3Upper):
		z := income.Sub(r.Zone2Upper).Div(decimalTenThous)
		tax = r.Zone3A.Mul(z).Add(r.Zone3B).Mul(z).Add(r.Zone3C)
	case income.LessThanOrEqual(r.Zone4Upper):
		tax = r.Zone4Rate.Mul(income).Sub(r.Zone4Offset)
	default:
		tax = r.TopRate.Mul(income).Sub(r.TopOffset)
	}

	tax = money.New(tax).Whole().Decimal
	if tax.IsNegative() {
		return decimal.Zero
	}
	return tax
}

// ChurchTax returns rate percent of incomeTax, or zero when not enabled.
func ChurchTax(incomeTax decimal.Decimal, enabled bool, rate decimal.Decimal) decimal.Decimal {
	if !enabled || !incomeTax.IsPositive() || !rate.IsPositive() {
		return decimal.Zero
	}
	return percentOf(incomeTax, rate)
}

// ComputeIncomeTax calculates income tax with the default tariff.
func ComputeIncomeTax(income decimal.Decimal, status domain.FilingStatus) decimal.Decimal {
	return defaultIncomeTax.Calculate(income, status)
}

// ComputeChurchTax is ChurchTax under its exported engine name.
func ComputeChurchTax(incomeTax decimal.Decimal, enabled bool, rate decimal.Decimal) decimal.Decimal {
	return ChurchTax(incomeTax, enabled, rate)
}

var defaultIncomeTax = NewIncomeTaxCalculator(domain.DefaultIncomeTaxRules())

// TaxAssessment is the household tax for one income figure.
type TaxAssessment struct {
	Income    decimal.Decimal
	IncomeTax decimal.Decimal
	ChurchTax decimal.Decimal
}

// Total returns income tax plus church tax.
func (a TaxAssessment) Total() decimal.Decimal {
	return a.IncomeTax.Add(a.ChurchTax)
}

// HouseholdTaxCalculator combines income and church tax for a household
type HouseholdTaxCalculator struct {
	IncomeTaxCalc *IncomeTaxCalculator
	Rules         domain.Rules
}

// NewHouseholdTaxCalculator creates a household tax calculator from the full rule set
func NewHouseholdTaxCalculator(rules domain.Rules) *HouseholdTaxCalculator {
	return &HouseholdTaxCalculator{
		IncomeTaxCalc: NewIncomeTaxCalculator(rules.IncomeTax),
		Rules:         rules,
	}
}

// ChurchTaxRate resolves the household's church tax percentage.
func (h *HouseholdTaxCalculator) ChurchTaxRate(hh domain.HouseholdTaxContext) decimal.Decimal {
	if hh.ChurchTaxRate.IsPositive() {
		return hh.ChurchTaxRate
	}
	return h.Rules.ChurchTaxRate(hh.State)
}

// Assess computes the household tax on income (floored at zero).
func (h *HouseholdTaxCalculator) Assess(income decimal.Decimal, hh domain.HouseholdTaxContext) TaxAssessment {
	income = decimal.Max(decimal.Zero, income)
	incomeTax := h.IncomeTaxCalc.Calculate(income, hh.FilingStatus)
	return TaxAssessment{
		Income:    income,
		IncomeTax: incomeTax,
		ChurchTax: ChurchTax(incomeTax, hh.ChurchTax, h.ChurchTaxRate(hh)),
	}
}
