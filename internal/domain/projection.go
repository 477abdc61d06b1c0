package domain

import (
	"github.com/shopspring/decimal"
)

// DefaultHorizonYears is the projection length used when none is given.
const DefaultHorizonYears = 10

// LoanYear is one year of an amortization schedule.
type LoanYear struct {
	Year      int             `json:"year"`
	Interest  decimal.Decimal `json:"interest"`
	Principal decimal.Decimal `json:"principal"`
	Payment   decimal.Decimal `json:"payment"`
	Balance   decimal.Decimal `json:"balance"`
}

// LoanSchedule is the yearly amortization of one or more tranches.
type LoanSchedule struct {
	Principal decimal.Decimal `json:"principal"`
	Annuity   decimal.Decimal `json:"annuity"`
	Years     []LoanYear      `json:"years"`
}

// YearRecord is the projected state of a property (or portfolio) for one year.
type YearRecord struct {
	Year int `json:"year"`

	GrossRent    decimal.Decimal `json:"gross_rent"`
	Rent         decimal.Decimal `json:"rent"`
	VacancyRate  decimal.Decimal `json:"vacancy_rate"`
	OngoingCosts decimal.Decimal `json:"ongoing_costs"`

	Interest    decimal.Decimal `json:"interest"`
	Principal   decimal.Decimal `json:"principal"`
	DebtService decimal.Decimal `json:"debt_service"`
	LoanBalance decimal.Decimal `json:"loan_balance"`

	BuildingDepreciation     decimal.Decimal `json:"building_depreciation"`
	FurnitureDepreciation    decimal.Decimal `json:"furniture_depreciation"`
	MaintenanceDeduction     decimal.Decimal `json:"maintenance_deduction"`
	TotalDepreciation        decimal.Decimal `json:"total_depreciation"`
	FirstYearDeductibleCosts decimal.Decimal `json:"first_year_deductible_costs"`
	TaxableIncome            decimal.Decimal `json:"taxable_income"`

	// Household tax before and after adding the property income
	PreviousIncome    decimal.Decimal `json:"previous_income"`
	PreviousTax       decimal.Decimal `json:"previous_tax"`
	PreviousChurchTax decimal.Decimal `json:"previous_church_tax"`
	NewTotalIncome    decimal.Decimal `json:"new_total_income"`
	NewTax            decimal.Decimal `json:"new_tax"`
	NewChurchTax      decimal.Decimal `json:"new_church_tax"`
	TaxSavings        decimal.Decimal `json:"tax_savings"`

	CashflowBeforeFinancing decimal.Decimal `json:"cashflow_before_financing"`
	CashflowBeforeTax       decimal.Decimal `json:"cashflow_before_tax"`
	Cashflow                decimal.Decimal `json:"cashflow"`

	PropertyValue decimal.Decimal `json:"property_value"`
	Equity        decimal.Decimal `json:"equity"`
	InitialEquity decimal.Decimal `json:"initial_equity"`

	// Fixed cost components, repeated for export
	PropertyTax        decimal.Decimal `json:"property_tax"`
	ManagementFee      decimal.Decimal `json:"management_fee"`
	MaintenanceReserve decimal.Decimal `json:"maintenance_reserve"`
	Insurance          decimal.Decimal `json:"insurance"`
}

// SimulationResult summarizes a projection.
type SimulationResult struct {
	PurchasePrice      decimal.Decimal `json:"purchase_price"`
	TotalCost          decimal.Decimal `json:"total_cost"`
	DownPayment        decimal.Decimal `json:"down_payment"`
	LoanAmount         decimal.Decimal `json:"loan_amount"`
	Annuity            decimal.Decimal `json:"annuity"`
	MonthlyPayment     decimal.Decimal `json:"monthly_payment"`
	MonthlyCashflow    decimal.Decimal `json:"monthly_cashflow"`
	FinalPropertyValue decimal.Decimal `json:"final_property_value"`
	RemainingLoan      decimal.Decimal `json:"remaining_loan"`
	FinalEquity        decimal.Decimal `json:"final_equity"`
	InitialEquity      decimal.Decimal `json:"initial_equity"`

	TotalInterest      decimal.Decimal `json:"total_interest"`
	TotalTaxSavings    decimal.Decimal `json:"total_tax_savings"`
	CumulativeCashflow decimal.Decimal `json:"cumulative_cashflow"`
	// GrossYield is annual gross rent over purchase price, in percent.
	GrossYield decimal.Decimal `json:"gross_yield"`
}

// Projection is the full engine output for one property or a portfolio.
type Projection struct {
	Result   SimulationResult `json:"result"`
	Years    []YearRecord     `json:"years"`
	Warnings []Warning        `json:"warnings,omitempty"`
}

// LastYear returns the final record, or a zero record for an empty projection.
func (p Projection) LastYear() YearRecord {
	if len(p.Years) == 0 {
		return YearRecord{}
	}
	return p.Years[len(p.Years)-1]
}
