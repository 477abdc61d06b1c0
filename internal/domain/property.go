package domain

import (
	"github.com/shopspring/decimal"
)

// FinancingType selects how a purchase is paid for.
type FinancingType string

const (
	FinancingLoan FinancingType = "loan"
	FinancingCash FinancingType = "cash"
)

// Valid reports whether the financing type is one of the known values.
func (f FinancingType) Valid() bool {
	return f == FinancingLoan || f == FinancingCash
}

// MaxLoanTranches is the number of independently amortized loans a property may carry.
const MaxLoanTranches = 2

// LoanTranche is one annuity loan. Rates are percentages (4.0 means 4%).
type LoanTranche struct {
	Amount           decimal.Decimal `yaml:"amount" json:"amount"`
	InterestRate     decimal.Decimal `yaml:"interest_rate" json:"interest_rate"`
	AmortizationRate decimal.Decimal `yaml:"amortization_rate" json:"amortization_rate"`
}

// PropertyInputs holds everything a user supplies for one property.
// All rates are percentages; all amounts are euros (annual unless named monthly).
type PropertyInputs struct {
	Name string `yaml:"name" json:"name"`

	// Acquisition
	PurchasePrice      decimal.Decimal `yaml:"purchase_price" json:"purchase_price"`
	StateCode          string          `yaml:"state_code" json:"state_code"`
	NotaryRate         decimal.Decimal `yaml:"notary_rate" json:"notary_rate"`
	BrokerRate         decimal.Decimal `yaml:"broker_rate" json:"broker_rate"`
	BrokerAsConsulting bool            `yaml:"broker_as_consulting" json:"broker_as_consulting"`

	// Allocation of the purchase price
	DepreciationRate             decimal.Decimal `yaml:"depreciation_rate" json:"depreciation_rate"`
	LandValue                    decimal.Decimal `yaml:"land_value" json:"land_value"`
	BuildingValue                decimal.Decimal `yaml:"building_value" json:"building_value"`
	FurnitureValue               decimal.Decimal `yaml:"furniture_value" json:"furniture_value"`
	MaintenanceValue             decimal.Decimal `yaml:"maintenance_value" json:"maintenance_value"`
	MaintenanceDistributionYears int             `yaml:"maintenance_distribution_years" json:"maintenance_distribution_years"`

	// Financing
	FinancingType FinancingType   `yaml:"financing_type" json:"financing_type"`
	DownPayment   decimal.Decimal `yaml:"down_payment" json:"down_payment"`
	Loans         []LoanTranche   `yaml:"loans,omitempty" json:"loans,omitempty"`

	// Income and recurring costs
	MonthlyRent        decimal.Decimal `yaml:"monthly_rent" json:"monthly_rent"`
	VacancyRate        decimal.Decimal `yaml:"vacancy_rate" json:"vacancy_rate"`
	PropertyTax        decimal.Decimal `yaml:"property_tax" json:"property_tax"`
	ManagementFee      decimal.Decimal `yaml:"management_fee" json:"management_fee"`
	MaintenanceReserve decimal.Decimal `yaml:"maintenance_reserve" json:"maintenance_reserve"`
	Insurance          decimal.Decimal `yaml:"insurance" json:"insurance"`

	// Growth assumptions
	AppreciationRate decimal.Decimal `yaml:"appreciation_rate" json:"appreciation_rate"`
	RentIncreaseRate decimal.Decimal `yaml:"rent_increase_rate" json:"rent_increase_rate"`

	// Authoritative current values that replace the projected ones
	UseCurrentMarketValue bool            `yaml:"use_current_market_value,omitempty" json:"use_current_market_value,omitempty"`
	CurrentMarketValue    decimal.Decimal `yaml:"current_market_value,omitempty" json:"current_market_value,omitempty"`
	UseCurrentDebtValue   bool            `yaml:"use_current_debt_value,omitempty" json:"use_current_debt_value,omitempty"`
	CurrentDebtValue      decimal.Decimal `yaml:"current_debt_value,omitempty" json:"current_debt_value,omitempty"`
}

// IsCash reports whether the property is bought without a loan.
func (p PropertyInputs) IsCash() bool {
	return p.FinancingType == FinancingCash
}

// HasOverrides reports whether any authoritative current value is set.
func (p PropertyInputs) HasOverrides() bool {
	return p.UseCurrentMarketValue || p.UseCurrentDebtValue
}

// TotalLoanAmount sums the tranche amounts.
func (p PropertyInputs) TotalLoanAmount() decimal.Decimal {
	total := decimal.Zero
	for _, l := range p.Loans {
		total = total.Add(l.Amount)
	}
	return total
}

// PurchaseBreakdown is derived from PropertyInputs by the purchase allocation.
type PurchaseBreakdown struct {
	TransferTaxRate decimal.Decimal `json:"transfer_tax_rate"`
	TransferTaxBase decimal.Decimal `json:"transfer_tax_base"`
	TransferTax     decimal.Decimal `json:"transfer_tax"`
	NotaryCost      decimal.Decimal `json:"notary_cost"`
	BrokerFee       decimal.Decimal `json:"broker_fee"`

	// FirstYearDeductibleCosts is the broker fee when it is booked as consulting expense.
	FirstYearDeductibleCosts decimal.Decimal `json:"first_year_deductible_costs"`
	CapitalizedExtraCost     decimal.Decimal `json:"capitalized_extra_cost"`
	TotalExtraCost           decimal.Decimal `json:"total_extra_cost"`
	TotalCost                decimal.Decimal `json:"total_cost"`

	// Nominal shares of land+building+maintenance, as fractions
	LandShare        decimal.Decimal `json:"land_share"`
	BuildingShare    decimal.Decimal `json:"building_share"`
	MaintenanceShare decimal.Decimal `json:"maintenance_share"`

	LandWithCosts        decimal.Decimal `json:"land_with_costs"`
	BuildingWithCosts    decimal.Decimal `json:"building_with_costs"`
	MaintenanceWithCosts decimal.Decimal `json:"maintenance_with_costs"`
	FurnitureValue       decimal.Decimal `json:"furniture_value"`

	// ImmobilePrice is land+building+maintenance at nominal value; furniture excluded.
	ImmobilePrice decimal.Decimal `json:"immobile_price"`

	AnnualBuildingDepreciation  decimal.Decimal `json:"annual_building_depreciation"`
	AnnualFurnitureDepreciation decimal.Decimal `json:"annual_furniture_depreciation"`
	AnnualMaintenanceDeduction  decimal.Decimal `json:"annual_maintenance_deduction"`
	MaintenanceYears            int             `json:"maintenance_years"`
	FurnitureYears              int             `json:"furniture_years"`

	AllocationSum      decimal.Decimal `json:"allocation_sum"`
	AllocationMismatch bool            `json:"allocation_mismatch"`
}

// OngoingCosts holds the year-1 recurring income and cost values.
type OngoingCosts struct {
	GrossAnnualRent     decimal.Decimal `json:"gross_annual_rent"`
	EffectiveAnnualRent decimal.Decimal `json:"effective_annual_rent"`
	VacancyRate         decimal.Decimal `json:"vacancy_rate"`
	PropertyTax         decimal.Decimal `json:"property_tax"`
	ManagementFee       decimal.Decimal `json:"management_fee"`
	MaintenanceReserve  decimal.Decimal `json:"maintenance_reserve"`
	Insurance           decimal.Decimal `json:"insurance"`
	Total               decimal.Decimal `json:"total"`
}

// Property bundles inputs with their derived breakdowns.
type Property struct {
	ID       string            `json:"id,omitempty"`
	Inputs   PropertyInputs    `json:"inputs"`
	Purchase PurchaseBreakdown `json:"purchase"`
	Ongoing  OngoingCosts      `json:"ongoing"`
}

// FilingStatus is the income tax filing status of the household.
type FilingStatus string

const (
	FilingSingle  FilingStatus = "single"
	FilingMarried FilingStatus = "married"
)

// Valid reports whether the filing status is one of the known values.
func (f FilingStatus) Valid() bool {
	return f == FilingSingle || f == FilingMarried
}

// HouseholdTaxContext describes the tax situation the properties are added to.
type HouseholdTaxContext struct {
	BaseIncome   decimal.Decimal `yaml:"base_income" json:"base_income"`
	FilingStatus FilingStatus    `yaml:"filing_status" json:"filing_status"`
	ChurchTax    bool            `yaml:"church_tax" json:"church_tax"`
	// ChurchTaxRate in percent; zero falls back to the regional rate for State.
	ChurchTaxRate decimal.Decimal `yaml:"church_tax_rate,omitempty" json:"church_tax_rate,omitempty"`
	State         string          `yaml:"state,omitempty" json:"state,omitempty"`
}
