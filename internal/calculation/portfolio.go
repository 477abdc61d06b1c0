package calculation

import (
	"github.com/immorechner/property-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// yearField names one decimal field of a YearRecord and gives access to it.
type yearField struct {
	Name string
	Ptr  func(*domain.YearRecord) *decimal.Decimal
}

// additiveYearFields are summed across properties when merging a portfolio year.
// Every decimal field of YearRecord belongs to exactly one of additiveYearFields
// or householdYearFields; a new field must be added to one of them.
var additiveYearFields = []yearField{
	{"gross_rent", func(r *domain.YearRecord) *decimal.Decimal { return &r.GrossRent }},
	{"rent", func(r *domain.YearRecord) *decimal.Decimal { return &r.Rent }},
	{"ongoing_costs", func(r *domain.YearRecord) *decimal.Decimal { return &r.OngoingCosts }},
	{"interest", func(r *domain.YearRecord) *decimal.Decimal { return &r.Interest }},
	{"principal", func(r *domain.YearRecord) *decimal.Decimal { return &r.Principal }},
	{"debt_service", func(r *domain.YearRecord) *decimal.Decimal { return &r.DebtService }},
	{"loan_balance", func(r *domain.YearRecord) *decimal.Decimal { return &r.LoanBalance }},
	{"building_depreciation", func(r *domain.YearRecord) *decimal.Decimal { return &r.BuildingDepreciation }},
	{"furniture_depreciation", func(r *domain.YearRecord) *decimal.Decimal { return &r.FurnitureDepreciation }},
	{"maintenance_deduction", func(r *domain.YearRecord) *decimal.Decimal { return &r.MaintenanceDeduction }},
	{"total_depreciation", func(r *domain.YearRecord) *decimal.Decimal { return &r.TotalDepreciation }},
	{"first_year_deductible_costs", func(r *domain.YearRecord) *decimal.Decimal { return &r.FirstYearDeductibleCosts }},
	{"taxable_income", func(r *domain.YearRecord) *decimal.Decimal { return &r.TaxableIncome }},
	{"cashflow_before_financing", func(r *domain.YearRecord) *decimal.Decimal { return &r.CashflowBeforeFinancing }},
	{"cashflow_before_tax", func(r *domain.YearRecord) *decimal.Decimal { return &r.CashflowBeforeTax }},
	{"property_value", func(r *domain.YearRecord) *decimal.Decimal { return &r.PropertyValue }},
	{"equity", func(r *domain.YearRecord) *decimal.Decimal { return &r.Equity }},
	{"initial_equity", func(r *domain.YearRecord) *decimal.Decimal { return &r.InitialEquity }},
	{"property_tax", func(r *domain.YearRecord) *decimal.Decimal { return &r.PropertyTax }},
	{"management_fee", func(r *domain.YearRecord) *decimal.Decimal { return &r.ManagementFee }},
	{"maintenance_reserve", func(r *domain.YearRecord) *decimal.Decimal { return &r.MaintenanceReserve }},
	{"insurance", func(r *domain.YearRecord) *decimal.Decimal { return &r.Insurance }},
}

// householdYearFields are never summed. They describe the household as a whole and
// are derived again after the merge.
var householdYearFields = []yearField{
	{"vacancy_rate", func(r *domain.YearRecord) *decimal.Decimal { return &r.VacancyRate }},
	{"previous_income", func(r *domain.YearRecord) *decimal.Decimal { return &r.PreviousIncome }},
	{"previous_tax", func(r *domain.YearRecord) *decimal.Decimal { return &r.PreviousTax }},
	{"previous_church_tax", func(r *domain.YearRecord) *decimal.Decimal { return &r.PreviousChurchTax }},
	{"new_total_income", func(r *domain.YearRecord) *decimal.Decimal { return &r.NewTotalIncome }},
	{"new_tax", func(r *domain.YearRecord) *decimal.Decimal { return &r.NewTax }},
	{"new_church_tax", func(r *domain.YearRecord) *decimal.Decimal { return &r.NewChurchTax }},
	{"tax_savings", func(r *domain.YearRecord) *decimal.Decimal { return &r.TaxSavings }},
	{"cashflow", func(r *domain.YearRecord) *decimal.Decimal { return &r.Cashflow }},
}

// PortfolioAggregator combines several properties into one household projection.
type PortfolioAggregator struct {
	Projector  *CashflowProjector
	Reconciler *OverrideReconciler
	TaxCalc    *HouseholdTaxCalculator
	Logger     Logger
}

// NewPortfolioAggregator creates an aggregator sharing one household tax calculator
func NewPortfolioAggregator(taxCalc *HouseholdTaxCalculator, logger Logger) *PortfolioAggregator {
	if logger == nil {
		logger = NopLogger{}
	}
	return &PortfolioAggregator{
		Projector:  NewCashflowProjector(taxCalc, logger),
		Reconciler: NewOverrideReconciler(taxCalc, logger),
		TaxCalc:    taxCalc,
		Logger:     logger,
	}
}

// Aggregate projects every property afresh, merges the year records and then taxes
// the household once on base income plus the combined taxable income.
//
// Taxing each property separately and summing the savings would apply the progressive
// tariff several times over; the merge happens before any household tax is derived.
func (a *PortfolioAggregator) Aggregate(props []domain.Property, hh domain.HouseholdTaxContext, years int) domain.Projection {
	if years < 1 {
		years = domain.DefaultHorizonYears
	}
	merged := make([]domain.YearRecord, years)
	for i := range merged {
		merged[i].Year = i + 1
	}
	var result domain.SimulationResult
	var warnings []domain.Warning

	for _, prop := range props {
		proj := a.Projector.Project(prop, hh, years)
		proj = a.Reconciler.Reconcile(prop, hh, proj)
		warnings = append(warnings, proj.Warnings...)
		for i := range merged {
			mergeYear(&merged[i], &proj.Years[i])
		}
		result = mergeResult(result, proj.Result)
	}

	for i := range merged {
		if merged[i].GrossRent.IsPositive() {
			occupancy := merged[i].Rent.Div(merged[i].GrossRent)
			merged[i].VacancyRate = decimal.NewFromInt(1).Sub(occupancy).Mul(decimalHundred).Round(2)
		}
		merged[i] = recomputeYear(merged[i], a.TaxCalc, hh)
	}

	a.Logger.Debugf("aggregated %d properties over %d years", len(props), years)
	return domain.Projection{
		Result:   summarize(result, merged),
		Years:    merged,
		Warnings: warnings,
	}
}

func mergeYear(dst, src *domain.YearRecord) {
	for _, f := range additiveYearFields {
		d := f.Ptr(dst)
		*d = d.Add(*f.Ptr(src))
	}
}

// mergeResult sums the purchase and financing totals; the rest is derived by summarize.
func mergeResult(acc, r domain.SimulationResult) domain.SimulationResult {
	acc.PurchasePrice = acc.PurchasePrice.Add(r.PurchasePrice)
	acc.TotalCost = acc.TotalCost.Add(r.TotalCost)
	acc.DownPayment = acc.DownPayment.Add(r.DownPayment)
	acc.LoanAmount = acc.LoanAmount.Add(r.LoanAmount)
	acc.Annuity = acc.Annuity.Add(r.Annuity)
	acc.InitialEquity = acc.InitialEquity.Add(r.InitialEquity)
	return acc
}
