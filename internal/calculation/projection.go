package calculation

import (
	"github.com/immorechner/property-calculator/internal/domain"
	"github.com/immorechner/property-calculator/pkg/money"
	"github.com/shopspring/decimal"
)

// CashflowProjector produces the year-by-year records for one property.
type CashflowProjector struct {
	TaxCalc *HouseholdTaxCalculator
	Logger  Logger
}

// NewCashflowProjector creates a projector using the given household tax calculator
func NewCashflowProjector(taxCalc *HouseholdTaxCalculator, logger Logger) *CashflowProjector {
	if logger == nil {
		logger = NopLogger{}
	}
	return &CashflowProjector{TaxCalc: taxCalc, Logger: logger}
}

// Project runs the projection over the horizon.
//
// Rent compounds with the rent increase rate. The four fixed costs stay at their
// year-1 amounts for the whole horizon. Loan figures come from the precomputed
// amortization schedule. Property value compounds from the immobile price only;
// furniture never counts towards value or equity.
func (p *CashflowProjector) Project(prop domain.Property, hh domain.HouseholdTaxContext, years int) domain.Projection {
	if years < 1 {
		years = domain.DefaultHorizonYears
	}
	in, pb, oc := prop.Inputs, prop.Purchase, prop.Ongoing

	financing := ResolveFinancing(in, pb)
	schedule := AmortizeTranches(financing.Tranches, years)

	rentGrowth := decimal.NewFromInt(1).Add(in.RentIncreaseRate.Div(decimalHundred))
	valueGrowth := decimal.NewFromInt(1).Add(in.AppreciationRate.Div(decimalHundred))

	records := make([]domain.YearRecord, years)
	remainingBuildingBase := pb.BuildingWithCosts
	for i := 0; i < years; i++ {
		year := i + 1
		rentFactor := rentGrowth.Pow(decimal.NewFromInt(int64(i)))
		loan := schedule.Years[i]

		buildingDep := decimal.Min(pb.AnnualBuildingDepreciation, remainingBuildingBase)
		remainingBuildingBase = remainingBuildingBase.Sub(buildingDep)

		rec := domain.YearRecord{
			Year:         year,
			GrossRent:    oc.GrossAnnualRent.Mul(rentFactor).Round(2),
			Rent:         oc.EffectiveAnnualRent.Mul(rentFactor).Round(2),
			VacancyRate:  oc.VacancyRate,
			OngoingCosts: oc.Total,

			Interest:    loan.Interest,
			Principal:   loan.Principal,
			LoanBalance: loan.Balance,

			BuildingDepreciation: buildingDep,

			PropertyValue: pb.ImmobilePrice.Mul(valueGrowth.Pow(decimal.NewFromInt(int64(i)))).Round(2),
			InitialEquity: financing.InitialEquity,

			PropertyTax:        oc.PropertyTax,
			ManagementFee:      oc.ManagementFee,
			MaintenanceReserve: oc.MaintenanceReserve,
			Insurance:          oc.Insurance,
		}
		if year <= pb.FurnitureYears {
			rec.FurnitureDepreciation = pb.AnnualFurnitureDepreciation
		}
		if year <= pb.MaintenanceYears {
			rec.MaintenanceDeduction = pb.AnnualMaintenanceDeduction
		}
		if year == 1 {
			rec.FirstYearDeductibleCosts = pb.FirstYearDeductibleCosts
		}

		records[i] = recomputeYear(rec, p.TaxCalc, hh)
	}

	result := domain.SimulationResult{
		PurchasePrice: in.PurchasePrice,
		TotalCost:     pb.TotalCost,
		DownPayment:   financing.DownPayment,
		LoanAmount:    financing.LoanAmount,
		Annuity:       schedule.Annuity,
		InitialEquity: financing.InitialEquity,
	}
	p.Logger.Debugf("projected %q over %d years: loan=%s annuity=%s", in.Name, years,
		financing.LoanAmount.StringFixed(2), schedule.Annuity.StringFixed(2))

	return domain.Projection{
		Result: summarize(result, records),
		Years:  records,
	}
}

// recomputeYear derives every dependent field of a record from its primary inputs:
// rent, costs, loan flows and balance, deductions and property value.
// It is the single place the dependency chain lives; the projector, the override
// reconciler and the portfolio merge all go through it.
func recomputeYear(rec domain.YearRecord, taxCalc *HouseholdTaxCalculator, hh domain.HouseholdTaxContext) domain.YearRecord {
	rec.DebtService = rec.Interest.Add(rec.Principal)
	rec.TotalDepreciation = rec.BuildingDepreciation.Add(rec.FurnitureDepreciation).Add(rec.MaintenanceDeduction)

	rec.CashflowBeforeFinancing = rec.Rent.Sub(rec.OngoingCosts)
	rec.CashflowBeforeTax = rec.CashflowBeforeFinancing.Sub(rec.DebtService)

	// Principal is not deductible; depreciation and distributed maintenance are.
	rec.TaxableIncome = rec.CashflowBeforeTax.
		Add(rec.Principal).
		Sub(rec.TotalDepreciation).
		Sub(rec.FirstYearDeductibleCosts)

	before := taxCalc.Assess(hh.BaseIncome, hh)
	after := taxCalc.Assess(hh.BaseIncome.Add(rec.TaxableIncome), hh)
	rec.PreviousIncome = hh.BaseIncome
	rec.PreviousTax = before.IncomeTax
	rec.PreviousChurchTax = before.ChurchTax
	rec.NewTotalIncome = after.Income
	rec.NewTax = after.IncomeTax
	rec.NewChurchTax = after.ChurchTax
	rec.TaxSavings = before.Total().Sub(after.Total())

	rec.Cashflow = rec.CashflowBeforeTax.Add(rec.TaxSavings)
	rec.Equity = rec.PropertyValue.Sub(rec.LoanBalance)
	return rec
}

// summarize fills the result fields that are read off the year records.
func summarize(result domain.SimulationResult, records []domain.YearRecord) domain.SimulationResult {
	result.MonthlyPayment = money.New(result.Annuity).Monthly().Decimal
	result.TotalInterest = decimal.Zero
	result.TotalTaxSavings = decimal.Zero
	result.CumulativeCashflow = decimal.Zero
	result.MonthlyCashflow = decimal.Zero
	result.FinalPropertyValue = decimal.Zero
	result.RemainingLoan = decimal.Zero
	result.FinalEquity = decimal.Zero
	result.GrossYield = decimal.Zero

	if len(records) == 0 {
		return result
	}
	for _, r := range records {
		result.TotalInterest = result.TotalInterest.Add(r.Interest)
		result.TotalTaxSavings = result.TotalTaxSavings.Add(r.TaxSavings)
		result.CumulativeCashflow = result.CumulativeCashflow.Add(r.Cashflow)
	}
	first, last := records[0], records[len(records)-1]
	result.MonthlyCashflow = money.New(first.Cashflow).Monthly().Decimal
	result.FinalPropertyValue = last.PropertyValue
	result.RemainingLoan = last.LoanBalance
	result.FinalEquity = last.Equity
	if result.PurchasePrice.IsPositive() {
		result.GrossYield = first.GrossRent.Div(result.PurchasePrice).Mul(decimalHundred).Round(2)
	}
	return result
}
