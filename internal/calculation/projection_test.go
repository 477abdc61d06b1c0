package calculation

import (
	"testing"

	"github.com/immorechner/property-calculator/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func projectReference(t *testing.T) (domain.Property, domain.Projection) {
	t.Helper()
	prop := prepare(t, bavarianApartment())
	proj := NewEngine().ProjectCashflow(prop, singleEarner(), 10)
	require.Len(t, proj.Years, 10)
	return prop, proj
}

func TestProject_ReferenceFirstYear(t *testing.T) {
	_, proj := projectReference(t)
	y1 := proj.Years[0]

	assert.Equal(t, 1, y1.Year)
	assertDecimalEqual(t, dec("14400"), y1.GrossRent)
	assertDecimalEqual(t, dec("13968"), y1.Rent)
	assertDecimalEqual(t, dec("1800"), y1.OngoingCosts)
	assertDecimalEqual(t, dec("11660"), y1.Interest)
	assertDecimalEqual(t, dec("4372.50"), y1.Principal)
	assertDecimalEqual(t, dec("16032.50"), y1.DebtService)
	assertDecimalEqual(t, dec("287127.50"), y1.LoanBalance)

	assertDecimalEqual(t, dec("12168"), y1.CashflowBeforeFinancing)
	assertDecimalEqual(t, dec("-3864.50"), y1.CashflowBeforeTax)
	assertDecimalEqual(t, dec("4762.89"), y1.BuildingDepreciation)
	assertDecimalEqual(t, dec("1650"), y1.FurnitureDepreciation)
	assertDecimalEqual(t, dec("37886.63"), y1.MaintenanceDeduction)
	assertDecimalEqual(t, dec("-43791.52"), y1.TaxableIncome)

	assertDecimalEqual(t, dec("70000"), y1.PreviousIncome)
	assertDecimalEqual(t, dec("18764"), y1.PreviousTax)
	assertDecimalEqual(t, dec("26208.48"), y1.NewTotalIncome)
	assertDecimalEqual(t, dec("3351"), y1.NewTax)
	assertDecimalEqual(t, dec("15413"), y1.TaxSavings)
	assertDecimalEqual(t, dec("11548.50"), y1.Cashflow)

	assertDecimalEqual(t, dec("300000"), y1.PropertyValue, "furniture is not part of the value")
	assertDecimalEqual(t, dec("12872.50"), y1.Equity)
	assertDecimalEqual(t, dec("49742.50"), y1.InitialEquity)

	r := proj.Result
	assertDecimalEqual(t, dec("316500"), r.PurchasePrice)
	assertDecimalEqual(t, dec("341242.50"), r.TotalCost)
	assertDecimalEqual(t, dec("291500"), r.LoanAmount)
	assertDecimalEqual(t, dec("16032.50"), r.Annuity)
	assertDecimalEqual(t, dec("1336.04"), r.MonthlyPayment)
	assertDecimalEqual(t, dec("962.38"), r.MonthlyCashflow)
	assertDecimalEqual(t, dec("4.55"), r.GrossYield)
}

func TestProject_SecondYear(t *testing.T) {
	_, proj := projectReference(t)
	y2 := proj.Years[1]

	assertDecimalEqual(t, dec("14688"), y2.GrossRent)
	assertDecimalEqual(t, dec("14247.36"), y2.Rent)
	assertDecimalEqual(t, dec("11485.10"), y2.Interest)
	assertDecimalEqual(t, dec("282580.10"), y2.LoanBalance)
	assertDecimalEqual(t, dec("306000"), y2.PropertyValue)
	assert.True(t, y2.MaintenanceDeduction.IsZero(), "maintenance is distributed over one year only")
	assert.True(t, y2.FirstYearDeductibleCosts.IsZero())
	assertDecimalEqual(t, dec("1650"), y2.FurnitureDepreciation)
}

func TestProject_Identities(t *testing.T) {
	for _, in := range []domain.PropertyInputs{bavarianApartment(), cashApartment()} {
		prop := prepare(t, in)
		proj := NewEngine().ProjectCashflow(prop, singleEarner(), 25)
		for _, y := range proj.Years {
			assertDecimalEqual(t, y.CashflowBeforeTax.Add(y.TaxSavings), y.Cashflow, "%s year %d cashflow", in.Name, y.Year)
			assertDecimalEqual(t, y.PropertyValue.Sub(y.LoanBalance), y.Equity, "%s year %d equity", in.Name, y.Year)
			assertDecimalEqual(t, y.Interest.Add(y.Principal), y.DebtService, "%s year %d debt service", in.Name, y.Year)
		}
		last := proj.LastYear()
		assertDecimalEqual(t, last.PropertyValue, proj.Result.FinalPropertyValue)
		assertDecimalEqual(t, last.LoanBalance, proj.Result.RemainingLoan)
		assertDecimalEqual(t, last.Equity, proj.Result.FinalEquity)
	}
}

func TestProject_FixedCostsConstant(t *testing.T) {
	_, proj := projectReference(t)
	first := proj.Years[0]
	for _, y := range proj.Years[1:] {
		assertDecimalEqual(t, first.OngoingCosts, y.OngoingCosts, "year %d", y.Year)
		assertDecimalEqual(t, first.PropertyTax, y.PropertyTax, "year %d", y.Year)
		assertDecimalEqual(t, first.ManagementFee, y.ManagementFee, "year %d", y.Year)
		assertDecimalEqual(t, first.MaintenanceReserve, y.MaintenanceReserve, "year %d", y.Year)
		assertDecimalEqual(t, first.Insurance, y.Insurance, "year %d", y.Year)
		assert.True(t, y.Rent.GreaterThan(first.Rent), "rent grows, year %d", y.Year)
	}
}

func TestProject_CashPurchase(t *testing.T) {
	prop := prepare(t, cashApartment())
	proj := NewEngine().ProjectCashflow(prop, singleEarner(), 10)

	for _, y := range proj.Years {
		assert.True(t, y.Interest.IsZero(), "year %d interest", y.Year)
		assert.True(t, y.Principal.IsZero(), "year %d principal", y.Year)
		assert.True(t, y.DebtService.IsZero(), "year %d debt service", y.Year)
		assert.True(t, y.LoanBalance.IsZero(), "year %d balance", y.Year)
		assertDecimalEqual(t, y.PropertyValue, y.Equity)
	}
	assertDecimalEqual(t, prop.Purchase.TotalCost, proj.Result.InitialEquity)
	assertDecimalEqual(t, prop.Purchase.TotalCost, proj.Result.DownPayment)
	assert.True(t, proj.Result.Annuity.IsZero())
	assert.True(t, proj.Result.LoanAmount.IsZero())
}

func TestProject_BuildingDepreciationStopsAtBase(t *testing.T) {
	in := cashApartment()
	in.DepreciationRate = dec("10")
	prop := prepare(t, in)
	proj := NewEngine().ProjectCashflow(prop, singleEarner(), 12)

	total := dec("0")
	for _, y := range proj.Years {
		total = total.Add(y.BuildingDepreciation)
	}
	assertDecimalEqual(t, prop.Purchase.BuildingWithCosts, total)
	assert.True(t, proj.Years[11].BuildingDepreciation.IsZero())
}

func TestProject_ChurchTaxRaisesSavings(t *testing.T) {
	prop := prepare(t, bavarianApartment())
	engine := NewEngine()

	plain := engine.ProjectCashflow(prop, singleEarner(), 1)
	hh := singleEarner()
	hh.ChurchTax = true
	hh.State = "BY"
	withChurch := engine.ProjectCashflow(prop, hh, 1)

	y := withChurch.Years[0]
	assertDecimalEqual(t, dec("1501.12"), y.PreviousChurchTax)
	assertDecimalEqual(t, dec("268.08"), y.NewChurchTax)
	assertDecimalEqual(t, plain.Years[0].TaxSavings.Add(dec("1233.04")), y.TaxSavings)
}
