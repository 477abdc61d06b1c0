package calculation

import (
	"testing"

	"github.com/immorechner/property-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcile_NoOverrides(t *testing.T) {
	prop, proj := projectReference(t)
	out := NewEngine().ReconcileOverrides(prop, singleEarner(), proj)
	assert.Equal(t, proj, out)
}

func TestReconcile_MarketValue(t *testing.T) {
	in := bavarianApartment()
	in.UseCurrentMarketValue = true
	in.CurrentMarketValue = dec("350000")
	prop := prepare(t, in)
	engine := NewEngine()
	proj := engine.ProjectCashflow(prop, singleEarner(), 10)
	before := append([]domain.YearRecord(nil), proj.Years...)

	out := engine.ReconcileOverrides(prop, singleEarner(), proj)
	require.Len(t, out.Years, 10)

	assertDecimalEqual(t, dec("350000"), out.Years[0].PropertyValue)
	assertDecimalEqual(t, dec("357000"), out.Years[1].PropertyValue, "compounds from the override")
	for _, y := range out.Years {
		assertDecimalEqual(t, y.PropertyValue.Sub(y.LoanBalance), y.Equity, "year %d", y.Year)
		assertDecimalEqual(t, y.CashflowBeforeTax.Add(y.TaxSavings), y.Cashflow, "year %d", y.Year)
	}
	assertDecimalEqual(t, out.LastYear().PropertyValue, out.Result.FinalPropertyValue)
	assertDecimalEqual(t, out.LastYear().Equity, out.Result.FinalEquity)

	// Value does not feed tax, so cash flow is unchanged.
	assertDecimalEqual(t, proj.Years[0].Cashflow, out.Years[0].Cashflow)

	// The input projection is left untouched.
	assert.Equal(t, before, proj.Years)
	assertDecimalEqual(t, dec("300000"), proj.Years[0].PropertyValue)
}

func TestReconcile_DebtValue(t *testing.T) {
	in := bavarianApartment()
	in.UseCurrentDebtValue = true
	in.CurrentDebtValue = dec("250000")
	prop := prepare(t, in)
	engine := NewEngine()
	proj := engine.ProjectCashflow(prop, singleEarner(), 10)

	out := engine.ReconcileOverrides(prop, singleEarner(), proj)

	assertDecimalEqual(t, dec("250000"), out.Years[0].LoanBalance)
	// Year 2 amortizes from the override with the original annuity.
	assertDecimalEqual(t, dec("10000"), out.Years[1].Interest)
	assertDecimalEqual(t, dec("6032.50"), out.Years[1].Principal)
	assertDecimalEqual(t, dec("243967.50"), out.Years[1].LoanBalance)
	assertDecimalEqual(t, dec("16032.50"), out.Years[1].DebtService)
	assertDecimalEqual(t, dec("16032.50"), out.Result.Annuity)

	// Lower interest means higher taxable income and a different tax effect.
	assert.False(t, out.Years[1].TaxableIncome.Equal(proj.Years[1].TaxableIncome))
	for _, y := range out.Years {
		assertDecimalEqual(t, y.PropertyValue.Sub(y.LoanBalance), y.Equity, "year %d", y.Year)
		assertDecimalEqual(t, y.CashflowBeforeTax.Add(y.TaxSavings), y.Cashflow, "year %d", y.Year)
	}
	assertDecimalEqual(t, out.LastYear().LoanBalance, out.Result.RemainingLoan)
	assertDecimalEqual(t, out.Years[0].Cashflow.Div(decimal.NewFromInt(12)).Round(2), out.Result.MonthlyCashflow)
	assertDecimalEqual(t, dec("287127.50"), proj.Years[0].LoanBalance)
}

func TestReconcile_DebtPaidOff(t *testing.T) {
	in := bavarianApartment()
	in.UseCurrentDebtValue = true
	in.CurrentDebtValue = dec("20000")
	prop := prepare(t, in)
	engine := NewEngine()
	out := engine.ReconcileOverrides(prop, singleEarner(), engine.ProjectCashflow(prop, singleEarner(), 5))

	assertDecimalEqual(t, dec("800"), out.Years[1].Interest)
	assertDecimalEqual(t, dec("15232.50"), out.Years[1].Principal)
	assertDecimalEqual(t, dec("4767.50"), out.Years[1].LoanBalance)
	assertDecimalEqual(t, dec("4767.50"), out.Years[2].Principal)
	assert.True(t, out.Years[2].LoanBalance.IsZero())
	for _, y := range out.Years[3:] {
		assert.True(t, y.Interest.IsZero(), "year %d", y.Year)
		assert.True(t, y.Principal.IsZero(), "year %d", y.Year)
		assert.True(t, y.DebtService.IsZero(), "year %d", y.Year)
	}
}

func TestReconcile_DebtOverrideTwoTranches(t *testing.T) {
	in := bavarianApartment()
	in.Loans = []domain.LoanTranche{
		{Amount: dec("200000"), InterestRate: dec("4"), AmortizationRate: dec("2")},
		{Amount: dec("91500"), InterestRate: dec("3"), AmortizationRate: dec("1")},
	}
	in.UseCurrentDebtValue = true
	in.CurrentDebtValue = dec("250000")
	prop := prepare(t, in)
	engine := NewEngine()
	proj := engine.ProjectCashflow(prop, singleEarner(), 5)
	out := engine.ReconcileOverrides(prop, singleEarner(), proj)

	assertDecimalEqual(t, dec("15660"), out.Result.Annuity, "12000 + 3660")
	assertDecimalEqual(t, dec("3.686106346483705"), BlendedInterestRate(prop.Inputs.Loans))

	// Year 1 keeps the per-tranche flows and only the closing balance changes.
	y1 := out.Years[0]
	assertDecimalEqual(t, dec("10745"), y1.Interest)
	assertDecimalEqual(t, dec("4915"), y1.Principal)
	assertDecimalEqual(t, proj.Years[0].Interest, y1.Interest)
	assertDecimalEqual(t, dec("250000"), y1.LoanBalance)

	// Later years amortize the combined balance at the blended rate.
	tests := []struct {
		interest  string
		principal string
		balance   string
	}{
		{"9215.27", "6444.73", "243555.27"},
		{"8977.71", "6682.29", "236872.98"},
	}
	for i, tt := range tests {
		y := out.Years[i+1]
		assertDecimalEqual(t, dec(tt.interest), y.Interest, "year %d interest", y.Year)
		assertDecimalEqual(t, dec(tt.principal), y.Principal, "year %d principal", y.Year)
		assertDecimalEqual(t, dec(tt.balance), y.LoanBalance, "year %d balance", y.Year)
		assertDecimalEqual(t, dec("15660"), y.DebtService, "year %d", y.Year)
	}
}

func TestReconcile_DebtOverrideZero(t *testing.T) {
	in := bavarianApartment()
	in.UseCurrentDebtValue = true
	in.CurrentDebtValue = decimal.Zero
	prop := prepare(t, in)
	engine := NewEngine()
	proj := engine.ProjectCashflow(prop, singleEarner(), 4)
	out := engine.ReconcileOverrides(prop, singleEarner(), proj)

	y1 := out.Years[0]
	assert.True(t, y1.LoanBalance.IsZero())
	assertDecimalEqual(t, dec("11660"), y1.Interest, "year-1 flows are not replaced")
	assertDecimalEqual(t, dec("4372.50"), y1.Principal)
	assertDecimalEqual(t, y1.PropertyValue, y1.Equity)
	for _, y := range out.Years[1:] {
		assert.True(t, y.Interest.IsZero(), "year %d", y.Year)
		assert.True(t, y.Principal.IsZero(), "year %d", y.Year)
		assert.True(t, y.LoanBalance.IsZero(), "year %d", y.Year)
	}
	assert.True(t, out.Result.RemainingLoan.IsZero())
}

func TestReconcile_DebtOverrideIgnoredForCash(t *testing.T) {
	in := cashApartment()
	in.UseCurrentDebtValue = true
	in.CurrentDebtValue = dec("50000")
	prop := prepare(t, in)
	engine := NewEngine()
	out := engine.ReconcileOverrides(prop, singleEarner(), engine.ProjectCashflow(prop, singleEarner(), 3))

	for _, y := range out.Years {
		assert.True(t, y.LoanBalance.IsZero())
	}
	require.Len(t, out.Warnings, 1)
	assert.Equal(t, "current_debt_value", out.Warnings[0].Field)
}
