package calculation

import (
	"github.com/immorechner/property-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// OverrideReconciler replaces projected market value and debt with authoritative
// current values and rebuilds every dependent field.
type OverrideReconciler struct {
	TaxCalc *HouseholdTaxCalculator
	Logger  Logger
}

// NewOverrideReconciler creates a reconciler using the given household tax calculator
func NewOverrideReconciler(taxCalc *HouseholdTaxCalculator, logger Logger) *OverrideReconciler {
	if logger == nil {
		logger = NopLogger{}
	}
	return &OverrideReconciler{TaxCalc: taxCalc, Logger: logger}
}

// Reconcile returns a new projection; the input projection is never modified.
//
// A market value override becomes the year-1 value and later years compound from it
// at the appreciation rate.
//
// A debt override replaces the year-1 closing balance only. Year-1 interest and
// principal stay as scheduled. From year 2 on the combined balance of all tranches
// amortizes from the override with the original annuity and the amount-weighted
// (blended) interest rate of the tranches. Cash purchases ignore a debt override.
func (r *OverrideReconciler) Reconcile(prop domain.Property, hh domain.HouseholdTaxContext, proj domain.Projection) domain.Projection {
	in := prop.Inputs
	out := domain.Projection{
		Result:   proj.Result,
		Years:    append([]domain.YearRecord(nil), proj.Years...),
		Warnings: append([]domain.Warning(nil), proj.Warnings...),
	}
	if !in.HasOverrides() || len(out.Years) == 0 {
		return out
	}

	if in.UseCurrentMarketValue {
		growth := decimal.NewFromInt(1).Add(in.AppreciationRate.Div(decimalHundred))
		for i := range out.Years {
			out.Years[i].PropertyValue = in.CurrentMarketValue.Mul(growth.Pow(decimal.NewFromInt(int64(i)))).Round(2)
		}
	}

	if in.UseCurrentDebtValue {
		if in.IsCash() {
			r.Logger.Warnf("ignoring current debt override for cash purchase %q", in.Name)
			out.Warnings = append(out.Warnings, domain.Warning{
				Property: in.Name,
				Field:    "current_debt_value",
				Code:     domain.WarningDefaulted,
				Message:  "cash purchase carries no debt; override ignored",
			})
		} else {
			rate := BlendedInterestRate(ResolveFinancing(in, prop.Purchase).Tranches)
			annuity := proj.Result.Annuity
			out.Years[0].LoanBalance = in.CurrentDebtValue
			for i := 1; i < len(out.Years); i++ {
				ly := amortizeYear(out.Years[i].Year, out.Years[i-1].LoanBalance, rate, annuity)
				out.Years[i].Interest = ly.Interest
				out.Years[i].Principal = ly.Principal
				out.Years[i].LoanBalance = ly.Balance
			}
		}
	}

	for i := range out.Years {
		out.Years[i] = recomputeYear(out.Years[i], r.TaxCalc, hh)
	}
	out.Result = summarize(out.Result, out.Years)
	r.Logger.Debugf("reconciled overrides for %q: value=%t debt=%t", in.Name, in.UseCurrentMarketValue, in.UseCurrentDebtValue)
	return out
}
