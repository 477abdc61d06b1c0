package calculation

import (
	"github.com/immorechner/property-calculator/internal/domain"
	"github.com/immorechner/property-calculator/pkg/money"
	"github.com/shopspring/decimal"
)

// fallbackProjection is the rough estimate returned with a degraded outcome.
//
// It works from raw inputs only: flat gross rent less vacancy, the four fixed costs and
// a single annuity on the requested loan amount. No tax, no depreciation, no growth;
// the property value stays at the purchase price. Every step avoids division so it
// cannot fail on the inputs that broke the real projection.
func fallbackProjection(in domain.PropertyInputs, years int) (proj domain.Projection) {
	defer func() {
		if recover() != nil {
			proj = domain.Projection{Years: make([]domain.YearRecord, 0)}
		}
	}()
	if years < 1 {
		years = domain.DefaultHorizonYears
	}

	gross := money.New(in.MonthlyRent).Annual().Decimal
	rent := gross.Sub(gross.Mul(in.VacancyRate).Div(decimalHundred)).Round(2)
	costs := in.PropertyTax.Add(in.ManagementFee).Add(in.MaintenanceReserve).Add(in.Insurance)

	loan := decimal.Zero
	annuity := decimal.Zero
	if !in.IsCash() {
		loan = in.TotalLoanAmount()
		for _, t := range in.Loans {
			annuity = annuity.Add(percentOf(t.Amount, t.InterestRate.Add(t.AmortizationRate)))
		}
	}
	equity := in.DownPayment
	if in.IsCash() {
		equity = in.PurchasePrice
	}

	cashflow := rent.Sub(costs).Sub(annuity)
	records := make([]domain.YearRecord, years)
	for i := range records {
		records[i] = domain.YearRecord{
			Year:                    i + 1,
			GrossRent:               gross.Round(2),
			Rent:                    rent,
			VacancyRate:             in.VacancyRate,
			OngoingCosts:            costs,
			DebtService:             annuity,
			LoanBalance:             loan,
			CashflowBeforeFinancing: rent.Sub(costs),
			CashflowBeforeTax:       cashflow,
			Cashflow:                cashflow,
			PropertyValue:           in.PurchasePrice,
			Equity:                  in.PurchasePrice.Sub(loan),
			InitialEquity:           equity,
			PropertyTax:             in.PropertyTax,
			ManagementFee:           in.ManagementFee,
			MaintenanceReserve:      in.MaintenanceReserve,
			Insurance:               in.Insurance,
		}
	}

	result := domain.SimulationResult{
		PurchasePrice: in.PurchasePrice,
		TotalCost:     in.PurchasePrice,
		DownPayment:   equity,
		LoanAmount:    loan,
		Annuity:       annuity,
		InitialEquity: equity,
	}
	return domain.Projection{
		Result: summarize(result, records),
		Years:  records,
	}
}
