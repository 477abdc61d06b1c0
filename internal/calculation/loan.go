package calculation

import (
	"github.com/immorechner/property-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// Amortize builds the yearly schedule of an annuity loan (Tilgungsdarlehen).
//
// The annuity is fixed at principal * (interestRate + amortizationRate) for the life
// of the loan; rates are percentages. Interest is charged on the opening balance each
// year and the final principal payment is capped at the remaining balance.
func Amortize(principal, interestRate, amortizationRate decimal.Decimal, years int) domain.LoanSchedule {
	if years < 0 {
		years = 0
	}
	schedule := domain.LoanSchedule{
		Principal: principal,
		Years:     make([]domain.LoanYear, years),
	}
	if !principal.IsPositive() {
		schedule.Principal = decimal.Zero
		for i := range schedule.Years {
			schedule.Years[i] = domain.LoanYear{Year: i + 1}
		}
		return schedule
	}

	schedule.Annuity = percentOf(principal, interestRate.Add(amortizationRate))
	balance := principal
	for i := range schedule.Years {
		schedule.Years[i] = amortizeYear(i+1, balance, interestRate, schedule.Annuity)
		balance = schedule.Years[i].Balance
	}
	return schedule
}

// amortizeYear advances one year from the opening balance with a fixed annuity.
func amortizeYear(year int, opening, interestRate, annuity decimal.Decimal) domain.LoanYear {
	if !opening.IsPositive() {
		return domain.LoanYear{Year: year}
	}
	interest := percentOf(opening, interestRate)
	principal := decimal.Min(annuity.Sub(interest), opening)
	if principal.IsNegative() {
		// The annuity does not cover the interest; no amortization this year.
		principal = decimal.Zero
	}
	return domain.LoanYear{
		Year:      year,
		Interest:  interest,
		Principal: principal,
		Payment:   interest.Add(principal),
		Balance:   opening.Sub(principal),
	}
}

// AmortizeTranches amortizes each tranche independently and sums the schedules per year.
func AmortizeTranches(tranches []domain.LoanTranche, years int) domain.LoanSchedule {
	combined := Amortize(decimal.Zero, decimal.Zero, decimal.Zero, years)
	for _, t := range tranches {
		s := Amortize(t.Amount, t.InterestRate, t.AmortizationRate, years)
		combined.Principal = combined.Principal.Add(s.Principal)
		combined.Annuity = combined.Annuity.Add(s.Annuity)
		for i := range combined.Years {
			c := &combined.Years[i]
			c.Interest = c.Interest.Add(s.Years[i].Interest)
			c.Principal = c.Principal.Add(s.Years[i].Principal)
			c.Payment = c.Payment.Add(s.Years[i].Payment)
			c.Balance = c.Balance.Add(s.Years[i].Balance)
		}
	}
	return combined
}

// BlendedInterestRate returns the amount-weighted interest rate of the tranches, in percent.
func BlendedInterestRate(tranches []domain.LoanTranche) decimal.Decimal {
	total := decimal.Zero
	weighted := decimal.Zero
	for _, t := range tranches {
		total = total.Add(t.Amount)
		weighted = weighted.Add(t.Amount.Mul(t.InterestRate))
	}
	if !total.IsPositive() {
		return decimal.Zero
	}
	return weighted.Div(total)
}

// Financing is the resolved funding of a purchase.
type Financing struct {
	Tranches      []domain.LoanTranche
	LoanAmount    decimal.Decimal
	DownPayment   decimal.Decimal
	InitialEquity decimal.Decimal
}

// ResolveFinancing decides tranches, down payment and initial equity.
//
// Cash purchases carry no loan and the whole total cost is equity. A loan purchase
// without tranche amounts borrows whatever the down payment does not cover, on the
// terms of the first tranche if one is given.
func ResolveFinancing(in domain.PropertyInputs, pb domain.PurchaseBreakdown) Financing {
	if in.IsCash() {
		return Financing{
			LoanAmount:    decimal.Zero,
			DownPayment:   pb.TotalCost,
			InitialEquity: pb.TotalCost,
		}
	}

	tranches := append([]domain.LoanTranche(nil), in.Loans...)
	if len(tranches) > domain.MaxLoanTranches {
		tranches = tranches[:domain.MaxLoanTranches]
	}
	in.Loans = tranches
	total := in.TotalLoanAmount()
	if total.IsZero() {
		derived := decimal.Max(decimal.Zero, pb.TotalCost.Sub(in.DownPayment))
		if len(tranches) == 0 {
			tranches = append(tranches, domain.LoanTranche{})
		}
		tranches[0].Amount = derived
		total = derived
	}

	return Financing{
		Tranches:      tranches,
		LoanAmount:    total,
		DownPayment:   in.DownPayment,
		InitialEquity: in.DownPayment,
	}
}
