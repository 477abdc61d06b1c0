package calculation

import (
	"github.com/immorechner/property-calculator/internal/domain"
	"github.com/immorechner/property-calculator/pkg/money"
	"github.com/shopspring/decimal"
)

// AggregateOngoingCosts derives year-1 rent and the fixed annual costs.
func AggregateOngoingCosts(in domain.PropertyInputs) domain.OngoingCosts {
	gross := money.New(in.MonthlyRent).Annual()
	occupancy := decimal.NewFromInt(1).Sub(in.VacancyRate.Div(decimalHundred))

	oc := domain.OngoingCosts{
		GrossAnnualRent:     gross.Cents().Decimal,
		EffectiveAnnualRent: money.New(gross.Mul(occupancy)).Cents().Decimal,
		VacancyRate:         in.VacancyRate,
		PropertyTax:         in.PropertyTax,
		ManagementFee:       in.ManagementFee,
		MaintenanceReserve:  in.MaintenanceReserve,
		Insurance:           in.Insurance,
	}
	oc.Total = oc.PropertyTax.Add(oc.ManagementFee).Add(oc.MaintenanceReserve).Add(oc.Insurance)
	return oc
}
