package calculation

import (
	"fmt"
	"testing"

	"github.com/immorechner/property-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// assertDecimalEqual compares decimals by value so that 13968 equals 13968.00.
func assertDecimalEqual(t *testing.T, expected, actual decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	msg := fmt.Sprintf("expected %s, got %s", expected.String(), actual.String())
	if len(msgAndArgs) > 0 {
		if format, ok := msgAndArgs[0].(string); ok {
			msg += ": " + fmt.Sprintf(format, msgAndArgs[1:]...)
		}
	}
	assert.True(t, expected.Equal(actual), msg)
}

// bavarianApartment is the reference purchase: a furnished flat in Bavaria financed
// with a single 291,500 loan at 4.0% interest and 1.5% amortization.
func bavarianApartment() domain.PropertyInputs {
	return domain.PropertyInputs{
		Name:                         "Munich flat",
		PurchasePrice:                dec("316500"),
		StateCode:                    "BY",
		NotaryRate:                   dec("1.5"),
		BrokerRate:                   dec("3.0"),
		DepreciationRate:             dec("2.0"),
		LandValue:                    dec("45000"),
		BuildingValue:                dec("220000"),
		FurnitureValue:               dec("16500"),
		MaintenanceValue:             dec("35000"),
		MaintenanceDistributionYears: 1,
		FinancingType:                domain.FinancingLoan,
		DownPayment:                  dec("49742.50"),
		Loans: []domain.LoanTranche{
			{Amount: dec("291500"), InterestRate: dec("4.0"), AmortizationRate: dec("1.5")},
		},
		MonthlyRent:        dec("1200"),
		VacancyRate:        dec("3"),
		PropertyTax:        dec("400"),
		ManagementFee:      dec("600"),
		MaintenanceReserve: dec("500"),
		Insurance:          dec("300"),
		AppreciationRate:   dec("2"),
		RentIncreaseRate:   dec("2"),
	}
}

// cashApartment is a small flat bought outright in North Rhine-Westphalia.
func cashApartment() domain.PropertyInputs {
	return domain.PropertyInputs{
		Name:                         "Cologne studio",
		PurchasePrice:                dec("150000"),
		StateCode:                    "NW",
		NotaryRate:                   dec("1.5"),
		DepreciationRate:             dec("2.0"),
		LandValue:                    dec("30000"),
		BuildingValue:                dec("120000"),
		MaintenanceDistributionYears: 1,
		FinancingType:                domain.FinancingCash,
		MonthlyRent:                  dec("650"),
		VacancyRate:                  dec("2"),
		PropertyTax:                  dec("250"),
		ManagementFee:                dec("300"),
		MaintenanceReserve:           dec("400"),
		Insurance:                    dec("150"),
		AppreciationRate:             dec("1.5"),
		RentIncreaseRate:             dec("1.5"),
	}
}

func singleEarner() domain.HouseholdTaxContext {
	return domain.HouseholdTaxContext{
		BaseIncome:   dec("70000"),
		FilingStatus: domain.FilingSingle,
	}
}

func prepare(t *testing.T, in domain.PropertyInputs) domain.Property {
	t.Helper()
	prop, _ := NewEngine().PrepareProperty(in)
	return prop
}
