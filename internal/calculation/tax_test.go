package calculation

import (
	"testing"

	"github.com/immorechner/property-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// TestIncomeTaxZones checks the tariff in every zone and at the zone edges
func TestIncomeTaxZones(t *testing.T) {
	tests := []struct {
		name        string
		income      string
		expectedTax string
		description string
	}{
		{"zero income", "0", "0", "No income, no tax"},
		{"negative income", "-5000", "0", "Losses never produce negative tax"},
		{"basic allowance", "11784", "0", "Exactly at the basic allowance"},
		{"just above allowance", "11785", "0", "First euro above the allowance rounds to zero"},
		{"zone 2", "15000", "549", "Lower progression zone"},
		{"zone 2 upper edge", "17005", "991", "Continuity into zone 3"},
		{"zone 3", "30000", "4412", "Upper progression zone"},
		{"zone 3 mid", "50000", "10873", "Upper progression zone"},
		{"zone 3 upper edge", "66760", "17403", "Continuity into the 42% zone"},
		{"zone 4", "70000", "18764", "42% zone"},
		{"zone 4 high", "100000", "31364", "42% zone"},
		{"zone 4 upper edge", "277825", "106050", "Continuity into the 45% zone"},
		{"top zone", "300000", "116029", "45% zone"},
	}

	calc := NewIncomeTaxCalculator(domain.DefaultIncomeTaxRules())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tax := calc.Calculate(dec(tt.income), domain.FilingSingle)
			assertDecimalEqual(t, dec(tt.expectedTax), tax, tt.description)
		})
	}
}

func TestIncomeTaxMonotonic(t *testing.T) {
	for _, status := range []domain.FilingStatus{domain.FilingSingle, domain.FilingMarried} {
		prev := decimal.Zero
		for income := int64(0); income <= 400000; income += 250 {
			tax := ComputeIncomeTax(decimal.NewFromInt(income), status)
			assert.False(t, tax.LessThan(prev), "%s: tax fell from %s to %s at income %d", status, prev, tax, income)
			prev = tax
		}
	}
}

func TestIncomeTaxSplitting(t *testing.T) {
	for _, income := range []string{"0", "30000", "100000", "140000", "555555", "600001"} {
		x := dec(income)
		married := ComputeIncomeTax(x, domain.FilingMarried)
		half := ComputeIncomeTax(x.Div(decimal.NewFromInt(2)), domain.FilingSingle)
		assertDecimalEqual(t, half.Mul(decimal.NewFromInt(2)), married, "income %s", income)
	}

	assertDecimalEqual(t, dec("21746"), ComputeIncomeTax(dec("100000"), domain.FilingMarried))
	assertDecimalEqual(t, dec("37528"), ComputeIncomeTax(dec("140000"), domain.FilingMarried))
}

func TestChurchTax(t *testing.T) {
	tests := []struct {
		name      string
		incomeTax string
		enabled   bool
		rate      string
		expected  string
	}{
		{"disabled", "18764", false, "9", "0"},
		{"nine percent", "18764", true, "9", "1688.76"},
		{"eight percent", "18764", true, "8", "1501.12"},
		{"no income tax", "0", true, "9", "0"},
		{"zero rate", "18764", true, "0", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDecimalEqual(t, dec(tt.expected), ComputeChurchTax(dec(tt.incomeTax), tt.enabled, dec(tt.rate)))
		})
	}
}

func TestHouseholdAssess(t *testing.T) {
	calc := NewHouseholdTaxCalculator(domain.DefaultRules())

	t.Run("regional church tax rate", func(t *testing.T) {
		hh := domain.HouseholdTaxContext{FilingStatus: domain.FilingSingle, ChurchTax: true, State: "by"}
		a := calc.Assess(dec("70000"), hh)
		assertDecimalEqual(t, dec("18764"), a.IncomeTax)
		assertDecimalEqual(t, dec("1501.12"), a.ChurchTax)
		assertDecimalEqual(t, dec("20265.12"), a.Total())
	})

	t.Run("explicit rate wins over region", func(t *testing.T) {
		hh := domain.HouseholdTaxContext{FilingStatus: domain.FilingSingle, ChurchTax: true, State: "BY", ChurchTaxRate: dec("9")}
		assertDecimalEqual(t, dec("1688.76"), calc.Assess(dec("70000"), hh).ChurchTax)
	})

	t.Run("income floored at zero", func(t *testing.T) {
		a := calc.Assess(dec("-10000"), singleEarner())
		assert.True(t, a.Income.IsZero())
		assert.True(t, a.Total().IsZero())
	})
}
