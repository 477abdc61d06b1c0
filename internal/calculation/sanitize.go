package calculation

import (
	"fmt"

	"github.com/immorechner/property-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// Horizon bounds, in years.
const (
	MinHorizonYears = 1
	MaxHorizonYears = 50
)

// Maintenance distribution period bounds, in years.
const (
	MinMaintenanceYears = 1
	MaxMaintenanceYears = 5
)

// bound is the permitted range of one numeric input.
type bound struct {
	Field string
	Min   decimal.Decimal
	Max   decimal.Decimal
	Ptr   func(*domain.PropertyInputs) *decimal.Decimal
}

var (
	maxAmount    = decimal.NewFromInt(1_000_000_000)
	maxFeeRate   = decimal.NewFromInt(10)
	maxGrowth    = decimal.NewFromInt(20)
	minGrowth    = decimal.NewFromInt(-20)
	maxLoanRate  = decimal.NewFromInt(20)
	maxChurchTax = decimal.NewFromInt(10)
)

func amountBound(field string, ptr func(*domain.PropertyInputs) *decimal.Decimal) bound {
	return bound{Field: field, Min: decimal.Zero, Max: maxAmount, Ptr: ptr}
}

// propertyBounds lists every clamped decimal input of a property.
var propertyBounds = []bound{
	amountBound("purchase_price", func(p *domain.PropertyInputs) *decimal.Decimal { return &p.PurchasePrice }),
	{"notary_rate", decimal.Zero, maxFeeRate, func(p *domain.PropertyInputs) *decimal.Decimal { return &p.NotaryRate }},
	{"broker_rate", decimal.Zero, maxFeeRate, func(p *domain.PropertyInputs) *decimal.Decimal { return &p.BrokerRate }},
	{"depreciation_rate", decimal.Zero, maxFeeRate, func(p *domain.PropertyInputs) *decimal.Decimal { return &p.DepreciationRate }},
	amountBound("land_value", func(p *domain.PropertyInputs) *decimal.Decimal { return &p.LandValue }),
	amountBound("building_value", func(p *domain.PropertyInputs) *decimal.Decimal { return &p.BuildingValue }),
	amountBound("furniture_value", func(p *domain.PropertyInputs) *decimal.Decimal { return &p.FurnitureValue }),
	amountBound("maintenance_value", func(p *domain.PropertyInputs) *decimal.Decimal { return &p.MaintenanceValue }),
	amountBound("down_payment", func(p *domain.PropertyInputs) *decimal.Decimal { return &p.DownPayment }),
	amountBound("monthly_rent", func(p *domain.PropertyInputs) *decimal.Decimal { return &p.MonthlyRent }),
	{"vacancy_rate", decimal.Zero, decimalHundred, func(p *domain.PropertyInputs) *decimal.Decimal { return &p.VacancyRate }},
	amountBound("property_tax", func(p *domain.PropertyInputs) *decimal.Decimal { return &p.PropertyTax }),
	amountBound("management_fee", func(p *domain.PropertyInputs) *decimal.Decimal { return &p.ManagementFee }),
	amountBound("maintenance_reserve", func(p *domain.PropertyInputs) *decimal.Decimal { return &p.MaintenanceReserve }),
	amountBound("insurance", func(p *domain.PropertyInputs) *decimal.Decimal { return &p.Insurance }),
	{"appreciation_rate", minGrowth, maxGrowth, func(p *domain.PropertyInputs) *decimal.Decimal { return &p.AppreciationRate }},
	{"rent_increase_rate", minGrowth, maxGrowth, func(p *domain.PropertyInputs) *decimal.Decimal { return &p.RentIncreaseRate }},
	amountBound("current_market_value", func(p *domain.PropertyInputs) *decimal.Decimal { return &p.CurrentMarketValue }),
	amountBound("current_debt_value", func(p *domain.PropertyInputs) *decimal.Decimal { return &p.CurrentDebtValue }),
}

// SanitizeProperty clamps every numeric input into its permitted range and fills
// defaults for invalid enumerations. Out-of-range inputs are never rejected; each
// adjustment is reported as a warning and the returned inputs are always usable.
func SanitizeProperty(in domain.PropertyInputs, rules domain.Rules) (domain.PropertyInputs, []domain.Warning) {
	out := in
	out.Loans = append([]domain.LoanTranche(nil), in.Loans...)
	var warnings []domain.Warning
	warn := func(field string, code domain.WarningCode, format string, args ...any) {
		warnings = append(warnings, domain.Warning{
			Property: in.Name,
			Field:    field,
			Code:     code,
			Message:  fmt.Sprintf(format, args...),
		})
	}
	clamp := func(field string, v *decimal.Decimal, lo, hi decimal.Decimal) {
		applied := decimal.Min(hi, decimal.Max(lo, *v))
		if !applied.Equal(*v) {
			warn(field, domain.WarningClamped, "clamped from %s to %s", v.String(), applied.String())
			*v = applied
		}
	}

	for _, b := range propertyBounds {
		clamp(b.Field, b.Ptr(&out), b.Min, b.Max)
	}

	if out.MaintenanceDistributionYears == 0 {
		out.MaintenanceDistributionYears = MinMaintenanceYears
	} else if out.MaintenanceDistributionYears < MinMaintenanceYears || out.MaintenanceDistributionYears > MaxMaintenanceYears {
		applied := clampInt(out.MaintenanceDistributionYears, MinMaintenanceYears, MaxMaintenanceYears)
		warn("maintenance_distribution_years", domain.WarningClamped, "clamped from %d to %d", out.MaintenanceDistributionYears, applied)
		out.MaintenanceDistributionYears = applied
	}

	if !out.FinancingType.Valid() {
		applied := domain.FinancingCash
		if len(out.Loans) > 0 {
			applied = domain.FinancingLoan
		}
		if out.FinancingType != "" {
			warn("financing_type", domain.WarningDefaulted, "unknown financing type %q, using %s", string(out.FinancingType), applied)
		}
		out.FinancingType = applied
	}

	if len(out.Loans) > domain.MaxLoanTranches {
		warn("loans", domain.WarningClamped, "%d loan tranches given, only the first %d are used", len(out.Loans), domain.MaxLoanTranches)
		out.Loans = out.Loans[:domain.MaxLoanTranches]
	}
	for i := range out.Loans {
		l := &out.Loans[i]
		clamp(fmt.Sprintf("loans[%d].amount", i), &l.Amount, decimal.Zero, maxAmount)
		clamp(fmt.Sprintf("loans[%d].interest_rate", i), &l.InterestRate, decimal.Zero, maxLoanRate)
		clamp(fmt.Sprintf("loans[%d].amortization_rate", i), &l.AmortizationRate, decimal.Zero, decimalHundred)
	}

	if out.DepreciationRate.IsZero() && rules.DefaultDepreciationRate.IsPositive() {
		warn("depreciation_rate", domain.WarningDefaulted, "no depreciation rate given, using %s%%", rules.DefaultDepreciationRate.String())
		out.DepreciationRate = rules.DefaultDepreciationRate
	}
	defaultLoanTerms(&out, rules, warn)

	if _, known := rules.TransferTaxRate(out.StateCode); !known {
		warn("state_code", domain.WarningUnknownState, "unknown state %q, using default transfer tax rate %s%%",
			out.StateCode, rules.DefaultTransferTaxRate.String())
	}

	return out, warnings
}

// defaultLoanTerms gives the derived tranche of a loan purchase the configured
// rates when the user supplied neither an amount nor any terms.
func defaultLoanTerms(out *domain.PropertyInputs, rules domain.Rules, warn func(string, domain.WarningCode, string, ...any)) {
	if out.IsCash() || !out.TotalLoanAmount().IsZero() {
		return
	}
	if len(out.Loans) == 0 {
		out.Loans = []domain.LoanTranche{{}}
	}
	first := &out.Loans[0]
	if !first.InterestRate.IsZero() || !first.AmortizationRate.IsZero() {
		return
	}
	first.InterestRate = rules.DefaultInterestRate
	first.AmortizationRate = rules.DefaultAmortizationRate
	warn("loans[0]", domain.WarningDefaulted, "no loan terms given, using %s%% interest and %s%% amortization",
		first.InterestRate.String(), first.AmortizationRate.String())
}

// SanitizeHousehold clamps the household tax context.
func SanitizeHousehold(hh domain.HouseholdTaxContext) (domain.HouseholdTaxContext, []domain.Warning) {
	var warnings []domain.Warning
	if hh.BaseIncome.IsNegative() {
		warnings = append(warnings, domain.Warning{Field: "base_income", Code: domain.WarningClamped,
			Message: fmt.Sprintf("clamped from %s to 0", hh.BaseIncome.String())})
		hh.BaseIncome = decimal.Zero
	} else if hh.BaseIncome.GreaterThan(maxAmount) {
		warnings = append(warnings, domain.Warning{Field: "base_income", Code: domain.WarningClamped,
			Message: fmt.Sprintf("clamped from %s to %s", hh.BaseIncome.String(), maxAmount.String())})
		hh.BaseIncome = maxAmount
	}
	if !hh.FilingStatus.Valid() {
		if hh.FilingStatus != "" {
			warnings = append(warnings, domain.Warning{Field: "filing_status", Code: domain.WarningDefaulted,
				Message: fmt.Sprintf("unknown filing status %q, using single", string(hh.FilingStatus))})
		}
		hh.FilingStatus = domain.FilingSingle
	}
	applied := decimal.Min(maxChurchTax, decimal.Max(decimal.Zero, hh.ChurchTaxRate))
	if !applied.Equal(hh.ChurchTaxRate) {
		warnings = append(warnings, domain.Warning{Field: "church_tax_rate", Code: domain.WarningClamped,
			Message: fmt.Sprintf("clamped from %s to %s", hh.ChurchTaxRate.String(), applied.String())})
		hh.ChurchTaxRate = applied
	}
	return hh, warnings
}

// SanitizeHorizon returns years clamped to the permitted horizon; zero means the default.
func SanitizeHorizon(years int) int {
	if years == 0 {
		return domain.DefaultHorizonYears
	}
	return clampInt(years, MinHorizonYears, MaxHorizonYears)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
