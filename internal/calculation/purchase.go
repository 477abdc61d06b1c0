package calculation

import (
	"github.com/immorechner/property-calculator/internal/domain"
	"github.com/immorechner/property-calculator/pkg/money"
	"github.com/shopspring/decimal"
)

// allocationTolerance is how far the component sum may drift from the price before we warn.
var allocationTolerance = decimal.NewFromInt(1)

// AllocatePurchase computes acquisition costs and splits them over the components.
//
// Transfer tax is levied on the price without furniture (movable goods are exempt);
// notary and broker fees apply to the full price. Capitalized extras are spread over
// land, building and maintenance by nominal share. A broker fee booked as consulting
// expense is not capitalized but deducted in year 1.
func AllocatePurchase(in domain.PropertyInputs, rules domain.Rules) domain.PurchaseBreakdown {
	price := in.PurchasePrice
	furniture := in.FurnitureValue

	transferRate, _ := rules.TransferTaxRate(in.StateCode)
	transferBase := decimal.Max(decimal.Zero, price.Sub(furniture))

	pb := domain.PurchaseBreakdown{
		TransferTaxRate: transferRate,
		TransferTaxBase: transferBase,
		TransferTax:     percentOf(transferBase, transferRate),
		NotaryCost:      percentOf(price, in.NotaryRate),
		BrokerFee:       percentOf(price, in.BrokerRate),
		FurnitureValue:  furniture,
	}

	pb.CapitalizedExtraCost = pb.TransferTax.Add(pb.NotaryCost)
	if in.BrokerAsConsulting {
		pb.FirstYearDeductibleCosts = pb.BrokerFee
	} else {
		pb.CapitalizedExtraCost = pb.CapitalizedExtraCost.Add(pb.BrokerFee)
	}
	pb.TotalExtraCost = pb.TransferTax.Add(pb.NotaryCost).Add(pb.BrokerFee)
	pb.TotalCost = price.Add(pb.TotalExtraCost)

	land, building, maintenance := in.LandValue, in.BuildingValue, in.MaintenanceValue
	immobile := land.Add(building).Add(maintenance)
	if immobile.IsPositive() {
		pb.LandShare = land.Div(immobile)
		pb.BuildingShare = building.Div(immobile)
		pb.MaintenanceShare = maintenance.Div(immobile)
	} else {
		// No split given: derive it from the price with the configured shares.
		pb.LandShare = rules.DefaultLandShare
		pb.BuildingShare = rules.DefaultBuildingShare
		pb.MaintenanceShare = decimal.Max(decimal.Zero, decimal.NewFromInt(1).Sub(pb.LandShare).Sub(pb.BuildingShare))
		land = transferBase.Mul(pb.LandShare).Round(2)
		building = transferBase.Mul(pb.BuildingShare).Round(2)
		maintenance = transferBase.Sub(land).Sub(building)
		immobile = transferBase
	}
	pb.ImmobilePrice = immobile

	pb.LandWithCosts = land.Add(pb.CapitalizedExtraCost.Mul(pb.LandShare)).Round(2)
	pb.BuildingWithCosts = building.Add(pb.CapitalizedExtraCost.Mul(pb.BuildingShare)).Round(2)
	pb.MaintenanceWithCosts = maintenance.Add(pb.CapitalizedExtraCost.Mul(pb.MaintenanceShare)).Round(2)

	pb.AnnualBuildingDepreciation = percentOf(pb.BuildingWithCosts, in.DepreciationRate)

	pb.FurnitureYears = rules.FurnitureDepreciationYears
	if pb.FurnitureYears < 1 {
		pb.FurnitureYears = 1
	}
	pb.AnnualFurnitureDepreciation = furniture.Div(decimal.NewFromInt(int64(pb.FurnitureYears))).Round(2)

	pb.MaintenanceYears = in.MaintenanceDistributionYears
	if pb.MaintenanceYears < 1 {
		pb.MaintenanceYears = 1
	}
	pb.AnnualMaintenanceDeduction = pb.MaintenanceWithCosts.Div(decimal.NewFromInt(int64(pb.MaintenanceYears))).Round(2)

	pb.AllocationSum = in.LandValue.Add(in.BuildingValue).Add(in.MaintenanceValue).Add(furniture)
	// Only a user-supplied split can disagree with the price.
	pb.AllocationMismatch = in.LandValue.Add(in.BuildingValue).Add(in.MaintenanceValue).IsPositive() &&
		pb.AllocationSum.Sub(price).Abs().GreaterThan(allocationTolerance)

	return pb
}

// percentOf returns amount * rate / 100 rounded to cents.
func percentOf(amount, rate decimal.Decimal) decimal.Decimal {
	return money.New(amount).Percent(rate).Decimal
}
