package calculation

import (
	"context"
	"fmt"

	"github.com/immorechner/property-calculator/internal/domain"
)

// Engine orchestrates the property calculations. It holds no mutable state beyond
// its configuration and is safe for concurrent use once built.
type Engine struct {
	Rules      domain.Rules
	TaxCalc    *HouseholdTaxCalculator
	Projector  *CashflowProjector
	Reconciler *OverrideReconciler
	Portfolio  *PortfolioAggregator
	Logger     Logger
}

// NewEngine creates an engine with the built-in statutory constants
func NewEngine() *Engine {
	return NewEngineWithRules(domain.DefaultRules())
}

// NewEngineWithRules creates an engine with configurable tax and transfer tax rules
func NewEngineWithRules(rules domain.Rules) *Engine {
	taxCalc := NewHouseholdTaxCalculator(rules)
	logger := NopLogger{}
	return &Engine{
		Rules:      rules,
		TaxCalc:    taxCalc,
		Projector:  NewCashflowProjector(taxCalc, logger),
		Reconciler: NewOverrideReconciler(taxCalc, logger),
		Portfolio:  NewPortfolioAggregator(taxCalc, logger),
		Logger:     logger,
	}
}

// SetLogger sets the logger for the engine and its components. If nil is provided, a no-op logger is used.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		l = NopLogger{}
	}
	e.Logger = l
	e.Projector.Logger = l
	e.Reconciler.Logger = l
	e.Portfolio.Logger = l
	e.Portfolio.Projector.Logger = l
	e.Portfolio.Reconciler.Logger = l
}

// PrepareProperty sanitizes the inputs and derives the purchase and ongoing breakdowns.
func (e *Engine) PrepareProperty(in domain.PropertyInputs) (domain.Property, []domain.Warning) {
	clean, warnings := SanitizeProperty(in, e.Rules)
	pb := AllocatePurchase(clean, e.Rules)
	if pb.AllocationMismatch {
		warnings = append(warnings, domain.Warning{
			Property: clean.Name,
			Field:    "purchase_price",
			Code:     domain.WarningAllocationMismatch,
			Message: fmt.Sprintf("land, building, maintenance and furniture add up to %s, purchase price is %s",
				pb.AllocationSum.StringFixed(2), clean.PurchasePrice.StringFixed(2)),
		})
	}
	for _, w := range warnings {
		e.Logger.Warnf("%s", w.String())
	}
	return domain.Property{
		Inputs:   clean,
		Purchase: pb,
		Ongoing:  AggregateOngoingCosts(clean),
	}, warnings
}

// Breakdown returns the purchase allocation of in for reporting. It reports false
// when the allocation could not be computed.
func (e *Engine) Breakdown(in domain.PropertyInputs) (domain.PurchaseBreakdown, bool) {
	var pb domain.PurchaseBreakdown
	_, reason := e.guard(func() domain.Projection {
		clean, _ := SanitizeProperty(in, e.Rules)
		pb = AllocatePurchase(clean, e.Rules)
		return domain.Projection{}
	})
	return pb, reason == ""
}

// ProjectCashflow runs the projector for an already prepared property.
func (e *Engine) ProjectCashflow(prop domain.Property, hh domain.HouseholdTaxContext, years int) domain.Projection {
	return e.Projector.Project(prop, hh, SanitizeHorizon(years))
}

// ReconcileOverrides applies the property's current value overrides to a projection.
func (e *Engine) ReconcileOverrides(prop domain.Property, hh domain.HouseholdTaxContext, proj domain.Projection) domain.Projection {
	return e.Reconciler.Reconcile(prop, hh, proj)
}

// AggregatePortfolio combines prepared properties into one household projection.
func (e *Engine) AggregatePortfolio(props []domain.Property, hh domain.HouseholdTaxContext, years int) domain.Projection {
	return e.Portfolio.Aggregate(props, hh, SanitizeHorizon(years))
}

// Simulate sanitizes, projects and reconciles one property.
//
// The only error is a cancelled context. A failure inside the computation yields a
// degraded outcome carrying a rough estimate and the reason.
func (e *Engine) Simulate(ctx context.Context, in domain.PropertyInputs, hh domain.HouseholdTaxContext, years int) (domain.Outcome, error) {
	if err := ctx.Err(); err != nil {
		return domain.Outcome{}, fmt.Errorf("simulation cancelled: %w", err)
	}
	years = SanitizeHorizon(years)

	proj, reason := e.guard(func() domain.Projection {
		cleanHH, hhWarnings := SanitizeHousehold(hh)
		prop, warnings := e.PrepareProperty(in)
		p := e.ProjectCashflow(prop, cleanHH, years)
		p = e.ReconcileOverrides(prop, cleanHH, p)
		p.Warnings = append(append(hhWarnings, warnings...), p.Warnings...)
		return p
	})
	if reason != "" {
		e.Logger.Errorf("simulation of %q degraded: %s", in.Name, reason)
		return domain.Degraded(fallbackProjection(in, years), reason), nil
	}
	return domain.Ok(proj), nil
}

// SimulatePortfolio sanitizes and prepares every property, then aggregates them.
func (e *Engine) SimulatePortfolio(ctx context.Context, ins []domain.PropertyInputs, hh domain.HouseholdTaxContext, years int) (domain.Outcome, error) {
	if err := ctx.Err(); err != nil {
		return domain.Outcome{}, fmt.Errorf("portfolio simulation cancelled: %w", err)
	}
	years = SanitizeHorizon(years)

	proj, reason := e.guard(func() domain.Projection {
		cleanHH, warnings := SanitizeHousehold(hh)
		props := make([]domain.Property, 0, len(ins))
		for _, in := range ins {
			prop, w := e.PrepareProperty(in)
			props = append(props, prop)
			warnings = append(warnings, w...)
		}
		p := e.AggregatePortfolio(props, cleanHH, years)
		p.Warnings = append(warnings, p.Warnings...)
		return p
	})
	if reason != "" {
		e.Logger.Errorf("portfolio simulation of %d properties degraded: %s", len(ins), reason)
		return domain.Degraded(fallbackPortfolio(ins, years), reason), nil
	}
	return domain.Ok(proj), nil
}

// guard runs fn and converts a panic into a reason string.
func (e *Engine) guard(fn func() domain.Projection) (proj domain.Projection, reason string) {
	defer func() {
		if r := recover(); r != nil {
			reason = fmt.Sprintf("projection failed: %v", r)
		}
	}()
	return fn(), ""
}

// fallbackPortfolio sums the per-property estimates field by field.
func fallbackPortfolio(ins []domain.PropertyInputs, years int) domain.Projection {
	merged := make([]domain.YearRecord, years)
	for i := range merged {
		merged[i].Year = i + 1
	}
	var result domain.SimulationResult
	for _, in := range ins {
		p := fallbackProjection(in, years)
		if len(p.Years) != years {
			continue
		}
		for i := range merged {
			mergeYear(&merged[i], &p.Years[i])
			merged[i].Cashflow = merged[i].Cashflow.Add(p.Years[i].Cashflow)
		}
		result = mergeResult(result, p.Result)
	}
	return domain.Projection{Result: summarize(result, merged), Years: merged}
}
