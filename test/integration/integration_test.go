package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/immorechner/property-calculator/internal/cache"
	"github.com/immorechner/property-calculator/internal/calculation"
	"github.com/immorechner/property-calculator/internal/config"
	"github.com/immorechner/property-calculator/internal/domain"
	"github.com/immorechner/property-calculator/internal/output"
	"github.com/immorechner/property-calculator/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioFile = "../../testdata/scenario.yaml"

func loadScenario(t *testing.T) *domain.Configuration {
	t.Helper()
	scenario, err := config.NewInputParser().LoadFromFile(scenarioFile)
	require.NoError(t, err)
	return scenario
}

func TestEndToEndSimulation(t *testing.T) {
	scenario := loadScenario(t)
	require.Len(t, scenario.Properties, 2)
	assert.Equal(t, 15, scenario.Horizon())

	engine := calculation.NewEngine()
	for _, p := range scenario.Properties {
		outcome, err := engine.Simulate(context.Background(), p, scenario.Household, scenario.Horizon())
		require.NoError(t, err)
		assert.Equal(t, domain.StatusOK, outcome.Status, p.Name)
		require.Len(t, outcome.Projection.Years, 15)

		for i, y := range outcome.Projection.Years {
			assert.Equal(t, i+1, y.Year)
			assert.True(t, y.Equity.Equal(y.PropertyValue.Sub(y.LoanBalance)), "%s year %d equity", p.Name, y.Year)
			assert.True(t, y.Cashflow.Equal(y.CashflowBeforeTax.Add(y.TaxSavings)), "%s year %d cashflow", p.Name, y.Year)
			assert.True(t, y.PropertyTax.Equal(outcome.Projection.Years[0].PropertyTax), "fixed costs do not grow")
		}
	}
}

func TestMarketValueOverride(t *testing.T) {
	scenario := loadScenario(t)
	studio := scenario.Properties[1]
	require.True(t, studio.UseCurrentMarketValue)

	outcome, err := calculation.NewEngine().Simulate(context.Background(), studio, scenario.Household, 3)
	require.NoError(t, err)
	years := outcome.Projection.Years
	assert.True(t, years[0].PropertyValue.Equal(decimal.NewFromInt(165000)), years[0].PropertyValue.String())
	assert.True(t, years[1].PropertyValue.Equal(decimal.RequireFromString("167475")), years[1].PropertyValue.String())
	assert.True(t, years[2].LoanBalance.IsZero(), "cash purchase")
	assert.True(t, years[2].Equity.Equal(years[2].PropertyValue))
}

func TestPortfolioTaxesCombinedIncome(t *testing.T) {
	scenario := loadScenario(t)
	engine := calculation.NewEngine()
	ctx := context.Background()

	portfolio, err := engine.SimulatePortfolio(ctx, scenario.Properties, scenario.Household, 5)
	require.NoError(t, err)
	require.Equal(t, domain.StatusOK, portfolio.Status)

	sumTaxable := decimal.Zero
	sumPrice := decimal.Zero
	for _, p := range scenario.Properties {
		single, err := engine.Simulate(ctx, p, scenario.Household, 5)
		require.NoError(t, err)
		sumTaxable = sumTaxable.Add(single.Projection.Years[0].TaxableIncome)
		sumPrice = sumPrice.Add(single.Projection.Result.PurchasePrice)
	}

	first := portfolio.Projection.Years[0]
	assert.True(t, first.TaxableIncome.Equal(sumTaxable), "taxable income is additive")
	assert.True(t, portfolio.Projection.Result.PurchasePrice.Equal(sumPrice))
	assert.True(t, first.NewTotalIncome.Equal(scenario.Household.BaseIncome.Add(sumTaxable)),
		"household tax is computed once on the combined income")
	assert.True(t, first.PreviousIncome.Equal(scenario.Household.BaseIncome))
}

func TestServiceReportAllFormats(t *testing.T) {
	scenario := loadScenario(t)
	svc := service.NewSimulationService(calculation.NewEngine(), cache.NewMemoryCache(0), nil, nil, 10)
	run, err := svc.SimulatePortfolio(context.Background(), scenario.Properties, scenario.Household, scenario.Horizon())
	require.NoError(t, err)
	assert.False(t, run.Report.Degraded())

	for _, format := range output.AvailableFormatterNames() {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, output.Write(&buf, run.Report, format))
			assert.NotEmpty(t, buf.String())
		})
	}

	var buf bytes.Buffer
	require.NoError(t, output.Write(&buf, run.Report, "json"))
	var decoded output.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.NotNil(t, decoded.Portfolio)
	assert.True(t, decoded.Portfolio.Projection.Result.TotalTaxSavings.Equal(run.Report.Portfolio.Projection.Result.TotalTaxSavings))
}

func TestConfigurationRoundTrip(t *testing.T) {
	parser := config.NewInputParser()
	scenario := loadScenario(t)
	require.NoError(t, parser.ValidateConfiguration(scenario))

	path := t.TempDir() + "/copy.yaml"
	require.NoError(t, parser.SaveToFile(scenario, path))
	again, err := parser.LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, scenario.Properties[0].Name, again.Properties[0].Name)
	assert.True(t, scenario.Properties[0].DownPayment.Equal(again.Properties[0].DownPayment))
}
