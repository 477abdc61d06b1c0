package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/immorechner/property-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ErrNoProperties is returned when a scenario file lists no properties.
var ErrNoProperties = errors.New("no properties provided")

// InputParser handles parsing of scenario files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a scenario from a YAML (or JSON) file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes and validates a scenario document.
func (ip *InputParser) Parse(data []byte) (*domain.Configuration, error) {
	var config domain.Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// ValidateConfiguration rejects structurally broken scenarios. Numeric ranges are not
// checked here; the engine clamps them and reports warnings.
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if len(config.Properties) == 0 {
		return ErrNoProperties
	}

	if config.Household.FilingStatus != "" && !config.Household.FilingStatus.Valid() {
		return fmt.Errorf("household filing status must be 'single' or 'married', got %q", config.Household.FilingStatus)
	}
	if config.HorizonYears < 0 {
		return fmt.Errorf("horizon years cannot be negative")
	}

	seen := make(map[string]bool, len(config.Properties))
	for i, p := range config.Properties {
		if err := ip.validateProperty(&p); err != nil {
			return fmt.Errorf("property %d validation failed: %w", i, err)
		}
		key := strings.ToLower(strings.TrimSpace(p.Name))
		if seen[key] {
			return fmt.Errorf("property %d: duplicate name %q", i, p.Name)
		}
		seen[key] = true
	}

	return nil
}

// validateProperty validates a single property's structure
func (ip *InputParser) validateProperty(p *domain.PropertyInputs) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("property name is required")
	}
	if p.FinancingType != "" && !p.FinancingType.Valid() {
		return fmt.Errorf("financing type must be 'loan' or 'cash', got %q", p.FinancingType)
	}
	if p.FinancingType == domain.FinancingCash && len(p.Loans) > 0 {
		return fmt.Errorf("cash purchase cannot list loans")
	}
	if p.UseCurrentMarketValue && !p.CurrentMarketValue.IsPositive() {
		return fmt.Errorf("current market value must be positive when use_current_market_value is set")
	}
	return nil
}

// SaveToFile writes the scenario as YAML.
func (ip *InputParser) SaveToFile(config *domain.Configuration, filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	return nil
}

// CreateExampleConfiguration creates an example scenario: a financed flat in Bavaria and a
// studio bought outright in Cologne, owned by a single earner.
func (ip *InputParser) CreateExampleConfiguration() *domain.Configuration {
	d := decimal.RequireFromString

	return &domain.Configuration{
		Household: domain.HouseholdTaxContext{
			BaseIncome:   d("70000"),
			FilingStatus: domain.FilingSingle,
			ChurchTax:    false,
			State:        "BY",
		},
		HorizonYears: domain.DefaultHorizonYears,
		Properties: []domain.PropertyInputs{
			{
				Name:                         "Munich flat",
				PurchasePrice:                d("316500"),
				StateCode:                    "BY",
				NotaryRate:                   d("1.5"),
				BrokerRate:                   d("3.0"),
				DepreciationRate:             d("2.0"),
				LandValue:                    d("45000"),
				BuildingValue:                d("220000"),
				FurnitureValue:               d("16500"),
				MaintenanceValue:             d("35000"),
				MaintenanceDistributionYears: 1,
				FinancingType:                domain.FinancingLoan,
				DownPayment:                  d("49742.50"),
				Loans: []domain.LoanTranche{
					{Amount: d("291500"), InterestRate: d("4.0"), AmortizationRate: d("1.5")},
				},
				MonthlyRent:        d("1200"),
				VacancyRate:        d("3"),
				PropertyTax:        d("400"),
				ManagementFee:      d("600"),
				MaintenanceReserve: d("500"),
				Insurance:          d("300"),
				AppreciationRate:   d("2"),
				RentIncreaseRate:   d("2"),
			},
			{
				Name:                         "Cologne studio",
				PurchasePrice:                d("150000"),
				StateCode:                    "NW",
				NotaryRate:                   d("1.5"),
				DepreciationRate:             d("2.0"),
				LandValue:                    d("30000"),
				BuildingValue:                d("120000"),
				MaintenanceDistributionYears: 1,
				FinancingType:                domain.FinancingCash,
				MonthlyRent:                  d("650"),
				VacancyRate:                  d("2"),
				PropertyTax:                  d("250"),
				ManagementFee:                d("300"),
				MaintenanceReserve:           d("400"),
				Insurance:                    d("150"),
				AppreciationRate:             d("1.5"),
				RentIncreaseRate:             d("1.5"),
			},
		},
	}
}
