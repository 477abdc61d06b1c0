package domain

// Configuration is a scenario file: one household and the properties it owns.
type Configuration struct {
	Household    HouseholdTaxContext `yaml:"household" json:"household"`
	HorizonYears int                 `yaml:"horizon_years,omitempty" json:"horizon_years,omitempty"`
	Properties   []PropertyInputs    `yaml:"properties" json:"properties"`
}

// Horizon returns the configured horizon or the default.
func (c Configuration) Horizon() int {
	if c.HorizonYears <= 0 {
		return DefaultHorizonYears
	}
	return c.HorizonYears
}
