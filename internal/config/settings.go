package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/immorechner/property-calculator/internal/domain"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. IMMOCALC_LOGGING_LEVEL.
const EnvPrefix = "IMMOCALC"

// Settings holds application settings: statutory constants and runtime wiring.
type Settings struct {
	Tax                    TaxSettings        `mapstructure:"tax"`
	TransferTaxRates       map[string]float64 `mapstructure:"transfer_tax_rates"`
	DefaultTransferTaxRate float64            `mapstructure:"default_transfer_tax_rate"`
	ChurchTaxRates         map[string]float64 `mapstructure:"church_tax_rates"`
	DefaultChurchTaxRate   float64            `mapstructure:"default_church_tax_rate"`
	Defaults               DefaultSettings    `mapstructure:"defaults"`
	Logging                LoggingConfig      `mapstructure:"logging"`
	Server                 ServerConfig       `mapstructure:"server"`
	Cache                  CacheConfig        `mapstructure:"cache"`
	Database               DatabaseConfig     `mapstructure:"database"`
}

// TaxSettings are the income tax tariff constants of one year.
type TaxSettings struct {
	Year           int     `mapstructure:"year"`
	BasicAllowance float64 `mapstructure:"basic_allowance"`
	Zone2Upper     float64 `mapstructure:"zone2_upper"`
	Zone2A         float64 `mapstructure:"zone2_a"`
	Zone2B         float64 `mapstructure:"zone2_b"`
	Zone3Upper     float64 `mapstructure:"zone3_upper"`
	Zone3A         float64 `mapstructure:"zone3_a"`
	Zone3B         float64 `mapstructure:"zone3_b"`
	Zone3C         float64 `mapstructure:"zone3_c"`
	Zone4Upper     float64 `mapstructure:"zone4_upper"`
	Zone4Rate      float64 `mapstructure:"zone4_rate"`
	Zone4Offset    float64 `mapstructure:"zone4_offset"`
	TopRate        float64 `mapstructure:"top_rate"`
	TopOffset      float64 `mapstructure:"top_offset"`
}

// DefaultSettings are fallbacks used when a scenario leaves something out.
type DefaultSettings struct {
	LandShare                  float64 `mapstructure:"land_share"`
	BuildingShare              float64 `mapstructure:"building_share"`
	FurnitureDepreciationYears int     `mapstructure:"furniture_depreciation_years"`
	HorizonYears               int     `mapstructure:"horizon_years"`
	DepreciationRate           float64 `mapstructure:"depreciation_rate"`
	InterestRate               float64 `mapstructure:"interest_rate"`
	AmortizationRate           float64 `mapstructure:"amortization_rate"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputFile string `mapstructure:"output_file"` // optional file output
}

// ServerConfig defines runtime parameters for the HTTP API.
type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// CacheConfig selects the result cache. An empty address disables Redis.
type CacheConfig struct {
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	TTL           time.Duration `mapstructure:"ttl"`
}

// DatabaseConfig points at PostgreSQL. An empty URL disables persistence.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

func setDefaults(v *viper.Viper) {
	rules := domain.DefaultRules()
	tax := rules.IncomeTax
	f := func(d decimal.Decimal) float64 { return d.InexactFloat64() }

	v.SetDefault("tax.year", tax.Year)
	v.SetDefault("tax.basic_allowance", f(tax.BasicAllowance))
	v.SetDefault("tax.zone2_upper", f(tax.Zone2Upper))
	v.SetDefault("tax.zone2_a", f(tax.Zone2A))
	v.SetDefault("tax.zone2_b", f(tax.Zone2B))
	v.SetDefault("tax.zone3_upper", f(tax.Zone3Upper))
	v.SetDefault("tax.zone3_a", f(tax.Zone3A))
	v.SetDefault("tax.zone3_b", f(tax.Zone3B))
	v.SetDefault("tax.zone3_c", f(tax.Zone3C))
	v.SetDefault("tax.zone4_upper", f(tax.Zone4Upper))
	v.SetDefault("tax.zone4_rate", f(tax.Zone4Rate))
	v.SetDefault("tax.zone4_offset", f(tax.Zone4Offset))
	v.SetDefault("tax.top_rate", f(tax.TopRate))
	v.SetDefault("tax.top_offset", f(tax.TopOffset))

	transfer := make(map[string]any, len(rules.TransferTaxRates))
	for state, rate := range rules.TransferTaxRates {
		transfer[strings.ToLower(state)] = f(rate)
	}
	v.SetDefault("transfer_tax_rates", transfer)
	v.SetDefault("default_transfer_tax_rate", f(rules.DefaultTransferTaxRate))
	church := make(map[string]any, len(rules.ChurchTaxRates))
	for state, rate := range rules.ChurchTaxRates {
		church[strings.ToLower(state)] = f(rate)
	}
	v.SetDefault("church_tax_rates", church)
	v.SetDefault("default_church_tax_rate", f(rules.DefaultChurchTaxRate))

	v.SetDefault("defaults.land_share", f(rules.DefaultLandShare))
	v.SetDefault("defaults.building_share", f(rules.DefaultBuildingShare))
	v.SetDefault("defaults.furniture_depreciation_years", rules.FurnitureDepreciationYears)
	v.SetDefault("defaults.horizon_years", domain.DefaultHorizonYears)
	v.SetDefault("defaults.depreciation_rate", f(rules.DefaultDepreciationRate))
	v.SetDefault("defaults.interest_rate", f(rules.DefaultInterestRate))
	v.SetDefault("defaults.amortization_rate", f(rules.DefaultAmortizationRate))

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output_file", "")

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.ttl", time.Hour)

	v.SetDefault("database.url", "")
}

// LoadSettings reads settings from an optional YAML file and the environment.
// A .env file at envFile (or ./.env when empty) is loaded into the environment first
// when it exists. Environment variables win over the file, the file over defaults.
func LoadSettings(configPath, envFile string) (*Settings, error) {
	if err := loadDotEnv(envFile); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading settings file %s: %w", configPath, err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("unable to decode settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return &settings, nil
}

func loadDotEnv(envFile string) error {
	path := envFile
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) && envFile == "" {
			return nil
		}
		return fmt.Errorf("could not load env file %s: %w", path, err)
	}
	return nil
}

// Validate checks the settings that would make the engine meaningless.
func (s *Settings) Validate() error {
	t := s.Tax
	if t.BasicAllowance < 0 {
		return fmt.Errorf("tax.basic_allowance cannot be negative")
	}
	if !(t.BasicAllowance < t.Zone2Upper && t.Zone2Upper < t.Zone3Upper && t.Zone3Upper < t.Zone4Upper) {
		return fmt.Errorf("tax zone bounds must be strictly increasing")
	}
	if s.Defaults.LandShare < 0 || s.Defaults.BuildingShare < 0 || s.Defaults.LandShare+s.Defaults.BuildingShare > 1 {
		return fmt.Errorf("defaults.land_share and defaults.building_share must be non-negative and sum to at most 1")
	}
	if s.Defaults.FurnitureDepreciationYears < 1 {
		return fmt.Errorf("defaults.furniture_depreciation_years must be at least 1")
	}
	if s.Defaults.DepreciationRate < 0 || s.Defaults.InterestRate < 0 || s.Defaults.AmortizationRate < 0 {
		return fmt.Errorf("defaults.depreciation_rate, defaults.interest_rate and defaults.amortization_rate cannot be negative")
	}
	switch strings.ToLower(s.Logging.Format) {
	case "", "json", "console":
	default:
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", s.Logging.Format)
	}
	return nil
}

// Rules converts the settings into the engine's rule set.
func (s *Settings) Rules() domain.Rules {
	d := decimal.NewFromFloat
	t := s.Tax
	rules := domain.Rules{
		IncomeTax: domain.IncomeTaxRules{
			Year:           t.Year,
			BasicAllowance: d(t.BasicAllowance),
			Zone2Upper:     d(t.Zone2Upper),
			Zone2A:         d(t.Zone2A),
			Zone2B:         d(t.Zone2B),
			Zone3Upper:     d(t.Zone3Upper),
			Zone3A:         d(t.Zone3A),
			Zone3B:         d(t.Zone3B),
			Zone3C:         d(t.Zone3C),
			Zone4Upper:     d(t.Zone4Upper),
			Zone4Rate:      d(t.Zone4Rate),
			Zone4Offset:    d(t.Zone4Offset),
			TopRate:        d(t.TopRate),
			TopOffset:      d(t.TopOffset),
		},
		TransferTaxRates:           make(map[string]decimal.Decimal, len(s.TransferTaxRates)),
		DefaultTransferTaxRate:     d(s.DefaultTransferTaxRate),
		ChurchTaxRates:             make(map[string]decimal.Decimal, len(s.ChurchTaxRates)),
		DefaultChurchTaxRate:       d(s.DefaultChurchTaxRate),
		DefaultLandShare:           d(s.Defaults.LandShare),
		DefaultBuildingShare:       d(s.Defaults.BuildingShare),
		FurnitureDepreciationYears: s.Defaults.FurnitureDepreciationYears,
		DefaultDepreciationRate:    d(s.Defaults.DepreciationRate),
		DefaultInterestRate:        d(s.Defaults.InterestRate),
		DefaultAmortizationRate:    d(s.Defaults.AmortizationRate),
	}
	// viper lower-cases map keys; state codes are upper case.
	for state, rate := range s.TransferTaxRates {
		rules.TransferTaxRates[strings.ToUpper(state)] = d(rate)
	}
	for state, rate := range s.ChurchTaxRates {
		rules.ChurchTaxRates[strings.ToUpper(state)] = d(rate)
	}
	return rules
}
