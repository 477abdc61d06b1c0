package output

import (
	"strconv"

	"github.com/immorechner/property-calculator/pkg/money"
	"github.com/shopspring/decimal"
)

// FormatCurrency formats a decimal as euros with German separators.
func FormatCurrency(amount decimal.Decimal) string { return money.New(amount).Format() }

// FormatPercentage formats a percentage value (4.0 means 4%) with 2 decimals.
func FormatPercentage(rate decimal.Decimal) string { return money.FormatPercent(rate) }

func intToString(v int) string { return strconv.Itoa(v) }
