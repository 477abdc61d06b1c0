// Package money holds euro amount helpers shared by the reports.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
	german  = message.NewPrinter(language.German)
)

// Euro is an amount in euros.
type Euro struct {
	decimal.Decimal
}

// New wraps a decimal amount
func New(d decimal.Decimal) Euro {
	return Euro{d}
}

// Cents rounds half away from zero to whole cents.
func (e Euro) Cents() Euro {
	return Euro{e.Decimal.Round(2)}
}

// Whole rounds to whole euros, as the income tax tariff does.
func (e Euro) Whole() Euro {
	return Euro{e.Decimal.Round(0)}
}

// Annual converts a monthly amount to a yearly one
func (e Euro) Annual() Euro {
	return Euro{e.Decimal.Mul(twelve)}
}

// Monthly converts a yearly amount to a monthly one, rounded to cents
func (e Euro) Monthly() Euro {
	return Euro{e.Decimal.Div(twelve).Round(2)}
}

// Percent returns rate percent of the amount, rounded to cents.
func (e Euro) Percent(rate decimal.Decimal) Euro {
	return Euro{e.Decimal.Mul(rate).Div(hundred).Round(2)}
}

// String returns the plain amount with two decimals.
func (e Euro) String() string {
	return e.Decimal.StringFixed(2)
}

// Format renders the amount the German way: "316.500,00 €".
func (e Euro) Format() string {
	return german.Sprintf("%.2f €", e.Decimal.Round(2).InexactFloat64())
}

// FormatPercent renders a percentage value (3.5 means 3.5%) as "3,50 %".
func FormatPercent(rate decimal.Decimal) string {
	return german.Sprintf("%.2f %%", rate.Round(2).InexactFloat64())
}
