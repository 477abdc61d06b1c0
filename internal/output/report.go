package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/immorechner/property-calculator/internal/domain"
)

// ErrUnsupportedFormat is returned for an unknown output format name.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// PropertyReport is one simulated property.
type PropertyReport struct {
	ID       string                   `json:"id,omitempty"`
	Name     string                   `json:"name"`
	Purchase domain.PurchaseBreakdown `json:"purchase"`
	Outcome  domain.Outcome           `json:"outcome"`
}

// Report is everything a formatter renders: the household, each property on its own
// and, when more than one property was simulated, the combined portfolio.
type Report struct {
	Household    domain.HouseholdTaxContext `json:"household"`
	HorizonYears int                        `json:"horizon_years"`
	Properties   []PropertyReport           `json:"properties"`
	Portfolio    *domain.Outcome            `json:"portfolio,omitempty"`
}

// Degraded reports whether any outcome in the report is a fallback estimate.
func (r *Report) Degraded() bool {
	for _, p := range r.Properties {
		if p.Outcome.IsDegraded() {
			return true
		}
	}
	return r.Portfolio != nil && r.Portfolio.IsDegraded()
}

// Write renders the report in the named format to w.
func Write(w io.Writer, report *Report, format string) error {
	f := GetFormatterByName(format)
	if f == nil {
		return fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format,
			strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
	}
	data, err := f.Format(report)
	if err != nil {
		return fmt.Errorf("format %s: %w", f.Name(), err)
	}
	_, err = w.Write(data)
	return err
}

// WriteFormatted runs a formatter and writes output to a timestamped file in dir.
func WriteFormatted(f Formatter, report *Report, dir string) (string, error) {
	data, err := f.Format(report)
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("immocalc_report_%s.%s", time.Now().Format("20060102_150405"), f.Extension())
	if dir != "" {
		filename = strings.TrimRight(dir, "/") + "/" + filename
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", err
	}
	return filename, nil
}
