package output

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/immorechner/property-calculator/internal/domain"
)

// CSVSummarizer provides a one-row-per-property CSV summary, with a trailing
// portfolio row when present.
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string      { return "csv" }
func (c CSVSummarizer) Extension() string { return "csv" }

func (c CSVSummarizer) Format(report *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{
		"Property", "Status", "PurchasePrice", "TotalCost", "LoanAmount", "Annuity",
		"MonthlyCashflow", "GrossYield", "TotalTaxSavings", "CumulativeCashflow",
		"FinalPropertyValue", "RemainingLoan", "FinalEquity",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, p := range report.Properties {
		if err := w.Write(summaryRow(p.Name, p.Outcome)); err != nil {
			return nil, fmt.Errorf("write row for %s: %w", p.Name, err)
		}
	}
	if report.Portfolio != nil {
		if err := w.Write(summaryRow("Portfolio", *report.Portfolio)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func summaryRow(name string, o domain.Outcome) []string {
	r := o.Projection.Result
	return []string{
		name,
		string(o.Status),
		r.PurchasePrice.StringFixed(2),
		r.TotalCost.StringFixed(2),
		r.LoanAmount.StringFixed(2),
		r.Annuity.StringFixed(2),
		r.MonthlyCashflow.StringFixed(2),
		r.GrossYield.StringFixed(2),
		r.TotalTaxSavings.StringFixed(2),
		r.CumulativeCashflow.StringFixed(2),
		r.FinalPropertyValue.StringFixed(2),
		r.RemainingLoan.StringFixed(2),
		r.FinalEquity.StringFixed(2),
	}
}
