package output

import (
	"bytes"
	"fmt"
	"io"

	"github.com/immorechner/property-calculator/internal/domain"
)

// ConsoleFormatter renders a human readable summary with German number formatting.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string      { return "console" }
func (c ConsoleFormatter) Extension() string { return "txt" }

func (c ConsoleFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "IMMOBILIEN-KALKULATION")
	fmt.Fprintln(&buf, "================================")
	hh := report.Household
	fmt.Fprintf(&buf, "Haushaltseinkommen: %s (%s", FormatCurrency(hh.BaseIncome), hh.FilingStatus)
	if hh.ChurchTax {
		fmt.Fprint(&buf, ", mit Kirchensteuer")
	}
	fmt.Fprintln(&buf, ")")
	fmt.Fprintf(&buf, "Zeitraum: %d Jahre\n", report.HorizonYears)

	for _, p := range report.Properties {
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "%s\n", p.Name)
		fmt.Fprintln(&buf, "--------------------------------")
		writePurchase(&buf, p.Purchase)
		writeOutcome(&buf, p.Outcome)
	}

	if report.Portfolio != nil {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "PORTFOLIO")
		fmt.Fprintln(&buf, "--------------------------------")
		writeOutcome(&buf, *report.Portfolio)
	}
	return buf.Bytes(), nil
}

func writePurchase(w io.Writer, pb domain.PurchaseBreakdown) {
	if pb.TotalCost.IsZero() {
		return
	}
	fmt.Fprintf(w, "  Grunderwerbsteuer (%s): %s\n", FormatPercentage(pb.TransferTaxRate), FormatCurrency(pb.TransferTax))
	fmt.Fprintf(w, "  Notar: %s  Makler: %s\n", FormatCurrency(pb.NotaryCost), FormatCurrency(pb.BrokerFee))
	fmt.Fprintf(w, "  Gesamtkosten: %s\n", FormatCurrency(pb.TotalCost))
	fmt.Fprintf(w, "  AfA Gebäude: %s  AfA Inventar: %s  Erhaltung: %s\n",
		FormatCurrency(pb.AnnualBuildingDepreciation),
		FormatCurrency(pb.AnnualFurnitureDepreciation),
		FormatCurrency(pb.AnnualMaintenanceDeduction))
}

func writeOutcome(w io.Writer, o domain.Outcome) {
	if o.IsDegraded() {
		fmt.Fprintf(w, "  ACHTUNG: grobe Schätzung (%s)\n", o.Reason)
	}
	r := o.Projection.Result
	fmt.Fprintf(w, "  Darlehen: %s  Annuität: %s (%s / Monat)\n",
		FormatCurrency(r.LoanAmount), FormatCurrency(r.Annuity), FormatCurrency(r.MonthlyPayment))
	fmt.Fprintf(w, "  Bruttorendite: %s  Cashflow / Monat (Jahr 1): %s\n",
		FormatPercentage(r.GrossYield), FormatCurrency(r.MonthlyCashflow))
	fmt.Fprintf(w, "  Steuerersparnis gesamt: %s  Cashflow kumuliert: %s\n",
		FormatCurrency(r.TotalTaxSavings), FormatCurrency(r.CumulativeCashflow))
	fmt.Fprintf(w, "  Endwert: %s  Restschuld: %s  Eigenkapital: %s\n",
		FormatCurrency(r.FinalPropertyValue), FormatCurrency(r.RemainingLoan), FormatCurrency(r.FinalEquity))

	if len(o.Projection.Years) > 0 {
		fmt.Fprintf(w, "  %4s %14s %14s %14s %14s\n", "Jahr", "Miete", "Zu verst.", "Steuerersp.", "Cashflow")
		for _, y := range o.Projection.Years {
			fmt.Fprintf(w, "  %4d %14s %14s %14s %14s\n", y.Year,
				FormatCurrency(y.Rent), FormatCurrency(y.TaxableIncome),
				FormatCurrency(y.TaxSavings), FormatCurrency(y.Cashflow))
		}
	}
	for _, warn := range o.Projection.Warnings {
		fmt.Fprintf(w, "  Hinweis: %s\n", warn.String())
	}
}
