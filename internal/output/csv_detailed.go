package output

import (
	"bytes"
	"encoding/csv"

	"github.com/immorechner/property-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// detailedColumns are the year record fields exported per row, in order.
var detailedColumns = []struct {
	Header string
	Value  func(y *domain.YearRecord) decimal.Decimal
}{
	{"GrossRent", func(y *domain.YearRecord) decimal.Decimal { return y.GrossRent }},
	{"Rent", func(y *domain.YearRecord) decimal.Decimal { return y.Rent }},
	{"VacancyRate", func(y *domain.YearRecord) decimal.Decimal { return y.VacancyRate }},
	{"PropertyTax", func(y *domain.YearRecord) decimal.Decimal { return y.PropertyTax }},
	{"ManagementFee", func(y *domain.YearRecord) decimal.Decimal { return y.ManagementFee }},
	{"MaintenanceReserve", func(y *domain.YearRecord) decimal.Decimal { return y.MaintenanceReserve }},
	{"Insurance", func(y *domain.YearRecord) decimal.Decimal { return y.Insurance }},
	{"OngoingCosts", func(y *domain.YearRecord) decimal.Decimal { return y.OngoingCosts }},
	{"Interest", func(y *domain.YearRecord) decimal.Decimal { return y.Interest }},
	{"Principal", func(y *domain.YearRecord) decimal.Decimal { return y.Principal }},
	{"DebtService", func(y *domain.YearRecord) decimal.Decimal { return y.DebtService }},
	{"LoanBalance", func(y *domain.YearRecord) decimal.Decimal { return y.LoanBalance }},
	{"BuildingDepreciation", func(y *domain.YearRecord) decimal.Decimal { return y.BuildingDepreciation }},
	{"FurnitureDepreciation", func(y *domain.YearRecord) decimal.Decimal { return y.FurnitureDepreciation }},
	{"MaintenanceDeduction", func(y *domain.YearRecord) decimal.Decimal { return y.MaintenanceDeduction }},
	{"FirstYearDeductibleCosts", func(y *domain.YearRecord) decimal.Decimal { return y.FirstYearDeductibleCosts }},
	{"TaxableIncome", func(y *domain.YearRecord) decimal.Decimal { return y.TaxableIncome }},
	{"PreviousTax", func(y *domain.YearRecord) decimal.Decimal { return y.PreviousTax }},
	{"NewTax", func(y *domain.YearRecord) decimal.Decimal { return y.NewTax }},
	{"TaxSavings", func(y *domain.YearRecord) decimal.Decimal { return y.TaxSavings }},
	{"CashflowBeforeTax", func(y *domain.YearRecord) decimal.Decimal { return y.CashflowBeforeTax }},
	{"Cashflow", func(y *domain.YearRecord) decimal.Decimal { return y.Cashflow }},
	{"PropertyValue", func(y *domain.YearRecord) decimal.Decimal { return y.PropertyValue }},
	{"Equity", func(y *domain.YearRecord) decimal.Decimal { return y.Equity }},
}

// CSVDetailedExporter exports every projected year of every property (and the
// portfolio) as one row.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string      { return "detailed-csv" }
func (c CSVDetailedExporter) Extension() string { return "csv" }

func (c CSVDetailedExporter) Format(report *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Property", "Year"}
	for _, col := range detailedColumns {
		header = append(header, col.Header)
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	writeYears := func(name string, years []domain.YearRecord) error {
		for i := range years {
			row := []string{name, intToString(years[i].Year)}
			for _, col := range detailedColumns {
				row = append(row, col.Value(&years[i]).StringFixed(2))
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	}
	for _, p := range report.Properties {
		if err := writeYears(p.Name, p.Outcome.Projection.Years); err != nil {
			return nil, err
		}
	}
	if report.Portfolio != nil {
		if err := writeYears("Portfolio", report.Portfolio.Projection.Years); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
