package reports

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"payrolltracker/internal/domain/payroll"
)

// PayrollSummaryPDF renders the aggregate payroll view: one line per
// employee with the derived total, followed by the grand total and the
// catalog's average rate.
func PayrollSummaryPDF(employees []payroll.Employee, summary payroll.Summary) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payroll Summary")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 8, fmt.Sprintf("Generated: %s", time.Now().UTC().Format("2006-01-02 15:04")))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(60, 8, "Employee", "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 8, "Position", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 8, "Works", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, "Total", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, e := range employees {
		pdf.CellFormat(60, 8, fmt.Sprintf("%s %s", e.LastName, e.FirstName), "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 8, e.Position, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("%d", len(e.CompletedWorks)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 8, fmt.Sprintf("%.2f", e.TotalSalary()), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total payments: %.2f", summary.TotalPayments))
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Average hourly rate: %.2f", summary.AverageRate))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
