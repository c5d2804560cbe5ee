package export

import (
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"akunfin/models"
)

var pdfColumns = []struct {
	title string
	width float64
}{
	{"Tanggal", 22},
	{"Tipe", 28},
	{"Detail", 70},
	{"Platform", 35},
	{"Jumlah", 30},
}

// FinancePDF builds the finance PDF report: a title, the filter period line
// and a grid table with the profit of each entry formatted as rupiah.
func FinancePDF(entries []models.Transaction, from, to *time.Time) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, "Laporan Keuangan")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Periode: %s - %s", formatPeriodDate(from), formatPeriodDate(to)))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(41, 128, 185)
	pdf.SetTextColor(255, 255, 255)
	for _, col := range pdfColumns {
		pdf.CellFormat(col.width, 7, col.title, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	for _, t := range entries {
		desc := t.Description
		if desc == "" {
			desc = "-"
		}
		platform := string(t.Platform)
		if platform == "" {
			platform = "-"
		}
		cells := []string{
			t.CreatedAt.Format("02/01/06"),
			TypeLabel(t.Type),
			desc,
			platform,
			FormatIDR(t.Profit),
		}
		for i, col := range pdfColumns {
			pdf.CellFormat(col.width, 6, cells[i], "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	return pdf
}
