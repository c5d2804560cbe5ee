package export

import (
	"github.com/xuri/excelize/v2"

	"akunfin/models"
)

const financeSheet = "Laporan Keuangan"

var financeHeader = []interface{}{
	"Tanggal", "Tipe", "Detail", "Platform",
	"Modal", "Harga Jual", "Biaya Lain", "Pengeluaran", "Profit/Loss",
}

// FinanceXLSX builds the finance spreadsheet from the given (already
// filtered) entries. Sale rows leave Pengeluaran as "-", expense rows leave
// the three sale amount columns as "-".
func FinanceXLSX(entries []models.Transaction) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", financeSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(financeSheet, "A1", &financeHeader); err != nil {
		return nil, err
	}
	for i, t := range entries {
		var modal, hargaJual, fee, pengeluaran interface{} = "-", "-", "-", "-"
		if t.Type == models.TransactionSale {
			modal, hargaJual, fee = t.Modal, t.HargaJual, t.FeeOrZero()
		} else {
			pengeluaran = t.Modal
		}
		row := []interface{}{
			t.CreatedAt.Format("02-01-2006"),
			TypeLabel(t.Type),
			t.Description,
			PlatformLabel(t),
			modal, hargaJual, fee, pengeluaran,
			t.Profit,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(financeSheet, cell, &row); err != nil {
			return nil, err
		}
	}
	return f, nil
}
