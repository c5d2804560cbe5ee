package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"akunfin/models"
)

func TestAccountsCSVQuoting(t *testing.T) {
	accounts := []models.Account{
		{Type: models.AccountTypeEmail, Email: "a@b.com", Password: `p"1`},
	}
	got := AccountsCSV(accounts)
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Type,Email,Password,Notes,Status", lines[0])
	assert.Equal(t, `"email","a@b.com","p""1","",""`, lines[1])
}

func TestAccountsCSVEmpty(t *testing.T) {
	assert.Equal(t, "Type,Email,Password,Notes,Status", AccountsCSV(nil))
}

func TestFormatIDR(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "Rp 0"},
		{500, "Rp 500"},
		{100000, "Rp 100.000"},
		{1234567, "Rp 1.234.567"},
		{-15000, "-Rp 15.000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatIDR(tt.in))
	}
}

func TestPlatformLabel(t *testing.T) {
	detail := "BCA"
	withDetail := models.Transaction{Platform: models.PlatformBank, PlatformDetail: &detail}
	assert.Equal(t, "Bank - BCA", PlatformLabel(withDetail))

	plain := models.Transaction{Platform: models.PlatformQris}
	assert.Equal(t, "Qris", PlatformLabel(plain))
}

func TestFinanceXLSXColumns(t *testing.T) {
	fee := int64(5000)
	at := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	entries := []models.Transaction{
		{Type: models.TransactionSale, Description: "jual akun", Modal: 50000, HargaJual: 100000, Fee: &fee, Profit: 45000, Platform: models.PlatformTunai, CreatedAt: at},
		{Type: models.TransactionExpense, Description: "beli lisensi", Modal: 15000, Profit: -15000, Platform: models.PlatformQris, CreatedAt: at},
	}
	f, err := FinanceXLSX(entries)
	require.NoError(t, err)

	rows, err := f.GetRows(financeSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{
		"Tanggal", "Tipe", "Detail", "Platform",
		"Modal", "Harga Jual", "Biaya Lain", "Pengeluaran", "Profit/Loss",
	}, rows[0])
	assert.Equal(t, []string{"10-03-2025", "Penjualan", "jual akun", "Tunai", "50000", "100000", "5000", "-", "45000"}, rows[1])
	assert.Equal(t, []string{"10-03-2025", "Pengeluaran", "beli lisensi", "Qris", "-", "-", "-", "15000", "-15000"}, rows[2])
}

func TestFinanceXLSXSheetName(t *testing.T) {
	f, err := FinanceXLSX(nil)
	require.NoError(t, err)
	idx, err := f.GetSheetIndex(financeSheet)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, idx, 0)
}

func TestFinancePDFProducesOutput(t *testing.T) {
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	entries := []models.Transaction{
		{Type: models.TransactionSale, Description: "jual akun", Profit: 45000, Platform: models.PlatformBank, CreatedAt: from},
	}
	pdf := FinancePDF(entries, &from, nil)
	var buf strings.Builder
	require.NoError(t, pdf.Output(&buf))
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF"))
}
