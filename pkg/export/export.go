// Package export renders the downloadable reports: the accounts CSV, the
// finance spreadsheet and the finance PDF.
package export

import (
	"fmt"
	"strings"
	"time"

	"akunfin/models"
)

// AccountsCSV renders accounts as CSV with every value double-quoted and
// embedded quotes doubled. The column set and quoting are a fixed contract:
// Type,Email,Password,Notes,Status.
func AccountsCSV(accounts []models.Account) string {
	rows := make([]string, 0, len(accounts)+1)
	rows = append(rows, "Type,Email,Password,Notes,Status")
	for _, a := range accounts {
		fields := []string{string(a.Type), a.Email, a.Password, a.Notes, a.Status}
		quoted := make([]string, len(fields))
		for i, f := range fields {
			quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
		}
		rows = append(rows, strings.Join(quoted, ","))
	}
	return strings.Join(rows, "\n")
}

// FormatIDR renders an amount the way the reports show rupiah:
// "Rp 100.000", negative amounts as "-Rp 15.000".
func FormatIDR(v int64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	digits := fmt.Sprintf("%d", v)
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	if neg {
		return "-Rp " + b.String()
	}
	return "Rp " + b.String()
}

// TypeLabel is the report label for a transaction type.
func TypeLabel(t models.TransactionType) string {
	if t == models.TransactionSale {
		return "Penjualan"
	}
	return "Pengeluaran"
}

// PlatformLabel joins platform and sub-selection for display.
func PlatformLabel(t models.Transaction) string {
	if t.PlatformDetail != nil && *t.PlatformDetail != "" {
		return fmt.Sprintf("%s - %s", t.Platform, *t.PlatformDetail)
	}
	return string(t.Platform)
}

func formatPeriodDate(t *time.Time) string {
	if t == nil {
		return "Semua"
	}
	return t.Format("2 Jan 2006")
}
