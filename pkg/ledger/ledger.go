// Package ledger holds the derived-data rules of the finance module: the
// profit formula, the summary aggregates, and the filter predicates. Every
// view of the ledger goes through these functions so the always-visible
// totals and the filtered-period panel can never drift apart.
package ledger

import (
	"strconv"
	"strings"
	"time"

	"akunfin/models"
)

// Profit computes the derived profit of a single entry.
// Sale: (harga_jual - fee) - modal, a missing fee counting as zero.
// Expense: -modal.
// Negative and zero amounts are valid inputs.
func Profit(t models.Transaction) int64 {
	if t.Type == models.TransactionExpense {
		return -t.Modal
	}
	return (t.HargaJual - t.FeeOrZero()) - t.Modal
}

// Summary is the aggregate view over a set of entries.
type Summary struct {
	// TotalSales sums harga_jual over sale entries.
	TotalSales int64 `json:"total_sales"`
	// TotalExpenses sums modal over ALL entries: a sale's cost basis and a
	// pure expense amount both count as expense here.
	TotalExpenses int64 `json:"total_expenses"`
	// TotalFees sums fee (missing = 0) over sale entries.
	TotalFees int64 `json:"total_fees"`
	// NetProfit = (TotalSales - TotalFees) - TotalExpenses.
	NetProfit int64 `json:"net_profit"`
}

// Summarize aggregates any collection of entries. It is additive over
// disjoint sets.
func Summarize(entries []models.Transaction) Summary {
	var s Summary
	for _, t := range entries {
		switch t.Type {
		case models.TransactionSale:
			s.TotalSales += t.HargaJual
			s.TotalExpenses += t.Modal
			s.TotalFees += t.FeeOrZero()
		case models.TransactionExpense:
			s.TotalExpenses += t.Modal
		}
	}
	s.NetProfit = (s.TotalSales - s.TotalFees) - s.TotalExpenses
	return s
}

// EndOfDay returns t at 23:59:59.999 in its own location, the inclusive
// upper bound for date-range filtering.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999*int(time.Millisecond), t.Location())
}

// Filter applies the list view predicates: created_at >= from (inclusive),
// created_at <= end of day of to (inclusive), and a case-insensitive
// substring match of search against the description or either amount
// rendered as a string. A nil bound or empty search disables that predicate;
// all active predicates must hold.
func Filter(entries []models.Transaction, from, to *time.Time, search string) []models.Transaction {
	q := strings.ToLower(search)
	var upper time.Time
	if to != nil {
		upper = EndOfDay(*to)
	}
	out := make([]models.Transaction, 0, len(entries))
	for _, t := range entries {
		if from != nil && t.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && t.CreatedAt.After(upper) {
			continue
		}
		if q != "" && !matches(t, q) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func matches(t models.Transaction, q string) bool {
	if strings.Contains(strings.ToLower(t.Description), q) {
		return true
	}
	return strings.Contains(strconv.FormatInt(t.Modal, 10), q) ||
		strings.Contains(strconv.FormatInt(t.HargaJual, 10), q)
}

// Stale returns the entries dated strictly before cutoff. Used by the
// age-bucket bulk purge; callers must surface the count before deleting.
func Stale(entries []models.Transaction, cutoff time.Time) []models.Transaction {
	var out []models.Transaction
	for _, t := range entries {
		if t.CreatedAt.Before(cutoff) {
			out = append(out, t)
		}
	}
	return out
}

// ProfitWindow computes the rolling net profit of entries dated at or after
// since: sale profits added, expense amounts subtracted.
func ProfitWindow(entries []models.Transaction, since time.Time) int64 {
	var total int64
	for _, t := range entries {
		if t.CreatedAt.Before(since) {
			continue
		}
		if t.Type == models.TransactionSale {
			total += t.Profit
		} else {
			total -= t.Modal
		}
	}
	return total
}

// IDs extracts the primary keys of entries, for delete-by-id-list.
func IDs(entries []models.Transaction) []uint {
	ids := make([]uint, 0, len(entries))
	for _, t := range entries {
		ids = append(ids, t.ID)
	}
	return ids
}
