package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"akunfin/models"
	"akunfin/pkg/ledger"
)

type recentTransaction struct {
	ID           uint                   `json:"id"`
	Description  string                 `json:"description"`
	AccountEmail *string                `json:"account_email"`
	Profit       int64                  `json:"profit"`
	CreatedAt    time.Time              `json:"created_at"`
	Type         models.TransactionType `json:"transaction_type"`
}

// dashboardHandler combines the account count, the full-history sale and
// expense totals, a 7-day rolling profit figure and the five most recent
// transactions with their opportunistically joined account email.
func dashboardHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var accountCount int64
	if err := db.Model(&models.Account{}).Where("user_id = ?", user.ID).Count(&accountCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	var all []models.Transaction
	if err := db.Preload("Account").Where("user_id = ?", user.ID).
		Order("created_at desc").Find(&all).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	summary := ledger.Summarize(all)
	recent := make([]recentTransaction, 0, 5)
	for _, t := range all {
		if len(recent) == 5 {
			break
		}
		r := recentTransaction{
			ID:          t.ID,
			Description: t.Description,
			Profit:      t.Profit,
			CreatedAt:   t.CreatedAt,
			Type:        t.Type,
		}
		if t.Account != nil {
			email := t.Account.Email
			r.AccountEmail = &email
		}
		recent = append(recent, r)
	}
	c.JSON(http.StatusOK, gin.H{
		"total_accounts":     accountCount,
		"total_sales":        summary.TotalSales,
		"total_expenses":     expenseOnlyTotal(all),
		"profit_last_7_days": ledger.ProfitWindow(all, time.Now().AddDate(0, 0, -7)),
		"recent":             recent,
	})
}

// expenseOnlyTotal sums modal over expense entries only. The dashboard card
// intentionally differs from the ledger's TotalExpenses aggregate, which
// also counts sale cost bases.
func expenseOnlyTotal(entries []models.Transaction) int64 {
	var total int64
	for _, t := range entries {
		if t.Type == models.TransactionExpense {
			total += t.Modal
		}
	}
	return total
}
