package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"akunfin/models"
	"akunfin/pkg/export"
	"akunfin/pkg/ledger"
)

type transactionRequest struct {
	CreatedAt      string                 `json:"created_at"` // RFC3339, defaults to now
	Type           models.TransactionType `json:"transaction_type" binding:"required"`
	Description    string                 `json:"description" binding:"required"`
	Modal          *int64                 `json:"modal" binding:"required"`
	HargaJual      *int64                 `json:"harga_jual"`
	Fee            *int64                 `json:"fee"`
	Platform       models.Platform        `json:"platform" binding:"required"`
	PlatformDetail string                 `json:"platform_detail"`
	AccountID      *uint                  `json:"account_id"`
	// No profit field: the derived value is never accepted from the client.
}

// applyTransactionRequest validates the conditional fields and writes the
// request onto the row, recomputing profit.
func applyTransactionRequest(tx *models.Transaction, req transactionRequest) error {
	if !req.Type.Valid() {
		return fmt.Errorf("unknown transaction type")
	}
	if !req.Platform.Valid() {
		return fmt.Errorf("unknown platform")
	}
	detail := req.PlatformDetail
	if !req.Platform.RequiresDetail() {
		// sub-selection only exists for Bank and E-Money
		detail = ""
	} else if !req.Platform.ValidDetail(detail) {
		return fmt.Errorf("invalid platform detail for %s", req.Platform)
	}

	tx.CreatedAt = time.Now()
	if req.CreatedAt != "" {
		t, err := time.Parse(time.RFC3339, req.CreatedAt)
		if err != nil {
			return fmt.Errorf("invalid created_at: %v", err)
		}
		tx.CreatedAt = t
	}
	tx.Type = req.Type
	tx.Description = req.Description
	tx.Modal = *req.Modal
	tx.AccountID = req.AccountID
	tx.Platform = req.Platform
	if detail != "" {
		tx.PlatformDetail = &detail
	} else {
		tx.PlatformDetail = nil
	}
	switch req.Type {
	case models.TransactionSale:
		if req.HargaJual == nil {
			return fmt.Errorf("harga_jual required for sale")
		}
		tx.HargaJual = *req.HargaJual
		tx.Fee = req.Fee
	case models.TransactionExpense:
		tx.HargaJual = 0
		tx.Fee = nil
	}
	tx.Profit = ledger.Profit(*tx)
	return nil
}

func createTransactionHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tx := models.Transaction{UserID: user.ID}
	if err := applyTransactionRequest(&tx, req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := db.Create(&tx).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusOK, tx)
}

func updateTransactionHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var tx models.Transaction
	if err := db.Where("user_id = ?", user.ID).First(&tx, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
		return
	}
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := applyTransactionRequest(&tx, req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := db.Save(&tx).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, tx)
}

func deleteTransactionHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	res := db.Where("user_id = ? AND id = ?", user.ID, c.Param("id")).Delete(&models.Transaction{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "transaction deleted"})
}

// parseDateQuery parses a YYYY-MM-DD query value, nil when absent.
func parseDateQuery(c *gin.Context, key string) (*time.Time, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %v", key, err)
	}
	return &t, nil
}

// fetchFilteredTransactions loads the user's full history plus the subset
// matching the current search and date range query parameters.
func fetchFilteredTransactions(c *gin.Context, user *models.User) (all, filtered []models.Transaction, from, to *time.Time, err error) {
	from, err = parseDateQuery(c, "from")
	if err != nil {
		return
	}
	to, err = parseDateQuery(c, "to")
	if err != nil {
		return
	}
	if err = db.Where("user_id = ?", user.ID).Order("created_at desc").Find(&all).Error; err != nil {
		return
	}
	filtered = ledger.Filter(all, from, to, c.Query("search"))
	return
}

// listTransactionsHandler returns the filtered records together with two
// summaries built by the same aggregation: the full history for the
// top-level cards and the filtered subset for the period panel.
func listTransactionsHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	all, filtered, _, _, err := fetchFilteredTransactions(c, user)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"records":  filtered,
		"total":    ledger.Summarize(all),
		"filtered": ledger.Summarize(filtered),
	})
}

type purgeRequest struct {
	Period  string `json:"period" binding:"required,oneof=selected 1m 3m 6m 1y"`
	From    string `json:"from"`
	To      string `json:"to"`
	Search  string `json:"search"`
	Confirm bool   `json:"confirm"`
}

// purgeTransactionsHandler bulk-deletes old entries. The deletion is
// irreversible, so the first call (without confirm) only reports the exact
// count; the caller repeats with confirm=true to commit.
func purgeTransactionsHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req purgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var all []models.Transaction
	if err := db.Where("user_id = ?", user.ID).Find(&all).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	now := time.Now()
	var candidates []models.Transaction
	switch req.Period {
	case "selected":
		if req.From == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "select a date range first"})
			return
		}
		from, err := time.Parse("2006-01-02", req.From)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
			return
		}
		var to *time.Time
		if req.To != "" {
			t, err := time.Parse("2006-01-02", req.To)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
				return
			}
			to = &t
		}
		candidates = ledger.Filter(all, &from, to, req.Search)
	case "1m":
		candidates = ledger.Stale(all, now.AddDate(0, -1, 0))
	case "3m":
		candidates = ledger.Stale(all, now.AddDate(0, -3, 0))
	case "6m":
		candidates = ledger.Stale(all, now.AddDate(0, -6, 0))
	case "1y":
		candidates = ledger.Stale(all, now.AddDate(-1, 0, 0))
	}
	if !req.Confirm {
		c.JSON(http.StatusOK, gin.H{"count": len(candidates), "deleted": false})
		return
	}
	if len(candidates) == 0 {
		c.JSON(http.StatusOK, gin.H{"count": 0, "deleted": false})
		return
	}
	ids := ledger.IDs(candidates)
	if err := db.Where("user_id = ? AND id IN ?", user.ID, ids).Delete(&models.Transaction{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(ids), "deleted": true})
}

func exportTransactionsXLSXHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	_, filtered, _, _, err := fetchFilteredTransactions(c, user)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	f, err := export.FinanceXLSX(filtered)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	name := fmt.Sprintf("Laporan_Keuangan_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if _, err := f.WriteTo(c.Writer); err != nil {
		c.Abort()
	}
}

func exportTransactionsPDFHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	_, filtered, from, to, err := fetchFilteredTransactions(c, user)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	name := fmt.Sprintf("Laporan_Keuangan_%s.pdf", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Header("Content-Type", "application/pdf")
	pdf := export.FinancePDF(filtered, from, to)
	if err := pdf.Output(c.Writer); err != nil {
		c.Abort()
	}
}
