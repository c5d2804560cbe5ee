package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"akunfin/models"
	"akunfin/pkg/export"
)

type accountRequest struct {
	Email          string             `json:"email" binding:"required"`
	Password       string             `json:"password" binding:"required"`
	Notes          string             `json:"notes"`
	Type           models.AccountType `json:"type" binding:"required"`
	Status         string             `json:"status"`
	AttachmentPath *string            `json:"attachment_path"`
}

func createAccountHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req accountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Type.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown account type"})
		return
	}
	acc := models.Account{
		UserID:         user.ID,
		Email:          req.Email,
		Password:       req.Password,
		Notes:          req.Notes,
		Type:           req.Type,
		Status:         req.Status,
		AttachmentPath: req.AttachmentPath,
	}
	if err := db.Create(&acc).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusOK, acc)
}

// listAccountsHandler returns the user's accounts, optionally narrowed by a
// search string (email or notes) and a tab, grouped by account type.
func listAccountsHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	tab := models.Tab(c.DefaultQuery("tab", string(models.TabAll)))
	if !tab.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown tab"})
		return
	}
	var accounts []models.Account
	if err := db.Where("user_id = ?", user.ID).Order("created_at desc").Find(&accounts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	accounts = searchAccounts(accounts, c.Query("search"))
	groups := models.FilterByTab(models.GroupByType(accounts), tab)
	c.JSON(http.StatusOK, gin.H{
		"accounts": models.InTab(accounts, tab),
		"groups":   groups,
	})
}

// searchAccounts keeps accounts whose email or notes contain the query,
// case-insensitive. An empty query keeps everything.
func searchAccounts(accounts []models.Account, query string) []models.Account {
	q := strings.ToLower(query)
	if q == "" {
		return accounts
	}
	var out []models.Account
	for _, a := range accounts {
		if strings.Contains(strings.ToLower(a.Email), q) || strings.Contains(strings.ToLower(a.Notes), q) {
			out = append(out, a)
		}
	}
	return out
}

func getAccountByID(c *gin.Context) (*models.Account, *models.User, bool) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return nil, nil, false
	}
	var acc models.Account
	if err := db.Where("user_id = ?", user.ID).First(&acc, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		return nil, nil, false
	}
	return &acc, user, true
}

func getAccountHandler(c *gin.Context) {
	acc, _, ok := getAccountByID(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, acc)
}

func updateAccountHandler(c *gin.Context) {
	acc, _, ok := getAccountByID(c)
	if !ok {
		return
	}
	var req accountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Type.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown account type"})
		return
	}
	// Replacing or removing the attachment reference orphans the previously
	// stored file unless it is removed first. The removal and the row update
	// are two separate calls with no rollback: if the update fails after the
	// removal succeeded, the row keeps pointing at a file that is gone.
	oldPath := acc.AttachmentPath
	if oldPath != nil && (req.AttachmentPath == nil || *req.AttachmentPath != *oldPath) {
		if err := store.Remove(*oldPath); err != nil {
			log.Warn().Err(err).Str("path", *oldPath).Msg("failed to remove replaced attachment")
		}
	}
	acc.Email = req.Email
	acc.Password = req.Password
	acc.Notes = req.Notes
	acc.Type = req.Type
	acc.Status = req.Status
	acc.AttachmentPath = req.AttachmentPath
	if err := db.Save(acc).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, acc)
}

// deleteAccountHandler removes the row, then the linked stored file as a
// separate step. Not transactional: a failed file removal leaves the file
// orphaned on disk.
func deleteAccountHandler(c *gin.Context) {
	acc, _, ok := getAccountByID(c)
	if !ok {
		return
	}
	if err := db.Delete(acc).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if acc.AttachmentPath != nil {
		if err := store.Remove(*acc.AttachmentPath); err != nil {
			log.Warn().Err(err).Str("path", *acc.AttachmentPath).Msg("failed to remove attachment of deleted account")
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}

// exportAccountsHandler downloads the user's accounts (optionally narrowed
// to one tab) as CSV.
func exportAccountsHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	tab := models.Tab(c.DefaultQuery("tab", string(models.TabAll)))
	if !tab.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown tab"})
		return
	}
	var accounts []models.Account
	if err := db.Where("user_id = ?", user.ID).Order("created_at desc").Find(&accounts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	name := fmt.Sprintf("accounts_%s_%s.csv", tab, time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(export.AccountsCSV(models.InTab(accounts, tab))))
}
