package main

import (
	"fmt"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"akunfin/models"
)

const maxAttachmentSize = 5 * 1024 * 1024

type attachmentInfo struct {
	AccountID      uint      `json:"account_id"`
	AccountEmail   string    `json:"account_email"`
	AttachmentPath string    `json:"attachment_path"`
	FileName       string    `json:"file_name"`
	CreatedAt      time.Time `json:"created_at"`
}

// listAttachmentsHandler returns every account that has a stored file,
// newest first, searchable by file name or account email.
func listAttachmentsHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var accounts []models.Account
	if err := db.Where("user_id = ? AND attachment_path IS NOT NULL", user.ID).
		Order("created_at desc").Find(&accounts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	q := strings.ToLower(c.Query("search"))
	items := make([]attachmentInfo, 0, len(accounts))
	for _, a := range accounts {
		info := attachmentInfo{
			AccountID:      a.ID,
			AccountEmail:   a.Email,
			AttachmentPath: *a.AttachmentPath,
			FileName:       path.Base(*a.AttachmentPath),
			CreatedAt:      a.CreatedAt,
		}
		if q != "" && !strings.Contains(strings.ToLower(info.FileName), q) &&
			!strings.Contains(strings.ToLower(info.AccountEmail), q) {
			continue
		}
		items = append(items, info)
	}
	c.JSON(http.StatusOK, items)
}

// uploadAttachmentHandler stores a multipart file and links it to one of the
// user's accounts. Replacing an existing attachment removes the old file
// first; the removal, the save and the row update are separate steps with no
// rollback between them.
func uploadAttachmentHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	accountID, err := strconv.ParseUint(c.PostForm("account_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "account_id missing or invalid"})
		return
	}
	var acc models.Account
	if err := db.Where("user_id = ?", user.ID).First(&acc, uint(accountID)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file missing"})
		return
	}
	if file.Size > maxAttachmentSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large (max 5MB)"})
		return
	}
	if acc.AttachmentPath != nil {
		if err := store.Remove(*acc.AttachmentPath); err != nil {
			log.Warn().Err(err).Str("path", *acc.AttachmentPath).Msg("failed to remove replaced attachment")
		}
	}
	ext := path.Ext(file.Filename)
	relPath := fmt.Sprintf("uploads/%s%s", uuid.NewString(), ext)
	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "open failed"})
		return
	}
	defer src.Close()
	if err := store.Save(relPath, src); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	acc.AttachmentPath = &relPath
	if err := db.Save(&acc).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to link file to account"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"account_id": acc.ID, "attachment_path": relPath})
}

// attachmentURLHandler issues a time-limited signed download URL for an
// account's attachment.
func attachmentURLHandler(c *gin.Context) {
	acc, _, ok := getAccountByID(c)
	if !ok {
		return
	}
	if acc.AttachmentPath == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "account has no attachment"})
		return
	}
	ttl := time.Duration(cfg.SignedURLTTL) * time.Second
	now := time.Now()
	c.JSON(http.StatusOK, gin.H{
		"url":        store.SignURL(*acc.AttachmentPath, ttl, now),
		"expires_at": now.Add(ttl).Unix(),
	})
}

// deleteAttachmentHandler removes the stored file, then clears the account's
// attachment reference. The two remote-ish steps are sequential and
// non-atomic: if the row update fails after the file is gone, the account
// keeps a stale reference. The account row itself is untouched.
func deleteAttachmentHandler(c *gin.Context) {
	acc, _, ok := getAccountByID(c)
	if !ok {
		return
	}
	if acc.AttachmentPath == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "account has no attachment"})
		return
	}
	if err := store.Remove(*acc.AttachmentPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove file from storage"})
		return
	}
	if err := db.Model(acc).Update("attachment_path", nil).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update account"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "attachment deleted"})
}

// downloadFileHandler serves a stored file if the signature and expiry on
// the URL check out. No session required: the signed URL is the credential.
func downloadFileHandler(c *gin.Context) {
	rel := strings.TrimPrefix(c.Param("path"), "/")
	exp, err := strconv.ParseInt(c.Query("exp"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expiry"})
		return
	}
	if !store.Verify(rel, exp, c.Query("sig"), time.Now()) {
		c.JSON(http.StatusForbidden, gin.H{"error": "invalid or expired link"})
		return
	}
	f, err := store.Open(rel)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		return
	}
	f.Close()
	c.FileAttachment(f.Name(), path.Base(rel))
}
