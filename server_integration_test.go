package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"akunfin/pkg/storage"
)

// helper to perform requests with auth token
func performRequest(r http.Handler, method, path string, body io.Reader, token string, contentType string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func setupTestServer(t *testing.T) *gin.Engine {
	// integration tests are opt-in. Set DB_DSN_TEST=1 and DB_DSN to run them.
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	gin.SetMode(gin.TestMode)
	c, err := LoadConfig()
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	cfg = c
	cfg.UploadBase = t.TempDir()
	jwtSecret = []byte(cfg.JWTSecret)
	store = storage.New(cfg.UploadBase, jwtSecret)
	if err := store.EnsureBase(); err != nil {
		t.Fatalf("upload base: %v", err)
	}
	initDB()
	r := gin.Default()
	setupRoutes(r)
	return r
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json response: %v body=%s", err, rec.Body.String())
	}
	return out
}

func TestFullFlow(t *testing.T) {
	r := setupTestServer(t)
	email := fmt.Sprintf("user%d@example.com", time.Now().UnixNano())

	// 1. Register user
	regBody, _ := json.Marshal(map[string]string{"email": email, "password": "pass123", "confirm": "pass123"})
	resp := performRequest(r, http.MethodPost, "/register", bytes.NewBuffer(regBody), "", "application/json")
	if resp.Code != 200 {
		t.Fatalf("register failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 2. Login
	loginBody, _ := json.Marshal(map[string]string{"email": email, "password": "pass123"})
	resp = performRequest(r, http.MethodPost, "/login", bytes.NewBuffer(loginBody), "", "application/json")
	if resp.Code != 200 {
		t.Fatalf("login failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	token, _ := decodeJSON(t, resp)["token"].(string)
	if token == "" {
		t.Fatal("no token in login response")
	}

	// wrong password gets the localized message
	badBody, _ := json.Marshal(map[string]string{"email": email, "password": "wrong-pass"})
	resp = performRequest(r, http.MethodPost, "/login", bytes.NewBuffer(badBody), "", "application/json")
	if resp.Code != 401 || !strings.Contains(resp.Body.String(), invalidCredentialsMsg) {
		t.Fatalf("expected localized invalid-credential error, got status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 3. Create an account
	accBody, _ := json.Marshal(map[string]interface{}{
		"email": "stored@example.com", "password": "plain-pw", "type": "efootball", "status": "rank Legend",
	})
	resp = performRequest(r, http.MethodPost, "/accounts", bytes.NewBuffer(accBody), token, "application/json")
	if resp.Code != 200 {
		t.Fatalf("create account failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	accID := decodeJSON(t, resp)["id"].(float64)

	// 4. Accounts list scoped to the gaming tab
	resp = performRequest(r, http.MethodGet, "/accounts?tab=gaming", nil, token, "")
	if resp.Code != 200 || !strings.Contains(resp.Body.String(), "stored@example.com") {
		t.Fatalf("gaming tab missing account: status=%d body=%s", resp.Code, resp.Body.String())
	}
	resp = performRequest(r, http.MethodGet, "/accounts?tab=social", nil, token, "")
	if resp.Code != 200 || strings.Contains(resp.Body.String(), "stored@example.com") {
		t.Fatalf("efootball account must not be in the social tab: body=%s", resp.Body.String())
	}

	// 5. Upload an attachment for it
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("account_id", fmt.Sprintf("%.0f", accID))
	fw, _ := mw.CreateFormFile("file", "proof.txt")
	fw.Write([]byte("attachment body"))
	mw.Close()
	resp = performRequest(r, http.MethodPost, "/attachments", &buf, token, mw.FormDataContentType())
	if resp.Code != 200 {
		t.Fatalf("upload failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 6. Signed URL round-trip
	resp = performRequest(r, http.MethodGet, fmt.Sprintf("/attachments/%.0f/url", accID), nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("signed url failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	signedURL, _ := decodeJSON(t, resp)["url"].(string)
	resp = performRequest(r, http.MethodGet, signedURL, nil, "", "")
	if resp.Code != 200 || resp.Body.String() != "attachment body" {
		t.Fatalf("signed download failed status=%d body=%q", resp.Code, resp.Body.String())
	}

	// 7. Record a sale and an expense; profit is computed server-side
	saleBody, _ := json.Marshal(map[string]interface{}{
		"transaction_type": "sale", "description": "Akun Efootball via Rekber A",
		"modal": 50000, "harga_jual": 100000, "fee": 5000,
		"platform": "Bank", "platform_detail": "BCA", "profit": 999999,
	})
	resp = performRequest(r, http.MethodPost, "/finance", bytes.NewBuffer(saleBody), token, "application/json")
	if resp.Code != 200 {
		t.Fatalf("create sale failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	if got := decodeJSON(t, resp)["profit"].(float64); got != 45000 {
		t.Fatalf("sale profit must be recomputed server-side: got %v", got)
	}
	expBody, _ := json.Marshal(map[string]interface{}{
		"transaction_type": "expense", "description": "Beli lisensi software",
		"modal": 15000, "platform": "Qris",
	})
	resp = performRequest(r, http.MethodPost, "/finance", bytes.NewBuffer(expBody), token, "application/json")
	if resp.Code != 200 {
		t.Fatalf("create expense failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	if got := decodeJSON(t, resp)["profit"].(float64); got != -15000 {
		t.Fatalf("expense profit must be -modal: got %v", got)
	}

	// 8. Ledger list with both summaries
	resp = performRequest(r, http.MethodGet, "/finance", nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("list finance failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	body := decodeJSON(t, resp)
	total := body["total"].(map[string]interface{})
	if total["total_sales"].(float64) != 100000 || total["total_expenses"].(float64) != 65000 || total["net_profit"].(float64) != 30000 {
		t.Fatalf("unexpected totals: %v", total)
	}

	// 9. Purge dry run reports a count without deleting
	purgeBody, _ := json.Marshal(map[string]interface{}{"period": "1m"})
	resp = performRequest(r, http.MethodPost, "/finance/purge", bytes.NewBuffer(purgeBody), token, "application/json")
	if resp.Code != 200 {
		t.Fatalf("purge dry run failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	if decodeJSON(t, resp)["deleted"].(bool) {
		t.Fatal("dry run must not delete")
	}

	// 10. Exports
	resp = performRequest(r, http.MethodGet, "/accounts/export?tab=gaming", nil, token, "")
	if resp.Code != 200 || !strings.HasPrefix(resp.Body.String(), "Type,Email,Password,Notes,Status") {
		t.Fatalf("csv export failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), `"efootball","stored@example.com","plain-pw","","rank Legend"`) {
		t.Fatalf("csv row malformed: %s", resp.Body.String())
	}
	resp = performRequest(r, http.MethodGet, "/finance/export/xlsx", nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("xlsx export failed status=%d", resp.Code)
	}
	resp = performRequest(r, http.MethodGet, "/finance/export/pdf", nil, token, "")
	if resp.Code != 200 || !strings.HasPrefix(resp.Body.String(), "%PDF") {
		t.Fatalf("pdf export failed status=%d", resp.Code)
	}

	// 11. Delete the attachment: file removed, row kept
	resp = performRequest(r, http.MethodDelete, fmt.Sprintf("/attachments/%.0f", accID), nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("delete attachment failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	resp = performRequest(r, http.MethodGet, fmt.Sprintf("/accounts/%.0f", accID), nil, token, "")
	if resp.Code != 200 || !strings.Contains(resp.Body.String(), `"attachment_path":null`) {
		t.Fatalf("attachment reference should be cleared: body=%s", resp.Body.String())
	}

	// 12. Delete the account row
	resp = performRequest(r, http.MethodDelete, fmt.Sprintf("/accounts/%.0f", accID), nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("delete account failed status=%d body=%s", resp.Code, resp.Body.String())
	}
}

func TestAuthRequired(t *testing.T) {
	r := setupTestServer(t)
	for _, path := range []string{"/accounts", "/finance", "/attachments", "/dashboard"} {
		resp := performRequest(r, http.MethodGet, path, nil, "", "")
		if resp.Code != 401 {
			t.Fatalf("%s without token: expected 401 got %d", path, resp.Code)
		}
	}
}
