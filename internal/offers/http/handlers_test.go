package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/offerdesk/offer-backend/internal/offers/repository"
	"github.com/offerdesk/offer-backend/internal/offers/service"
	"github.com/offerdesk/offer-backend/internal/offers/storage"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	repo := repository.NewDraftRepository(client)
	attachments := storage.NewAttachmentStore(nil, "offer-attachments", zap.NewNop())
	sessions := service.NewSessions(repo, attachments, zap.NewNop())

	r := gin.New()
	handler := New(sessions, zap.NewNop())
	handler.Register(r.Group("/api/v1/offers"))
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, user string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-User-Id", user)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestSessionRequiresUser(t *testing.T) {
	r := setupRouter(t)

	rr := doJSON(t, r, http.MethodGet, "/api/v1/offers/session", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestGetSessionReturnsFreshDraft(t *testing.T) {
	r := setupRouter(t)

	rr := doJSON(t, r, http.MethodGet, "/api/v1/offers/session", "user1", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		State struct {
			Draft struct {
				Financing string `json:"financing"`
				Step      int    `json:"step"`
			} `json:"draft"`
			Flags []string `json:"flags"`
		} `json:"state"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "conventional", resp.State.Draft.Financing)
	assert.Equal(t, 0, resp.State.Draft.Step)
	assert.Contains(t, resp.State.Flags, "Missing property address")
}

func TestUpdateSession(t *testing.T) {
	r := setupRouter(t)

	rr := doJSON(t, r, http.MethodPatch, "/api/v1/offers/session", "user1", map[string]interface{}{
		"address":     "12 Maple Ave",
		"offer_price": 500000,
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		State struct {
			Derived struct {
				DownPaymentDollar float64 `json:"down_payment_dollar"`
			} `json:"derived"`
		} `json:"state"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.InDelta(t, 100000, resp.State.Derived.DownPaymentDollar, 0.001)
}

func TestSaveListLoadDelete(t *testing.T) {
	r := setupRouter(t)

	rr := doJSON(t, r, http.MethodPost, "/api/v1/offers/session/save", "user1", map[string]string{"name": "My Offer"})
	require.Equal(t, http.StatusOK, rr.Code)

	var saved struct {
		State struct {
			Draft struct {
				ID string `json:"id"`
			} `json:"draft"`
		} `json:"state"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &saved))
	id := saved.State.Draft.ID
	require.NotEmpty(t, id)

	rr = doJSON(t, r, http.MethodGet, "/api/v1/offers/drafts", "user1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "My Offer")

	rr = doJSON(t, r, http.MethodPost, "/api/v1/offers/drafts/"+id+"/load", "user1", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, r, http.MethodDelete, "/api/v1/offers/drafts/"+id, "user1", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, r, http.MethodPost, "/api/v1/offers/drafts/"+id+"/load", "user1", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRenameValidation(t *testing.T) {
	r := setupRouter(t)

	rr := doJSON(t, r, http.MethodPatch, "/api/v1/offers/drafts/whatever", "user1", map[string]string{"name": "  "})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, r, http.MethodPatch, "/api/v1/offers/drafts/missing", "user1", map[string]string{"name": "New"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestImportRejectsMalformedPayload(t *testing.T) {
	r := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/offers/session/import", strings.NewReader("{broken"))
	req.Header.Set("X-User-Id", "user1")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestExportDraftDownload(t *testing.T) {
	r := setupRouter(t)

	rr := doJSON(t, r, http.MethodGet, "/api/v1/offers/session/export", "user1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "offer-draft.json")
	assert.Contains(t, rr.Body.String(), "financing")
}

func TestUploadAttachment(t *testing.T) {
	r := setupRouter(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", "letter.pdf")
	require.NoError(t, err)
	_, err = fw.Write([]byte("pre-approval letter"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/offers/session/attachments", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("X-User-Id", "user1")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)

	var resp struct {
		Attachment struct {
			ID     string `json:"id"`
			Source string `json:"source"`
		} `json:"attachment"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "inline", resp.Attachment.Source)

	rr = doJSON(t, r, http.MethodDelete, "/api/v1/offers/session/attachments/"+resp.Attachment.ID, "user1", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestDocumentEndpoint(t *testing.T) {
	r := setupRouter(t)

	doJSON(t, r, http.MethodPatch, "/api/v1/offers/session", "user1", map[string]interface{}{
		"address": "12 Maple Ave", "city": "Springfield", "state": "IL", "zip": "62704",
		"offer_price": 500000,
	})

	rr := doJSON(t, r, http.MethodGet, "/api/v1/offers/session/document", "user1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "$500,000")
}
