package http

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/offerdesk/offer-backend/internal/offers/domain"
)

// userID resolves the caller's identity. Authentication itself lives in an
// external collaborator; its resolved user ID arrives as a header.
func userID(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader("X-User-Id"))
}

// GetSession returns the live draft with derived values and flags.
func (h *Handler) GetSession(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	st := h.sessions.Get(c.Request.Context(), uid).State()
	c.JSON(http.StatusOK, gin.H{"state": st})
}

// UpdateSession merges a field-by-field update into the live draft.
func (h *Handler) UpdateSession(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var u domain.DraftUpdate
	if err := c.ShouldBindJSON(&u); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	st := h.sessions.Get(c.Request.Context(), uid).Apply(c.Request.Context(), &u)
	c.JSON(http.StatusOK, gin.H{"state": st})
}

// NextStep advances the wizard.
func (h *Handler) NextStep(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	st := h.sessions.Get(c.Request.Context(), uid).Next(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"state": st})
}

// BackStep rewinds the wizard.
func (h *Handler) BackStep(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	st := h.sessions.Get(c.Request.Context(), uid).Back(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"state": st})
}

// SaveDraft promotes the live draft into a named draft.
func (h *Handler) SaveDraft(c *gin.Context) {
	h.save(c, false)
}

// SaveDraftAs stores the live draft under a fresh ID.
func (h *Handler) SaveDraftAs(c *gin.Context) {
	h.save(c, true)
}

func (h *Handler) save(c *gin.Context, saveAs bool) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req nameReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sess := h.sessions.Get(c.Request.Context(), uid)
	var (
		st  interface{}
		err error
	)
	if saveAs {
		st, err = sess.SaveAs(c.Request.Context(), strings.TrimSpace(req.Name))
	} else {
		st, err = sess.Save(c.Request.Context(), strings.TrimSpace(req.Name))
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save draft"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"state": st})
}

// ListDrafts returns the draft catalog.
func (h *Handler) ListDrafts(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	metas, err := h.sessions.Get(c.Request.Context(), uid).List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list drafts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"drafts": metas})
}

// LoadDraft replaces the live draft with a stored one.
func (h *Handler) LoadDraft(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	st, err := h.sessions.Get(c.Request.Context(), uid).Load(c.Request.Context(), c.Param("id"))
	if err != nil {
		if err == domain.ErrDraftNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "draft not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load draft"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": st})
}

// RenameDraft relabels a catalog entry.
func (h *Handler) RenameDraft(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req nameReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	err := h.sessions.Get(c.Request.Context(), uid).Rename(c.Request.Context(), c.Param("id"), strings.TrimSpace(req.Name))
	if err != nil {
		if err == domain.ErrDraftNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "draft not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to rename draft"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// DeleteDraft removes a stored draft body and its catalog entry.
func (h *Handler) DeleteDraft(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	err := h.sessions.Get(c.Request.Context(), uid).Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if err == domain.ErrDraftNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "draft not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete draft"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ClearAutosave empties the autosave slot.
func (h *Handler) ClearAutosave(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	if err := h.sessions.Get(c.Request.Context(), uid).ClearAutosave(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear autosave"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ExportDraft streams the live draft as a downloadable JSON file.
func (h *Handler) ExportDraft(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	data, err := h.sessions.Get(c.Request.Context(), uid).ExportJSON()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export draft"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="offer-draft.json"`)
	c.Data(http.StatusOK, "application/json", data)
}

// ImportDraft applies an exported draft onto the live session. Malformed
// payloads reject the entire import.
func (h *Handler) ImportDraft(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	st, err := h.sessions.Get(c.Request.Context(), uid).ImportJSON(c.Request.Context(), body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid import payload"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": st})
}

// ExportCatalog streams the full multi-draft backup.
func (h *Handler) ExportCatalog(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	export, err := h.sessions.Get(c.Request.Context(), uid).ExportCatalog(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export catalog"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="offer-drafts.json"`)
	c.JSON(http.StatusOK, export)
}

// UploadAttachment ingests a multipart file into the live draft. The
// response always carries the attachment; a failed remote upload shows up as
// source "failed" rather than an error status.
func (h *Handler) UploadAttachment(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	att, st := h.sessions.Get(c.Request.Context(), uid).
		IngestAttachment(c.Request.Context(), fileHeader.Filename, contentType, data)

	c.JSON(http.StatusCreated, gin.H{"attachment": att, "state": st})
}

// RemoveAttachment deletes the draft's reference to an attachment. Remote
// objects are left in place.
func (h *Handler) RemoveAttachment(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	st, ok := h.sessions.Get(c.Request.Context(), uid).
		RemoveAttachment(c.Request.Context(), c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "attachment not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": st})
}

// GetDocument assembles the printable snapshot.
func (h *Handler) GetDocument(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	doc := h.sessions.Get(c.Request.Context(), uid).Document()
	c.JSON(http.StatusOK, gin.H{"document": doc})
}
