package http

import "github.com/gin-gonic/gin"

// Register attaches the offer session routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/session", h.GetSession)
	rg.PATCH("/session", h.UpdateSession)
	rg.POST("/session/next", h.NextStep)
	rg.POST("/session/back", h.BackStep)
	rg.POST("/session/save", h.SaveDraft)
	rg.POST("/session/save-as", h.SaveDraftAs)
	rg.DELETE("/session/autosave", h.ClearAutosave)
	rg.GET("/session/export", h.ExportDraft)
	rg.POST("/session/import", h.ImportDraft)
	rg.GET("/session/document", h.GetDocument)
	rg.POST("/session/attachments", h.UploadAttachment)
	rg.DELETE("/session/attachments/:id", h.RemoveAttachment)

	rg.GET("/drafts", h.ListDrafts)
	rg.GET("/drafts/export", h.ExportCatalog)
	rg.POST("/drafts/:id/load", h.LoadDraft)
	rg.PATCH("/drafts/:id", h.RenameDraft)
	rg.DELETE("/drafts/:id", h.DeleteDraft)
}
