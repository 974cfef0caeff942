package reports

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	api "github.com/sanjerfit/webadmin-gateway/internal/api/http"
	colsvc "github.com/sanjerfit/webadmin-gateway/internal/collaborators/service"
)

// Handler exposes the dashboard stats and export endpoints.
type Handler struct {
	svc           *Service
	collaborators *colsvc.Service
}

func NewHandler(svc *Service, collaborators *colsvc.Service) *Handler {
	return &Handler{svc: svc, collaborators: collaborators}
}

func (h *Handler) stats(c *gin.Context) {
	raw, err := h.svc.Stats(c.Request.Context(), api.Token(c))
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "stats": json.RawMessage(raw)})
}

// exportCollaborators streams the session's current filtered roster. The
// export covers every matching row, not just the visible page.
func (h *Handler) exportCollaborators(c *gin.Context) {
	rows := h.collaborators.FilteredRows(api.SessionID(c))

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="colaboradores.csv"`)
	c.Status(http.StatusOK)

	if err := WriteCollaboratorsCSV(c.Writer, rows); err != nil {
		// headers are already out; nothing sane to send but the abort
		c.Abort()
	}
}

// Register attaches report routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/stats", h.stats)
	rg.GET("/export/collaborators.csv", h.exportCollaborators)
}
