package exports

import (
	"bytes"
	"net/http"
	"time"

	"lead_outreach_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler streams lead exports.
type Handler struct {
	svc *Service
}

// NewHandler creates a new export handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// ExportLeads returns every lead with its latest activity.
// GET /api/v1/leads/export?format=xlsx|csv
func (h *Handler) ExportLeads(c *gin.Context) {
	h.export(c, c.Query("format"))
}

// ExportLeadsCSV is the API-key feed for external tooling.
// GET /api/v1/exports/leads.csv
func (h *Handler) ExportLeadsCSV(c *gin.Context) {
	h.export(c, string(FormatCSV))
}

func (h *Handler) export(c *gin.Context, rawFormat string) {
	format, ok := ParseFormat(rawFormat)
	if !ok {
		httpkit.Error(c, http.StatusBadRequest, "format must be xlsx or csv", nil)
		return
	}

	// Buffered so a failure halfway through still yields a JSON error.
	var buf bytes.Buffer
	if httpkit.HandleError(c, h.svc.Write(httpkit.RequestContext(c), &buf, format)) {
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+FileName(format, time.Now()))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
