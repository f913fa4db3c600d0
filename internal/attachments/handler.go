package attachments

import (
	"net/http"

	"lead_outreach_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest = "invalid request"
	msgInvalidLeadID  = "invalid lead ID"
)

// UploadResponse is returned after a successful upload.
type UploadResponse struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// Handler serves attachment uploads.
type Handler struct {
	svc *Service
}

// NewHandler creates an attachments handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Upload stores a multipart file for a lead.
// POST /api/v1/attachments
func (h *Handler) Upload(c *gin.Context) {
	leadID, err := uuid.Parse(c.PostForm("leadId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidLeadID, nil)
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, "file is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	defer f.Close()

	res, err := h.svc.Upload(httpkit.RequestContext(c), leadID, fh.Filename, f, fh.Size)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, UploadResponse{
		URL:         res.URL,
		Key:         res.Key,
		ContentType: res.ContentType,
		Size:        res.Size,
	})
}
