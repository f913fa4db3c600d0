package handler

import (
	"errors"
	"net/http"
	"strings"

	"lead_outreach_backend/internal/leads/importing"
	"lead_outreach_backend/internal/leads/management"
	"lead_outreach_backend/internal/leads/transport"
	"lead_outreach_backend/platform/apperr"
	"lead_outreach_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

const maxImportFileBytes = 10 << 20

// PreviewImport validates uploaded rows without writing anything.
// POST /api/v1/leads/import/preview
func (h *Handler) PreviewImport(c *gin.Context) {
	rows, ok := h.readRows(c)
	if !ok {
		return
	}

	candidates, err := h.importer.Preview(httpkit.RequestContext(c), rows)
	if httpkit.HandleError(c, err) {
		return
	}

	resp := transport.ImportPreviewResponse{Rows: toImportRows(candidates)}
	for _, cand := range candidates {
		if cand.Valid {
			resp.Valid++
		} else {
			resp.Invalid++
		}
	}
	httpkit.OK(c, resp)
}

// CommitImport inserts the valid rows and reports the rejected ones.
// POST /api/v1/leads/import
func (h *Handler) CommitImport(c *gin.Context) {
	rows, ok := h.readRows(c)
	if !ok {
		return
	}

	result, err := h.importer.Commit(httpkit.RequestContext(c), rows)
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) && appErr.Kind == apperr.KindValidation {
			if rejected, ok := appErr.Details.([]importing.Candidate); ok {
				httpkit.Error(c, http.StatusBadRequest, appErr.Message, toImportRows(rejected))
				return
			}
		}
		httpkit.HandleError(c, err)
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.ImportCommitResponse{
		Created:  management.ToLeadResponses(result.Created),
		Rejected: toImportRows(result.Rejected),
	})
}

// readRows accepts either a multipart CSV/XLSX upload in "file" or a JSON body of rows.
func (h *Handler) readRows(c *gin.Context) ([]importing.Row, bool) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "file is required", nil)
			return nil, false
		}
		if fh.Size > maxImportFileBytes {
			httpkit.Error(c, http.StatusBadRequest, "file too large", nil)
			return nil, false
		}
		f, err := fh.Open()
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return nil, false
		}
		defer f.Close()

		rows, err := importing.ReadFile(fh.Filename, f)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, err.Error(), nil)
			return nil, false
		}
		return rows, true
	}

	var req transport.ImportRowsRequest
	if !h.bindJSON(c, &req) {
		return nil, false
	}
	rows := make([]importing.Row, len(req.Rows))
	for i, m := range req.Rows {
		rows[i] = importing.Row(m)
	}
	return rows, true
}

func toImportRows(candidates []importing.Candidate) []transport.ImportRowResponse {
	out := make([]transport.ImportRowResponse, len(candidates))
	for i, cand := range candidates {
		errs := cand.Errors
		if errs == nil {
			errs = []string{}
		}
		out[i] = transport.ImportRowResponse{
			Row:      cand.Row,
			Fields:   cand.Fields.Map(),
			Valid:    cand.Valid,
			Errors:   errs,
			Sequence: cand.Sequence,
		}
	}
	return out
}
