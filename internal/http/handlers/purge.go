package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/work-platform-backend/internal/http/response"
	"github.com/yungbote/work-platform-backend/internal/modules/purge"
	"github.com/yungbote/work-platform-backend/internal/platform/ctxutil"
)

type PurgeHandler struct {
	purge purge.Usecases
}

func NewPurgeHandler(purge purge.Usecases) *PurgeHandler {
	return &PurgeHandler{purge: purge}
}

// GET /api/projects/:id/purge/preview
func (h *PurgeHandler) Preview(c *gin.Context) {
	projectID, ok := projectIDParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	preview, err := h.purge.PreviewPurge(ctx, ctxutil.UserID(ctx), projectID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, preview)
}

type purgeRequest struct {
	Mode             string `json:"mode"`
	ConfirmationText string `json:"confirmation_text"`
}

// POST /api/projects/:id/purge
func (h *PurgeHandler) Purge(c *gin.Context) {
	projectID, ok := projectIDParam(c)
	if !ok {
		return
	}
	var req purgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request",
			errors.New("body must be {\"mode\": ..., \"confirmation_text\": ...}"))
		return
	}
	ctx := c.Request.Context()
	res, err := h.purge.Purge(ctx, purge.PurgeInput{
		UserID:           ctxutil.UserID(ctx),
		ProjectID:        projectID,
		Mode:             purge.Mode(req.Mode),
		ConfirmationText: req.ConfirmationText,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, res)
}
