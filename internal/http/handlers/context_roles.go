package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/work-platform-backend/internal/http/response"
	"github.com/yungbote/work-platform-backend/internal/modules/contextroles"
	"github.com/yungbote/work-platform-backend/internal/platform/ctxutil"
)

type ContextRolesHandler struct {
	roles contextroles.Usecases
}

func NewContextRolesHandler(roles contextroles.Usecases) *ContextRolesHandler {
	return &ContextRolesHandler{roles: roles}
}

// GET /api/projects/:id/context/anchors
func (h *ContextRolesHandler) GetAnchors(c *gin.Context) {
	projectID, ok := projectIDParam(c)
	if !ok {
		return
	}
	view, err := h.roles.ProjectAnchors(c.Request.Context(), ctxutil.UserID(c.Request.Context()), projectID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, view)
}

// GET /api/projects/:id/context/foundation
func (h *ContextRolesHandler) GetFoundation(c *gin.Context) {
	projectID, ok := projectIDParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	basketID, err := h.roles.ProjectBasket(ctx, ctxutil.UserID(ctx), projectID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	status, err := h.roles.CheckFoundationComplete(ctx, basketID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"foundation": status, "basket_id": basketID})
}

type freshnessRequest struct {
	RequiredRoles []string `json:"required_roles"`
}

// POST /api/projects/:id/context/freshness
func (h *ContextRolesHandler) CheckFreshness(c *gin.Context) {
	projectID, ok := projectIDParam(c)
	if !ok {
		return
	}
	var req freshnessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("body must be {\"required_roles\": [...]}"))
		return
	}
	ctx := c.Request.Context()
	basketID, err := h.roles.ProjectBasket(ctx, ctxutil.UserID(ctx), projectID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	report, err := h.roles.CheckRolesFreshness(ctx, basketID, req.RequiredRoles)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, report)
}
