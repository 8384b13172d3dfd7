package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/work-platform-backend/internal/data/repos"
	"github.com/yungbote/work-platform-backend/internal/http/response"
	"github.com/yungbote/work-platform-backend/internal/platform/ctxutil"
	"github.com/yungbote/work-platform-backend/internal/platform/dbctx"
	"github.com/yungbote/work-platform-backend/internal/platform/logger"
	"github.com/yungbote/work-platform-backend/internal/realtime"
)

type RealtimeHandler struct {
	log      *logger.Logger
	hub      *realtime.SSEHub
	projects repos.ProjectRepo
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.SSEHub, projects repos.ProjectRepo) *RealtimeHandler {
	return &RealtimeHandler{
		log:      log.With("handler", "RealtimeHandler"),
		hub:      hub,
		projects: projects,
	}
}

// GET /api/realtime/stream?basket_id=...
// Streams row-change events for each requested basket the caller owns.
func (h *RealtimeHandler) Stream(c *gin.Context) {
	ctx := c.Request.Context()
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("authentication required"))
		return
	}

	var channels []string
	for _, raw := range c.QueryArray("basket_id") {
		for _, part := range strings.Split(raw, ",") {
			basketID, err := uuid.Parse(strings.TrimSpace(part))
			if err != nil {
				response.RespondError(c, http.StatusBadRequest, "invalid_basket_id", err)
				return
			}
			p, err := h.projects.GetByBasketID(dbctx.Context{Ctx: ctx}, basketID)
			if err != nil {
				response.RespondAPIError(c, err)
				return
			}
			if p == nil || !p.OwnedBy(userID) {
				response.RespondError(c, http.StatusNotFound, "basket_not_found", errors.New("basket not found"))
				return
			}
			channels = append(channels, realtime.BasketChannel(basketID))
		}
	}
	if len(channels) == 0 {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("at least one basket_id is required"))
		return
	}

	client := h.hub.NewSSEClient(userID)
	for _, ch := range channels {
		h.hub.AddChannel(client, ch)
	}
	h.log.Debug("SSE stream open", "user_id", userID, "channels", len(channels))

	h.hub.ServeHTTP(c.Writer, c.Request, client)
	h.hub.CloseClient(client)
}
