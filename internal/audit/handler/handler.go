package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dukapos/retail-core/internal/audit"
	"github.com/dukapos/retail-core/internal/httputil"
	"github.com/dukapos/retail-core/pkg/logger"
)

type AuditHandler struct {
	uc     audit.UseCase
	logger logger.Logger
}

func NewAuditHandler(uc audit.UseCase, log logger.Logger) *AuditHandler {
	return &AuditHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *AuditHandler) MapRoutes(g *echo.Group) {
	g.GET("", h.List)
}

func (h *AuditHandler) List(c echo.Context) error {
	caller, ok := httputil.Caller(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}

	page, pageSize := httputil.Pagination(c)
	f := &audit.Filters{
		ActorID:  c.QueryParam("actor_id"),
		Action:   c.QueryParam("action"),
		Page:     page,
		PageSize: pageSize,
	}
	if t, err := time.Parse(time.RFC3339, c.QueryParam("from")); err == nil {
		f.From = &t
	}
	if t, err := time.Parse(time.RFC3339, c.QueryParam("to")); err == nil {
		f.To = &t
	}

	items, total, err := h.uc.List(c.Request().Context(), caller.UserID, f)
	if err != nil {
		return httputil.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "total": total})
}
