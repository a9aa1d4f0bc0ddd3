package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dukapos/retail-core/internal/httputil"
	"github.com/dukapos/retail-core/internal/model"
	"github.com/dukapos/retail-core/internal/transfer"
	"github.com/dukapos/retail-core/internal/transfer/dto"
	"github.com/dukapos/retail-core/pkg/logger"
)

type TransferHandler struct {
	uc     transfer.UseCase
	logger logger.Logger
}

func NewTransferHandler(uc transfer.UseCase, log logger.Logger) *TransferHandler {
	return &TransferHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *TransferHandler) MapRoutes(g *echo.Group) {
	g.POST("", h.Request)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("/:id/approve", h.Approve)
	g.POST("/:id/apply", h.Apply)
	g.POST("/:id/reject", h.Reject)
}

func (h *TransferHandler) Request(c echo.Context) error {
	caller, ok := httputil.Caller(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}

	var req dto.RequestTransferInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.ActorID = caller.UserID
	req.IPAddress = httputil.ClientIP(c)

	t, err := h.uc.Request(c.Request().Context(), &req)
	if err != nil {
		return httputil.RespondError(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

type resolveRequest struct {
	Reason string `json:"reason"`
}

func (h *TransferHandler) Approve(c echo.Context) error {
	caller, ok := httputil.Caller(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}

	t, err := h.uc.Approve(c.Request().Context(), &dto.ResolveTransferInput{
		TransferID: c.Param("id"),
		ActorID:    caller.UserID,
		IPAddress:  httputil.ClientIP(c),
	})
	if err != nil {
		// An approved transfer whose application failed is still a
		// resolved approval; surface both the state and the error.
		if t != nil && t.Status == model.TransferApproved {
			return c.JSON(http.StatusConflict, echo.Map{
				"transfer": t,
				"error":    err.Error(),
			})
		}
		return httputil.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *TransferHandler) Apply(c echo.Context) error {
	caller, ok := httputil.Caller(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}

	t, err := h.uc.Apply(c.Request().Context(), &dto.ResolveTransferInput{
		TransferID: c.Param("id"),
		ActorID:    caller.UserID,
		IPAddress:  httputil.ClientIP(c),
	})
	if err != nil {
		if t != nil && t.Status == model.TransferApproved {
			return c.JSON(http.StatusConflict, echo.Map{
				"transfer": t,
				"error":    err.Error(),
			})
		}
		return httputil.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *TransferHandler) Reject(c echo.Context) error {
	caller, ok := httputil.Caller(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}

	var req resolveRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	t, err := h.uc.Reject(c.Request().Context(), &dto.ResolveTransferInput{
		TransferID: c.Param("id"),
		ActorID:    caller.UserID,
		Reason:     req.Reason,
		IPAddress:  httputil.ClientIP(c),
	})
	if err != nil {
		return httputil.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *TransferHandler) Get(c echo.Context) error {
	t, err := h.uc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httputil.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *TransferHandler) List(c echo.Context) error {
	page, pageSize := httputil.Pagination(c)
	f := &dto.TransferFilters{
		Status:      model.TransferStatus(c.QueryParam("status")),
		ProductID:   c.QueryParam("product_id"),
		FromStoreID: c.QueryParam("from_store_id"),
		ToStoreID:   c.QueryParam("to_store_id"),
		Page:        page,
		PageSize:    pageSize,
	}

	items, total, err := h.uc.List(c.Request().Context(), f)
	if err != nil {
		return httputil.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "total": total})
}
