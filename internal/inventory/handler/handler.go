package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dukapos/retail-core/internal/httputil"
	"github.com/dukapos/retail-core/internal/inventory"
	"github.com/dukapos/retail-core/internal/inventory/dto"
	"github.com/dukapos/retail-core/pkg/logger"
)

type InventoryHandler struct {
	uc     inventory.UseCase
	logger logger.Logger
}

func NewInventoryHandler(uc inventory.UseCase, log logger.Logger) *InventoryHandler {
	return &InventoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *InventoryHandler) MapRoutes(g *echo.Group) {
	g.GET("/stores/:store_id/products/:product_id", h.GetStock)
	g.GET("/low-stock", h.ListLowStock)
	g.POST("/adjustments", h.Adjust)
}

func (h *InventoryHandler) GetStock(c echo.Context) error {
	inv, err := h.uc.GetStock(c.Request().Context(), c.Param("store_id"), c.Param("product_id"))
	if err != nil {
		return httputil.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, inv)
}

func (h *InventoryHandler) ListLowStock(c echo.Context) error {
	storeID := (*string)(nil)
	if s := c.QueryParam("store_id"); s != "" {
		storeID = &s
	}
	page, pageSize := httputil.Pagination(c)

	items, total, err := h.uc.ListLowStock(c.Request().Context(), storeID, page, pageSize)
	if err != nil {
		return httputil.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "total": total})
}

type adjustRequest struct {
	StoreID   string `json:"store_id"`
	ProductID string `json:"product_id"`
	Delta     int64  `json:"delta"`
	Reason    string `json:"reason"`
}

func (h *InventoryHandler) Adjust(c echo.Context) error {
	caller, ok := httputil.Caller(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}

	var req adjustRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	inv, err := h.uc.Adjust(c.Request().Context(), &dto.AdjustInput{
		StoreID:   req.StoreID,
		ProductID: req.ProductID,
		Delta:     req.Delta,
		Reason:    req.Reason,
		ActorID:   caller.UserID,
		IPAddress: httputil.ClientIP(c),
	})
	if err != nil {
		return httputil.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, inv)
}
