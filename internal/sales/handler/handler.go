package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dukapos/retail-core/internal/httputil"
	"github.com/dukapos/retail-core/internal/model"
	"github.com/dukapos/retail-core/internal/sales"
	"github.com/dukapos/retail-core/internal/sales/dto"
	"github.com/dukapos/retail-core/pkg/logger"
)

type SalesHandler struct {
	uc     sales.UseCase
	logger logger.Logger
}

func NewSalesHandler(uc sales.UseCase, log logger.Logger) *SalesHandler {
	return &SalesHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *SalesHandler) MapRoutes(g *echo.Group) {
	g.POST("", h.CreateSale)
	g.GET("", h.ListSales)
	g.GET("/:id", h.GetSale)
	g.POST("/:id/returns", h.ProcessReturn)
	g.GET("/reports/daily", h.DailySummary)
}

type createSaleRequest struct {
	StoreID       string              `json:"store_id"`
	Items         []dto.SaleItemInput `json:"items"`
	PaymentMethod string              `json:"payment_method"`
}

func (h *SalesHandler) CreateSale(c echo.Context) error {
	caller, ok := httputil.Caller(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}

	var req createSaleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	sale, err := h.uc.CreateSale(c.Request().Context(), &dto.CreateSaleInput{
		StoreID:       req.StoreID,
		OperatorID:    caller.UserID,
		Items:         req.Items,
		PaymentMethod: model.PaymentMethod(req.PaymentMethod),
		IPAddress:     httputil.ClientIP(c),
	})
	if err != nil {
		return httputil.RespondError(c, err)
	}
	return c.JSON(http.StatusCreated, sale)
}

type processReturnRequest struct {
	Items []dto.ReturnItemInput `json:"items"`
}

func (h *SalesHandler) ProcessReturn(c echo.Context) error {
	caller, ok := httputil.Caller(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}

	var req processReturnRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ret, err := h.uc.ProcessReturn(c.Request().Context(), &dto.ProcessReturnInput{
		SaleID:     c.Param("id"),
		OperatorID: caller.UserID,
		Items:      req.Items,
		IPAddress:  httputil.ClientIP(c),
	})
	if err != nil {
		return httputil.RespondError(c, err)
	}
	return c.JSON(http.StatusCreated, ret)
}

func (h *SalesHandler) GetSale(c echo.Context) error {
	sale, err := h.uc.GetSale(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httputil.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, sale)
}

func (h *SalesHandler) ListSales(c echo.Context) error {
	page, pageSize := httputil.Pagination(c)
	f := &dto.SaleFilters{
		OperatorID: c.QueryParam("operator_id"),
		Type:       c.QueryParam("sale_type"),
		Page:       page,
		PageSize:   pageSize,
	}
	if s := c.QueryParam("store_id"); s != "" {
		f.StoreID = &s
	}
	if from, err := time.Parse(time.RFC3339, c.QueryParam("from")); err == nil {
		f.From = &from
	}
	if to, err := time.Parse(time.RFC3339, c.QueryParam("to")); err == nil {
		f.To = &to
	}

	items, total, err := h.uc.ListSales(c.Request().Context(), f)
	if err != nil {
		return httputil.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "total": total})
}

func (h *SalesHandler) DailySummary(c echo.Context) error {
	caller, ok := httputil.Caller(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}

	var storeID *string
	if s := c.QueryParam("store_id"); s != "" {
		storeID = &s
	}

	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now
	if t, err := time.Parse(time.RFC3339, c.QueryParam("from")); err == nil {
		from = t
	}
	if t, err := time.Parse(time.RFC3339, c.QueryParam("to")); err == nil {
		to = t
	}

	summary, err := h.uc.DailySummary(c.Request().Context(), caller.UserID, storeID, from, to)
	if err != nil {
		return httputil.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": summary})
}
