package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/dukapos/retail-core/internal/catalog"
	"github.com/dukapos/retail-core/internal/catalog/dto"
	"github.com/dukapos/retail-core/internal/httputil"
	"github.com/dukapos/retail-core/pkg/logger"
)

type CatalogHandler struct {
	uc     catalog.UseCase
	logger logger.Logger
}

func NewCatalogHandler(uc catalog.UseCase, log logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CatalogHandler) MapRoutes(g *echo.Group) {
	g.POST("/stores", h.CreateStore)
	g.GET("/stores", h.ListStores)
	g.GET("/stores/:id", h.GetStore)

	g.POST("/categories", h.CreateCategory)
	g.GET("/categories", h.ListCategories)

	g.POST("/products", h.CreateProduct)
	g.PUT("/products/:id", h.UpdateProduct)
	g.GET("/products/:id", h.GetProduct)
	g.GET("/products", h.ListProducts)
	g.GET("/products/search", h.SearchProducts)
}

type createStoreRequest struct {
	Name             string `json:"name"`
	Address          string `json:"address"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	TaxID            string `json:"tax_id"`
	ReturnWindowDays int    `json:"return_window_days"`
}

func (h *CatalogHandler) CreateStore(c echo.Context) error {
	caller, ok := httputil.Caller(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}

	var req createStoreRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	store, err := h.uc.CreateStore(c.Request().Context(), &dto.CreateStoreInput{
		Actor:            caller,
		Name:             req.Name,
		Address:          req.Address,
		Phone:            req.Phone,
		Email:            req.Email,
		TaxID:            req.TaxID,
		ReturnWindowDays: req.ReturnWindowDays,
	})
	if err != nil {
		return httputil.RespondError(c, err)
	}
	return c.JSON(http.StatusCreated, store)
}

func (h *CatalogHandler) GetStore(c echo.Context) error {
	store, err := h.uc.GetStore(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httputil.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, store)
}

func (h *CatalogHandler) ListStores(c echo.Context) error {
	stores, err := h.uc.ListStores(c.Request().Context())
	if err != nil {
		return httputil.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": stores})
}

type createCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *CatalogHandler) CreateCategory(c echo.Context) error {
	caller, ok := httputil.Caller(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}

	var req createCategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	category, err := h.uc.CreateCategory(c.Request().Context(), &dto.CreateCategoryInput{
		Actor:       caller,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return httputil.RespondError(c, err)
	}
	return c.JSON(http.StatusCreated, category)
}

func (h *CatalogHandler) ListCategories(c echo.Context) error {
	categories, err := h.uc.ListCategories(c.Request().Context())
	if err != nil {
		return httputil.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": categories})
}

type createProductRequest struct {
	CategoryID  string          `json:"category_id"`
	SKU         string          `json:"sku"`
	Barcode     string          `json:"barcode"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	caller, ok := httputil.Caller(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}

	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	product, err := h.uc.CreateProduct(c.Request().Context(), &dto.CreateProductInput{
		Actor:       caller,
		CategoryID:  req.CategoryID,
		SKU:         req.SKU,
		Barcode:     req.Barcode,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		return httputil.RespondError(c, err)
	}
	return c.JSON(http.StatusCreated, product)
}

type updateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	IsActive    *bool            `json:"is_active"`
}

func (h *CatalogHandler) UpdateProduct(c echo.Context) error {
	caller, ok := httputil.Caller(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}

	var req updateProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	product, err := h.uc.UpdateProduct(c.Request().Context(), &dto.UpdateProductInput{
		Actor:       caller,
		ProductID:   c.Param("id"),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return httputil.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) GetProduct(c echo.Context) error {
	product, err := h.uc.GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httputil.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) ListProducts(c echo.Context) error {
	page, pageSize := httputil.Pagination(c)
	activeOnly, _ := strconv.ParseBool(c.QueryParam("active_only"))
	f := &dto.ProductFilters{
		CategoryID: c.QueryParam("category_id"),
		Query:      c.QueryParam("q"),
		ActiveOnly: activeOnly,
		Page:       page,
		PageSize:   pageSize,
	}

	items, total, err := h.uc.ListProducts(c.Request().Context(), f)
	if err != nil {
		return httputil.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "total": total})
}

func (h *CatalogHandler) SearchProducts(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing query parameter q"})
	}
	_, pageSize := httputil.Pagination(c)

	docs, err := h.uc.SearchProducts(c.Request().Context(), query, pageSize)
	if err != nil {
		return httputil.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": docs})
}
