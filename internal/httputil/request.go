package httputil

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/dukapos/retail-core/internal/auth"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Caller returns the authenticated identity attached by the JWT
// middleware. The boolean is false only if a route was registered
// without that middleware.
func Caller(c echo.Context) (auth.UserContext, bool) {
	return auth.FromContext(c.Request().Context())
}

// ClientIP returns the request origin for audit trails.
func ClientIP(c echo.Context) *string {
	ip := c.RealIP()
	if ip == "" {
		return nil
	}
	return &ip
}

// Pagination reads page/page_size query params with sane bounds.
func Pagination(c echo.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.QueryParam("page_size"))
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}
