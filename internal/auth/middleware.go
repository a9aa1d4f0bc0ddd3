package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dukapos/retail-core/internal/model"
	"github.com/dukapos/retail-core/pkg/jwtutil"
	"github.com/dukapos/retail-core/pkg/logger"
)

// JWTMiddleware validates the bearer token and puts the caller identity
// on the request context. Token issuing lives in the auth service, not
// here.
func JWTMiddleware(secret string, log logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
			}

			claims, err := jwtutil.ValidateToken(parts[1], secret)
			if err != nil {
				log.Warn("invalid JWT token", zap.Error(err))
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			role := model.Role(claims.Role)
			if !role.Valid() {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "unknown role"})
			}

			uc := UserContext{
				UserID:  claims.UserID,
				Role:    role,
				StoreID: claims.StoreID,
			}

			ctx := WithUserContext(c.Request().Context(), uc)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
