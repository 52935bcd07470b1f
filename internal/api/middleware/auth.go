package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vinealabs/winery-system/internal/pkg/token"
)

// ClaimsKey is the echo context key under which Auth stores the decoded
// claims. The claims live for the current request only; every request
// decodes and verifies its token independently.
const ClaimsKey = "auth_claims"

// Auth validates the bearer token and injects the decoded claims into the
// request context. Signature failures and expiry are answered with the same
// message so the response never reveals which check failed.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := token.Decode(parts[1], jwtSecret)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			c.Set(ClaimsKey, claims)
			return next(c)
		}
	}
}
