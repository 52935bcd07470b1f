package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	wmw "github.com/vinealabs/winery-system/internal/api/middleware"
	"github.com/vinealabs/winery-system/internal/core/domain"
	"github.com/vinealabs/winery-system/internal/pkg/token"
)

// ctxActor extracts the auth claims injected by the Auth middleware and
// converts them to a domain actor before any service call. A token whose
// subject is not a UUID is structurally valid but operationally unusable,
// so it gets the same 401 as any other bad token.
func ctxActor(c echo.Context) (domain.Actor, error) {
	claims, _ := c.Get(wmw.ClaimsKey).(*token.Claims)
	if claims == nil {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	userID, err := claims.UserID()
	if err != nil {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
	}

	return domain.Actor{UserID: userID, Role: claims.Role}, nil
}

// pathUUID parses a path parameter as a UUID, answering 400 on garbage.
func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// parseUUIDField parses a UUID carried in a request body field.
func parseUUIDField(value, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}
