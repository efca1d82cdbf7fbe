// Package handler contains the HTTP handlers for the application.
package handler

import (
	"net/http"

	"blogsphere/internal/delivery/http/middleware"
	"blogsphere/internal/delivery/http/response"
	domainerrors "blogsphere/internal/domain/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}

// parseUUID reads a path parameter as a UUID. A malformed ID names nothing, so it
// is reported with notFound.
func parseUUID(c echo.Context, name string, notFound error) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, notFound
	}

	return id, nil
}

// currentUserID returns the ID the auth middleware stored. Handlers behind the gate
// always have one; its absence is a wiring bug reported as 401.
func currentUserID(c echo.Context) (uuid.UUID, error) {
	id, ok := middleware.CurrentUserID(c)
	if !ok {
		return uuid.Nil, errors.WithStack(domainerrors.ErrUnauthorized)
	}

	return id, nil
}
