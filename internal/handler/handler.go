// Package handler holds the thin JSON controllers. Core decisions
// live in internal/service; handlers bind requests, resolve the
// caller's dealer identity and translate error kinds to statuses.
package handler

import (
	"net/http"
	"strconv"

	"dealer-service/internal/apperr"

	"github.com/labstack/echo/v4"
)

// httpStatus maps an error kind to its response status.
func httpStatus(err error) int {
	switch apperr.KindOf(err) {
	case apperr.Validation:
		return http.StatusBadRequest
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Conflict:
		return http.StatusConflict
	case apperr.InsufficientStock:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func errorJSON(c echo.Context, err error) error {
	return c.JSON(httpStatus(err), echo.Map{"error": err.Error()})
}

func parseUintParam(c echo.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, apperr.Validationf("invalid %s", name)
	}
	return uint(v), nil
}

// optionalUintQuery returns nil when the query parameter is absent.
func optionalUintQuery(c echo.Context, name string) (*uint, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, apperr.Validationf("invalid %s", name)
	}
	u := uint(v)
	return &u, nil
}
