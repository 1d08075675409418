package webapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/hackos/hackd/pkg/engine"
)

// toHTTPError maps the engine taxonomy onto HTTP statuses. Gate refusals are
// 403s rather than 500s: the client should have pre-checked, the server
// re-checks and refuses.
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, engine.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, engine.ErrNotReady),
		errors.Is(err, engine.ErrFrozen),
		errors.Is(err, engine.ErrBanned),
		errors.Is(err, engine.ErrAlreadySubmitted):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, engine.ErrLivenessCheck):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, engine.ErrNoWizard):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
