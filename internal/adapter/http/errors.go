package http

import (
	"errors"
	"net/http"

	"p2p-lending-backend/internal/domain/loan"
	"p2p-lending-backend/internal/domain/user"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// statusFor maps domain errors to HTTP codes. Unknown errors are 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, loan.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, loan.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, loan.ErrNotFound), errors.Is(err, user.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, loan.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, loan.ErrLimitExceeded), errors.Is(err, loan.ErrExceedsDue):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func respondError(c echo.Context, log *logrus.Logger, err error) error {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		log.WithError(err).WithField("path", c.Path()).Error("request failed")
		return c.JSON(code, ErrorResponse{Error: "internal error"})
	}
	return c.JSON(code, ErrorResponse{Error: err.Error()})
}

// bindAndValidate reports its own 400/422 response; callers return the
// error from the response write when ok is false.
func bindAndValidate(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}
