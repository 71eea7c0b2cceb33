package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"warden/internal/delivery/http/response"
	domainerrors "warden/internal/domain/errors"
	"warden/internal/errors"
)

// ErrorMiddleware error handling middleware
type ErrorMiddleware struct {
	logger *slog.Logger
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger: logger,
	}
}

// HandleHTTPError handles errors as Echo's HTTPErrorHandler
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		if appErr.HTTPCode() >= http.StatusInternalServerError {
			m.logUnhandled(c, err)
		}
		m.write(c, response.FromAppError(c, appErr))

		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := fmt.Sprint(httpErr.Message)
		m.write(c, response.Error(c, httpErr.Code, "HTTP_ERROR", message, ""))

		return
	}

	// Unknown errors are logged in full and answered without detail.
	m.logUnhandled(c, err)
	m.write(c, response.FromAppError(c, domainerrors.ErrInternalError))
}

func (m *ErrorMiddleware) logUnhandled(c echo.Context, err error) {
	m.logger.ErrorContext(c.Request().Context(), "Unhandled error",
		slog.Any("error", err),
		slog.String("path", c.Request().URL.Path),
		slog.String("method", c.Request().Method),
	)
}

func (m *ErrorMiddleware) write(c echo.Context, err error) {
	if err != nil {
		m.logger.Warn("Failed to write error response", slog.Any("error", err))
	}
}
