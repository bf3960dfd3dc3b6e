package middleware

import (
	"net/http"
	"shopSense/pkg/logger"

	jsonres "shopSense/pkg/response"

	"github.com/labstack/echo/v4"
)

// ErrorHandler converts unhandled errors into the standard JSON envelope.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Internal server error"

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		} else {
			message = http.StatusText(code)
		}
	}

	if code >= http.StatusInternalServerError {
		logger.Error("Unhandled request error",
			"method", c.Request().Method,
			"path", c.Path(),
			"error", err,
		)
	}

	if jsonErr := c.JSON(code, jsonres.Error(
		http.StatusText(code), message, nil,
	)); jsonErr != nil {
		logger.Error("Failed to write error response", "error", jsonErr)
	}
}
