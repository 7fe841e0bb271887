package middleware

import (
	"fmt"
	"net/http"

	"gachaVault/pkg/logger"
	jsonres "gachaVault/pkg/response"

	"github.com/labstack/echo/v4"
)

// ErrorHandler is the echo-level catch-all for errors no handler turned into
// a response itself.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Internal server error"

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		message = fmt.Sprintf("%v", he.Message)
	}

	logger.Error("HTTP error",
		"method", c.Request().Method,
		"path", c.Path(),
		"status", code,
		"error", err,
	)

	if err := c.JSON(code, jsonres.Error(http.StatusText(code), message, nil)); err != nil {
		logger.Error("Failed to write error response", err)
	}
}
