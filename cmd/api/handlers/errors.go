package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/noteful/api/common/apperr"
	"github.com/noteful/api/common/logger"
	"github.com/noteful/api/common/validation"
)

// HTTPErrorHandler is the single boundary that maps error kinds to
// transport status codes. Handlers and services return classified
// errors; nothing below this layer writes a status.
func HTTPErrorHandler(log *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		// Registration validation failures carry their own 422 contract
		var fieldErr *validation.FieldError
		if errors.As(err, &fieldErr) {
			_ = c.JSON(http.StatusUnprocessableEntity, fieldErr)
			return
		}

		// Echo's own errors: unmatched routes, method not allowed
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			_ = c.JSON(httpErr.Code, map[string]string{
				"message": fmt.Sprintf("%v", httpErr.Message),
			})
			return
		}

		kind := apperr.KindOf(err)
		status := kind.HTTPStatus()

		if status == http.StatusInternalServerError {
			// Never leak internal detail to the client
			log.Error("unhandled error",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"error", err,
			)
			_ = c.JSON(status, map[string]string{"message": "Internal Server Error"})
			return
		}

		_ = c.JSON(status, map[string]string{
			"message": apperr.MessageOf(err, "Internal Server Error"),
		})
	}
}
