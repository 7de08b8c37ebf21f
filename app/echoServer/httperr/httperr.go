// Package httperr renders the uniform error envelope every failing
// response carries: timestamp, status, error label, message, path.
package httperr

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Body struct {
	Timestamp time.Time         `json:"timestamp"`
	Status    int               `json:"status"`
	Error     string            `json:"error"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
	Path      string            `json:"path"`
}

func JSON(c echo.Context, status int, message string) error {
	return c.JSON(status, Body{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
		Path:      c.Request().URL.Path,
	})
}

// Validation renders a 400 with one entry per failed field.
func Validation(c echo.Context, err error) error {
	details := map[string]string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			details[fe.Field()] = fe.Tag()
		}
	}
	return c.JSON(http.StatusBadRequest, Body{
		Timestamp: time.Now().UTC(),
		Status:    http.StatusBadRequest,
		Error:     "Validation failed",
		Message:   "invalid request payload",
		Details:   details,
		Path:      c.Request().URL.Path,
	})
}
