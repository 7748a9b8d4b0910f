package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/kasereka12/BudgetTracer/internal/controller"
	"github.com/kasereka12/BudgetTracer/internal/core"
	"github.com/kasereka12/BudgetTracer/internal/store"
	"github.com/kasereka12/BudgetTracer/internal/views"
)

// sanitizeInput removes control characters other than tab, newline and
// carriage return, and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

var validationErrors = []error{
	core.ErrInvalidAmount, core.ErrEmptyDescription, core.ErrEmptyName, core.ErrEmptyTitle,
	core.ErrInvalidPeriod, core.ErrInvalidCategory, core.ErrInvalidPriority, core.ErrInvalidStatus,
	core.ErrInvalidMealType, core.ErrNegativeNutrient, core.ErrInvalidDay, core.ErrInvalidMonth,
	core.ErrEmptyEmail,
}

// statusFor maps an operation error to its HTTP status.
func statusFor(err error) int {
	var invalid *controller.InvalidError
	switch {
	case errors.Is(err, controller.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, controller.ErrNotConfirmed):
		return http.StatusPreconditionRequired
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &invalid):
		return http.StatusUnprocessableEntity
	case errors.Is(err, views.ErrAvatarsDisabled):
		return http.StatusNotImplemented
	}
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return http.StatusUnprocessableEntity
		}
	}
	return http.StatusInternalServerError
}

// publicMessage is the error text safe to return to the client.
func publicMessage(status int, err error) string {
	switch status {
	case http.StatusUnauthorized:
		return "authentication required"
	case http.StatusPreconditionRequired:
		return "confirmation required"
	case http.StatusNotFound:
		return "not found"
	case http.StatusUnprocessableEntity, http.StatusNotImplemented:
		return err.Error()
	}
	return "internal error"
}
