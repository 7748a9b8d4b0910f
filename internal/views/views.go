// Package views assembles one page per domain from the shared form and list
// controllers, adding each domain's filters, status transitions and
// summaries. Pages are cheap and built per request around that request's
// Feedback.
package views

import (
	"errors"

	"github.com/kasereka12/BudgetTracer/internal/controller"
	"github.com/kasereka12/BudgetTracer/internal/forms"
	"github.com/kasereka12/BudgetTracer/internal/services"
)

// Deps are the collaborators every page needs.
type Deps struct {
	Services *services.Registry
	Session  controller.Session
	Feedback controller.Feedback
	Today    forms.Clock
}

func (d Deps) today() forms.Clock {
	if d.Today == nil {
		return forms.Today
	}
	return d.Today
}

// ErrAvatarsDisabled is returned by UploadAvatar when no AvatarStore is configured.
var ErrAvatarsDisabled = errors.New("avatar uploads disabled")
