package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/kasereka12/BudgetTracer/internal/controller"
)

// ConfirmHeader is set by hx-confirm on the client once the user agreed.
const ConfirmHeader = "X-Confirm"

type notification struct {
	kind    controller.Kind
	message string
}

// requestFeedback is the Feedback of one request: confirmation comes from
// the request itself and notifications are collected for the response.
type requestFeedback struct {
	confirmed bool
	notes     []notification
}

var _ controller.Feedback = (*requestFeedback)(nil)

func newRequestFeedback(r *http.Request) *requestFeedback {
	return &requestFeedback{confirmed: confirmed(r)}
}

func confirmed(r *http.Request) bool {
	if v, err := strconv.ParseBool(strings.TrimSpace(r.Header.Get(ConfirmHeader))); err == nil && v {
		return true
	}
	v, err := strconv.ParseBool(r.URL.Query().Get("confirm"))
	return err == nil && v
}

func (f *requestFeedback) Confirm(context.Context, string) bool {
	return f.confirmed
}

func (f *requestFeedback) Notify(_ context.Context, kind controller.Kind, message string) {
	f.notes = append(f.notes, notification{kind: kind, message: message})
}

// apply attaches the latest notification to b. An error notification wins
// over later success ones.
func (f *requestFeedback) apply(b *HTMXResponseBuilder) *HTMXResponseBuilder {
	if len(f.notes) == 0 {
		return b
	}
	n := f.notes[len(f.notes)-1]
	for _, candidate := range f.notes {
		if candidate.kind == controller.KindError {
			n = candidate
		}
	}
	switch n.kind {
	case controller.KindSuccess:
		return b.TriggerSuccessNotification(n.message)
	case controller.KindError:
		return b.TriggerErrorNotification(n.message)
	default:
		return b.TriggerNotification(NotificationInfo, n.message, 3000)
	}
}
