// Package controller holds the per-domain form and list state machines that
// every page shares. Controllers talk to the user only through Feedback and
// to storage only through a Repository.
package controller

import (
	"context"
	"errors"

	"github.com/kasereka12/BudgetTracer/internal/auth"
)

// Kind classifies a notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// Feedback is the user-facing prompt and toast capability.
type Feedback interface {
	Confirm(ctx context.Context, message string) bool
	Notify(ctx context.Context, kind Kind, message string)
}

// Session reports who is signed in.
type Session interface {
	CurrentUser(ctx context.Context) (auth.Identity, bool)
}

var (
	// ErrUnauthenticated aborts an operation without notifying the user.
	ErrUnauthenticated = auth.ErrUnauthenticated
	// ErrNotConfirmed is returned when the user declines a confirmation.
	ErrNotConfirmed = errors.New("not confirmed")
)

// InvalidError reports a draft that could not become a record.
type InvalidError struct {
	Noun string
	Err  error
}

func (e *InvalidError) Error() string { return "invalid " + e.Noun + ": " + e.Err.Error() }

func (e *InvalidError) Unwrap() error { return e.Err }

// Repository is the owner-scoped storage of one record type.
type Repository[R any] interface {
	List(ctx context.Context, ownerID string) ([]R, error)
	Create(ctx context.Context, ownerID string, r R) (R, error)
	Update(ctx context.Context, ownerID, id string, r R) (R, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// Mapper converts between stored records and editable drafts.
// ToRecord is the only place draft text becomes typed values.
type Mapper[R, D any] interface {
	Blank() D
	FromRecord(r R) D
	ToRecord(d D) (R, error)
	ID(r R) string
}

// Page is the pair of controllers behind one domain view.
type Page[R, D any] struct {
	Form *Form[R, D]
	List *List[R]
}

// NewPage wires a form whose successful submits refresh the list.
func NewPage[R, D any](noun string, repo Repository[R], mapper Mapper[R, D], session Session, feedback Feedback) *Page[R, D] {
	list := NewList[R](noun, repo, mapper.ID, session, feedback)
	form := NewForm[R, D](noun, repo, mapper, session, feedback, list.Refresh)
	return &Page[R, D]{Form: form, List: list}
}

func owner(ctx context.Context, s Session) (string, error) {
	id, ok := s.CurrentUser(ctx)
	if !ok || id.ID == "" {
		return "", ErrUnauthenticated
	}
	return id.ID, nil
}
