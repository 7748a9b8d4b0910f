package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Form owns one draft and submits it as a create or an update.
type Form[R, D any] struct {
	Draft     D
	EditingID string
	Open      bool

	noun     string
	repo     Repository[R]
	mapper   Mapper[R, D]
	session  Session
	feedback Feedback
	onSaved  func(context.Context) error
}

// NewForm returns a closed form. onSaved runs after every successful submit.
func NewForm[R, D any](noun string, repo Repository[R], mapper Mapper[R, D], session Session, feedback Feedback, onSaved func(context.Context) error) *Form[R, D] {
	return &Form[R, D]{
		Draft:    mapper.Blank(),
		noun:     noun,
		repo:     repo,
		mapper:   mapper,
		session:  session,
		feedback: feedback,
		onSaved:  onSaved,
	}
}

// StartCreate opens the form on a blank draft.
func (f *Form[R, D]) StartCreate() {
	f.Draft = f.mapper.Blank()
	f.EditingID = ""
	f.Open = true
}

// StartEdit opens the form on a draft populated from r.
func (f *Form[R, D]) StartEdit(r R) {
	f.Draft = f.mapper.FromRecord(r)
	f.EditingID = f.mapper.ID(r)
	f.Open = true
}

// Cancel discards the draft and closes the form.
func (f *Form[R, D]) Cancel() {
	f.Draft = f.mapper.Blank()
	f.EditingID = ""
	f.Open = false
}

// Editing reports whether a submit will update an existing record.
func (f *Form[R, D]) Editing() bool {
	return f.EditingID != ""
}

// Submit converts the draft and writes it. On failure the user is notified
// and the form stays open with its draft. Without a signed-in user it
// returns ErrUnauthenticated and does nothing else.
func (f *Form[R, D]) Submit(ctx context.Context) (R, error) {
	var zero R
	ownerID, err := owner(ctx, f.session)
	if err != nil {
		return zero, err
	}

	rec, err := f.mapper.ToRecord(f.Draft)
	if err != nil {
		f.feedback.Notify(ctx, KindError, fmt.Sprintf("Invalid %s: %v", f.noun, err))
		return zero, &InvalidError{Noun: f.noun, Err: err}
	}

	var saved R
	editing := f.Editing()
	if editing {
		saved, err = f.repo.Update(ctx, ownerID, f.EditingID, rec)
	} else {
		saved, err = f.repo.Create(ctx, ownerID, rec)
	}
	if err != nil {
		slog.ErrorContext(ctx, "Failed to save record", "noun", f.noun, "editing", editing, "error", err)
		f.feedback.Notify(ctx, KindError, fmt.Sprintf("Could not save %s: %v", f.noun, userMessage(err)))
		return zero, err
	}

	f.Cancel()
	verb := "created"
	if editing {
		verb = "updated"
	}
	f.feedback.Notify(ctx, KindSuccess, fmt.Sprintf("%s %s", capitalize(f.noun), verb))

	if f.onSaved != nil {
		if err := f.onSaved(ctx); err != nil && !errors.Is(err, ErrUnauthenticated) {
			slog.WarnContext(ctx, "Refresh after save failed", "noun", f.noun, "error", err)
		}
	}
	return saved, nil
}

func capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}

// userMessage keeps only the outermost cause of a wrapped error chain.
func userMessage(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}
