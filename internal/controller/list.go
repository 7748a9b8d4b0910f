package controller

import (
	"context"
	"fmt"
	"log/slog"
)

// Predicate selects records for the visible list.
type Predicate[R any] func(R) bool

// List holds the fetched records of one owner and the filtered view over them.
type List[R any] struct {
	Items   []R
	Visible []R
	Loading bool

	noun     string
	repo     Repository[R]
	idOf     func(R) string
	session  Session
	feedback Feedback
	filters  []Predicate[R]
}

func NewList[R any](noun string, repo Repository[R], idOf func(R) string, session Session, feedback Feedback) *List[R] {
	return &List[R]{
		noun:     noun,
		repo:     repo,
		idOf:     idOf,
		session:  session,
		feedback: feedback,
	}
}

// Refresh refetches every record of the current owner and reapplies the filters.
// A failed fetch notifies the user and keeps the previous records.
func (l *List[R]) Refresh(ctx context.Context) error {
	ownerID, err := owner(ctx, l.session)
	if err != nil {
		return err
	}

	l.Loading = true
	items, err := l.repo.List(ctx, ownerID)
	l.Loading = false
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load records", "noun", l.noun, "error", err)
		l.feedback.Notify(ctx, KindError, fmt.Sprintf("Could not load %ss", l.noun))
		return err
	}

	l.Items = items
	l.Visible = l.filter()
	return nil
}

// ApplyFilters replaces the active predicates and recomputes Visible from
// the fetched records. Every predicate must pass. It never refetches.
func (l *List[R]) ApplyFilters(preds ...Predicate[R]) []R {
	l.filters = preds
	l.Visible = l.filter()
	return l.Visible
}

func (l *List[R]) filter() []R {
	out := make([]R, 0, len(l.Items))
next:
	for _, it := range l.Items {
		for _, p := range l.filters {
			if p != nil && !p(it) {
				continue next
			}
		}
		out = append(out, it)
	}
	return out
}

// Find returns the fetched record with id.
func (l *List[R]) Find(id string) (R, bool) {
	for _, it := range l.Items {
		if l.idOf(it) == id {
			return it, true
		}
	}
	var zero R
	return zero, false
}

// Remove deletes id after the user confirms, then refreshes.
func (l *List[R]) Remove(ctx context.Context, id string) error {
	ownerID, err := owner(ctx, l.session)
	if err != nil {
		return err
	}
	if !l.feedback.Confirm(ctx, fmt.Sprintf("Delete this %s?", l.noun)) {
		return ErrNotConfirmed
	}

	if err := l.repo.Delete(ctx, ownerID, id); err != nil {
		slog.ErrorContext(ctx, "Failed to delete record", "noun", l.noun, "id", id, "error", err)
		l.feedback.Notify(ctx, KindError, fmt.Sprintf("Could not delete %s", l.noun))
		return err
	}
	l.feedback.Notify(ctx, KindSuccess, fmt.Sprintf("%s deleted", capitalize(l.noun)))
	return l.Refresh(ctx)
}

// Transition runs a single-field change for the current owner, notifies
// with success, then refreshes.
func (l *List[R]) Transition(ctx context.Context, success string, change func(ctx context.Context, ownerID string) error) error {
	ownerID, err := owner(ctx, l.session)
	if err != nil {
		return err
	}
	if err := change(ctx, ownerID); err != nil {
		slog.ErrorContext(ctx, "Failed to update record", "noun", l.noun, "error", err)
		l.feedback.Notify(ctx, KindError, fmt.Sprintf("Could not update %s: %v", l.noun, userMessage(err)))
		return err
	}
	l.feedback.Notify(ctx, KindSuccess, success)
	return l.Refresh(ctx)
}
