package http

import (
	"context"
	"net/http"

	"github.com/kasereka12/BudgetTracer/internal/controller"
	"github.com/kasereka12/BudgetTracer/internal/core"
	"github.com/kasereka12/BudgetTracer/internal/forms"
	"github.com/kasereka12/BudgetTracer/internal/views"
)

type goalsView struct {
	Items     []goalJSON `json:"items"`
	Active    int        `json:"active"`
	Completed int        `json:"completed"`
}

func goalResource(p *views.GoalPage) resource[core.Goal, forms.GoalDraft] {
	return resource[core.Goal, forms.GoalDraft]{
		collection: "goals",
		page:       p.Page,
		draftFrom:  forms.GoalDraftFrom,
		render: func() any {
			active, completed := p.Counts()
			return goalsView{Items: mapSlice(p.List.Visible, toGoalJSON), Active: active, Completed: completed}
		},
	}
}

func (s *Server) goals(_ *http.Request, d views.Deps) (resource[core.Goal, forms.GoalDraft], error) {
	return goalResource(views.NewGoalPage(d)), nil
}

// handleGoalStatus moves a goal to the status field of the body.
func (s *Server) handleGoalStatus(w http.ResponseWriter, r *http.Request) {
	s.goalTransition(w, r, func(ctx context.Context, p *views.GoalPage, id string, body *RequestBodyParser) error {
		status := core.GoalStatus(body.Get("status"))
		if !status.Valid() {
			return &controller.InvalidError{Noun: "status", Err: core.ErrInvalidStatus}
		}
		return p.SetStatus(ctx, id, status)
	})
}

// handleGoalProgress records the current_amount field of the body.
func (s *Server) handleGoalProgress(w http.ResponseWriter, r *http.Request) {
	s.goalTransition(w, r, func(ctx context.Context, p *views.GoalPage, id string, body *RequestBodyParser) error {
		cents, err := core.ParseNonNegativeCents(body.Get("current_amount"))
		if err != nil {
			return &controller.InvalidError{Noun: "current amount", Err: err}
		}
		return p.UpdateProgress(ctx, id, core.Money{Cents: cents})
	})
}

func (s *Server) goalTransition(w http.ResponseWriter, r *http.Request, change func(context.Context, *views.GoalPage, string, *RequestBodyParser) error) {
	deps, fb := s.deps(r)
	p := views.NewGoalPage(deps)
	res := goalResource(p)
	ctx := r.Context()

	body, err := parseBody(r)
	if err == nil {
		_, err = find(ctx, res, r.PathValue("id"))
	}
	if err == nil {
		err = change(ctx, p, r.PathValue("id"), body)
	}
	if err != nil {
		s.fail(w, r, fb, err)
		return
	}
	s.writeView(w, r, fb, http.StatusOK, res)
}
