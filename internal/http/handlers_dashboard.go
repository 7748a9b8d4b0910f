package http

import (
	"net/http"

	"github.com/kasereka12/BudgetTracer/internal/auth"
	"github.com/kasereka12/BudgetTracer/internal/controller"
	applog "github.com/kasereka12/BudgetTracer/internal/log"
)

// handleDashboard recomputes the aggregates from fresh reads on every call.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	_, fb := s.deps(r)
	id, ok := auth.FromContext(r.Context())
	if !ok {
		s.fail(w, r, fb, auth.ErrUnauthenticated)
		return
	}

	stats, err := s.dashboard.Load(r.Context(), id.ID)
	if err != nil {
		fb.Notify(r.Context(), controller.KindError, "Could not load dashboard")
		s.fail(w, r, fb, err)
		return
	}
	applog.FromContext(r.Context()).DebugContext(r.Context(), "Dashboard computed",
		applog.FieldComponent, applog.ComponentDashboard,
		"month", stats.Month,
		"budget_warning", stats.BudgetWarning,
	)
	NewHTMXResponse().JSON(toDashboardJSON(stats)).Write(w)
}
