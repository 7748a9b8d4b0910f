package http

import (
	"net/http"

	"github.com/kasereka12/BudgetTracer/internal/auth"
	"github.com/kasereka12/BudgetTracer/internal/controller"
	applog "github.com/kasereka12/BudgetTracer/internal/log"
)

type sessionJSON struct {
	Authenticated bool      `json:"authenticated"`
	User          *userJSON `json:"user,omitempty"`
}

type userJSON struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
}

// handleSession reports the identity of the request's token, if any.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	id, ok := s.auth.CurrentUser(r.Context())
	if !ok {
		NewHTMXResponse().JSON(sessionJSON{}).Write(w)
		return
	}
	NewHTMXResponse().JSON(sessionJSON{
		Authenticated: true,
		User:          &userJSON{ID: id.ID, Email: id.Email, FullName: id.FullName},
	}).Write(w)
}

// handleSignOut revokes the request's token and clears the session cookie.
// Signing out without a session succeeds.
func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	fb := newRequestFeedback(r)
	if token, err := auth.TokenFromRequest(r); err == nil {
		if err := s.auth.SignOut(r.Context(), token); err != nil {
			applog.FromContext(r.Context()).WarnContext(r.Context(), "Sign out failed",
				applog.FieldComponent, applog.ComponentAuth, "error", err)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	fb.Notify(r.Context(), controller.KindInfo, "Signed out")
	fb.apply(NewHTMXResponse().Trigger("session:changed", nil)).Write(w)
}
