package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/kasereka12/BudgetTracer/internal/auth"
	"github.com/kasereka12/BudgetTracer/internal/controller"
	"github.com/kasereka12/BudgetTracer/internal/forms"
	"github.com/kasereka12/BudgetTracer/internal/views"
)

// maxAvatarBytes bounds an uploaded avatar image.
const maxAvatarBytes = 5 << 20

var errNotImage = errors.New("avatar must be an image")

func profileView(r *http.Request, p *views.ProfilePage) profileJSON {
	out := profileJSON{
		Email:     p.Draft.Email,
		FullName:  p.Draft.FullName,
		AvatarURL: p.Draft.AvatarURL,
	}
	if id, ok := auth.FromContext(r.Context()); ok {
		out.ID = id.ID
	}
	if p.Profile != nil && !p.Profile.UpdatedAt.IsZero() {
		updated := p.Profile.UpdatedAt
		out.UpdatedAt = &updated
	}
	return out
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	deps, fb := s.deps(r)
	p := views.NewProfilePage(deps, s.avatars)
	if err := p.Load(r.Context()); err != nil {
		s.fail(w, r, fb, err)
		return
	}
	fb.apply(NewHTMXResponse().JSON(profileView(r, p))).Write(w)
}

// handleSaveProfile updates the submitted fields of the profile. The email
// always comes from the identity.
func (s *Server) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	deps, fb := s.deps(r)
	p := views.NewProfilePage(deps, s.avatars)
	ctx := r.Context()

	body, err := parseBody(r)
	if err == nil {
		err = p.Load(ctx)
	}
	if err == nil {
		var values draftValues
		values, err = overDraft(body, p.Draft)
		if err == nil {
			email := p.Draft.Email
			p.Draft = forms.ProfileDraftFrom(values)
			p.Draft.Email = email
			_, err = p.Save(ctx)
		}
	}
	if err != nil {
		s.fail(w, r, fb, err)
		return
	}
	fb.apply(NewHTMXResponse().TriggerRecordsChanged("profiles").JSON(profileView(r, p))).Write(w)
}

// handleUploadAvatar stores the "avatar" file of a multipart body and saves
// its URL on the profile.
func (s *Server) handleUploadAvatar(w http.ResponseWriter, r *http.Request) {
	deps, fb := s.deps(r)
	p := views.NewProfilePage(deps, s.avatars)

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarBytes)
	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		s.fail(w, r, fb, badRequest("avatar must be a multipart upload under 5 MiB"))
		return
	}
	file, header, err := r.FormFile("avatar")
	if err != nil {
		s.fail(w, r, fb, badRequest("missing avatar file"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		s.fail(w, r, fb, &controller.InvalidError{Noun: "avatar", Err: errNotImage})
		return
	}

	if _, err := p.UploadAvatar(r.Context(), contentType, file); err != nil {
		s.fail(w, r, fb, err)
		return
	}
	fb.apply(NewHTMXResponse().TriggerRecordsChanged("profiles").JSON(profileView(r, p))).Write(w)
}
