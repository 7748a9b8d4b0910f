package views

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/kasereka12/BudgetTracer/internal/controller"
	"github.com/kasereka12/BudgetTracer/internal/core"
	"github.com/kasereka12/BudgetTracer/internal/forms"
	"github.com/kasereka12/BudgetTracer/internal/services"
)

// AvatarStore stores an avatar image and returns its public URL.
type AvatarStore interface {
	Upload(ctx context.Context, ownerID, contentType string, body io.Reader) (string, error)
}

// ProfilePage edits the signed-in user's single profile record.
type ProfilePage struct {
	Draft   forms.ProfileDraft
	Profile *core.Profile

	profiles *services.Profiles
	avatars  AvatarStore
	session  controller.Session
	feedback controller.Feedback
}

// NewProfilePage returns a page; avatars may be nil when uploads are disabled.
func NewProfilePage(d Deps, avatars AvatarStore) *ProfilePage {
	return &ProfilePage{
		profiles: d.Services.Profiles,
		avatars:  avatars,
		session:  d.Session,
		feedback: d.Feedback,
	}
}

// Load fills the draft from the stored profile. Without one, the name comes
// from the session and the email always does.
func (p *ProfilePage) Load(ctx context.Context) error {
	id, ok := p.session.CurrentUser(ctx)
	if !ok {
		return controller.ErrUnauthenticated
	}
	prof, err := p.profiles.Get(ctx, id.ID)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load profile", "user_id", id.ID, "error", err)
		p.feedback.Notify(ctx, controller.KindError, "Could not load profile")
		return err
	}

	p.Profile = prof
	if prof == nil {
		p.Draft = forms.ProfileDraft{Email: id.Email, FullName: id.FullName}
		return nil
	}
	p.Draft = forms.ProfileFromRecord(*prof)
	if p.Draft.Email == "" {
		p.Draft.Email = id.Email
	}
	return nil
}

// Save upserts the draft as the user's profile.
func (p *ProfilePage) Save(ctx context.Context) (core.Profile, error) {
	id, ok := p.session.CurrentUser(ctx)
	if !ok {
		return core.Profile{}, controller.ErrUnauthenticated
	}
	saved, err := p.profiles.Save(ctx, forms.ProfileToRecord(id.ID, id.Email, p.Draft))
	if err != nil {
		slog.ErrorContext(ctx, "Failed to save profile", "user_id", id.ID, "error", err)
		p.feedback.Notify(ctx, controller.KindError, fmt.Sprintf("Could not save profile: %v", err))
		return core.Profile{}, err
	}
	p.Profile = &saved
	p.Draft = forms.ProfileFromRecord(saved)
	p.feedback.Notify(ctx, controller.KindSuccess, "Profile updated")
	return saved, nil
}

// UploadAvatar stores the image and saves its URL on the profile.
func (p *ProfilePage) UploadAvatar(ctx context.Context, contentType string, body io.Reader) (core.Profile, error) {
	id, ok := p.session.CurrentUser(ctx)
	if !ok {
		return core.Profile{}, controller.ErrUnauthenticated
	}
	if p.avatars == nil {
		p.feedback.Notify(ctx, controller.KindError, "Avatar uploads are not enabled")
		return core.Profile{}, ErrAvatarsDisabled
	}
	if err := p.Load(ctx); err != nil {
		return core.Profile{}, err
	}

	url, err := p.avatars.Upload(ctx, id.ID, contentType, body)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to upload avatar", "user_id", id.ID, "error", err)
		p.feedback.Notify(ctx, controller.KindError, "Could not upload avatar")
		return core.Profile{}, err
	}
	p.Draft.AvatarURL = url
	return p.Save(ctx)
}
