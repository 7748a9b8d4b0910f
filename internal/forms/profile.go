package forms

import "github.com/kasereka12/BudgetTracer/internal/core"

// ProfileDraft holds the editable profile fields. Email is shown but never
// written back.
type ProfileDraft struct {
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
}

func ProfileDraftFrom(v Values) ProfileDraft {
	return ProfileDraft{
		FullName:  field(v, "full_name"),
		AvatarURL: field(v, "avatar_url"),
	}
}

func ProfileFromRecord(p core.Profile) ProfileDraft {
	return ProfileDraft{Email: p.Email, FullName: p.FullName, AvatarURL: p.AvatarURL}
}

// ProfileToRecord builds the profile of userID. email is the identity's
// address, used only when no profile exists yet.
func ProfileToRecord(userID, email string, d ProfileDraft) core.Profile {
	return core.Profile{
		ID:        userID,
		Email:     email,
		FullName:  d.FullName,
		AvatarURL: d.AvatarURL,
	}
}
