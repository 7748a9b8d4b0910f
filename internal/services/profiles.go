package services

import (
	"context"
	"fmt"
	"time"

	"github.com/kasereka12/BudgetTracer/internal/core"
	"github.com/kasereka12/BudgetTracer/internal/store"
)

type Profiles struct {
	store  store.Client
	events events
	now    func() time.Time
}

func profileFromRow(r store.Row) core.Profile {
	return core.Profile{
		ID:        asString(r[store.ColumnID]),
		Email:     asString(r["email"]),
		FullName:  asString(r["full_name"]),
		AvatarURL: asString(r["avatar_url"]),
		UpdatedAt: asTime(r["updated_at"]),
	}
}

// Get returns the profile of userID, or nil when none has been saved.
func (s *Profiles) Get(ctx context.Context, userID string) (*core.Profile, error) {
	rows, err := s.store.List(ctx, store.Profiles, userID, store.Query{Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	p := profileFromRow(rows[0])
	return &p, nil
}

// Save creates or replaces the profile keyed by its id. The stored email of
// an existing profile is kept.
func (s *Profiles) Save(ctx context.Context, p core.Profile) (core.Profile, error) {
	existing, err := s.Get(ctx, p.ID)
	if err != nil {
		return core.Profile{}, err
	}
	if existing != nil && existing.Email != "" {
		p.Email = existing.Email
	}
	if err := p.Validate(); err != nil {
		return core.Profile{}, err
	}

	row, err := s.store.Upsert(ctx, store.Profiles, store.Row{
		store.ColumnID: p.ID,
		"email":        p.Email,
		"full_name":    p.FullName,
		"avatar_url":   p.AvatarURL,
		"updated_at":   s.now().UTC().Format(store.TimestampLayout),
	}, store.ColumnID)
	if err != nil {
		return core.Profile{}, fmt.Errorf("save profile: %w", err)
	}
	out := profileFromRow(row)
	s.events.saved(ctx, store.Profiles, out.ID, out.ID)
	return out, nil
}
