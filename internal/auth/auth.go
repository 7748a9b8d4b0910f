// Package auth is the session provider. It verifies the access tokens issued
// by the hosted auth service, exposes the current identity to handlers and
// broadcasts sign-in and sign-out events.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kasereka12/BudgetTracer/internal/cache"
)

// CookieName is the cookie the browser client stores its access token in.
const CookieName = "sb-access-token"

var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrNoToken         = errors.New("no access token")
	ErrInvalidToken    = errors.New("invalid access token")
	ErrRevoked         = errors.New("access token revoked")
)

// Identity is the signed-in user.
type Identity struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
}

// Claims mirrors the access token payload of the hosted auth service.
type Claims struct {
	Email        string       `json:"email"`
	UserMetadata UserMetadata `json:"user_metadata"`
	jwt.RegisteredClaims
}

type UserMetadata struct {
	FullName string `json:"full_name,omitempty"`
}

type EventKind int

const (
	SignedIn EventKind = iota + 1
	SignedOut
)

func (k EventKind) String() string {
	switch k {
	case SignedIn:
		return "signed_in"
	case SignedOut:
		return "signed_out"
	}
	return "unknown"
}

// Event is delivered to subscribers when a session starts or ends.
type Event struct {
	Kind     EventKind
	Identity Identity
}

type session struct {
	identity  Identity
	expiresAt time.Time
}

// Provider verifies HS256 tokens and tracks sessions.
type Provider struct {
	secret   []byte
	revoked  cache.Cache[struct{}]
	sessions cache.Cache[session]
	now      func() time.Time

	mu        sync.RWMutex
	listeners map[int]func(Event)
	nextID    int
}

// NewProvider verifies tokens signed with secret. Live sessions are
// remembered until their token expires, up to maxSessions. Revoked tokens
// are remembered until they expire with no size limit.
func NewProvider(secret string, maxSessions int) *Provider {
	return &Provider{
		secret:    []byte(secret),
		revoked:   cache.NewLRUCache[struct{}](0, time.Hour),
		sessions:  cache.NewLRUCache[session](maxSessions, time.Hour),
		now:       time.Now,
		listeners: make(map[int]func(Event)),
	}
}

// Caches returns the provider's caches for periodic cleanup.
func (p *Provider) Caches() []cache.Cleaner {
	var out []cache.Cleaner
	for _, c := range []any{p.revoked, p.sessions} {
		if cl, ok := c.(cache.Cleaner); ok {
			out = append(out, cl)
		}
	}
	return out
}

// Verify checks the token signature, expiry and revocation and returns its identity.
// The first successful verification of a token emits SignedIn.
func (p *Provider) Verify(token string) (Identity, error) {
	id, _, fresh, err := p.verify(token)
	if err != nil {
		return Identity{}, err
	}
	if fresh {
		p.publish(Event{Kind: SignedIn, Identity: id})
	}
	return id, nil
}

// verify reports fresh when the token was not already a known session.
func (p *Provider) verify(token string) (id Identity, exp time.Time, fresh bool, err error) {
	if token == "" {
		return Identity{}, time.Time{}, false, ErrNoToken
	}
	if _, ok := p.revoked.Get(token); ok {
		return Identity{}, time.Time{}, false, ErrRevoked
	}
	if s, ok := p.sessions.Get(token); ok && p.now().Before(s.expiresAt) {
		return s.identity, s.expiresAt, false, nil
	}

	var claims Claims
	_, err = jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		return Identity{}, time.Time{}, false, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return Identity{}, time.Time{}, false, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	id = Identity{
		ID:       claims.Subject,
		Email:    claims.Email,
		FullName: claims.UserMetadata.FullName,
	}
	exp = claims.ExpiresAt.Time
	p.sessions.SetWithTTL(token, session{identity: id, expiresAt: exp}, exp.Sub(p.now()))
	return id, exp, true, nil
}

// SignOut revokes token until it expires and notifies subscribers.
// Signing out an unknown or invalid token is not an error.
func (p *Provider) SignOut(ctx context.Context, token string) error {
	id, exp, _, err := p.verify(token)
	if err != nil {
		if errors.Is(err, ErrRevoked) || errors.Is(err, ErrNoToken) || errors.Is(err, ErrInvalidToken) {
			return nil
		}
		return err
	}
	p.sessions.Delete(token)
	p.revoked.SetWithTTL(token, struct{}{}, exp.Sub(p.now()))
	slog.InfoContext(ctx, "Session ended", "component", "auth", "user_id", id.ID)
	p.publish(Event{Kind: SignedOut, Identity: id})
	return nil
}

// Subscribe registers fn for session events and returns its cancel func.
func (p *Provider) Subscribe(fn func(Event)) (unsubscribe func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.listeners, id)
	}
}

func (p *Provider) publish(e Event) {
	p.mu.RLock()
	fns := make([]func(Event), 0, len(p.listeners))
	for _, fn := range p.listeners {
		fns = append(fns, fn)
	}
	p.mu.RUnlock()
	for _, fn := range fns {
		fn(e)
	}
}

// CurrentUser returns the identity attached to ctx by Middleware.
func (p *Provider) CurrentUser(ctx context.Context) (Identity, bool) {
	return FromContext(ctx)
}

// TokenFromRequest extracts the access token from the Authorization header,
// falling back to the session cookie.
func TokenFromRequest(r *http.Request) (string, error) {
	if h := r.Header.Get("Authorization"); h != "" {
		if !strings.HasPrefix(strings.ToLower(h), "bearer ") {
			return "", fmt.Errorf("%w: authorization header is not a bearer token", ErrNoToken)
		}
		token := strings.TrimSpace(h[len("bearer "):])
		if token == "" {
			return "", fmt.Errorf("%w: bearer presented without token", ErrNoToken)
		}
		return token, nil
	}
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value, nil
	}
	return "", ErrNoToken
}

type ctxKey struct{}

// WithIdentity returns ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the identity in ctx, if any.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok && id.ID != ""
}
