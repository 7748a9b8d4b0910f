package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func signToken(t *testing.T, method jwt.SigningMethod, secret, sub string, exp time.Time) string {
	t.Helper()
	claims := Claims{
		Email:        sub + "@example.com",
		UserMetadata: UserMetadata{FullName: "Test " + sub},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestProvider_Verify(t *testing.T) {
	p := NewProvider(testSecret, 100)
	hour := time.Now().Add(time.Hour)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"valid", signToken(t, jwt.SigningMethodHS256, testSecret, "u1", hour), nil},
		{"empty", "", ErrNoToken},
		{"garbage", "not-a-jwt", ErrInvalidToken},
		{"wrong secret", signToken(t, jwt.SigningMethodHS256, "another-secret-another-secret-xx", "u1", hour), ErrInvalidToken},
		{"wrong algorithm", signToken(t, jwt.SigningMethodHS512, testSecret, "u1", hour), ErrInvalidToken},
		{"expired", signToken(t, jwt.SigningMethodHS256, testSecret, "u1", time.Now().Add(-time.Minute)), ErrInvalidToken},
		{"missing subject", signToken(t, jwt.SigningMethodHS256, testSecret, "", hour), ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := p.Verify(tt.token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, Identity{ID: "u1", Email: "u1@example.com", FullName: "Test u1"}, id)
		})
	}
}

func TestProvider_SignOutRevokes(t *testing.T) {
	p := NewProvider(testSecret, 100)
	token := signToken(t, jwt.SigningMethodHS256, testSecret, "u1", time.Now().Add(time.Hour))

	var events []Event
	unsubscribe := p.Subscribe(func(e Event) { events = append(events, e) })

	_, err := p.Verify(token)
	require.NoError(t, err)
	_, err = p.Verify(token)
	require.NoError(t, err)

	require.NoError(t, p.SignOut(context.Background(), token))
	_, err = p.Verify(token)
	assert.ErrorIs(t, err, ErrRevoked)

	require.NoError(t, p.SignOut(context.Background(), token), "second sign-out is a no-op")
	require.NoError(t, p.SignOut(context.Background(), "garbage"))

	require.Len(t, events, 2)
	assert.Equal(t, SignedIn, events[0].Kind)
	assert.Equal(t, SignedOut, events[1].Kind)
	assert.Equal(t, "u1", events[1].Identity.ID)

	unsubscribe()
	other := signToken(t, jwt.SigningMethodHS256, testSecret, "u2", time.Now().Add(time.Hour))
	_, err = p.Verify(other)
	require.NoError(t, err)
	assert.Len(t, events, 2, "unsubscribed listener must not be called")
}

func TestProvider_RevocationsOutliveSessionLimit(t *testing.T) {
	p := NewProvider(testSecret, 2)
	exp := time.Now().Add(time.Hour)
	first := signToken(t, jwt.SigningMethodHS256, testSecret, "first", exp)
	require.NoError(t, p.SignOut(context.Background(), first))

	for _, sub := range []string{"u1", "u2", "u3", "u4"} {
		require.NoError(t, p.SignOut(context.Background(), signToken(t, jwt.SigningMethodHS256, testSecret, sub, exp)))
	}

	_, err := p.Verify(first)
	assert.ErrorIs(t, err, ErrRevoked)
}

func TestTokenFromRequest(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(r *http.Request)
		want    string
		wantErr bool
	}{
		{"bearer header", func(r *http.Request) { r.Header.Set("Authorization", "Bearer abc") }, "abc", false},
		{"lowercase bearer", func(r *http.Request) { r.Header.Set("Authorization", "bearer abc") }, "abc", false},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: CookieName, Value: "xyz"}) }, "xyz", false},
		{"basic auth", func(r *http.Request) { r.Header.Set("Authorization", "Basic abc") }, "", true},
		{"empty bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer ") }, "", true},
		{"nothing", func(*http.Request) {}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(r)
			got, err := TokenFromRequest(r)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNoToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMiddlewareAndRequireUser(t *testing.T) {
	p := NewProvider(testSecret, 100)
	var seen Identity
	protected := p.Middleware(RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = p.CurrentUser(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})))

	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/budgets", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"authentication required"}`, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/api/budgets", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, jwt.SigningMethodHS256, testSecret, "u1", time.Now().Add(time.Hour)))
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "u1", seen.ID)
}

func TestFromContext_EmptyIdentity(t *testing.T) {
	_, ok := FromContext(WithIdentity(context.Background(), Identity{}))
	assert.False(t, ok)
}
