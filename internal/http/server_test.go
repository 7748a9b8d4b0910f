package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kasereka12/BudgetTracer/internal/auth"
	"github.com/kasereka12/BudgetTracer/internal/core"
	"github.com/kasereka12/BudgetTracer/internal/services"
	"github.com/kasereka12/BudgetTracer/internal/store"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var testToday = core.NewDate(2024, 3, 15)

type downStore struct{}

func (downStore) Ping(context.Context) error { return errors.New("connection refused") }

type fakeAvatars struct{ got []byte }

func (f *fakeAvatars) Upload(_ context.Context, ownerID, contentType string, body io.Reader) (string, error) {
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.got = b
	return "https://cdn.example.com/avatars/" + ownerID + "/a.png", nil
}

type testEnv struct {
	srv     *Server
	avatars *fakeAvatars
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	mem := store.NewMemory()
	env := &testEnv{avatars: &fakeAvatars{}}
	env.srv = NewServer(Options{
		Addr:     ":0",
		Services: services.New(mem, nil),
		Store:    mem,
		Auth:     auth.NewProvider(testSecret, 100),
		Avatars:  env.avatars,
		Today:    func() core.Date { return testToday },
	})
	t.Cleanup(func() { _ = env.srv.Shutdown(context.Background()) })
	return env
}

func token(t *testing.T, sub string) string {
	t.Helper()
	claims := auth.Claims{
		Email:        sub + "@example.com",
		UserMetadata: auth.UserMetadata{FullName: "Test " + sub},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

// do sends a request as user; an empty user sends no token.
func (e *testEnv) do(t *testing.T, user, method, target, body string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if strings.HasPrefix(body, "{") {
		req.Header.Set("Content-Type", "application/json")
	} else if body != "" {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if user != "" {
		req.Header.Set("Authorization", "Bearer "+token(t, user))
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rr := httptest.NewRecorder()
	e.srv.Handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return v
}

func TestHealthAndReady(t *testing.T) {
	env := newTestEnv(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		rr := env.do(t, "", http.MethodGet, path, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
	if rr := env.do(t, "", http.MethodGet, "/healthz", ""); rr.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestReady_StoreDown(t *testing.T) {
	srv := NewServer(Options{Services: services.New(store.NewMemory(), nil), Store: downStore{}, Auth: auth.NewProvider(testSecret, 10)})
	defer srv.Shutdown(context.Background())

	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d, want 503", rr.Code)
	}
}

func TestAPI_RequiresAuthentication(t *testing.T) {
	env := newTestEnv(t)
	for _, path := range []string{"/api/budgets", "/api/expenses", "/api/dashboard", "/api/profile"} {
		rr := env.do(t, "", http.MethodGet, path, "")
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("%s status=%d, want 401", path, rr.Code)
		}
	}
	rr := env.do(t, "", http.MethodGet, "/api/budgets", "", "Authorization", "Bearer not-a-jwt")
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("bad token status=%d, want 401", rr.Code)
	}
}

func TestSession(t *testing.T) {
	env := newTestEnv(t)

	anon := decode[sessionJSON](t, env.do(t, "", http.MethodGet, "/api/session", ""))
	if anon.Authenticated || anon.User != nil {
		t.Fatalf("anonymous session = %+v", anon)
	}

	got := decode[sessionJSON](t, env.do(t, "u1", http.MethodGet, "/api/session", ""))
	if !got.Authenticated || got.User == nil || got.User.ID != "u1" || got.User.Email != "u1@example.com" {
		t.Fatalf("session = %+v", got)
	}
}

func TestSignOut_RevokesToken(t *testing.T) {
	env := newTestEnv(t)
	tok := token(t, "u1")

	rr := env.do(t, "", http.MethodPost, "/auth/signout", "", "Authorization", "Bearer "+tok)
	if rr.Code != http.StatusOK {
		t.Fatalf("signout status=%d", rr.Code)
	}
	if !strings.Contains(rr.Header().Get("Set-Cookie"), auth.CookieName+"=;") {
		t.Errorf("cookie not cleared: %q", rr.Header().Get("Set-Cookie"))
	}
	if rr := env.do(t, "", http.MethodGet, "/api/budgets", "", "Authorization", "Bearer "+tok); rr.Code != http.StatusUnauthorized {
		t.Fatalf("revoked token status=%d, want 401", rr.Code)
	}
}

func TestBudgets_Lifecycle(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "u1", http.MethodPost, "/api/budgets", `{"name":"Groceries","amount":"400.50","period":"monthly","category":"food"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", rr.Code, rr.Body.String())
	}
	trigger := rr.Header().Get("HX-Trigger")
	for _, part := range []string{`"budgets:changed"`, `"form:reset"`, `"Budget created"`, `"type":"success"`} {
		if !strings.Contains(trigger, part) {
			t.Errorf("HX-Trigger missing %s: %s", part, trigger)
		}
	}
	created := decode[budgetsView](t, rr)
	if len(created.Items) != 1 {
		t.Fatalf("items=%d, want 1", len(created.Items))
	}
	b := created.Items[0]
	if b.Amount != "400.50" || b.StartDate != "2024-03-15" || b.EndDate != "2024-04-14" || !b.IsActive {
		t.Fatalf("created budget = %+v", b)
	}

	rr = env.do(t, "u1", http.MethodPut, "/api/budgets/"+b.ID, "amount=500")
	if rr.Code != http.StatusOK {
		t.Fatalf("update status=%d body=%s", rr.Code, rr.Body.String())
	}
	updated := decode[budgetsView](t, rr).Items[0]
	if updated.Amount != "500.00" || updated.Name != "Groceries" {
		t.Fatalf("update replaced unsent fields: %+v", updated)
	}

	rr = env.do(t, "u1", http.MethodPost, "/api/budgets/"+b.ID+"/toggle", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("toggle status=%d", rr.Code)
	}
	if decode[budgetsView](t, rr).Items[0].IsActive {
		t.Fatal("toggle left budget active")
	}
	if !strings.Contains(rr.Header().Get("HX-Trigger"), "Budget deactivated") {
		t.Errorf("toggle notification: %s", rr.Header().Get("HX-Trigger"))
	}

	rr = env.do(t, "u1", http.MethodDelete, "/api/budgets/"+b.ID, "")
	if rr.Code != http.StatusPreconditionRequired {
		t.Fatalf("unconfirmed delete status=%d, want 428", rr.Code)
	}
	if rr.Header().Get("HX-Confirm-Required") != "true" {
		t.Error("missing HX-Confirm-Required header")
	}

	rr = env.do(t, "u1", http.MethodDelete, "/api/budgets/"+b.ID, "", ConfirmHeader, "true")
	if rr.Code != http.StatusOK {
		t.Fatalf("delete status=%d", rr.Code)
	}
	if got := decode[budgetsView](t, rr); len(got.Items) != 0 {
		t.Fatalf("items after delete = %d", len(got.Items))
	}
}

func TestBudgets_InvalidAndMissing(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "u1", http.MethodPost, "/api/budgets", `{"name":"","amount":"10"}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d, want 422", rr.Code)
	}
	if !strings.Contains(rr.Header().Get("HX-Trigger"), `"type":"error"`) {
		t.Errorf("missing error notification: %s", rr.Header().Get("HX-Trigger"))
	}

	rr = env.do(t, "u1", http.MethodPost, "/api/budgets", `{"name":`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("malformed JSON status=%d, want 400", rr.Code)
	}

	rr = env.do(t, "u1", http.MethodPut, "/api/budgets/missing", "amount=5")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("missing budget status=%d, want 404", rr.Code)
	}
}

func TestBudgets_OwnerIsolation(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, "u1", http.MethodPost, "/api/budgets", `{"name":"Mine","amount":"10"}`)
	id := decode[budgetsView](t, rr).Items[0].ID

	if got := decode[budgetsView](t, env.do(t, "u2", http.MethodGet, "/api/budgets", "")); len(got.Items) != 0 {
		t.Fatalf("u2 sees %d budgets", len(got.Items))
	}
	if rr := env.do(t, "u2", http.MethodPut, "/api/budgets/"+id, "amount=99"); rr.Code != http.StatusNotFound {
		t.Fatalf("cross-owner update status=%d, want 404", rr.Code)
	}
}

func TestExpenses_CreateAndFilter(t *testing.T) {
	env := newTestEnv(t)

	for _, body := range []string{
		`{"amount":"12,50","description":"Lunch","category_id":"food"}`,
		`{"amount":"40","description":"Train ticket","category_id":"transport","date":"2024-03-10"}`,
	} {
		if rr := env.do(t, "u1", http.MethodPost, "/api/expenses", body); rr.Code != http.StatusCreated {
			t.Fatalf("create status=%d body=%s", rr.Code, rr.Body.String())
		}
	}

	all := decode[expensesView](t, env.do(t, "u1", http.MethodGet, "/api/expenses", ""))
	if all.Count != 2 || all.Total != "52.50" {
		t.Fatalf("list = %+v", all)
	}
	if all.Items[0].Date != "2024-03-15" {
		t.Errorf("blank date not defaulted to today: %s", all.Items[0].Date)
	}
	if len(all.Categories) != len(store.DefaultCategories) {
		t.Errorf("categories=%d", len(all.Categories))
	}

	food := decode[expensesView](t, env.do(t, "u1", http.MethodGet, "/api/expenses?category=food&q=lun", ""))
	if food.Count != 1 || food.Items[0].Description != "Lunch" {
		t.Fatalf("filtered = %+v", food)
	}

	if rr := env.do(t, "u1", http.MethodGet, "/api/expenses?date=15-03-2024", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("bad date filter status=%d, want 400", rr.Code)
	}
}

func TestExpenseCategories(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, "u1", http.MethodGet, "/api/expense-categories", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	if got := decode[[]categoryJSON](t, rr); len(got) != len(store.DefaultCategories) || got[0].ID != "food" {
		t.Fatalf("categories = %+v", got)
	}
}

func TestIncome_Total(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, "u1", http.MethodPost, "/api/income", `{"amount":"1500","description":"Salary","category":"salary"}`)
	rr := env.do(t, "u1", http.MethodPost, "/api/income", `{"amount":"200.25","description":"Freelance"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	if got := decode[incomesView](t, rr); len(got.Items) != 2 || got.Total != "1700.25" {
		t.Fatalf("income = %+v", got)
	}
}

func TestGoals_StatusAndProgress(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, "u1", http.MethodPost, "/api/goals", `{"title":"Emergency fund","target_amount":"1000"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", rr.Code, rr.Body.String())
	}
	g := decode[goalsView](t, rr).Items[0]
	if g.Status != "active" || g.Priority != "medium" || g.Progress == nil || *g.Progress != 0 {
		t.Fatalf("created goal = %+v", g)
	}

	rr = env.do(t, "u1", http.MethodPost, "/api/goals/"+g.ID+"/progress", "current_amount=250")
	if rr.Code != http.StatusOK {
		t.Fatalf("progress status=%d body=%s", rr.Code, rr.Body.String())
	}
	if p := decode[goalsView](t, rr).Items[0].Progress; p == nil || *p != 25 {
		t.Fatalf("progress = %v", p)
	}

	rr = env.do(t, "u1", http.MethodPost, "/api/goals/"+g.ID+"/status", "status=completed")
	got := decode[goalsView](t, rr)
	if rr.Code != http.StatusOK || got.Completed != 1 || got.Active != 0 {
		t.Fatalf("status change = %d %+v", rr.Code, got)
	}
	if !strings.Contains(rr.Header().Get("HX-Trigger"), "Goal marked as completed") {
		t.Errorf("notification: %s", rr.Header().Get("HX-Trigger"))
	}

	if rr := env.do(t, "u1", http.MethodPost, "/api/goals/"+g.ID+"/status", "status=done"); rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid status code=%d, want 422", rr.Code)
	}
	if rr := env.do(t, "u1", http.MethodPost, "/api/goals/nope/status", "status=paused"); rr.Code != http.StatusNotFound {
		t.Fatalf("missing goal code=%d, want 404", rr.Code)
	}
}

func TestMeals_ScopedToDate(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "u1", http.MethodPost, "/api/meals?date=2024-03-14", `{"name":"Oats","calories":"350","protein":"12.5","cost":"2"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", rr.Code, rr.Body.String())
	}
	day := decode[mealsView](t, rr)
	if day.Date != "2024-03-14" || len(day.Items) != 1 || day.Items[0].Type != "breakfast" {
		t.Fatalf("meals = %+v", day)
	}
	if day.Totals.Calories != 350 || day.Totals.Protein != 12.5 || day.Totals.Cost != "2.00" {
		t.Fatalf("totals = %+v", day.Totals)
	}

	today := decode[mealsView](t, env.do(t, "u1", http.MethodGet, "/api/meals", ""))
	if today.Date != "2024-03-15" || len(today.Items) != 0 {
		t.Fatalf("today = %+v", today)
	}

	rr = env.do(t, "u1", http.MethodPut, "/api/meals/"+day.Items[0].ID+"?date=2024-03-14", `{"calories":""}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("update status=%d body=%s", rr.Code, rr.Body.String())
	}
	if m := decode[mealsView](t, rr).Items[0]; m.Calories != nil || m.Name != "Oats" {
		t.Fatalf("updated meal = %+v", m)
	}
}

func TestProfile_SaveAndAvatar(t *testing.T) {
	env := newTestEnv(t)

	got := decode[profileJSON](t, env.do(t, "u1", http.MethodGet, "/api/profile", ""))
	if got.ID != "u1" || got.Email != "u1@example.com" || got.FullName != "Test u1" {
		t.Fatalf("initial profile = %+v", got)
	}

	rr := env.do(t, "u1", http.MethodPut, "/api/profile", `{"full_name":"Ada","email":"other@example.com"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("save status=%d body=%s", rr.Code, rr.Body.String())
	}
	saved := decode[profileJSON](t, rr)
	if saved.FullName != "Ada" || saved.Email != "u1@example.com" {
		t.Fatalf("saved profile = %+v", saved)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="avatar"; filename="a.png"`)
	h.Set("Content-Type", "image/png")
	part, _ := mw.CreatePart(h)
	_, _ = part.Write([]byte("png-bytes"))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/profile/avatar", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token(t, "u1"))
	rr = httptest.NewRecorder()
	env.srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("avatar status=%d body=%s", rr.Code, rr.Body.String())
	}
	withAvatar := decode[profileJSON](t, rr)
	if !strings.HasSuffix(withAvatar.AvatarURL, "/avatars/u1/a.png") || withAvatar.FullName != "Ada" {
		t.Fatalf("profile after upload = %+v", withAvatar)
	}
	if string(env.avatars.got) != "png-bytes" {
		t.Errorf("uploaded %q", env.avatars.got)
	}
}

func TestDashboard(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, "u1", http.MethodGet, "/api/dashboard", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	got := decode[dashboardJSON](t, rr)
	if got.TotalExpenses != "0.00" || got.MonthlyBudget != nil || len(got.Daily) != 7 {
		t.Fatalf("dashboard = %+v", got)
	}
}

func TestSecurityHeadersAndMethods(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, "", http.MethodGet, "/healthz", "")
	if rr.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing nosniff header")
	}
	if rr := env.do(t, "", "TRACE", "/healthz", ""); rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("TRACE status=%d, want 405", rr.Code)
	}
}
