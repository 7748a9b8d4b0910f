package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/kasereka12/BudgetTracer/internal/core"
	"github.com/kasereka12/BudgetTracer/internal/forms"
)

func TestParseDateParam(t *testing.T) {
	def := core.NewDate(2024, 3, 15)
	tests := []struct {
		name    string
		query   url.Values
		want    core.Date
		wantErr bool
	}{
		{"absent uses default", url.Values{}, def, false},
		{"blank uses default", url.Values{"date": {"  "}}, def, false},
		{"valid", url.Values{"date": {"2024-02-29"}}, core.NewDate(2024, 2, 29), false},
		{"wrong layout", url.Values{"date": {"29/02/2024"}}, core.Date{}, true},
		{"impossible day", url.Values{"date": {"2023-02-29"}}, core.Date{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDateParam(tt.query, "date", def)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got.String() != tt.want.String() {
				t.Errorf("date = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseExpenseFilter(t *testing.T) {
	f, err := ParseExpenseFilter(url.Values{"q": {" coffee\x00 "}, "category": {"food"}, "date": {"2024-03-01"}})
	if err != nil {
		t.Fatalf("ParseExpenseFilter() error = %v", err)
	}
	if f.Search != "coffee" || f.CategoryID != "food" || f.Date.String() != "2024-03-01" {
		t.Errorf("filter = %+v", f)
	}

	empty, err := ParseExpenseFilter(url.Values{})
	if err != nil || !empty.Date.IsZero() || empty.Search != "" {
		t.Errorf("empty filter = %+v, %v", empty, err)
	}
}

func TestRequestBodyParser_JSON(t *testing.T) {
	body := `{"id": "123", "name": "test", "amount": 42.5, "is_active": false}`
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	parser := NewRequestBodyParser(req)
	if err := parser.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if !parser.IsJSON() {
		t.Error("Expected IsJSON() to be true")
	}
	if id := parser.Get("id"); id != "123" {
		t.Errorf("Get('id') = %q, want '123'", id)
	}
	if amount := parser.Get("amount"); amount != "42.5" {
		t.Errorf("Get('amount') = %q, want '42.5'", amount)
	}
	if active := parser.Get("is_active"); active != "false" {
		t.Errorf("Get('is_active') = %q, want 'false'", active)
	}
	if !parser.Has("name") || parser.Has("missing") {
		t.Error("Has() does not reflect the body keys")
	}
}

func TestRequestBodyParser_FormData(t *testing.T) {
	body := "id=456&name=form+test&notes="
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	parser := NewRequestBodyParser(req)
	if err := parser.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if parser.IsJSON() {
		t.Error("Expected IsJSON() to be false for form data")
	}
	if name := parser.Get("name"); name != "form test" {
		t.Errorf("Get('name') = %q, want 'form test'", name)
	}
	if !parser.Has("notes") {
		t.Error("Has('notes') = false for an empty submitted field")
	}
}

func TestRequestBodyParser_EmptyBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(""))

	parser := NewRequestBodyParser(req)
	if err := parser.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if val := parser.Get("nonexistent"); val != "" {
		t.Errorf("Get('nonexistent') = %q, want empty string", val)
	}
}

func TestRequestBodyParser_Invalid(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{"name":`))
	req.Header.Set("Content-Type", "application/json")
	if err := NewRequestBodyParser(req).Parse(); err == nil {
		t.Fatal("expected error for truncated JSON")
	}

	big := strings.NewReader("name=" + strings.Repeat("a", maxBodyBytes))
	req = httptest.NewRequest(http.MethodPost, "/test", big)
	if err := NewRequestBodyParser(req).Parse(); err != errBodyTooLarge {
		t.Fatalf("Parse() error = %v, want errBodyTooLarge", err)
	}
}

func TestOverDraft(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/test", strings.NewReader(`{"amount":"99","end_date":""}`))
	body := NewRequestBodyParser(req)
	if err := body.Parse(); err != nil {
		t.Fatal(err)
	}

	draft := forms.BudgetDraft{Name: "Rent", Amount: "10.00", Period: "monthly", EndDate: "2024-04-14", IsActive: false}
	values, err := overDraft(body, draft)
	if err != nil {
		t.Fatalf("overDraft() error = %v", err)
	}
	got := forms.BudgetDraftFrom(values)
	want := forms.BudgetDraft{Name: "Rent", Amount: "99", Period: "monthly", EndDate: "", IsActive: false}
	if got != want {
		t.Errorf("draft = %+v, want %+v", got, want)
	}
}

func TestOverDraft_UncheckedCheckbox(t *testing.T) {
	draft := forms.BudgetDraft{Name: "Rent", Amount: "10.00", Period: "monthly", IsActive: true}
	tests := []struct {
		name        string
		contentType string
		body        string
		want        bool
	}{
		{"form without checkbox", "application/x-www-form-urlencoded", "name=Rent&amount=12", false},
		{"form with checkbox", "application/x-www-form-urlencoded", "name=Rent&is_active=on", true},
		{"json without field", "application/json", `{"amount":"12"}`, true},
		{"json with false", "application/json", `{"is_active":false}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/test", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			body := NewRequestBodyParser(req)
			if err := body.Parse(); err != nil {
				t.Fatal(err)
			}
			values, err := overDraft(body, draft, "is_active")
			if err != nil {
				t.Fatalf("overDraft() error = %v", err)
			}
			if got := forms.BudgetDraftFrom(values).IsActive; got != tt.want {
				t.Errorf("IsActive = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := sanitizeInput("  a\x07b\tc\n "); got != "ab\tc" {
		t.Errorf("sanitizeInput() = %q", got)
	}
}
