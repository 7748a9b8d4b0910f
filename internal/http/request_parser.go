// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data.
// Bodies may be JSON objects or form-encoded, as sent by HTMX.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/kasereka12/BudgetTracer/internal/core"
)

// maxBodyBytes bounds every parsed request body.
const maxBodyBytes = 1 << 20

var errBodyTooLarge = errors.New("request body too large")

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON and form-encoded data, commonly used with HTMX.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]interface{}
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser reads the body of r once, up to maxBodyBytes.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	if r.Body == nil {
		return p
	}
	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if p.err == nil && len(p.body) > maxBodyBytes {
		p.err = errBodyTooLarge
	}
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	body := strings.TrimSpace(string(p.body))
	if body == "" {
		p.formData = url.Values{}
		return nil
	}

	if strings.HasPrefix(p.contentType, "application/json") || body[0] == '{' {
		p.jsonData = make(map[string]interface{})
		if err := json.Unmarshal([]byte(body), &p.jsonData); err != nil {
			p.err = fmt.Errorf("invalid JSON body: %w", err)
			return p.err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(body)
	return p.err
}

// Get returns a string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return strings.TrimSpace(sanitizeInput(stringValue(val)))
		}
		return ""
	}
	if p.formData != nil {
		return strings.TrimSpace(sanitizeInput(p.formData.Get(key)))
	}
	return ""
}

// Has reports whether the body carries key, even with an empty value.
func (p *RequestBodyParser) Has(key string) bool {
	if p.jsonData != nil {
		_, ok := p.jsonData[key]
		return ok
	}
	if p.formData != nil {
		_, ok := p.formData[key]
		return ok
	}
	return false
}

// isForm reports whether the body was submitted as an HTML form.
func (p *RequestBodyParser) isForm() bool {
	return p.jsonData == nil && strings.HasPrefix(p.contentType, "application/x-www-form-urlencoded")
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

// stringValue converts a decoded JSON value to the text a form would carry.
func stringValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// draftValues reads submitted fields from the body and every other field
// from the draft being edited.
type draftValues struct {
	body      *RequestBodyParser
	defaults  map[string]interface{}
	unchecked map[string]bool
}

// overDraft returns the body fields layered over draft, keyed by the
// draft's JSON names. An HTML form that omits one of checkboxes submitted
// it unchecked, so it reads as false.
func overDraft(body *RequestBodyParser, draft interface{}, checkboxes ...string) (draftValues, error) {
	v := draftValues{body: body, defaults: map[string]interface{}{}, unchecked: map[string]bool{}}
	if body.isForm() {
		for _, key := range checkboxes {
			v.unchecked[key] = !body.Has(key)
		}
	}
	raw, err := json.Marshal(draft)
	if err != nil {
		return v, fmt.Errorf("encode draft: %w", err)
	}
	if err := json.Unmarshal(raw, &v.defaults); err != nil {
		return v, fmt.Errorf("decode draft: %w", err)
	}
	return v, nil
}

func (v draftValues) Get(key string) string {
	if v.body.Has(key) {
		return v.body.Get(key)
	}
	if v.unchecked[key] {
		return "false"
	}
	return stringValue(v.defaults[key])
}

// ParseDateParam reads a YYYY-MM-DD query parameter, falling back to def
// when it is absent.
func ParseDateParam(query url.Values, key string, def core.Date) (core.Date, error) {
	v := strings.TrimSpace(query.Get(key))
	if v == "" {
		return def, nil
	}
	d, err := core.ParseDate(v)
	if err != nil {
		return core.Date{}, fmt.Errorf("%s must be YYYY-MM-DD", key)
	}
	return d, nil
}

// ParseExpenseFilter reads the q, category and date filters of the
// expenses list.
func ParseExpenseFilter(query url.Values) (core.ExpenseFilter, error) {
	f := core.ExpenseFilter{
		Search:     sanitizeInput(query.Get("q")),
		CategoryID: sanitizeInput(query.Get("category")),
	}
	d, err := ParseDateParam(query, "date", core.Date{})
	if err != nil {
		return core.ExpenseFilter{}, err
	}
	f.Date = d
	return f, nil
}
