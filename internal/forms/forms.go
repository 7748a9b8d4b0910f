// Package forms maps stored records to editable text drafts and back.
//
// Drafts hold exactly what the user typed. The ToRecord method of each
// mapper is the only place that text becomes typed values: amounts are
// parsed to cents, dates to calendar days and optional numbers to nil when
// left blank. FromRecord followed by ToRecord returns the editable fields
// unchanged.
package forms

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kasereka12/BudgetTracer/internal/core"
)

// Values is the read side of a submitted form: url.Values and the HTTP
// request body parser both satisfy it.
type Values interface {
	Get(key string) string
}

// Clock returns today's calendar day.
type Clock func() core.Date

// Today is the default Clock, in UTC.
func Today() core.Date {
	return core.DateOf(time.Now().UTC())
}

func (c Clock) today() core.Date {
	if c == nil {
		return Today()
	}
	return c()
}

func field(v Values, key string) string {
	return strings.TrimSpace(v.Get(key))
}

func parseAmount(name, s string) (core.Money, error) {
	cents, err := core.ParseDecimalToCents(s)
	if err != nil {
		return core.Money{}, fmt.Errorf("%s: %w", name, err)
	}
	return core.Money{Cents: cents}, nil
}

// parseOptionalAmount returns nil for blank input.
func parseOptionalAmount(name, s string) (*core.Money, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	cents, err := core.ParseNonNegativeCents(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &core.Money{Cents: cents}, nil
}

func parseDate(name, s string) (core.Date, error) {
	d, err := core.ParseDate(s)
	if err != nil {
		return core.Date{}, fmt.Errorf("%s: must be YYYY-MM-DD", name)
	}
	return d, nil
}

// parseOptionalDate returns the zero date for blank input.
func parseOptionalDate(name, s string) (core.Date, error) {
	if strings.TrimSpace(s) == "" {
		return core.Date{}, nil
	}
	return parseDate(name, s)
}

func parseOptionalInt(name, s string) (*int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: must be a whole number", name)
	}
	return &n, nil
}

func parseOptionalFloat(name, s string) (*float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: must be a number", name)
	}
	return &f, nil
}

// parseFlag reads a checkbox or boolean field; blank keeps def.
func parseFlag(s string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return def
	case "1", "on", "true", "yes":
		return true
	}
	return false
}

func formatOptionalAmount(m *core.Money) string {
	if m == nil {
		return ""
	}
	return m.Decimal()
}

func formatOptionalInt(n *int64) string {
	if n == nil {
		return ""
	}
	return strconv.FormatInt(*n, 10)
}

func formatOptionalFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
