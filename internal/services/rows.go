package services

import (
	"strconv"
	"time"

	"github.com/kasereka12/BudgetTracer/internal/core"
	"github.com/kasereka12/BudgetTracer/internal/store"
)

// Row values come back as whatever the backend produced; these helpers
// accept every representation the store and drivers use.

func asString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	case nil:
		return ""
	}
	return ""
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case int32:
		return int64(x), true
	case float64:
		return int64(x), true
	case string:
		n, err := strconv.ParseInt(x, 10, 64)
		return n, err == nil
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	}
	return 0, false
}

func asBool(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case int64:
		return x != 0
	case int:
		return x != 0
	case string:
		b, _ := strconv.ParseBool(x)
		return b
	}
	return false
}

func asDate(v any) core.Date {
	d, err := core.ParseDate(asString(v))
	if err != nil {
		return core.Date{}
	}
	return d
}

func asTime(v any) time.Time {
	t, err := time.Parse(store.TimestampLayout, asString(v))
	if err != nil {
		return time.Time{}
	}
	return t
}

func asMoney(v any) core.Money {
	n, _ := asInt64(v)
	return core.Money{Cents: n}
}

func asOptionalMoney(v any) *core.Money {
	n, ok := asInt64(v)
	if !ok {
		return nil
	}
	return &core.Money{Cents: n}
}

func asOptionalInt(v any) *int64 {
	n, ok := asInt64(v)
	if !ok {
		return nil
	}
	return &n
}

func asOptionalFloat(v any) *float64 {
	f, ok := asFloat(v)
	if !ok {
		return nil
	}
	return &f
}

// nullable maps the zero value of optional columns to SQL NULL.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableMoney(m *core.Money) any {
	if m == nil {
		return nil
	}
	return m.Cents
}

func nullableInt(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullableFloat(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func dateValue(d core.Date) string {
	return d.String()
}
