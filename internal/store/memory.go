package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// DefaultCategories are the shared expense categories every backend starts with.
var DefaultCategories = []Row{
	{ColumnID: "food", "name": "Food", "color": "#ef4444", "icon": "utensils"},
	{ColumnID: "transport", "name": "Transport", "color": "#3b82f6", "icon": "car"},
	{ColumnID: "housing", "name": "Housing", "color": "#10b981", "icon": "home"},
	{ColumnID: "entertainment", "name": "Entertainment", "color": "#8b5cf6", "icon": "film"},
	{ColumnID: "health", "name": "Health", "color": "#f59e0b", "icon": "heart"},
	{ColumnID: "other", "name": "Other", "color": "#6b7280", "icon": "tag"},
}

type memRow struct {
	seq int64
	row Row
}

// Memory is an in-process Client used for development and tests.
type Memory struct {
	mu     sync.RWMutex
	seq    int64
	tables map[Collection][]*memRow
	now    func() time.Time
	last   time.Time
}

var _ Client = (*Memory)(nil)

// NewMemory returns an empty store seeded with DefaultCategories.
func NewMemory() *Memory {
	m := &Memory{tables: make(map[Collection][]*memRow), now: time.Now}
	for _, c := range DefaultCategories {
		r := clone(c)
		r[ColumnCreatedAt] = ""
		m.append(ExpenseCategories, r)
	}
	return m
}

func (m *Memory) append(c Collection, r Row) {
	m.seq++
	m.tables[c] = append(m.tables[c], &memRow{seq: m.seq, row: r})
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close() error { return nil }

func (m *Memory) List(_ context.Context, c Collection, ownerID string, q Query) ([]Row, error) {
	schema, err := SchemaOf(c)
	if err != nil {
		return nil, err
	}
	if err := schema.check(c, nil, q); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []*memRow
	for _, r := range m.tables[c] {
		if schema.Owner != "" && r.row[schema.Owner] != ownerID {
			continue
		}
		if !matches(r.row, q.Filters) {
			continue
		}
		matched = append(matched, r)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		for _, o := range q.Order {
			cmp := compare(matched[i].row[o.Column], matched[j].row[o.Column])
			if cmp == 0 {
				continue
			}
			if o.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return matched[i].seq < matched[j].seq
	})

	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	out := make([]Row, len(matched))
	for i, r := range matched {
		out[i] = clone(r.row)
	}
	return out, nil
}

func (m *Memory) Insert(_ context.Context, c Collection, ownerID string, row Row) (Row, error) {
	schema, err := SchemaOf(c)
	if err != nil {
		return nil, err
	}
	if err := schema.check(c, row, Query{}); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	full := fill(schema, stampRow(schema, ownerID, row, m.tick()))
	if m.find(c, full[ColumnID]) != nil {
		return nil, fmt.Errorf("insert %s: duplicate id %v", c, full[ColumnID])
	}
	m.append(c, full)
	return clone(full), nil
}

func (m *Memory) Update(_ context.Context, c Collection, ownerID, id string, patch Row) (Row, error) {
	schema, err := SchemaOf(c)
	if err != nil {
		return nil, err
	}
	patch = mutable(schema, patch)
	if err := schema.check(c, patch, Query{}); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.find(c, id)
	if r == nil || (schema.Owner != "" && r.row[schema.Owner] != ownerID) {
		return nil, ErrNotFound
	}
	for k, v := range patch {
		r.row[k] = v
	}
	return clone(r.row), nil
}

func (m *Memory) Delete(_ context.Context, c Collection, ownerID, id string) error {
	schema, err := SchemaOf(c)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	rows := m.tables[c]
	for i, r := range rows {
		if r.row[ColumnID] != id {
			continue
		}
		if schema.Owner != "" && r.row[schema.Owner] != ownerID {
			return nil
		}
		m.tables[c] = append(rows[:i:i], rows[i+1:]...)
		return nil
	}
	return nil
}

func (m *Memory) Upsert(_ context.Context, c Collection, row Row, conflictKey string) (Row, error) {
	schema, err := SchemaOf(c)
	if err != nil {
		return nil, err
	}
	if !schema.Has(conflictKey) {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, c, conflictKey)
	}
	if err := schema.check(c, row, Query{}); err != nil {
		return nil, err
	}
	key := row[conflictKey]
	if key == nil {
		return nil, fmt.Errorf("upsert %s: missing conflict key %s", c, conflictKey)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.tables[c] {
		if r.row[conflictKey] != key {
			continue
		}
		for k, v := range row {
			if k == ColumnCreatedAt {
				continue
			}
			r.row[k] = v
		}
		return clone(r.row), nil
	}

	full := fill(schema, row)
	if _, ok := row[ColumnCreatedAt]; !ok {
		full[ColumnCreatedAt] = m.tick().UTC().Format(TimestampLayout)
	}
	m.append(c, full)
	return clone(full), nil
}

// tick returns the current time, strictly after the previous tick so that
// created_at orders records by insertion. Callers hold mu.
func (m *Memory) tick() time.Time {
	t := m.now()
	if !t.After(m.last) {
		t = m.last.Add(time.Nanosecond)
	}
	m.last = t
	return t
}

func (m *Memory) find(c Collection, id any) *memRow {
	for _, r := range m.tables[c] {
		if r.row[ColumnID] == id {
			return r
		}
	}
	return nil
}

// fill returns row with every schema column present, absent ones as nil.
func fill(schema Schema, row Row) Row {
	out := make(Row, len(schema.Columns))
	for _, col := range schema.Columns {
		out[col] = row[col]
	}
	return out
}

func matches(r Row, filters []Filter) bool {
	for _, f := range filters {
		v, ok := r[f.Column]
		if !ok || v == nil || f.Value == nil {
			if f.Op == OpEq && v == nil && f.Value == nil {
				continue
			}
			return false
		}
		cmp := compare(v, f.Value)
		switch f.Op {
		case OpEq:
			if cmp != 0 {
				return false
			}
		case OpGte:
			if cmp < 0 {
				return false
			}
		case OpLte:
			if cmp > 0 {
				return false
			}
		}
	}
	return true
}

// compare orders two Row values. nil sorts first; mismatched kinds compare
// by their formatted text.
func compare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if fa, ok := number(a); ok {
		if fb, ok := number(b); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			}
			return 0
		}
	}
	if ba, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			switch {
			case ba == bb:
				return 0
			case !ba:
				return -1
			}
			return 1
		}
	}
	sa, sb := fmt.Sprint(a), fmt.Sprint(b)
	switch {
	case sa < sb:
		return -1
	case sa > sb:
		return 1
	}
	return 0
}

func number(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}
