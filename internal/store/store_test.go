package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clients returns every backend that can run without external services.
func clients(t *testing.T) map[string]Client {
	t.Helper()
	sqlite, err := OpenSQLite(filepath.Join(t.TempDir(), "data", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Client{
		"memory": NewMemory(),
		"sqlite": sqlite,
	}
}

func expenseRow(desc, date string, cents int64) Row {
	return Row{
		"amount_cents": cents,
		"description":  desc,
		"date":         date,
		"location":     "",
		"notes":        "",
	}
}

func TestClient_OwnerScoping(t *testing.T) {
	ctx := context.Background()
	for name, c := range clients(t) {
		t.Run(name, func(t *testing.T) {
			_, err := c.Insert(ctx, Expenses, "alice", expenseRow("coffee", "2025-03-01", 250))
			require.NoError(t, err)
			bob, err := c.Insert(ctx, Expenses, "bob", expenseRow("rent", "2025-03-01", 90000))
			require.NoError(t, err)

			rows, err := c.List(ctx, Expenses, "alice", Query{})
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, "coffee", rows[0]["description"])
			assert.Equal(t, "alice", rows[0][ColumnOwner])

			_, err = c.Update(ctx, Expenses, "alice", bob[ColumnID].(string), Row{"description": "stolen"})
			assert.True(t, errors.Is(err, ErrNotFound), "update of foreign row: %v", err)

			require.NoError(t, c.Delete(ctx, Expenses, "alice", bob[ColumnID].(string)))
			rows, err = c.List(ctx, Expenses, "bob", Query{})
			require.NoError(t, err)
			assert.Len(t, rows, 1, "foreign delete must not remove the row")
		})
	}
}

func TestClient_FiltersOrderLimit(t *testing.T) {
	ctx := context.Background()
	for name, c := range clients(t) {
		t.Run(name, func(t *testing.T) {
			for _, e := range []struct {
				desc string
				date string
			}{
				{"a", "2025-02-27"},
				{"b", "2025-03-01"},
				{"c", "2025-03-15"},
				{"d", "2025-04-01"},
			} {
				_, err := c.Insert(ctx, Expenses, "u1", expenseRow(e.desc, e.date, 100))
				require.NoError(t, err)
			}

			rows, err := c.List(ctx, Expenses, "u1", Query{
				Filters: []Filter{Gte("date", "2025-03-01"), Lte("date", "2025-03-31")},
				Order:   []Order{Desc("date")},
			})
			require.NoError(t, err)
			require.Len(t, rows, 2)
			assert.Equal(t, "c", rows[0]["description"])
			assert.Equal(t, "b", rows[1]["description"])

			rows, err = c.List(ctx, Expenses, "u1", Query{Order: []Order{Desc("date")}, Limit: 3})
			require.NoError(t, err)
			require.Len(t, rows, 3)
			assert.Equal(t, "d", rows[0]["description"])

			rows, err = c.List(ctx, Expenses, "u1", Query{Filters: []Filter{Eq("date", "2025-02-27")}})
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, int64(100), rows[0]["amount_cents"])
		})
	}
}

func TestClient_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	for name, c := range clients(t) {
		t.Run(name, func(t *testing.T) {
			row, err := c.Insert(ctx, Expenses, "u1", expenseRow("lunch", "2025-03-02", 1200))
			require.NoError(t, err)
			id := row[ColumnID].(string)
			require.NotEmpty(t, id)

			updated, err := c.Update(ctx, Expenses, "u1", id, Row{
				"description": "dinner",
				ColumnOwner:   "someone-else",
			})
			require.NoError(t, err)
			assert.Equal(t, "dinner", updated["description"])
			assert.Equal(t, "u1", updated[ColumnOwner], "owner must not change")

			_, err = c.Update(ctx, Expenses, "u1", "missing", Row{"description": "x"})
			assert.True(t, errors.Is(err, ErrNotFound))

			require.NoError(t, c.Delete(ctx, Expenses, "u1", id))
			require.NoError(t, c.Delete(ctx, Expenses, "u1", id), "second delete is a no-op")

			rows, err := c.List(ctx, Expenses, "u1", Query{})
			require.NoError(t, err)
			assert.Empty(t, rows)
		})
	}
}

func TestClient_UpsertProfile(t *testing.T) {
	ctx := context.Background()
	for name, c := range clients(t) {
		t.Run(name, func(t *testing.T) {
			first, err := c.Upsert(ctx, Profiles, Row{
				ColumnID:    "u1",
				"email":     "u1@example.com",
				"full_name": "First",
			}, ColumnID)
			require.NoError(t, err)
			assert.Equal(t, "First", first["full_name"])

			second, err := c.Upsert(ctx, Profiles, Row{
				ColumnID:    "u1",
				"email":     "u1@example.com",
				"full_name": "Second",
			}, ColumnID)
			require.NoError(t, err)
			assert.Equal(t, "Second", second["full_name"])

			rows, err := c.List(ctx, Profiles, "u1", Query{})
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, "Second", rows[0]["full_name"])

			rows, err = c.List(ctx, Profiles, "u2", Query{})
			require.NoError(t, err)
			assert.Empty(t, rows)
		})
	}
}

func TestClient_SharedCategories(t *testing.T) {
	ctx := context.Background()
	for name, c := range clients(t) {
		t.Run(name, func(t *testing.T) {
			rows, err := c.List(ctx, ExpenseCategories, "anyone", Query{Order: []Order{Asc(ColumnCreatedAt)}})
			require.NoError(t, err)
			require.Len(t, rows, len(DefaultCategories))
			assert.Equal(t, "food", rows[0][ColumnID])
		})
	}
}

func TestClient_RejectsUnknownColumns(t *testing.T) {
	ctx := context.Background()
	for name, c := range clients(t) {
		t.Run(name, func(t *testing.T) {
			_, err := c.Insert(ctx, Expenses, "u1", Row{"amount_cents": int64(1), "bogus; DROP TABLE": 1})
			assert.True(t, errors.Is(err, ErrUnknownColumn))

			_, err = c.List(ctx, Expenses, "u1", Query{Order: []Order{Asc("nope")}})
			assert.True(t, errors.Is(err, ErrUnknownColumn))

			_, err = c.List(ctx, Collection("nope"), "u1", Query{})
			assert.True(t, errors.Is(err, ErrUnknownCollection))
		})
	}
}

func TestMemory_CreatedAtOrdering(t *testing.T) {
	m := NewMemory()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	m.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Millisecond)
	}
	ctx := context.Background()
	for _, d := range []string{"x", "y", "z"} {
		_, err := m.Insert(ctx, Expenses, "u1", expenseRow(d, "2025-03-01", 1))
		require.NoError(t, err)
	}
	rows, err := m.List(ctx, Expenses, "u1", Query{Order: []Order{Desc(ColumnCreatedAt)}})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "z", rows[0]["description"])
	assert.Equal(t, "x", rows[2]["description"])
}

func TestRebind(t *testing.T) {
	pg := &SQLClient{dialect: Postgres}
	assert.Equal(t, "SELECT a FROM t WHERE a = $1 AND b = $2", pg.rebind("SELECT a FROM t WHERE a = ? AND b = ?"))

	lite := &SQLClient{dialect: SQLite}
	assert.Equal(t, "a = ?", lite.rebind("a = ?"))
}
