package google

import (
	"fmt"
	"strings"

	"github.com/kasereka12/BudgetTracer/internal/core"
)

var header = []any{"ID", "Date", "Description", "Amount", "Category", "Location", "Notes"}

// expenseRow lays out e across columns A to G.
func expenseRow(e core.Expense) []any {
	category := ""
	if e.Category != nil {
		category = e.Category.Name
	}
	return []any{e.ID, e.Date.String(), e.Description, e.Amount.Float(), category, e.Location, e.Notes}
}

func rowRange(sheet string, row int) string {
	return fmt.Sprintf("%s!A%d:G%d", sheet, row, row)
}

// findRow returns the 1-based row whose first cell is id, or 0.
func findRow(values [][]any, id string) int {
	for i, v := range values {
		cells := toStrings(v)
		if len(cells) > 0 && strings.TrimSpace(cells[0]) == id {
			return i + 1
		}
	}
	return 0
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = fmt.Sprint(v)
	}
	return out
}
