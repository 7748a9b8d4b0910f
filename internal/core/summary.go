package core

import "sort"

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Color  string
	Amount Money
}

// ByCategory groups expense amounts by their category name, largest first.
// Expenses without a category are reported under uncategorised.
func ByCategory(expenses []Expense, uncategorised string) []CategoryAmount {
	idx := map[string]int{}
	var out []CategoryAmount
	for _, e := range expenses {
		name, color := uncategorised, ""
		if e.Category != nil {
			name, color = e.Category.Name, e.Category.Color
		}
		i, ok := idx[name]
		if !ok {
			i = len(out)
			idx[name] = i
			out = append(out, CategoryAmount{Name: name, Color: color})
		}
		out[i].Amount.Cents += e.Amount.Cents
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Amount.Cents > out[b].Amount.Cents })
	return out
}
