package core

import "strings"

// CategoryInfo associates a category label with its display color.
type CategoryInfo struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Default category tables offered when recording a transaction.
var (
	IncomeCategories = []CategoryInfo{
		{Name: "Work", Color: "blue"},
		{Name: "Business", Color: "green"},
		{Name: "Deposit", Color: "purple"},
		{Name: "Friend", Color: "orange"},
	}

	ExpenseCategories = []CategoryInfo{
		{Name: "Food", Color: "red"},
		{Name: "Transport", Color: "blue"},
		{Name: "Housing", Color: "green"},
		{Name: "Entertainment", Color: "purple"},
		{Name: "Health", Color: "orange"},
		{Name: "Other", Color: "gray"},
	}
)

// DefaultCategoryColor is used for labels with no known color.
const DefaultCategoryColor = "gray"

var categoryColors = map[string]string{
	"food":          "blue",
	"transport":     "green",
	"entertainment": "purple",
	"health":        "red",
	"shopping":      "orange",
	"utilities":     "pink",
}

// ColorForCategory maps a category label to a chart color. The lookup is
// case-insensitive; it only affects presentation, never grouping.
func ColorForCategory(category string) string {
	if c, ok := categoryColors[strings.ToLower(category)]; ok {
		return c
	}
	return DefaultCategoryColor
}

// CategoriesInfo builds the legend for a set of category labels, keeping
// the order of first appearance.
func CategoriesInfo(names []string) []CategoryInfo {
	seen := make(map[string]struct{}, len(names))
	out := make([]CategoryInfo, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, CategoryInfo{Name: n, Color: ColorForCategory(n)})
	}
	return out
}
