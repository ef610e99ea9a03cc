package core

import "strings"

// Category groups best-practice rules. The set is closed.
type Category string

// Rule categories.
const (
	CategoryMaintenance     Category = "maintenance"
	CategoryDAXQuality      Category = "dax-quality"
	CategoryNaming          Category = "naming"
	CategoryModeling        Category = "modeling"
	CategoryFormatting      Category = "formatting"
	CategoryReporting       Category = "reporting"
	CategoryPerformance     Category = "performance"
	CategoryErrorPrevention Category = "error-prevention"
)

var categoryOrder = []Category{
	CategoryMaintenance,
	CategoryDAXQuality,
	CategoryNaming,
	CategoryModeling,
	CategoryFormatting,
	CategoryReporting,
	CategoryPerformance,
	CategoryErrorPrevention,
}

var categoryNames = map[Category]string{
	CategoryMaintenance:     "Maintenance",
	CategoryDAXQuality:      "DAX Quality",
	CategoryNaming:          "Naming Conventions",
	CategoryModeling:        "Data Modeling",
	CategoryFormatting:      "Formatting",
	CategoryReporting:       "Reporting",
	CategoryPerformance:     "Performance",
	CategoryErrorPrevention: "Error Prevention",
}

// AllCategories returns every category in display order.
func AllCategories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// DisplayName returns the human-readable name of the category.
func (c Category) DisplayName() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return string(c)
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

// ParseCategory converts a category id such as "dax-quality" (case-insensitive) to a Category.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", false
	}
	return c, true
}
