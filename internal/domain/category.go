package domain

import "strings"

// Category labels the market an idea targets. The set is fixed; CategoryAll
// is a filter sentinel and never stored on an idea.
type Category string

const (
	CategoryAll        Category = "All"
	CategoryHealthTech Category = "HealthTech"
	CategoryEdTech     Category = "EdTech"
	CategoryFinTech    Category = "FinTech"
	CategoryAIML       Category = "AI/ML"
	CategoryECommerce  Category = "E-commerce"
	CategorySaaS       Category = "SaaS"
	CategoryGreenTech  Category = "GreenTech"
	CategoryFoodTech   Category = "FoodTech"
	CategoryPropTech   Category = "PropTech"
	CategoryGaming     Category = "Gaming"
	CategoryOther      Category = "Other"
)

var categories = []Category{
	CategoryHealthTech,
	CategoryEdTech,
	CategoryFinTech,
	CategoryAIML,
	CategoryECommerce,
	CategorySaaS,
	CategoryGreenTech,
	CategoryFoodTech,
	CategoryPropTech,
	CategoryGaming,
	CategoryOther,
}

// Categories returns the storable categories in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Valid reports whether c is one of the storable categories.
func (c Category) Valid() bool {
	for _, k := range categories {
		if c == k {
			return true
		}
	}
	return false
}

// ParseCategory resolves s case-insensitively against the storable
// categories and the All sentinel. Empty input resolves to CategoryAll.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, string(CategoryAll)) {
		return CategoryAll, true
	}
	for _, k := range categories {
		if strings.EqualFold(s, string(k)) {
			return k, true
		}
	}
	return "", false
}
