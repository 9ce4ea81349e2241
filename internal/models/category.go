package models

type CategoryType string

const (
	CategoryFixed    CategoryType = "fixed"
	CategoryRotating CategoryType = "rotating"
	CategoryOpen     CategoryType = "open"
)

// FixedCategory is one of the five permanent sub-categories. One photo
// is selected from each for the printed issue.
type FixedCategory struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

var FixedCategories = []FixedCategory{
	{ID: "love", Name: "Love", Description: "Moments of connection and affection"},
	{ID: "nature", Name: "Nature", Description: "Wellington's natural beauty"},
	{ID: "human", Name: "Human", Description: "People and portraits"},
	{ID: "art", Name: "Art", Description: "Creative and artistic expressions"},
	{ID: "architecture", Name: "Architecture", Description: "Buildings and urban structures"},
}

// IsFixedCategory reports whether id names one of the permanent
// sub-categories.
func IsFixedCategory(id string) bool {
	for _, c := range FixedCategories {
		if c.ID == id {
			return true
		}
	}
	return false
}

// IsValidCategoryType reports whether t is a known category type.
func IsValidCategoryType(t CategoryType) bool {
	switch t {
	case CategoryFixed, CategoryRotating, CategoryOpen:
		return true
	}
	return false
}

// Featured slots per category bucket for the printed magazine
const (
	FeaturedPerFixedCategory = 1
	FeaturedFixedTotal       = 5
	FeaturedRotating         = 5
	FeaturedOpen             = 5
	FeaturedTotal            = 15
)
