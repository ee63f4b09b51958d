package model

import "sort"

// Category types (the four admin-editable taxonomies).
const (
	CategoryIssueType = "issueType"
	CategoryCondition = "condition"
	CategoryPriority  = "priority"
	CategoryEvent     = "event"
)

// ValidCategoryType reports whether t names one of the four taxonomies.
func ValidCategoryType(t string) bool {
	switch t {
	case CategoryIssueType, CategoryCondition, CategoryPriority, CategoryEvent:
		return true
	}
	return false
}

// Category is one admin-configurable dropdown option.  (Type, Value) is
// unique.  Order is nil until the row is placed; Description only carries
// meaning for the priority taxonomy and is nulled elsewhere.
type Category struct {
	ID          uint64  `json:"id"`
	Type        string  `json:"type"`
	Value       string  `json:"value"`
	Label       string  `json:"label"`
	Description *string `json:"description,omitempty"`
	Order       *int    `json:"order"`
}

// SortCategories orders categories for presentation: grouped by type, rows
// with an explicit order before rows without one, explicit orders ascending,
// ties and unordered rows broken by label.  The sort is performed here
// rather than in SQL so the comparator has a single authoritative home.
func SortCategories(cats []Category) {
	sort.SliceStable(cats, func(i, j int) bool {
		a, b := cats[i], cats[j]
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		switch {
		case a.Order != nil && b.Order == nil:
			return true
		case a.Order == nil && b.Order != nil:
			return false
		case a.Order != nil && b.Order != nil && *a.Order != *b.Order:
			return *a.Order < *b.Order
		}
		return a.Label < b.Label
	})
}
