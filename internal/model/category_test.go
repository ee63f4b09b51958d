package model

import "testing"

func intPtr(i int) *int { return &i }

func TestSortCategories(t *testing.T) {
	cats := []Category{
		{ID: 1, Type: CategoryPriority, Value: "low", Label: "Low", Order: intPtr(3)},
		{ID: 2, Type: CategoryCondition, Value: "down", Label: "Down", Order: nil},
		{ID: 3, Type: CategoryPriority, Value: "urgent", Label: "Urgent", Order: intPtr(1)},
		{ID: 4, Type: CategoryPriority, Value: "later", Label: "Later", Order: nil},
		{ID: 5, Type: CategoryPriority, Value: "std", Label: "Standard", Order: intPtr(2)},
		{ID: 6, Type: CategoryCondition, Value: "slow", Label: "A bit slow", Order: intPtr(1)},
		{ID: 7, Type: CategoryPriority, Value: "backlog", Label: "Backlog", Order: nil},
	}
	SortCategories(cats)

	wantIDs := []uint64{6, 2, 3, 5, 1, 7, 4}
	for i, c := range cats {
		if c.ID != wantIDs[i] {
			got := make([]uint64, len(cats))
			for j := range cats {
				got[j] = cats[j].ID
			}
			t.Fatalf("order: got %v, want %v", got, wantIDs)
		}
	}
}

func TestSortCategoriesTieBrokenByLabel(t *testing.T) {
	cats := []Category{
		{ID: 1, Type: CategoryEvent, Value: "b", Label: "Beta", Order: intPtr(1)},
		{ID: 2, Type: CategoryEvent, Value: "a", Label: "Alpha", Order: intPtr(1)},
	}
	SortCategories(cats)
	if cats[0].ID != 2 {
		t.Errorf("equal order: got %q first, want Alpha", cats[0].Label)
	}
}

func TestValidCategoryType(t *testing.T) {
	for _, v := range []string{CategoryIssueType, CategoryCondition, CategoryPriority, CategoryEvent} {
		if !ValidCategoryType(v) {
			t.Errorf("ValidCategoryType(%q) = false", v)
		}
	}
	for _, v := range []string{"", "issuetype", "Priority", "tag"} {
		if ValidCategoryType(v) {
			t.Errorf("ValidCategoryType(%q) = true", v)
		}
	}
}
