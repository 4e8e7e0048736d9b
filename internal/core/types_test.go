package core

import "testing"

func TestCategories(t *testing.T) {
	cats := Categories()
	if len(cats) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(cats))
	}
	if cats[0] != CategoryCurrency {
		t.Errorf("expected currency first, got %s", cats[0])
	}
}
