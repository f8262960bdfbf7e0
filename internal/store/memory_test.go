package store

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestMemoryLifecycle(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	item, err := m.CreateItem(ctx, ItemFields{Name: "Key", Clue: "Under the mat", Code: "ABC1", Directions: "See front desk"})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if item.Found {
		t.Error("new item should not be found")
	}

	hidden, _ := m.ListHidden(ctx)
	if len(hidden) != 1 {
		t.Fatalf("expected 1 hidden item, got %d", len(hidden))
	}

	if err := m.MarkFound(ctx, item.ID, "/uploads/p.jpg"); err != nil {
		t.Fatalf("MarkFound: %v", err)
	}
	if err := m.MarkFound(ctx, item.ID, ""); !errors.Is(err, ErrAlreadyFound) {
		t.Errorf("expected ErrAlreadyFound, got %v", err)
	}

	hidden, _ = m.ListHidden(ctx)
	if len(hidden) != 0 {
		t.Errorf("found item must leave the hidden listing, got %d", len(hidden))
	}
	all, _ := m.ListItems(ctx)
	if len(all) != 1 || !all[0].Found {
		t.Errorf("expected one found item in full listing, got %+v", all)
	}
}

func TestMemoryStableIDsAcrossDelete(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	a, _ := m.CreateItem(ctx, ItemFields{Name: "A", Code: "A"})
	b, _ := m.CreateItem(ctx, ItemFields{Name: "B", Code: "B"})

	if err := m.DeleteItem(ctx, a.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}

	// B keeps its ID after A is deleted, and A's ID is never reused.
	got, err := m.GetItem(ctx, b.ID)
	if err != nil || got.Name != "B" {
		t.Fatalf("expected B at its original ID, got %+v, %v", got, err)
	}
	c, _ := m.CreateItem(ctx, ItemFields{Name: "C", Code: "C"})
	if c.ID == a.ID {
		t.Errorf("ID %d was reused after delete", a.ID)
	}
}

func TestMemoryUpdatePreservesFound(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	item, _ := m.CreateItem(ctx, ItemFields{Name: "Key", Clue: "c", Code: "ABC1", Directions: "d"})
	m.MarkFound(ctx, item.ID, "/uploads/p.jpg")

	if err := m.UpdateItem(ctx, item.ID, ItemFields{Name: "Key2", Clue: "c2", Code: "ABC2", Directions: "d2"}); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}

	got, _ := m.GetItem(ctx, item.ID)
	if !got.Found || got.Name != "Key2" {
		t.Errorf("expected edited item to stay found: %+v", got)
	}
}

func TestMemoryFindByCodePrefersHidden(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	old, _ := m.CreateItem(ctx, ItemFields{Name: "Old", Code: "DUP"})
	m.MarkFound(ctx, old.ID, "")
	m.CreateItem(ctx, ItemFields{Name: "New", Code: "DUP"})

	item, err := m.FindByCode(ctx, "DUP")
	if err != nil {
		t.Fatalf("FindByCode: %v", err)
	}
	if item.Name != "New" {
		t.Errorf("expected hidden item to win, got %q", item.Name)
	}
}

func TestMemoryMarkFoundConcurrent(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	item, _ := m.CreateItem(ctx, ItemFields{Name: "Key", Code: "ABC1"})

	const attempts = 16
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = m.MarkFound(ctx, item.ID, "/uploads/p.jpg")
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else if !errors.Is(err, ErrAlreadyFound) {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Errorf("expected exactly one winning redemption, got %d", wins)
	}
}

func TestMemoryReturnsCopies(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	item, _ := m.CreateItem(ctx, ItemFields{Name: "Key", Code: "ABC1"})
	item.Name = "Mutated"

	got, _ := m.GetItem(ctx, item.ID)
	if got.Name != "Key" {
		t.Errorf("store must not expose its backing items, got %q", got.Name)
	}
}
