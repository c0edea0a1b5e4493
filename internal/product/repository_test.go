package product

import (
	"errors"
	"sync"
	"testing"
)

func TestReserve_DecrementsAndBlocks(t *testing.T) {
	repo := NewInMemoryRepository([]Product{{ID: 1, Name: "Aeron", StockQuantity: 3}})

	if err := repo.Reserve(1, 2); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if err := repo.Reserve(1, 2); err == nil {
		t.Fatal("expected insufficient stock error")
	} else {
		var stockErr *InsufficientStockError
		if !errors.As(err, &stockErr) {
			t.Fatalf("expected *InsufficientStockError, got %v", err)
		}
		if stockErr.Available != 1 {
			t.Errorf("expected 1 available, got %d", stockErr.Available)
		}
	}

	// The failed reservation changed nothing.
	p, _ := repo.GetByID(1)
	if p.StockQuantity != 1 {
		t.Fatalf("expected stock 1, got %d", p.StockQuantity)
	}
}

func TestReserve_UnknownProduct(t *testing.T) {
	repo := NewInMemoryRepository(nil)
	if err := repo.Reserve(9, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.Release(9, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReserveRelease_Conservation(t *testing.T) {
	repo := NewInMemoryRepository([]Product{{ID: 1, Name: "Aeron", StockQuantity: 10}})

	if err := repo.Reserve(1, 7); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	if err := repo.Release(1, 7); err != nil {
		t.Fatalf("release failed: %v", err)
	}

	p, _ := repo.GetByID(1)
	if p.StockQuantity != 10 {
		t.Fatalf("expected stock back at 10, got %d", p.StockQuantity)
	}
}

func TestReserve_ConcurrentNeverOversells(t *testing.T) {
	repo := NewInMemoryRepository([]Product{{ID: 1, Name: "Aeron", StockQuantity: 5}})

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.Reserve(1, 1); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if succeeded != 5 {
		t.Fatalf("expected exactly 5 successful reservations, got %d", succeeded)
	}
	p, _ := repo.GetByID(1)
	if p.StockQuantity != 0 {
		t.Fatalf("expected stock 0, got %d", p.StockQuantity)
	}
}
