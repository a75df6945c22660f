package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/pokecards/storefront/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	sub, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	s := NewStore(sub)
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	return s
}

func TestInit_SeedsOnce(t *testing.T) {
	sub, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	ctx := context.Background()

	s := NewStore(sub)
	if err := s.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	products, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(products) != 8 {
		t.Fatalf("expected 8 seeded products, got %d", len(products))
	}

	// wipe the catalog and re-init: the seed must not come back
	if err := s.Delete(ctx, products[0].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	s2 := NewStore(sub)
	if err := s2.Init(ctx); err != nil {
		t.Fatalf("re-init: %v", err)
	}
	products, err = s2.List(ctx)
	if err != nil {
		t.Fatalf("list after re-init: %v", err)
	}
	if len(products) != 7 {
		t.Fatalf("re-init must not reseed, got %d products", len(products))
	}
}

func TestGetByID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p, err := s.GetByID(ctx, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.Name != "Charizard VMAX" {
		t.Fatalf("unexpected product: %+v", p)
	}

	_, err = s.GetByID(ctx, 999)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreate_AssignsUniqueIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seen := map[int64]bool{}
	products, _ := s.List(ctx)
	for _, p := range products {
		seen[p.ID] = true
	}

	// rapid successive creates must never collide
	for i := 0; i < 10; i++ {
		p, err := s.Create(ctx, ProductInput{
			Name:  "Test Card",
			Price: decimal.RequireFromString("9.99"),
			Stock: 1,
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if seen[p.ID] {
			t.Fatalf("duplicate id %d", p.ID)
		}
		seen[p.ID] = true
	}
}

func TestCreate_DefaultsImage(t *testing.T) {
	s := newTestStore(t)

	p, err := s.Create(context.Background(), ProductInput{Name: "No Image Card"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Image != PlaceholderImage {
		t.Fatalf("expected placeholder image, got %q", p.Image)
	}
}

func TestUpdate_MergesPartialFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	before, err := s.GetByID(ctx, 2)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	newPrice := decimal.RequireFromString("79.99")
	updated, err := s.Update(ctx, 2, ProductUpdate{Price: &newPrice})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if !updated.Price.Equal(newPrice) {
		t.Fatalf("price not updated: %s", updated.Price)
	}
	// untouched fields survive the merge
	if updated.Name != before.Name || updated.Stock != before.Stock || updated.Image != before.Image {
		t.Fatalf("update clobbered unset fields: %+v", updated)
	}
	if updated.ID != 2 {
		t.Fatalf("id must be immutable, got %d", updated.ID)
	}
}

func TestUpdate_UnknownIDWritesNothing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	name := "Ghost"
	_, err := s.Update(ctx, 999, ProductUpdate{Name: &name})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	products, _ := s.List(ctx)
	if len(products) != 8 {
		t.Fatalf("failed update must not write, got %d products", len(products))
	}
}

func TestDelete_UnknownIDIsNoOp(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Delete(ctx, 999); err != nil {
		t.Fatalf("delete unknown: %v", err)
	}
	if err := s.Delete(ctx, 3); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetByID(ctx, 3); !errors.Is(err, ErrNotFound) {
		t.Fatalf("product 3 should be gone, got %v", err)
	}
}

func TestDecrementStock(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	found, err := s.DecrementStock(ctx, 1, 3)
	if err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if !found {
		t.Fatalf("expected found=true")
	}
	p, _ := s.GetByID(ctx, 1)
	if p.Stock != 2 {
		t.Fatalf("expected stock 2, got %d", p.Stock)
	}

	found, err = s.DecrementStock(ctx, 999, 1)
	if err != nil {
		t.Fatalf("decrement unknown: %v", err)
	}
	if found {
		t.Fatalf("expected found=false for unknown product")
	}
}

func TestStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	zero := 0
	if _, err := s.Update(ctx, 6, ProductUpdate{Stock: &zero}); err != nil {
		t.Fatalf("update: %v", err)
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalProducts != 8 {
		t.Fatalf("expected 8 products, got %d", stats.TotalProducts)
	}
	if stats.OutOfStock != 1 {
		t.Fatalf("expected 1 out of stock, got %d", stats.OutOfStock)
	}
	// only Umbreon (stock 3) sits below the low-stock threshold
	if stats.LowStock != 1 {
		t.Fatalf("expected 1 low stock, got %d", stats.LowStock)
	}
	if stats.StockValue.LessThanOrEqual(decimal.Zero) {
		t.Fatalf("stock value must be positive, got %s", stats.StockValue)
	}
}
