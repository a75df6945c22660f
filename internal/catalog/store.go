package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/pokecards/storefront/internal/storage"
)

// ErrNotFound is returned when a product lookup misses.
var ErrNotFound = errors.New("product not found")

// Store owns the product collection. All mutations are
// read-modify-write cycles over the whole snapshot, serialized by the
// store mutex.
type Store struct {
	mu  sync.Mutex
	sub storage.Substrate
}

// NewStore creates a catalog Store over the given substrate.
func NewStore(sub storage.Substrate) *Store {
	return &Store{sub: sub}
}

// Init seeds the starter catalog if no products snapshot exists yet.
// It runs exactly once per fresh substrate.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var products []Product
	found, err := s.sub.Load(ctx, storage.CollectionProducts, &products)
	if err != nil {
		return fmt.Errorf("init catalog: %w", err)
	}
	if found {
		return nil
	}
	if err := s.sub.Save(ctx, storage.CollectionProducts, seedProducts()); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	return nil
}

// List returns a snapshot of every product. Ordering is whatever the
// snapshot holds; display ordering is the caller's concern.
func (s *Store) List(ctx context.Context) ([]Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// GetByID returns the product with the given id or ErrNotFound.
func (s *Store) GetByID(ctx context.Context, id int64) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	products, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			p := products[i]
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

// Create assigns a fresh id, appends the product and persists the
// snapshot. An empty image falls back to the placeholder.
func (s *Store) Create(ctx context.Context, in ProductInput) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	products, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	image := in.Image
	if image == "" {
		image = PlaceholderImage
	}
	p := Product{
		ID:           nextID(products),
		Name:         in.Name,
		Description:  in.Description,
		Price:        in.Price,
		MarketPrice:  in.MarketPrice,
		Stock:        in.Stock,
		Image:        image,
		MarketURL:    in.MarketURL,
		MarketSource: in.MarketSource,
	}
	products = append(products, p)
	if err := s.save(ctx, products); err != nil {
		return nil, err
	}
	return &p, nil
}

// Update merges the non-nil fields of upd over the stored product and
// persists. Returns ErrNotFound, without writing, when id is unknown.
func (s *Store) Update(ctx context.Context, id int64, upd ProductUpdate) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	products, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i := range products {
		if products[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrNotFound
	}
	p := &products[idx]
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.Price != nil {
		p.Price = *upd.Price
	}
	if upd.MarketPrice != nil {
		p.MarketPrice = *upd.MarketPrice
	}
	if upd.Stock != nil {
		p.Stock = *upd.Stock
	}
	if upd.Image != nil {
		p.Image = *upd.Image
	}
	if upd.MarketURL != nil {
		p.MarketURL = *upd.MarketURL
	}
	if upd.MarketSource != nil {
		p.MarketSource = *upd.MarketSource
	}
	if err := s.save(ctx, products); err != nil {
		return nil, err
	}
	out := *p
	return &out, nil
}

// Delete removes the product if present. Deleting an unknown id is a
// no-op, not an error. Cart lines referencing the product are left
// dangling on purpose; consumers resolve lines by lookup and skip
// misses.
func (s *Store) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	products, err := s.load(ctx)
	if err != nil {
		return err
	}
	kept := products[:0]
	for _, p := range products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(products) {
		return nil
	}
	return s.save(ctx, kept)
}

// DecrementStock reduces stock by quantity and reports whether the
// product exists. It deliberately does not check sufficiency: the
// checkout transaction validates every line before any decrement, and
// no one else calls this.
func (s *Store) DecrementStock(ctx context.Context, id int64, quantity int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	products, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	for i := range products {
		if products[i].ID == id {
			products[i].Stock -= quantity
			if err := s.save(ctx, products); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

// Stats summarizes the inventory for the admin dashboard.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	products, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	st := Stats{
		TotalProducts: len(products),
		StockValue:    decimal.Zero,
	}
	for _, p := range products {
		st.StockValue = st.StockValue.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Stock))))
		switch {
		case p.Stock == 0:
			st.OutOfStock++
		case p.Stock < lowStockThreshold:
			st.LowStock++
		}
	}
	return &st, nil
}

func (s *Store) load(ctx context.Context) ([]Product, error) {
	var products []Product
	if _, err := s.sub.Load(ctx, storage.CollectionProducts, &products); err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	return products, nil
}

func (s *Store) save(ctx context.Context, products []Product) error {
	if err := s.sub.Save(ctx, storage.CollectionProducts, products); err != nil {
		return fmt.Errorf("save products: %w", err)
	}
	return nil
}

// nextID is max(id)+1 over the current snapshot, so ids stay unique
// even under rapid successive creates.
func nextID(products []Product) int64 {
	var max int64
	for _, p := range products {
		if p.ID > max {
			max = p.ID
		}
	}
	return max + 1
}
