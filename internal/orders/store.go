package orders

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/pokecards/storefront/internal/cart"
	"github.com/pokecards/storefront/internal/catalog"
	"github.com/pokecards/storefront/internal/storage"
)

// ErrEmptyCart is returned by Create when the cart has no lines.
var ErrEmptyCart = errors.New("cart is empty")

// Store owns the order collection and the checkout transaction, the
// only operation that touches catalog, cart and orders together.
type Store struct {
	mu      sync.Mutex
	sub     storage.Substrate
	catalog *catalog.Store
	cart    *cart.Store
	nowFunc func() time.Time
}

// NewStore creates an order Store over the given substrate and
// collaborating stores.
func NewStore(sub storage.Substrate, cat *catalog.Store, crt *cart.Store) *Store {
	return &Store{
		sub:     sub,
		catalog: cat,
		cart:    crt,
		nowFunc: time.Now,
	}
}

// Init writes an empty orders snapshot if none exists yet.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var existing []Order
	found, err := s.sub.Load(ctx, storage.CollectionOrders, &existing)
	if err != nil {
		return fmt.Errorf("init orders: %w", err)
	}
	if found {
		return nil
	}
	if err := s.sub.Save(ctx, storage.CollectionOrders, []Order{}); err != nil {
		return fmt.Errorf("init orders: %w", err)
	}
	return nil
}

// Create turns the current cart into an order:
//
//  1. reject an empty cart
//  2. validate every line against live stock before any mutation, so a
//     rejected checkout leaves catalog and cart untouched
//  3. build the order with snapshot line items and the cart total
//  4. decrement stock for every line
//  5. append the order and clear the cart
//
// There is no rollback; the validate-everything-first ordering is the
// atomicity mechanism. The caller is the single logical writer for the
// duration of a checkout.
func (s *Store) Create(ctx context.Context, customer Customer) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.cart.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	// Validate all lines before mutating anything. The product behind
	// a line may be gone entirely; that counts as insufficient stock.
	products := make(map[int64]*catalog.Product, len(lines))
	for _, line := range lines {
		product, err := s.catalog.GetByID(ctx, line.ProductID)
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, &cart.InsufficientStockError{}
		}
		if err != nil {
			return nil, err
		}
		if product.Stock < line.Quantity {
			return nil, &cart.InsufficientStockError{ProductName: product.Name}
		}
		products[line.ProductID] = product
	}

	total, err := s.cart.Total(ctx)
	if err != nil {
		return nil, err
	}

	existing, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	order := Order{
		ID:       nextID(existing),
		Date:     s.nowFunc(),
		Customer: customer,
		Items:    make([]LineItem, 0, len(lines)),
		Total:    total,
	}
	for _, line := range lines {
		product := products[line.ProductID]
		order.Items = append(order.Items, LineItem{
			ProductID: line.ProductID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  line.Quantity,
		})
	}

	for _, line := range lines {
		found, err := s.catalog.DecrementStock(ctx, line.ProductID, line.Quantity)
		if err != nil {
			return nil, fmt.Errorf("decrement stock for product %d: %w", line.ProductID, err)
		}
		if !found {
			// Validated above; only reachable if the product vanished
			// mid-checkout, which the single-writer model rules out.
			log.Printf("orders: product %d disappeared during checkout", line.ProductID)
		}
	}

	existing = append(existing, order)
	if err := s.save(ctx, existing); err != nil {
		return nil, err
	}

	if err := s.cart.Clear(ctx); err != nil {
		return nil, fmt.Errorf("clear cart after checkout: %w", err)
	}

	return &order, nil
}

// List returns the full order history in creation order.
func (s *Store) List(ctx context.Context) ([]Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Get fetches an order by id. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, id int64) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if existing[i].ID == id {
			o := existing[i]
			return &o, nil
		}
	}
	return nil, nil
}

func (s *Store) load(ctx context.Context) ([]Order, error) {
	var existing []Order
	if _, err := s.sub.Load(ctx, storage.CollectionOrders, &existing); err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	return existing, nil
}

func (s *Store) save(ctx context.Context, existing []Order) error {
	if err := s.sub.Save(ctx, storage.CollectionOrders, existing); err != nil {
		return fmt.Errorf("save orders: %w", err)
	}
	return nil
}

func nextID(existing []Order) int64 {
	var max int64
	for _, o := range existing {
		if o.ID > max {
			max = o.ID
		}
	}
	return max + 1
}
