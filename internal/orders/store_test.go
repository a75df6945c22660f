package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pokecards/storefront/internal/cart"
	"github.com/pokecards/storefront/internal/catalog"
	"github.com/pokecards/storefront/internal/storage"
)

type fixture struct {
	catalog *catalog.Store
	cart    *cart.Store
	orders  *Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	sub, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	ctx := context.Background()

	catalogStore := catalog.NewStore(sub)
	cartStore := cart.NewStore(sub, catalogStore)
	orderStore := NewStore(sub, catalogStore, cartStore)
	orderStore.nowFunc = func() time.Time {
		return time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC)
	}

	if err := catalogStore.Init(ctx); err != nil {
		t.Fatalf("init catalog: %v", err)
	}
	if err := cartStore.Init(ctx); err != nil {
		t.Fatalf("init cart: %v", err)
	}
	if err := orderStore.Init(ctx); err != nil {
		t.Fatalf("init orders: %v", err)
	}
	return &fixture{catalog: catalogStore, cart: cartStore, orders: orderStore}
}

func testCustomer() Customer {
	return Customer{
		Name:          "Ash Ketchum",
		Email:         "ash@example.com",
		Phone:         "9876543210",
		PaymentID:     "pay_test",
		PaymentMethod: "card",
	}
}

func TestCreate_SuccessfulCheckout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Charizard VMAX: 299.99, stock 5
	if err := f.cart.Add(ctx, 1, 3); err != nil {
		t.Fatalf("add: %v", err)
	}

	order, err := f.orders.Create(ctx, testCustomer())
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	if order.ID != 1 {
		t.Fatalf("expected order id 1, got %d", order.ID)
	}
	if len(order.Items) != 1 {
		t.Fatalf("expected 1 line item, got %d", len(order.Items))
	}
	item := order.Items[0]
	if item.Name != "Charizard VMAX" || item.Quantity != 3 {
		t.Fatalf("unexpected line item: %+v", item)
	}
	if want := decimal.RequireFromString("899.97"); !order.Total.Equal(want) {
		t.Fatalf("expected total %s, got %s", want, order.Total)
	}

	// stock decremented
	p, err := f.catalog.GetByID(ctx, 1)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if p.Stock != 2 {
		t.Fatalf("expected stock 2 after checkout, got %d", p.Stock)
	}

	// cart emptied
	lines, err := f.cart.List(ctx)
	if err != nil {
		t.Fatalf("list cart: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("cart must be empty after checkout, got %d lines", len(lines))
	}

	// order persisted
	history, err := f.orders.List(ctx)
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if len(history) != 1 || history[0].ID != order.ID {
		t.Fatalf("unexpected order history: %+v", history)
	}
	if history[0].Customer.Email != "ash@example.com" {
		t.Fatalf("customer not persisted: %+v", history[0].Customer)
	}
}

func TestCreate_EmptyCart(t *testing.T) {
	f := newFixture(t)

	_, err := f.orders.Create(context.Background(), testCustomer())
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestCreate_FailedValidationMutatesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// two valid lines, then drain Umbreon's stock underneath its line
	if err := f.cart.Add(ctx, 8, 2); err != nil { // Mew ex, stock 20
		t.Fatalf("add: %v", err)
	}
	if err := f.cart.Add(ctx, 4, 2); err != nil { // Umbreon, stock 3
		t.Fatalf("add: %v", err)
	}
	one := 1
	if _, err := f.catalog.Update(ctx, 4, catalog.ProductUpdate{Stock: &one}); err != nil {
		t.Fatalf("drain stock: %v", err)
	}

	_, err := f.orders.Create(ctx, testCustomer())
	var stockErr *cart.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if stockErr.ProductName != "Umbreon VMAX" {
		t.Fatalf("error must name the failing product, got %q", stockErr.ProductName)
	}

	// the valid line's stock is untouched: validation ran before any
	// decrement
	p, _ := f.catalog.GetByID(ctx, 8)
	if p.Stock != 20 {
		t.Fatalf("expected Mew ex stock 20, got %d", p.Stock)
	}

	// both lines survive the rejected checkout
	lines, _ := f.cart.List(ctx)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines after rejected checkout, got %d", len(lines))
	}

	// no order written
	history, _ := f.orders.List(ctx)
	if len(history) != 0 {
		t.Fatalf("rejected checkout must not create an order, got %d", len(history))
	}
}

func TestCreate_DanglingLineFailsCheckout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.cart.Add(ctx, 6, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := f.catalog.Delete(ctx, 6); err != nil {
		t.Fatalf("delete product: %v", err)
	}

	_, err := f.orders.Create(ctx, testCustomer())
	var stockErr *cart.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError for dangling line, got %v", err)
	}
}

func TestOrders_ImmutableUnderCatalogEdits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.cart.Add(ctx, 8, 1); err != nil { // Mew ex, 24.99
		t.Fatalf("add: %v", err)
	}
	order, err := f.orders.Create(ctx, testCustomer())
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	// rename, reprice and finally delete the product
	name := "Renamed Card"
	price := decimal.RequireFromString("999.99")
	if _, err := f.catalog.Update(ctx, 8, catalog.ProductUpdate{Name: &name, Price: &price}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := f.catalog.Delete(ctx, 8); err != nil {
		t.Fatalf("delete: %v", err)
	}

	stored, err := f.orders.Get(ctx, order.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if stored == nil {
		t.Fatalf("order vanished")
	}
	if stored.Items[0].Name != "Mew ex" {
		t.Fatalf("order item name must be a snapshot, got %q", stored.Items[0].Name)
	}
	if want := decimal.RequireFromString("24.99"); !stored.Items[0].Price.Equal(want) {
		t.Fatalf("order item price must be a snapshot, got %s", stored.Items[0].Price)
	}
	if !stored.Total.Equal(decimal.RequireFromString("24.99")) {
		t.Fatalf("order total must be a snapshot, got %s", stored.Total)
	}
}

func TestCreate_TotalMatchesLineItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.cart.Add(ctx, 2, 2); err != nil { // Pikachu, 89.99
		t.Fatalf("add: %v", err)
	}
	if err := f.cart.Add(ctx, 3, 1); err != nil { // Mewtwo & Mew, 45.99
		t.Fatalf("add: %v", err)
	}

	order, err := f.orders.Create(ctx, testCustomer())
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	sum := decimal.Zero
	for _, item := range order.Items {
		sum = sum.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	if !order.Total.Equal(sum) {
		t.Fatalf("total %s does not match line items %s", order.Total, sum)
	}
	if want := decimal.RequireFromString("225.97"); !order.Total.Equal(want) {
		t.Fatalf("expected total %s, got %s", want, order.Total)
	}
}

func TestGet_UnknownOrder(t *testing.T) {
	f := newFixture(t)

	order, err := f.orders.Get(context.Background(), 42)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if order != nil {
		t.Fatalf("expected nil for unknown order, got %+v", order)
	}
}

func TestCreate_SequentialIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		if err := f.cart.Add(ctx, 8, 1); err != nil {
			t.Fatalf("add: %v", err)
		}
		order, err := f.orders.Create(ctx, testCustomer())
		if err != nil {
			t.Fatalf("checkout %d: %v", want, err)
		}
		if order.ID != want {
			t.Fatalf("expected order id %d, got %d", want, order.ID)
		}
	}
}
