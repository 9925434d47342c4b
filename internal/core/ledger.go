package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ledger owns warehouse stock counts and their mutation rules. AdjustStock is
// the sole stock mutation primitive in the system; the Workflow Engine and the
// item edit surface both route through it so the non-negative invariant is
// checked in exactly one place.
type Ledger interface {
	// CreateItem adds a new warehouse item. Price and stock must be
	// non-negative; the initial stock is stored as given.
	CreateItem(ctx context.Context, name string, price decimal.Decimal, stock int) (*WarehouseItem, error)

	// UpdateItemDetails overwrites an item's name and price. Stock corrections
	// go through AdjustStock instead.
	UpdateItemDetails(ctx context.Context, id, name string, price decimal.Decimal) (*WarehouseItem, error)

	// AdjustStock applies delta to an item's stock count. Fails without
	// mutating when the item is missing or the result would be negative.
	AdjustStock(ctx context.Context, id string, delta int) (*WarehouseItem, error)

	// HasAvailableStock reports whether the item exists and has stock > 0.
	HasAvailableStock(ctx context.Context, id string) (bool, error)

	// DeleteItem removes an item unconditionally. Services referencing the
	// item are NOT checked: a dangling link is left behind, and returning its
	// unit later becomes a tolerated no-op. Kept as-is pending a product
	// decision on referential integrity.
	DeleteItem(ctx context.Context, id string) error

	GetItem(ctx context.Context, id string) (*WarehouseItem, error)
	ListItems(ctx context.Context) ([]WarehouseItem, error)
}

type ledger struct {
	store Store
}

// NewLedger constructs a Ledger backed by the given store.
func NewLedger(store Store) Ledger {
	return &ledger{store: store}
}

func (l *ledger) CreateItem(ctx context.Context, name string, price decimal.Decimal, stock int) (*WarehouseItem, error) {
	if name == "" {
		return nil, fmt.Errorf("item name must not be empty")
	}
	if price.IsNegative() {
		return nil, fmt.Errorf("item price must be non-negative, got %s", price)
	}
	if stock < 0 {
		return nil, fmt.Errorf("initial stock must be non-negative, got %d: %w", stock, ErrNegativeStock)
	}

	now := time.Now().UTC()
	item := &WarehouseItem{
		ID:        uuid.NewString(),
		Name:      name,
		Price:     price,
		Stock:     stock,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := l.store.InsertItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to insert warehouse item: %w", err)
	}
	return item, nil
}

func (l *ledger) UpdateItemDetails(ctx context.Context, id, name string, price decimal.Decimal) (*WarehouseItem, error) {
	if name == "" {
		return nil, fmt.Errorf("item name must not be empty")
	}
	if price.IsNegative() {
		return nil, fmt.Errorf("item price must be non-negative, got %s", price)
	}
	item, err := l.store.UpdateItemDetails(ctx, id, name, price)
	if err != nil {
		return nil, fmt.Errorf("failed to update item %s: %w", id, err)
	}
	return item, nil
}

func (l *ledger) AdjustStock(ctx context.Context, id string, delta int) (*WarehouseItem, error) {
	item, err := l.store.AdjustStock(ctx, id, delta)
	if err != nil {
		return nil, fmt.Errorf("failed to adjust stock for item %s by %+d: %w", id, delta, err)
	}
	return item, nil
}

func (l *ledger) HasAvailableStock(ctx context.Context, id string) (bool, error) {
	item, err := l.store.GetItem(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up item %s: %w", id, err)
	}
	return item.Stock > 0, nil
}

func (l *ledger) DeleteItem(ctx context.Context, id string) error {
	if err := l.store.DeleteItem(ctx, id); err != nil {
		return fmt.Errorf("failed to delete item %s: %w", id, err)
	}
	return nil
}

func (l *ledger) GetItem(ctx context.Context, id string) (*WarehouseItem, error) {
	return l.store.GetItem(ctx, id)
}

func (l *ledger) ListItems(ctx context.Context) ([]WarehouseItem, error) {
	return l.store.ListItems(ctx)
}
