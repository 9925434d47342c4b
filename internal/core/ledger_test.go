package core_test

import (
	"context"
	"errors"
	"testing"

	"service-desk/internal/core"
	"service-desk/internal/store"

	"github.com/shopspring/decimal"
)

// newTestLedger builds a Ledger over a fresh in-memory store.
func newTestLedger(t *testing.T) (core.Ledger, context.Context) {
	t.Helper()
	return core.NewLedger(store.NewMemory()), context.Background()
}

func TestLedger_CreateItem(t *testing.T) {
	ledger, ctx := newTestLedger(t)

	item, err := ledger.CreateItem(ctx, "Brake Pad Set", decimal.RequireFromString("49.90"), 12)
	if err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}
	if item.ID == "" {
		t.Error("expected a generated item ID")
	}
	if item.Stock != 12 {
		t.Errorf("expected stock 12, got %d", item.Stock)
	}
	if !item.Price.Equal(decimal.RequireFromString("49.90")) {
		t.Errorf("expected price 49.90, got %s", item.Price)
	}

	got, err := ledger.GetItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if got.Name != "Brake Pad Set" {
		t.Errorf("expected name round-trip, got %q", got.Name)
	}
}

func TestLedger_CreateItem_Validation(t *testing.T) {
	ledger, ctx := newTestLedger(t)

	tests := []struct {
		name     string
		itemName string
		price    decimal.Decimal
		stock    int
	}{
		{"empty name", "", decimal.NewFromInt(10), 5},
		{"negative price", "Widget", decimal.NewFromInt(-1), 5},
		{"negative stock", "Widget", decimal.NewFromInt(10), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ledger.CreateItem(ctx, tt.itemName, tt.price, tt.stock); err == nil {
				t.Errorf("expected error for %s, got nil", tt.name)
			}
		})
	}
}

func TestLedger_AdjustStock(t *testing.T) {
	ledger, ctx := newTestLedger(t)
	item, err := ledger.CreateItem(ctx, "Oil Filter", decimal.NewFromInt(8), 3)
	if err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}

	updated, err := ledger.AdjustStock(ctx, item.ID, -2)
	if err != nil {
		t.Fatalf("AdjustStock -2 failed: %v", err)
	}
	if updated.Stock != 1 {
		t.Errorf("expected stock 1, got %d", updated.Stock)
	}

	updated, err = ledger.AdjustStock(ctx, item.ID, +5)
	if err != nil {
		t.Fatalf("AdjustStock +5 failed: %v", err)
	}
	if updated.Stock != 6 {
		t.Errorf("expected stock 6, got %d", updated.Stock)
	}
}

func TestLedger_AdjustStock_NeverGoesNegative(t *testing.T) {
	ledger, ctx := newTestLedger(t)
	item, err := ledger.CreateItem(ctx, "Timing Belt", decimal.NewFromInt(74), 2)
	if err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}

	if _, err := ledger.AdjustStock(ctx, item.ID, -3); !errors.Is(err, core.ErrNegativeStock) {
		t.Fatalf("expected ErrNegativeStock, got %v", err)
	}

	// A failed adjustment must not mutate the count.
	got, err := ledger.GetItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if got.Stock != 2 {
		t.Errorf("expected stock unchanged at 2, got %d", got.Stock)
	}
}

func TestLedger_AdjustStock_MissingItem(t *testing.T) {
	ledger, ctx := newTestLedger(t)
	if _, err := ledger.AdjustStock(ctx, "no-such-item", -1); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLedger_HasAvailableStock(t *testing.T) {
	ledger, ctx := newTestLedger(t)

	inStock, err := ledger.CreateItem(ctx, "Wiper Blade Pair", decimal.NewFromInt(15), 1)
	if err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}
	empty, err := ledger.CreateItem(ctx, "Spark Plug", decimal.NewFromInt(4), 0)
	if err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}

	if ok, err := ledger.HasAvailableStock(ctx, inStock.ID); err != nil || !ok {
		t.Errorf("expected available=true for stocked item, got %v, %v", ok, err)
	}
	if ok, err := ledger.HasAvailableStock(ctx, empty.ID); err != nil || ok {
		t.Errorf("expected available=false for empty item, got %v, %v", ok, err)
	}
	// Missing items read as unavailable rather than erroring.
	if ok, err := ledger.HasAvailableStock(ctx, "no-such-item"); err != nil || ok {
		t.Errorf("expected available=false for missing item, got %v, %v", ok, err)
	}
}

func TestLedger_UpdateItemDetails_DoesNotTouchStock(t *testing.T) {
	ledger, ctx := newTestLedger(t)
	item, err := ledger.CreateItem(ctx, "Air Filter", decimal.NewFromInt(12), 7)
	if err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}

	updated, err := ledger.UpdateItemDetails(ctx, item.ID, "Air Filter Pro", decimal.RequireFromString("14.50"))
	if err != nil {
		t.Fatalf("UpdateItemDetails failed: %v", err)
	}
	if updated.Name != "Air Filter Pro" {
		t.Errorf("expected renamed item, got %q", updated.Name)
	}
	if !updated.Price.Equal(decimal.RequireFromString("14.50")) {
		t.Errorf("expected price 14.50, got %s", updated.Price)
	}
	if updated.Stock != 7 {
		t.Errorf("expected stock untouched at 7, got %d", updated.Stock)
	}
}

func TestLedger_DeleteItem(t *testing.T) {
	ledger, ctx := newTestLedger(t)
	item, err := ledger.CreateItem(ctx, "Coolant", decimal.NewFromInt(9), 4)
	if err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}

	if err := ledger.DeleteItem(ctx, item.ID); err != nil {
		t.Fatalf("DeleteItem failed: %v", err)
	}
	if _, err := ledger.GetItem(ctx, item.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := ledger.DeleteItem(ctx, item.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double delete, got %v", err)
	}
}
