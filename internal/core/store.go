package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// Store is the persistence boundary for the warehouse and service tables plus
// the user roster. It is injected into the Ledger, Workflow Engine, and User
// Directory constructors so the domain logic never touches a global store and
// tests can run against the in-memory backend.
//
// The store offers no cross-record transactions. AdjustStock is the one
// primitive with an atomicity guarantee: implementations must apply the delta
// and the non-negative check as a single step (mutex in memory, conditional
// UPDATE in SQL) so that concurrent adjustments can never over-commit stock.
// Multi-record consistency — returning a unit when a service is deleted,
// transferring a unit on relink — is the Workflow Engine's job, via
// compensating calls.
type Store interface {
	// Warehouse items.
	InsertItem(ctx context.Context, item *WarehouseItem) error
	GetItem(ctx context.Context, id string) (*WarehouseItem, error)
	ListItems(ctx context.Context) ([]WarehouseItem, error)
	// UpdateItemDetails overwrites name and price only. Stock is deliberately
	// not writable here: all stock changes route through AdjustStock.
	UpdateItemDetails(ctx context.Context, id, name string, price decimal.Decimal) (*WarehouseItem, error)
	// AdjustStock applies delta to the item's stock and refreshes its
	// UpdatedAt. Fails with ErrNotFound if the item is missing and with
	// ErrNegativeStock if the result would be negative; on failure nothing
	// is mutated.
	AdjustStock(ctx context.Context, id string, delta int) (*WarehouseItem, error)
	DeleteItem(ctx context.Context, id string) error

	// Services.
	InsertService(ctx context.Context, svc *Service) error
	GetService(ctx context.Context, id string) (*Service, error)
	ListServices(ctx context.Context) ([]Service, error)
	ListServicesForUser(ctx context.Context, email string) ([]Service, error)
	UpdateService(ctx context.Context, svc *Service) error
	DeleteService(ctx context.Context, id string) error

	// User roster.
	GetUser(ctx context.Context, email string) (*UserAccount, error)
	ListUsers(ctx context.Context) ([]UserAccount, error)
	SetUserApproval(ctx context.Context, email string, approved bool) (*UserAccount, error)
	// SeedUsers inserts the roster only when the user table is empty.
	SeedUsers(ctx context.Context, users []UserAccount) error
}
