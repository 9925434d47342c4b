package app

import "github.com/shopspring/decimal"

// CreateItemRequest is the input for creating a warehouse item.
type CreateItemRequest struct {
	Name  string
	Price decimal.Decimal
	Stock int
}

// UpdateItemRequest is the input for editing a warehouse item. StockDelta is
// a signed correction applied through AdjustStock; zero means no stock change.
type UpdateItemRequest struct {
	ID         string
	Name       string
	Price      decimal.Decimal
	StockDelta int
}

// CreateServiceRequest is the input for creating a service work order.
// Price is only honored when no warehouse item is linked; otherwise the price
// is snapshotted from the item.
type CreateServiceRequest struct {
	Code            string
	Name            string
	Price           decimal.Decimal
	AssignedUser    string
	WarehouseItemID *string
}

// UpdateServiceRequest is a partial service update; nil fields are unchanged.
type UpdateServiceRequest struct {
	Code            *string
	Name            *string
	Price           *decimal.Decimal
	AssignedUser    *string
	WarehouseItemID *string
}
