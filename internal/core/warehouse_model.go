package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// WarehouseItem is a stocked part or material. Stock counts whole units and
// is never negative; every linked service holds exactly one of those units
// until the service is deleted or relinked away.
type WarehouseItem struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
