package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// ServiceStatus is the lifecycle label of a service work order. The three
// values are unordered: any status may follow any other.
type ServiceStatus string

const (
	StatusPending    ServiceStatus = "pending"
	StatusInProgress ServiceStatus = "in_progress"
	StatusCompleted  ServiceStatus = "completed"
)

// Valid reports whether s is one of the three known statuses.
func (s ServiceStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Service is a work order assigned to a roster user. When WarehouseItemID is
// set the service holds a one-unit reservation on that item; the reservation
// lives and dies with the link, independent of status.
type Service struct {
	ID              string          `json:"id"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	Price           decimal.Decimal `json:"price"`
	AssignedUser    string          `json:"assigned_user"`
	WarehouseItemID *string         `json:"warehouse_item_id,omitempty"`
	Status          ServiceStatus   `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Linked reports whether the service holds a warehouse item reservation.
func (s *Service) Linked() bool {
	return s.WarehouseItemID != nil && *s.WarehouseItemID != ""
}

// ServiceInput is the payload for creating a service. Price is ignored when
// WarehouseItemID is set; the item's current price is snapshotted instead.
type ServiceInput struct {
	Code            string
	Name            string
	Price           decimal.Decimal
	AssignedUser    string
	WarehouseItemID *string
}

// ServiceUpdate is a partial overwrite of service fields; nil means leave the
// field unchanged. Setting WarehouseItemID triggers the relink protocol.
type ServiceUpdate struct {
	Code            *string
	Name            *string
	Price           *decimal.Decimal
	AssignedUser    *string
	WarehouseItemID *string
}
