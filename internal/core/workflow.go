package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// WorkflowEngine owns service records and coordinates their lifecycle with
// the Ledger. A linked service reserves exactly one unit of its item's stock
// for its entire lifetime; the reservation is implicit in the link field, so
// every create, relink, and delete here settles that unit with the Ledger.
//
// Field-level authorization is deliberately NOT enforced here. The engine
// trusts the calling layer to restrict non-admins to status-only updates (see
// the access policy); hardening that boundary would belong to a capability-
// scoped update variant, not to silent checks inside these methods.
type WorkflowEngine interface {
	// CreateService creates a new service in pending status. When the input
	// carries a warehouse link, availability is checked first; on success one
	// unit is reserved and the service price is snapshotted from the item's
	// current price. Fails with ErrOutOfStock (no service created) when the
	// item has no stock, and with ErrUserNotApproved when the assignee is not
	// on the approved roster.
	CreateService(ctx context.Context, in ServiceInput) (*Service, error)

	// UpdateServiceFields overwrites the supplied fields verbatim. All field
	// validation (including assignee approval) runs before any stock is
	// touched. Changing the warehouse link runs the relink protocol: the old
	// item's unit is returned, the new item is checked and reserved, and on
	// an out-of-stock new item the old reservation is restored and the whole
	// update fails with no net change. A failed record write after a relink
	// reverses the transfer the same way. Relinking to the same item never
	// touches stock.
	UpdateServiceFields(ctx context.Context, id string, update ServiceUpdate) (*Service, error)

	// UpdateServiceStatus sets the status and refreshes UpdatedAt. Statuses
	// are unordered — any of the three values may follow any other — and the
	// update never touches stock: the reserved unit was consumed at creation
	// time, not at completion.
	UpdateServiceStatus(ctx context.Context, id string, status ServiceStatus) (*Service, error)

	// DeleteService removes the service, first returning its reserved unit to
	// the linked item. A missing item (deleted since linking) is tolerated:
	// the return becomes a logged no-op and the delete proceeds.
	DeleteService(ctx context.Context, id string) error

	GetService(ctx context.Context, id string) (*Service, error)
	ListServices(ctx context.Context) ([]Service, error)
	ListServicesForUser(ctx context.Context, email string) ([]Service, error)
}

type workflowEngine struct {
	store     Store
	ledger    Ledger
	directory UserDirectory
}

// NewWorkflowEngine constructs a WorkflowEngine coordinating the given store,
// ledger, and user directory.
func NewWorkflowEngine(store Store, ledger Ledger, directory UserDirectory) WorkflowEngine {
	return &workflowEngine{store: store, ledger: ledger, directory: directory}
}

func (e *workflowEngine) CreateService(ctx context.Context, in ServiceInput) (*Service, error) {
	if in.Code == "" || in.Name == "" {
		return nil, fmt.Errorf("service code and name must not be empty")
	}
	if _, err := e.directory.FindApprovedUser(ctx, in.AssignedUser); err != nil {
		return nil, fmt.Errorf("assignee %s: %w", in.AssignedUser, err)
	}

	price := in.Price
	if in.WarehouseItemID != nil && *in.WarehouseItemID != "" {
		itemID := *in.WarehouseItemID
		available, err := e.ledger.HasAvailableStock(ctx, itemID)
		if err != nil {
			return nil, err
		}
		if !available {
			return nil, fmt.Errorf("item %s: %w", itemID, ErrOutOfStock)
		}
		item, err := e.ledger.AdjustStock(ctx, itemID, -1)
		if err != nil {
			// Lost the race between the availability check and the reserve.
			if errors.Is(err, ErrNegativeStock) {
				return nil, fmt.Errorf("item %s: %w", itemID, ErrOutOfStock)
			}
			return nil, err
		}
		price = item.Price
	}
	if price.IsNegative() {
		return nil, fmt.Errorf("service price must be non-negative, got %s", price)
	}

	now := time.Now().UTC()
	svc := &Service{
		ID:              uuid.NewString(),
		Code:            in.Code,
		Name:            in.Name,
		Price:           price,
		AssignedUser:    in.AssignedUser,
		WarehouseItemID: in.WarehouseItemID,
		Status:          StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := e.store.InsertService(ctx, svc); err != nil {
		// Undo the reservation so a failed insert leaves no half-applied state.
		if svc.Linked() {
			if _, rbErr := e.ledger.AdjustStock(ctx, *svc.WarehouseItemID, +1); rbErr != nil {
				log.Printf("workflow: failed to roll back reservation on item %s: %v", *svc.WarehouseItemID, rbErr)
			}
		}
		return nil, fmt.Errorf("failed to insert service: %w", err)
	}
	return svc, nil
}

func (e *workflowEngine) UpdateServiceFields(ctx context.Context, id string, update ServiceUpdate) (*Service, error) {
	svc, err := e.store.GetService(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service %s: %w", id, err)
	}

	// Validate every non-stock field before the Ledger is touched: once the
	// relink transfer has run, the only failure the rollback below can
	// compensate is the transfer itself.
	if update.AssignedUser != nil {
		if _, err := e.directory.FindApprovedUser(ctx, *update.AssignedUser); err != nil {
			return nil, fmt.Errorf("assignee %s: %w", *update.AssignedUser, err)
		}
	}

	// Relink protocol. Compare old vs new link before touching stock:
	// relinking to the item the service already holds must not double-decrement.
	relinked := false
	hadOld := false
	oldItemID := ""
	if update.WarehouseItemID != nil && !sameLink(svc.WarehouseItemID, update.WarehouseItemID) {
		newItemID := *update.WarehouseItemID

		// (a) Return the unit held on the old item, if any.
		hadOld = svc.Linked()
		if hadOld {
			oldItemID = *svc.WarehouseItemID
			if _, err := e.ledger.AdjustStock(ctx, oldItemID, +1); err != nil && !errors.Is(err, ErrNotFound) {
				return nil, fmt.Errorf("failed to return unit to item %s: %w", oldItemID, err)
			}
		}

		// (b) Check and (d) reserve on the new item.
		if _, err := e.ledger.AdjustStock(ctx, newItemID, -1); err != nil {
			// (c) Roll back step (a): re-reserve the old item so the failed
			// update leaves no net change.
			if hadOld {
				if _, rbErr := e.ledger.AdjustStock(ctx, oldItemID, -1); rbErr != nil {
					log.Printf("workflow: relink rollback failed, could not re-reserve item %s: %v", oldItemID, rbErr)
				}
			}
			if errors.Is(err, ErrNegativeStock) || errors.Is(err, ErrNotFound) {
				return nil, fmt.Errorf("item %s: %w", newItemID, ErrOutOfStock)
			}
			return nil, err
		}

		svc.WarehouseItemID = update.WarehouseItemID
		relinked = true
	}

	if update.Code != nil {
		svc.Code = *update.Code
	}
	if update.Name != nil {
		svc.Name = *update.Name
	}
	if update.Price != nil {
		svc.Price = *update.Price
	}
	if update.AssignedUser != nil {
		svc.AssignedUser = *update.AssignedUser
	}
	svc.UpdatedAt = time.Now().UTC()

	if err := e.store.UpdateService(ctx, svc); err != nil {
		// Undo the transfer: a failed write must leave no net stock change.
		if relinked {
			if _, rbErr := e.ledger.AdjustStock(ctx, *update.WarehouseItemID, +1); rbErr != nil {
				log.Printf("workflow: could not return unit to item %s after failed update: %v", *update.WarehouseItemID, rbErr)
			}
			if hadOld {
				if _, rbErr := e.ledger.AdjustStock(ctx, oldItemID, -1); rbErr != nil {
					log.Printf("workflow: could not re-reserve item %s after failed update: %v", oldItemID, rbErr)
				}
			}
		}
		return nil, fmt.Errorf("failed to update service %s: %w", id, err)
	}
	return svc, nil
}

func (e *workflowEngine) UpdateServiceStatus(ctx context.Context, id string, status ServiceStatus) (*Service, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("status %q: %w", status, ErrInvalidStatus)
	}
	svc, err := e.store.GetService(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service %s: %w", id, err)
	}
	svc.Status = status
	svc.UpdatedAt = time.Now().UTC()
	if err := e.store.UpdateService(ctx, svc); err != nil {
		return nil, fmt.Errorf("failed to update service %s status: %w", id, err)
	}
	return svc, nil
}

func (e *workflowEngine) DeleteService(ctx context.Context, id string) error {
	svc, err := e.store.GetService(ctx, id)
	if err != nil {
		return fmt.Errorf("service %s: %w", id, err)
	}

	// Return the reserved unit regardless of status: stock was consumed at
	// creation, so completion does not settle it. The linked item may have
	// been deleted in the meantime — that failure is tolerated silently.
	if svc.Linked() {
		if _, err := e.ledger.AdjustStock(ctx, *svc.WarehouseItemID, +1); err != nil {
			if !errors.Is(err, ErrNotFound) {
				return fmt.Errorf("failed to return unit to item %s: %w", *svc.WarehouseItemID, err)
			}
			log.Printf("workflow: item %s gone, unit from service %s not returned", *svc.WarehouseItemID, id)
		}
	}

	if err := e.store.DeleteService(ctx, id); err != nil {
		return fmt.Errorf("failed to delete service %s: %w", id, err)
	}
	return nil
}

func (e *workflowEngine) GetService(ctx context.Context, id string) (*Service, error) {
	return e.store.GetService(ctx, id)
}

func (e *workflowEngine) ListServices(ctx context.Context) ([]Service, error) {
	return e.store.ListServices(ctx)
}

func (e *workflowEngine) ListServicesForUser(ctx context.Context, email string) ([]Service, error) {
	return e.store.ListServicesForUser(ctx, email)
}

// sameLink reports whether two optional item links point at the same item.
func sameLink(a, b *string) bool {
	switch {
	case a == nil && b == nil:
		return true
	case a == nil || b == nil:
		return false
	default:
		return *a == *b
	}
}
