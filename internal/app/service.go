package app

import (
	"context"

	"service-desk/internal/core"
)

// Actor identifies the authenticated caller of an operation. Adapters build
// it from their session (JWT claims on the web, --as flag on the CLI).
type Actor struct {
	Email string
	Role  core.Role
}

// Admin reports whether the actor holds the admin role.
func (a Actor) Admin() bool {
	return a.Role == core.RoleAdmin
}

// ApplicationService is the single interface all UI adapters (Web, CLI) call.
// It decouples presentation from business logic and is the calling layer the
// access policy trusts: role checks and the non-admin status-only restriction
// are enforced here, not inside the Workflow Engine.
type ApplicationService interface {
	// AuthenticateUser performs the roster credential match and returns a
	// session for approved users.
	AuthenticateUser(ctx context.Context, email, password string) (*UserSession, error)

	// GetUser returns the credential-free profile for an email.
	GetUser(ctx context.Context, email string) (*core.UserProfile, error)

	// ListUsers returns the full roster. Admin only.
	ListUsers(ctx context.Context, actor Actor) ([]core.UserProfile, error)

	// SetUserApproval toggles a user's approved flag. Admin only; admin
	// accounts and the actor's own record cannot be toggled.
	SetUserApproval(ctx context.Context, actor Actor, email string, approved bool) (*core.UserProfile, error)

	// ListItems returns all warehouse items.
	ListItems(ctx context.Context) ([]core.WarehouseItem, error)

	// GetItem returns a single warehouse item.
	GetItem(ctx context.Context, id string) (*core.WarehouseItem, error)

	// CreateItem adds a warehouse item. Admin only.
	CreateItem(ctx context.Context, actor Actor, req CreateItemRequest) (*core.WarehouseItem, error)

	// UpdateItem overwrites an item's name and price and optionally applies a
	// stock delta (routed through the Ledger's AdjustStock so the
	// non-negative invariant holds). Admin only.
	UpdateItem(ctx context.Context, actor Actor, req UpdateItemRequest) (*core.WarehouseItem, error)

	// AdjustStock applies a signed stock delta to an item. Admin only.
	AdjustStock(ctx context.Context, actor Actor, itemID string, delta int) (*core.WarehouseItem, error)

	// DeleteItem removes an item unconditionally. Admin only.
	DeleteItem(ctx context.Context, actor Actor, itemID string) error

	// ListAllServices returns every service. Admin only.
	ListAllServices(ctx context.Context, actor Actor) ([]core.Service, error)

	// ListMyServices returns the services assigned to the actor.
	ListMyServices(ctx context.Context, actor Actor) ([]core.Service, error)

	// CreateService creates a service work order, reserving one unit of the
	// linked item's stock when a link is given. Admin only.
	CreateService(ctx context.Context, actor Actor, req CreateServiceRequest) (*core.Service, error)

	// UpdateServiceFields overwrites service fields, running the relink
	// protocol on a link change. Admin only — this is the trust boundary that
	// keeps non-admins away from anything but status.
	UpdateServiceFields(ctx context.Context, actor Actor, serviceID string, req UpdateServiceRequest) (*core.Service, error)

	// UpdateServiceStatus sets a service's status. Allowed for admins and for
	// the assigned user; never touches stock.
	UpdateServiceStatus(ctx context.Context, actor Actor, serviceID string, status core.ServiceStatus) (*core.Service, error)

	// DeleteService removes a service, returning its reserved unit. Admin only.
	DeleteService(ctx context.Context, actor Actor, serviceID string) error

	// GetPaymentsReport returns completed services and their revenue total.
	// Admin only.
	GetPaymentsReport(ctx context.Context, actor Actor) (*PaymentsReport, error)

	// GetDashboardSummary returns the counters shown on the dashboard.
	GetDashboardSummary(ctx context.Context) (*DashboardSummary, error)

	// AskAssistant answers an operational question using the AI agent with
	// read-only inventory tools. Admin only.
	AskAssistant(ctx context.Context, actor Actor, question string) (string, error)
}
