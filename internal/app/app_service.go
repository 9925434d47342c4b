package app

import (
	"context"
	"fmt"

	"service-desk/internal/ai"
	"service-desk/internal/core"
)

type appService struct {
	ledger    core.Ledger
	engine    core.WorkflowEngine
	directory core.UserDirectory
	agent     *ai.Agent // nil when no OPENAI_API_KEY is configured
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(
	ledger core.Ledger,
	engine core.WorkflowEngine,
	directory core.UserDirectory,
	agent *ai.Agent,
) ApplicationService {
	return &appService{
		ledger:    ledger,
		engine:    engine,
		directory: directory,
		agent:     agent,
	}
}

// requireAdmin gates the admin-only command surface.
func requireAdmin(actor Actor) error {
	if !actor.Admin() {
		return fmt.Errorf("admin role required: %w", core.ErrForbidden)
	}
	return nil
}

// ── Auth & roster ─────────────────────────────────────────────────────────────

func (s *appService) AuthenticateUser(ctx context.Context, email, password string) (*UserSession, error) {
	profile, err := s.directory.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return &UserSession{Email: profile.Email, Name: profile.Name, Role: profile.Role}, nil
}

func (s *appService) GetUser(ctx context.Context, email string) (*core.UserProfile, error) {
	users, err := s.directory.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Email == email {
			return &users[i], nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, core.ErrNotFound)
}

func (s *appService) ListUsers(ctx context.Context, actor Actor) ([]core.UserProfile, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.directory.ListUsers(ctx)
}

func (s *appService) SetUserApproval(ctx context.Context, actor Actor, email string, approved bool) (*core.UserProfile, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.directory.SetApproval(ctx, actor.Email, email, approved)
}

// ── Warehouse ─────────────────────────────────────────────────────────────────

func (s *appService) ListItems(ctx context.Context) ([]core.WarehouseItem, error) {
	return s.ledger.ListItems(ctx)
}

func (s *appService) GetItem(ctx context.Context, id string) (*core.WarehouseItem, error) {
	return s.ledger.GetItem(ctx, id)
}

func (s *appService) CreateItem(ctx context.Context, actor Actor, req CreateItemRequest) (*core.WarehouseItem, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.ledger.CreateItem(ctx, req.Name, req.Price, req.Stock)
}

func (s *appService) UpdateItem(ctx context.Context, actor Actor, req UpdateItemRequest) (*core.WarehouseItem, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	// A stock correction from the edit form is a delta through the Ledger, so
	// the non-negative check cannot be bypassed. It runs first: a rejected
	// delta must fail the whole edit, not leave the rename half-applied.
	if req.StockDelta != 0 {
		if _, err := s.ledger.AdjustStock(ctx, req.ID, req.StockDelta); err != nil {
			return nil, err
		}
	}
	return s.ledger.UpdateItemDetails(ctx, req.ID, req.Name, req.Price)
}

func (s *appService) AdjustStock(ctx context.Context, actor Actor, itemID string, delta int) (*core.WarehouseItem, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.ledger.AdjustStock(ctx, itemID, delta)
}

func (s *appService) DeleteItem(ctx context.Context, actor Actor, itemID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return s.ledger.DeleteItem(ctx, itemID)
}

// ── Services ─────────────────────────────────────────────────────────────────

func (s *appService) ListAllServices(ctx context.Context, actor Actor) ([]core.Service, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.engine.ListServices(ctx)
}

func (s *appService) ListMyServices(ctx context.Context, actor Actor) ([]core.Service, error) {
	return s.engine.ListServicesForUser(ctx, actor.Email)
}

func (s *appService) CreateService(ctx context.Context, actor Actor, req CreateServiceRequest) (*core.Service, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.engine.CreateService(ctx, core.ServiceInput{
		Code:            req.Code,
		Name:            req.Name,
		Price:           req.Price,
		AssignedUser:    req.AssignedUser,
		WarehouseItemID: req.WarehouseItemID,
	})
}

func (s *appService) UpdateServiceFields(ctx context.Context, actor Actor, serviceID string, req UpdateServiceRequest) (*core.Service, error) {
	// Trust boundary: the engine accepts any field update it is handed, so
	// the admin check here is what keeps non-admins status-only.
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.engine.UpdateServiceFields(ctx, serviceID, core.ServiceUpdate{
		Code:            req.Code,
		Name:            req.Name,
		Price:           req.Price,
		AssignedUser:    req.AssignedUser,
		WarehouseItemID: req.WarehouseItemID,
	})
}

func (s *appService) UpdateServiceStatus(ctx context.Context, actor Actor, serviceID string, status core.ServiceStatus) (*core.Service, error) {
	svc, err := s.engine.GetService(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("service %s: %w", serviceID, err)
	}
	if !core.CanEditService(actor.Email, actor.Role, svc) {
		return nil, fmt.Errorf("service %s is not assigned to %s: %w", serviceID, actor.Email, core.ErrForbidden)
	}
	return s.engine.UpdateServiceStatus(ctx, serviceID, status)
}

func (s *appService) DeleteService(ctx context.Context, actor Actor, serviceID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return s.engine.DeleteService(ctx, serviceID)
}

// ── Reports ──────────────────────────────────────────────────────────────────

func (s *appService) GetPaymentsReport(ctx context.Context, actor Actor) (*PaymentsReport, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	all, err := s.engine.ListServices(ctx)
	if err != nil {
		return nil, err
	}
	report := &PaymentsReport{Services: []core.Service{}}
	for _, svc := range all {
		if svc.Status == core.StatusCompleted {
			report.Services = append(report.Services, svc)
			report.Total = report.Total.Add(svc.Price)
		}
	}
	return report, nil
}

func (s *appService) GetDashboardSummary(ctx context.Context) (*DashboardSummary, error) {
	items, err := s.ledger.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	services, err := s.engine.ListServices(ctx)
	if err != nil {
		return nil, err
	}
	summary := &DashboardSummary{
		Items:            len(items),
		Services:         len(services),
		ServicesByStatus: map[string]int{},
	}
	for _, it := range items {
		summary.UnitsOnHand += it.Stock
	}
	for _, svc := range services {
		summary.ServicesByStatus[string(svc.Status)]++
	}
	return summary, nil
}
