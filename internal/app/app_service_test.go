package app_test

import (
	"context"
	"errors"
	"testing"

	"service-desk/internal/app"
	"service-desk/internal/core"
	"service-desk/internal/store"

	"github.com/shopspring/decimal"
)

var (
	adminActor = app.Actor{Email: "admin@admin.com", Role: core.RoleAdmin}
	user1Actor = app.Actor{Email: "user1@example.com", Role: core.RoleUser}
)

// newTestApp builds the full service stack over an in-memory store with the
// default roster and an extra approved regular user for cross-user checks.
func newTestApp(t *testing.T) (app.ApplicationService, context.Context) {
	t.Helper()
	ctx := context.Background()
	st := store.NewMemory()
	roster := append(core.DefaultRoster(), core.UserAccount{
		Email: "user9@example.com", Name: "User Nine", Password: "user123",
		Role: core.RoleUser, Approved: true,
	})
	if err := st.SeedUsers(ctx, roster); err != nil {
		t.Fatalf("failed to seed roster: %v", err)
	}
	ledger := core.NewLedger(st)
	directory := core.NewUserDirectory(st)
	engine := core.NewWorkflowEngine(st, ledger, directory)
	return app.NewAppService(ledger, engine, directory, nil), ctx
}

// seedItemAndService creates one stocked item and one service assigned to
// user1, linked to that item.
func seedItemAndService(t *testing.T, ctx context.Context, svc app.ApplicationService) (*core.WarehouseItem, *core.Service) {
	t.Helper()
	item, err := svc.CreateItem(ctx, adminActor, app.CreateItemRequest{
		Name: "Clutch Kit", Price: decimal.RequireFromString("120.00"), Stock: 3,
	})
	if err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}
	order, err := svc.CreateService(ctx, adminActor, app.CreateServiceRequest{
		Code: "SVC-100", Name: "Clutch replacement",
		AssignedUser: "user1@example.com", WarehouseItemID: &item.ID,
	})
	if err != nil {
		t.Fatalf("CreateService failed: %v", err)
	}
	return item, order
}

// ── Admin gating ─────────────────────────────────────────────────────────────

func TestApp_AdminOnlyOperations(t *testing.T) {
	svc, ctx := newTestApp(t)
	item, order := seedItemAndService(t, ctx, svc)

	newName := "renamed"
	calls := []struct {
		name string
		call func() error
	}{
		{"CreateItem", func() error {
			_, err := svc.CreateItem(ctx, user1Actor, app.CreateItemRequest{Name: "X", Price: decimal.NewFromInt(1), Stock: 1})
			return err
		}},
		{"UpdateItem", func() error {
			_, err := svc.UpdateItem(ctx, user1Actor, app.UpdateItemRequest{ID: item.ID, Name: "X", Price: decimal.NewFromInt(1)})
			return err
		}},
		{"AdjustStock", func() error {
			_, err := svc.AdjustStock(ctx, user1Actor, item.ID, 1)
			return err
		}},
		{"DeleteItem", func() error { return svc.DeleteItem(ctx, user1Actor, item.ID) }},
		{"ListAllServices", func() error {
			_, err := svc.ListAllServices(ctx, user1Actor)
			return err
		}},
		{"CreateService", func() error {
			_, err := svc.CreateService(ctx, user1Actor, app.CreateServiceRequest{Code: "X", Name: "X", AssignedUser: "user1@example.com"})
			return err
		}},
		{"UpdateServiceFields", func() error {
			_, err := svc.UpdateServiceFields(ctx, user1Actor, order.ID, app.UpdateServiceRequest{Name: &newName})
			return err
		}},
		{"DeleteService", func() error { return svc.DeleteService(ctx, user1Actor, order.ID) }},
		{"ListUsers", func() error {
			_, err := svc.ListUsers(ctx, user1Actor)
			return err
		}},
		{"SetUserApproval", func() error {
			_, err := svc.SetUserApproval(ctx, user1Actor, "user2@example.com", true)
			return err
		}},
		{"GetPaymentsReport", func() error {
			_, err := svc.GetPaymentsReport(ctx, user1Actor)
			return err
		}},
		{"AskAssistant", func() error {
			_, err := svc.AskAssistant(ctx, user1Actor, "how much stock is left?")
			return err
		}},
	}
	for _, tc := range calls {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.call(); !errors.Is(err, core.ErrForbidden) {
				t.Errorf("expected ErrForbidden for non-admin %s, got %v", tc.name, err)
			}
		})
	}
}

// Non-admins reach the engine only through the status endpoint; field updates
// on their own services are still rejected.
func TestApp_NonAdminIsStatusOnly(t *testing.T) {
	svc, ctx := newTestApp(t)
	_, order := seedItemAndService(t, ctx, svc)

	updated, err := svc.UpdateServiceStatus(ctx, user1Actor, order.ID, core.StatusInProgress)
	if err != nil {
		t.Fatalf("assignee status update failed: %v", err)
	}
	if updated.Status != core.StatusInProgress {
		t.Errorf("expected in_progress, got %s", updated.Status)
	}

	newName := "sneaky rename"
	if _, err := svc.UpdateServiceFields(ctx, user1Actor, order.ID, app.UpdateServiceRequest{Name: &newName}); !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("expected ErrForbidden on assignee field update, got %v", err)
	}
}

func TestApp_UpdateServiceStatus_Authorization(t *testing.T) {
	svc, ctx := newTestApp(t)
	_, order := seedItemAndService(t, ctx, svc)

	// Another approved regular user may not touch user1's service.
	other := app.Actor{Email: "user9@example.com", Role: core.RoleUser}
	if _, err := svc.UpdateServiceStatus(ctx, other, order.ID, core.StatusCompleted); !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-assignee, got %v", err)
	}

	// Admins may update any service.
	if _, err := svc.UpdateServiceStatus(ctx, adminActor, order.ID, core.StatusCompleted); err != nil {
		t.Fatalf("admin status update failed: %v", err)
	}
}

// ── Items ────────────────────────────────────────────────────────────────────

func TestApp_UpdateItem_StockDeltaGoesThroughLedger(t *testing.T) {
	svc, ctx := newTestApp(t)
	item, _ := seedItemAndService(t, ctx, svc) // stock now 2 after reservation

	updated, err := svc.UpdateItem(ctx, adminActor, app.UpdateItemRequest{
		ID: item.ID, Name: "Clutch Kit Pro", Price: decimal.RequireFromString("130.00"), StockDelta: 5,
	})
	if err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}
	if updated.Stock != 7 {
		t.Errorf("expected stock 7, got %d", updated.Stock)
	}
	if updated.Name != "Clutch Kit Pro" {
		t.Errorf("expected renamed item, got %q", updated.Name)
	}

	// A correction that would drive stock negative is rejected.
	if _, err := svc.UpdateItem(ctx, adminActor, app.UpdateItemRequest{
		ID: item.ID, Name: "Clutch Kit Pro", Price: decimal.RequireFromString("130.00"), StockDelta: -100,
	}); !errors.Is(err, core.ErrNegativeStock) {
		t.Fatalf("expected ErrNegativeStock, got %v", err)
	}
}

// A rejected stock correction must not apply the descriptive edits bundled
// into the same request: the delta is settled before name and price.
func TestApp_UpdateItem_RejectedDeltaLeavesDetailsUntouched(t *testing.T) {
	svc, ctx := newTestApp(t)
	item, _ := seedItemAndService(t, ctx, svc) // stock now 2 after reservation

	if _, err := svc.UpdateItem(ctx, adminActor, app.UpdateItemRequest{
		ID: item.ID, Name: "Clutch Kit Deluxe", Price: decimal.RequireFromString("999.00"), StockDelta: -100,
	}); !errors.Is(err, core.ErrNegativeStock) {
		t.Fatalf("expected ErrNegativeStock, got %v", err)
	}

	got, err := svc.GetItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if got.Name != item.Name {
		t.Errorf("expected name unchanged %q, got %q", item.Name, got.Name)
	}
	if !got.Price.Equal(item.Price) {
		t.Errorf("expected price unchanged %s, got %s", item.Price, got.Price)
	}
	if got.Stock != 2 {
		t.Errorf("expected stock unchanged at 2, got %d", got.Stock)
	}
}

// ── Listing scope ────────────────────────────────────────────────────────────

func TestApp_ListMyServices_ScopedToActor(t *testing.T) {
	svc, ctx := newTestApp(t)
	seedItemAndService(t, ctx, svc)

	if _, err := svc.CreateService(ctx, adminActor, app.CreateServiceRequest{
		Code: "SVC-101", Name: "Inspection", Price: decimal.NewFromInt(20),
		AssignedUser: "user9@example.com",
	}); err != nil {
		t.Fatalf("CreateService failed: %v", err)
	}

	mine, err := svc.ListMyServices(ctx, user1Actor)
	if err != nil {
		t.Fatalf("ListMyServices failed: %v", err)
	}
	if len(mine) != 1 || mine[0].AssignedUser != "user1@example.com" {
		t.Errorf("expected only user1's service, got %+v", mine)
	}

	all, err := svc.ListAllServices(ctx, adminActor)
	if err != nil {
		t.Fatalf("ListAllServices failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 services, got %d", len(all))
	}
}

// ── Reports ──────────────────────────────────────────────────────────────────

func TestApp_GetPaymentsReport_CompletedOnly(t *testing.T) {
	svc, ctx := newTestApp(t)
	_, order := seedItemAndService(t, ctx, svc) // price 120.00, pending

	second, err := svc.CreateService(ctx, adminActor, app.CreateServiceRequest{
		Code: "SVC-102", Name: "Diagnostics", Price: decimal.RequireFromString("35.50"),
		AssignedUser: "user1@example.com",
	})
	if err != nil {
		t.Fatalf("CreateService failed: %v", err)
	}
	if _, err := svc.UpdateServiceStatus(ctx, adminActor, order.ID, core.StatusCompleted); err != nil {
		t.Fatalf("UpdateServiceStatus failed: %v", err)
	}
	if _, err := svc.UpdateServiceStatus(ctx, adminActor, second.ID, core.StatusInProgress); err != nil {
		t.Fatalf("UpdateServiceStatus failed: %v", err)
	}

	report, err := svc.GetPaymentsReport(ctx, adminActor)
	if err != nil {
		t.Fatalf("GetPaymentsReport failed: %v", err)
	}
	if len(report.Services) != 1 {
		t.Fatalf("expected 1 completed service in report, got %d", len(report.Services))
	}
	if !report.Total.Equal(decimal.RequireFromString("120.00")) {
		t.Errorf("expected total 120.00, got %s", report.Total)
	}
}

func TestApp_GetDashboardSummary(t *testing.T) {
	svc, ctx := newTestApp(t)
	_, order := seedItemAndService(t, ctx, svc)
	if _, err := svc.UpdateServiceStatus(ctx, adminActor, order.ID, core.StatusInProgress); err != nil {
		t.Fatalf("UpdateServiceStatus failed: %v", err)
	}

	summary, err := svc.GetDashboardSummary(ctx)
	if err != nil {
		t.Fatalf("GetDashboardSummary failed: %v", err)
	}
	if summary.Items != 1 {
		t.Errorf("expected 1 item, got %d", summary.Items)
	}
	if summary.UnitsOnHand != 2 {
		t.Errorf("expected 2 units on hand after reservation, got %d", summary.UnitsOnHand)
	}
	if summary.Services != 1 {
		t.Errorf("expected 1 service, got %d", summary.Services)
	}
	if summary.ServicesByStatus["in_progress"] != 1 {
		t.Errorf("expected 1 in_progress service, got %+v", summary.ServicesByStatus)
	}
}

// ── Auth ─────────────────────────────────────────────────────────────────────

func TestApp_AuthenticateUser(t *testing.T) {
	svc, ctx := newTestApp(t)

	session, err := svc.AuthenticateUser(ctx, "admin@admin.com", "admin")
	if err != nil {
		t.Fatalf("AuthenticateUser failed: %v", err)
	}
	if session.Role != core.RoleAdmin {
		t.Errorf("expected admin role, got %s", session.Role)
	}

	if _, err := svc.AuthenticateUser(ctx, "admin@admin.com", "wrong"); !errors.Is(err, core.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.AuthenticateUser(ctx, "user2@example.com", "user123"); !errors.Is(err, core.ErrUserNotApproved) {
		t.Fatalf("expected ErrUserNotApproved, got %v", err)
	}
}

func TestApp_SetUserApproval_UnblocksAssignment(t *testing.T) {
	svc, ctx := newTestApp(t)
	item, _ := seedItemAndService(t, ctx, svc)

	// user2 starts unapproved and cannot be assigned work.
	if _, err := svc.CreateService(ctx, adminActor, app.CreateServiceRequest{
		Code: "SVC-103", Name: "Tune-up", AssignedUser: "user2@example.com", WarehouseItemID: &item.ID,
	}); !errors.Is(err, core.ErrUserNotApproved) {
		t.Fatalf("expected ErrUserNotApproved, got %v", err)
	}

	if _, err := svc.SetUserApproval(ctx, adminActor, "user2@example.com", true); err != nil {
		t.Fatalf("SetUserApproval failed: %v", err)
	}
	if _, err := svc.CreateService(ctx, adminActor, app.CreateServiceRequest{
		Code: "SVC-103", Name: "Tune-up", AssignedUser: "user2@example.com", WarehouseItemID: &item.ID,
	}); err != nil {
		t.Fatalf("expected create to succeed after approval: %v", err)
	}
}

func TestApp_AskAssistant_Unconfigured(t *testing.T) {
	svc, ctx := newTestApp(t)
	if _, err := svc.AskAssistant(ctx, adminActor, "hello"); err == nil {
		t.Fatal("expected error when no API key is configured")
	}
}
