package store

import (
	"context"
	"errors"
	"fmt"

	"service-desk/internal/core"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Postgres is the pgx-backed store. Stock adjustments use a conditional
// UPDATE carrying the non-negative check, so two concurrent reservations
// against the last unit cannot both commit (the lost-update race the
// single-user original never surfaced).
type Postgres struct {
	pool *pgxpool.Pool
}

var _ core.Store = (*Postgres)(nil)

// NewPostgres constructs a Postgres store on an existing pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const itemColumns = "id, name, price, stock, created_at, updated_at"

func scanItem(row pgx.Row) (*core.WarehouseItem, error) {
	var it core.WarehouseItem
	err := row.Scan(&it.ID, &it.Name, &it.Price, &it.Stock, &it.CreatedAt, &it.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan warehouse item: %w", err)
	}
	return &it, nil
}

// ── Warehouse items ───────────────────────────────────────────────────────────

func (p *Postgres) InsertItem(ctx context.Context, item *core.WarehouseItem) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO warehouse_items (id, name, price, stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, item.ID, item.Name, item.Price, item.Stock, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert warehouse item: %w", err)
	}
	return nil
}

func (p *Postgres) GetItem(ctx context.Context, id string) (*core.WarehouseItem, error) {
	return scanItem(p.pool.QueryRow(ctx,
		"SELECT "+itemColumns+" FROM warehouse_items WHERE id = $1", id))
}

func (p *Postgres) ListItems(ctx context.Context) ([]core.WarehouseItem, error) {
	rows, err := p.pool.Query(ctx,
		"SELECT "+itemColumns+" FROM warehouse_items ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("failed to query warehouse items: %w", err)
	}
	defer rows.Close()

	var items []core.WarehouseItem
	for rows.Next() {
		var it core.WarehouseItem
		if err := rows.Scan(&it.ID, &it.Name, &it.Price, &it.Stock, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan warehouse item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (p *Postgres) UpdateItemDetails(ctx context.Context, id, name string, price decimal.Decimal) (*core.WarehouseItem, error) {
	return scanItem(p.pool.QueryRow(ctx, `
		UPDATE warehouse_items
		SET name = $1, price = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING `+itemColumns,
		name, price, id))
}

func (p *Postgres) AdjustStock(ctx context.Context, id string, delta int) (*core.WarehouseItem, error) {
	// The stock condition rides inside the UPDATE so check and write are one
	// atomic statement — no FOR UPDATE round-trip needed for a single row.
	item, err := scanItem(p.pool.QueryRow(ctx, `
		UPDATE warehouse_items
		SET stock = stock + $1, updated_at = NOW()
		WHERE id = $2 AND stock + $1 >= 0
		RETURNING `+itemColumns,
		delta, id))
	if errors.Is(err, core.ErrNotFound) {
		// Distinguish a missing item from a rejected negative result.
		var exists bool
		if chkErr := p.pool.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM warehouse_items WHERE id = $1)", id,
		).Scan(&exists); chkErr != nil {
			return nil, fmt.Errorf("failed to check item %s: %w", id, chkErr)
		}
		if exists {
			return nil, core.ErrNegativeStock
		}
		return nil, core.ErrNotFound
	}
	return item, err
}

func (p *Postgres) DeleteItem(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, "DELETE FROM warehouse_items WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete warehouse item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

// ── Services ──────────────────────────────────────────────────────────────────

const serviceColumns = "id, code, name, price, assigned_user, warehouse_item_id, status, created_at, updated_at"

func scanService(row pgx.Row) (*core.Service, error) {
	var s core.Service
	err := row.Scan(&s.ID, &s.Code, &s.Name, &s.Price, &s.AssignedUser,
		&s.WarehouseItemID, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan service: %w", err)
	}
	return &s, nil
}

func (p *Postgres) InsertService(ctx context.Context, svc *core.Service) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO services (id, code, name, price, assigned_user, warehouse_item_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, svc.ID, svc.Code, svc.Name, svc.Price, svc.AssignedUser, svc.WarehouseItemID,
		svc.Status, svc.CreatedAt, svc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert service: %w", err)
	}
	return nil
}

func (p *Postgres) GetService(ctx context.Context, id string) (*core.Service, error) {
	return scanService(p.pool.QueryRow(ctx,
		"SELECT "+serviceColumns+" FROM services WHERE id = $1", id))
}

func (p *Postgres) listServices(ctx context.Context, query string, args ...any) ([]core.Service, error) {
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query services: %w", err)
	}
	defer rows.Close()

	var services []core.Service
	for rows.Next() {
		var s core.Service
		if err := rows.Scan(&s.ID, &s.Code, &s.Name, &s.Price, &s.AssignedUser,
			&s.WarehouseItemID, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

func (p *Postgres) ListServices(ctx context.Context) ([]core.Service, error) {
	return p.listServices(ctx,
		"SELECT "+serviceColumns+" FROM services ORDER BY created_at, id")
}

func (p *Postgres) ListServicesForUser(ctx context.Context, email string) ([]core.Service, error) {
	return p.listServices(ctx,
		"SELECT "+serviceColumns+" FROM services WHERE assigned_user = $1 ORDER BY created_at, id", email)
}

func (p *Postgres) UpdateService(ctx context.Context, svc *core.Service) error {
	tag, err := p.pool.Exec(ctx, `
		UPDATE services
		SET code = $1, name = $2, price = $3, assigned_user = $4,
		    warehouse_item_id = $5, status = $6, updated_at = $7
		WHERE id = $8
	`, svc.Code, svc.Name, svc.Price, svc.AssignedUser, svc.WarehouseItemID,
		svc.Status, svc.UpdatedAt, svc.ID)
	if err != nil {
		return fmt.Errorf("failed to update service: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (p *Postgres) DeleteService(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, "DELETE FROM services WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

// ── User roster ───────────────────────────────────────────────────────────────

const userColumns = "email, name, password, role, approved"

func (p *Postgres) GetUser(ctx context.Context, email string) (*core.UserAccount, error) {
	var u core.UserAccount
	err := p.pool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = $1", email,
	).Scan(&u.Email, &u.Name, &u.Password, &u.Role, &u.Approved)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}

func (p *Postgres) ListUsers(ctx context.Context) ([]core.UserAccount, error) {
	rows, err := p.pool.Query(ctx, "SELECT "+userColumns+" FROM users ORDER BY email")
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []core.UserAccount
	for rows.Next() {
		var u core.UserAccount
		if err := rows.Scan(&u.Email, &u.Name, &u.Password, &u.Role, &u.Approved); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (p *Postgres) SetUserApproval(ctx context.Context, email string, approved bool) (*core.UserAccount, error) {
	var u core.UserAccount
	err := p.pool.QueryRow(ctx, `
		UPDATE users SET approved = $1 WHERE email = $2
		RETURNING `+userColumns,
		approved, email,
	).Scan(&u.Email, &u.Name, &u.Password, &u.Role, &u.Approved)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to set user approval: %w", err)
	}
	return &u, nil
}

func (p *Postgres) SeedUsers(ctx context.Context, users []core.UserAccount) error {
	var count int
	if err := p.pool.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}
	for _, u := range users {
		if _, err := p.pool.Exec(ctx, `
			INSERT INTO users (email, name, password, role, approved)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (email) DO NOTHING
		`, u.Email, u.Name, u.Password, u.Role, u.Approved); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", u.Email, err)
		}
	}
	return nil
}
