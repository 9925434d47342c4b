package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"service-desk/internal/core"

	"github.com/shopspring/decimal"
)

// Memory is the local key-value backend: two flat record lists plus the user
// roster, held in insertion order and optionally snapshotted to a JSON file
// after every mutation. It is the default backend when no DATABASE_URL is
// configured, and the backend the engine tests run against.
//
// A single mutex guards all state. That is deliberate: the store offers no
// transactions, so AdjustStock must be a single read-modify-write under the
// lock or concurrent reservations against the last unit could both succeed.
type Memory struct {
	mu       sync.RWMutex
	items    []core.WarehouseItem
	services []core.Service
	users    []core.UserAccount
	path     string // snapshot file; empty disables persistence
}

// snapshot is the on-disk layout. The two record lists keep the storage keys
// of the original key-value store.
type snapshot struct {
	WarehouseItems []core.WarehouseItem `json:"warehouse_items"`
	Services       []core.Service       `json:"services"`
	Users          []core.UserAccount   `json:"users"`
}

var _ core.Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// OpenFile creates a memory store that loads from and snapshots to the JSON
// file at path. A missing file starts empty and is created on first write.
func OpenFile(path string) (*Memory, error) {
	m := &Memory{path: path}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store file %s: %w", path, err)
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse store file %s: %w", path, err)
	}
	m.items = snap.WarehouseItems
	m.services = snap.Services
	m.users = snap.Users
	return m, nil
}

// persist writes the snapshot file. Callers must hold the write lock.
// The snapshot is best-effort durability: the in-memory mutation has already
// committed by the time persist runs, so a failed write is logged rather than
// reported as a failed operation. The temp file + rename keeps a crash
// mid-write from truncating the previous snapshot.
func (m *Memory) persist() {
	if m.path == "" {
		return
	}
	snap := snapshot{WarehouseItems: m.items, Services: m.services, Users: m.users}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		log.Printf("store: failed to encode snapshot: %v", err)
		return
	}
	tmp := filepath.Join(filepath.Dir(m.path), "."+filepath.Base(m.path)+".tmp")
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		log.Printf("store: failed to write snapshot %s: %v", m.path, err)
		return
	}
	if err := os.Rename(tmp, m.path); err != nil {
		log.Printf("store: failed to replace snapshot %s: %v", m.path, err)
	}
}

// ── Warehouse items ───────────────────────────────────────────────────────────

func (m *Memory) InsertItem(_ context.Context, item *core.WarehouseItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, *item)
	m.persist()
	return nil
}

func (m *Memory) GetItem(_ context.Context, id string) (*core.WarehouseItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := range m.items {
		if m.items[i].ID == id {
			item := m.items[i]
			return &item, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *Memory) ListItems(_ context.Context) ([]core.WarehouseItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]core.WarehouseItem, len(m.items))
	copy(out, m.items)
	return out, nil
}

func (m *Memory) UpdateItemDetails(_ context.Context, id, name string, price decimal.Decimal) (*core.WarehouseItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			m.items[i].Name = name
			m.items[i].Price = price
			m.items[i].UpdatedAt = time.Now().UTC()
			item := m.items[i]
			m.persist()
			return &item, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *Memory) AdjustStock(_ context.Context, id string, delta int) (*core.WarehouseItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			if m.items[i].Stock+delta < 0 {
				return nil, core.ErrNegativeStock
			}
			m.items[i].Stock += delta
			m.items[i].UpdatedAt = time.Now().UTC()
			item := m.items[i]
			m.persist()
			return &item, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *Memory) DeleteItem(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			m.persist()
			return nil
		}
	}
	return core.ErrNotFound
}

// ── Services ──────────────────────────────────────────────────────────────────

func (m *Memory) InsertService(_ context.Context, svc *core.Service) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.services = append(m.services, *svc)
	m.persist()
	return nil
}

func (m *Memory) GetService(_ context.Context, id string) (*core.Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := range m.services {
		if m.services[i].ID == id {
			svc := m.services[i]
			return &svc, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *Memory) ListServices(_ context.Context) ([]core.Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]core.Service, len(m.services))
	copy(out, m.services)
	return out, nil
}

func (m *Memory) ListServicesForUser(_ context.Context, email string) ([]core.Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []core.Service
	for i := range m.services {
		if m.services[i].AssignedUser == email {
			out = append(out, m.services[i])
		}
	}
	return out, nil
}

func (m *Memory) UpdateService(_ context.Context, svc *core.Service) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.services {
		if m.services[i].ID == svc.ID {
			m.services[i] = *svc
			m.persist()
			return nil
		}
	}
	return core.ErrNotFound
}

func (m *Memory) DeleteService(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.services {
		if m.services[i].ID == id {
			m.services = append(m.services[:i], m.services[i+1:]...)
			m.persist()
			return nil
		}
	}
	return core.ErrNotFound
}

// ── User roster ───────────────────────────────────────────────────────────────

func (m *Memory) GetUser(_ context.Context, email string) (*core.UserAccount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := range m.users {
		if m.users[i].Email == email {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *Memory) ListUsers(_ context.Context) ([]core.UserAccount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]core.UserAccount, len(m.users))
	copy(out, m.users)
	return out, nil
}

func (m *Memory) SetUserApproval(_ context.Context, email string, approved bool) (*core.UserAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].Email == email {
			m.users[i].Approved = approved
			u := m.users[i]
			m.persist()
			return &u, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *Memory) SeedUsers(_ context.Context, users []core.UserAccount) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.users) > 0 {
		return nil
	}
	m.users = append(m.users, users...)
	m.persist()
	return nil
}
