// Command seed populates the store with the demo roster and a small starter
// inventory so the server and CLI have data to work with on first run.
package main

import (
	"context"
	"log"
	"os"

	"service-desk/internal/app"
	"service-desk/internal/core"
	"service-desk/internal/db"
	"service-desk/internal/store"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()

	var backend core.Store
	if os.Getenv("DATABASE_URL") != "" {
		pool, err := db.NewPool(ctx)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer pool.Close()
		if err := db.EnsureSchema(ctx, pool); err != nil {
			log.Fatalf("schema: %v", err)
		}
		backend = store.NewPostgres(pool)
	} else {
		path := os.Getenv("STORE_PATH")
		if path == "" {
			path = "service-desk.json"
		}
		mem, err := store.OpenFile(path)
		if err != nil {
			log.Fatalf("store: %v", err)
		}
		backend = mem
	}

	if err := backend.SeedUsers(ctx, core.DefaultRoster()); err != nil {
		log.Fatalf("roster seed: %v", err)
	}
	log.Println("roster seeded")

	ledger := core.NewLedger(backend)
	directory := core.NewUserDirectory(backend)
	engine := core.NewWorkflowEngine(backend, ledger, directory)
	svc := app.NewAppService(ledger, engine, directory, nil)

	admin := app.Actor{Email: "admin@admin.com", Role: core.RoleAdmin}

	existing, err := svc.ListItems(ctx)
	if err != nil {
		log.Fatalf("list items: %v", err)
	}
	if len(existing) > 0 {
		log.Printf("store already has %d items, skipping inventory seed", len(existing))
		return
	}

	starter := []app.CreateItemRequest{
		{Name: "Brake Pad Set", Price: decimal.RequireFromString("49.90"), Stock: 12},
		{Name: "Oil Filter", Price: decimal.RequireFromString("8.50"), Stock: 40},
		{Name: "Timing Belt", Price: decimal.RequireFromString("74.00"), Stock: 6},
		{Name: "Wiper Blade Pair", Price: decimal.RequireFromString("15.25"), Stock: 0},
	}
	for _, req := range starter {
		item, err := svc.CreateItem(ctx, admin, req)
		if err != nil {
			log.Fatalf("create item %q: %v", req.Name, err)
		}
		log.Printf("created item %s (%s, stock %d)", item.Name, item.ID, item.Stock)
	}

	items, err := svc.ListItems(ctx)
	if err != nil {
		log.Fatalf("list items: %v", err)
	}
	demo := app.CreateServiceRequest{
		Code:            "SVC-0001",
		Name:            "Brake pad replacement",
		AssignedUser:    "user1@example.com",
		WarehouseItemID: &items[0].ID,
	}
	svcRec, err := svc.CreateService(ctx, admin, demo)
	if err != nil {
		log.Fatalf("create service: %v", err)
	}
	log.Printf("created service %s assigned to %s", svcRec.Code, svcRec.AssignedUser)

	log.Println("seed complete")
}
