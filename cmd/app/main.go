package main

import (
	"context"
	"log"
	"os"

	cliAdapter "service-desk/internal/adapters/cli"
	"service-desk/internal/ai"
	"service-desk/internal/app"
	"service-desk/internal/core"
	"service-desk/internal/db"
	"service-desk/internal/store"

	"github.com/joho/godotenv"
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

	ledger := core.NewLedger(backend)
	directory := core.NewUserDirectory(backend)
	engine := core.NewWorkflowEngine(backend, ledger, directory)

	var agent *ai.Agent
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		agent = ai.NewAgent(apiKey)
	}

	svc := app.NewAppService(ledger, engine, directory, agent)

	cliAdapter.Run(ctx, svc, os.Args[1:])
}
