package main

import (
	"context"
	"log"
	"net/http"
	"os"

	webAdapter "service-desk/internal/adapters/web"
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
		log.Println("using postgres store")
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
		log.Printf("using local store %s", path)
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
	} else {
		log.Println("Warning: OPENAI_API_KEY is not set, assistant disabled")
	}

	svc := app.NewAppService(ledger, engine, directory, agent)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable not set")
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	handler := webAdapter.NewHandler(svc, os.Getenv("ALLOWED_ORIGINS"), jwtSecret)

	log.Printf("server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}
