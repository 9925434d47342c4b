package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"

	"service-desk/internal/app"
	"service-desk/internal/core"

	"github.com/shopspring/decimal"
)

// Run executes a one-shot CLI command and exits. args is os.Args[1:] — the
// first element is the subcommand name.
//
// The CLI is a local operator tool, so it acts as the roster's admin account
// (override with SERVICE_DESK_ACTOR for testing the non-admin paths).
func Run(ctx context.Context, svc app.ApplicationService, args []string) {
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	actor := app.Actor{Email: "admin@admin.com", Role: core.RoleAdmin}
	if email := os.Getenv("SERVICE_DESK_ACTOR"); email != "" {
		profile, err := svc.GetUser(ctx, email)
		if err != nil {
			log.Fatalf("Unknown actor %s: %v", email, err)
		}
		actor = app.Actor{Email: profile.Email, Role: profile.Role}
	}

	switch args[0] {
	case "items":
		items, err := svc.ListItems(ctx)
		if err != nil {
			log.Fatalf("Failed to list items: %v", err)
		}
		printJSON(items)

	case "services":
		services, err := svc.ListAllServices(ctx, actor)
		if err != nil {
			log.Fatalf("Failed to list services: %v", err)
		}
		printJSON(services)

	case "create-item":
		if len(args) < 4 {
			log.Fatal(`Usage: app create-item <name> <price> <stock>`)
		}
		price, err := decimal.NewFromString(args[2])
		if err != nil {
			log.Fatalf("Invalid price %q: %v", args[2], err)
		}
		stock, err := strconv.Atoi(args[3])
		if err != nil {
			log.Fatalf("Invalid stock %q: %v", args[3], err)
		}
		item, err := svc.CreateItem(ctx, actor, app.CreateItemRequest{Name: args[1], Price: price, Stock: stock})
		if err != nil {
			log.Fatalf("Failed to create item: %v", err)
		}
		printJSON(item)

	case "adjust-stock":
		if len(args) < 3 {
			log.Fatal(`Usage: app adjust-stock <item-id> <delta>`)
		}
		delta, err := strconv.Atoi(args[2])
		if err != nil {
			log.Fatalf("Invalid delta %q: %v", args[2], err)
		}
		item, err := svc.AdjustStock(ctx, actor, args[1], delta)
		if err != nil {
			log.Fatalf("Failed to adjust stock: %v", err)
		}
		printJSON(item)

	case "create-service":
		if len(args) < 4 {
			log.Fatal(`Usage: app create-service <code> <name> <assignee-email> [item-id]`)
		}
		req := app.CreateServiceRequest{Code: args[1], Name: args[2], AssignedUser: args[3]}
		if len(args) > 4 {
			req.WarehouseItemID = &args[4]
		}
		created, err := svc.CreateService(ctx, actor, req)
		if err != nil {
			log.Fatalf("Failed to create service: %v", err)
		}
		printJSON(created)

	case "set-status":
		if len(args) < 3 {
			log.Fatal(`Usage: app set-status <service-id> <pending|in_progress|completed>`)
		}
		updated, err := svc.UpdateServiceStatus(ctx, actor, args[1], core.ServiceStatus(args[2]))
		if err != nil {
			log.Fatalf("Failed to update status: %v", err)
		}
		printJSON(updated)

	case "delete-service":
		if len(args) < 2 {
			log.Fatal(`Usage: app delete-service <service-id>`)
		}
		if err := svc.DeleteService(ctx, actor, args[1]); err != nil {
			log.Fatalf("Failed to delete service: %v", err)
		}
		fmt.Println("Service deleted, reserved stock returned.")

	case "users":
		users, err := svc.ListUsers(ctx, actor)
		if err != nil {
			log.Fatalf("Failed to list users: %v", err)
		}
		printJSON(users)

	case "payments":
		report, err := svc.GetPaymentsReport(ctx, actor)
		if err != nil {
			log.Fatalf("Failed to build payments report: %v", err)
		}
		printJSON(report)

	case "ask":
		if len(args) < 2 {
			log.Fatal(`Usage: app ask "<question>"`)
		}
		answer, err := svc.AskAssistant(ctx, actor, args[1])
		if err != nil {
			log.Fatalf("Assistant error: %v", err)
		}
		fmt.Println(answer)

	default:
		usage()
		os.Exit(2)
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: app <command> [args]

Commands:
  items                                       list warehouse items
  create-item <name> <price> <stock>          add a warehouse item
  adjust-stock <item-id> <delta>              apply a signed stock delta
  services                                    list all services
  create-service <code> <name> <email> [item] create a service (optionally linked)
  set-status <service-id> <status>            update a service status
  delete-service <service-id>                 delete a service, returning stock
  users                                       list the roster
  payments                                    completed-services revenue report
  ask "<question>"                            ask the operations assistant`)
}
