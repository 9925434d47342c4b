package app

import (
	"context"
	"encoding/json"
	"fmt"

	"service-desk/internal/ai"
)

// noParams is the empty input schema for list tools.
type noParams struct{}

// getItemParams is the input for the get_warehouse_item tool.
type getItemParams struct {
	ID string `json:"id" jsonschema_description:"The warehouse item ID to look up"`
}

func (s *appService) AskAssistant(ctx context.Context, actor Actor, question string) (string, error) {
	if err := requireAdmin(actor); err != nil {
		return "", err
	}
	if s.agent == nil {
		return "", fmt.Errorf("assistant not configured: OPENAI_API_KEY is missing")
	}
	if question == "" {
		return "", fmt.Errorf("question must not be empty")
	}
	return s.agent.Answer(ctx, question, s.assistantTools())
}

// assistantTools registers the read-only tool surface the agent may call.
// No write tools exist: mutations stay on the explicit command endpoints.
func (s *appService) assistantTools() *ai.ToolRegistry {
	reg := ai.NewToolRegistry()

	reg.Register(ai.ToolDefinition{
		Name:        "list_stock_levels",
		Description: "List all warehouse items with their current price and stock count.",
		InputSchema: ai.InputSchema[noParams](),
		Handler: func(ctx context.Context, _ map[string]any) (string, error) {
			items, err := s.ledger.ListItems(ctx)
			if err != nil {
				return "", err
			}
			return encodeToolResult(items)
		},
	})

	reg.Register(ai.ToolDefinition{
		Name:        "list_services",
		Description: "List all service work orders with assignee, status, price, and linked warehouse item.",
		InputSchema: ai.InputSchema[noParams](),
		Handler: func(ctx context.Context, _ map[string]any) (string, error) {
			services, err := s.engine.ListServices(ctx)
			if err != nil {
				return "", err
			}
			return encodeToolResult(services)
		},
	})

	reg.Register(ai.ToolDefinition{
		Name:        "get_warehouse_item",
		Description: "Fetch a single warehouse item by its ID.",
		InputSchema: ai.InputSchema[getItemParams](),
		Handler: func(ctx context.Context, params map[string]any) (string, error) {
			id, _ := params["id"].(string)
			if id == "" {
				return "", fmt.Errorf("missing required parameter %q", "id")
			}
			item, err := s.ledger.GetItem(ctx, id)
			if err != nil {
				return "", err
			}
			return encodeToolResult(item)
		},
	})

	return reg
}

func encodeToolResult(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode tool result: %w", err)
	}
	return string(data), nil
}
