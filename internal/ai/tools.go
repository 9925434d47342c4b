package ai

import (
	"context"
	"encoding/json"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/responses"
)

// ToolHandler executes a read tool. It receives parsed JSON parameters and
// returns a JSON-encoded result string fed back to the model.
type ToolHandler func(ctx context.Context, params map[string]any) (string, error)

// ToolDefinition describes one tool in the registry. The assistant only
// carries read tools: every mutation stays on the explicit command surface,
// so there is no confirmation flow here.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema map[string]any // JSON Schema for the tool's input parameters
	Handler     ToolHandler
}

// ToolRegistry holds the tools available to the agent for a given call.
// The application layer registers handlers closing over its read methods.
type ToolRegistry struct {
	tools []ToolDefinition
}

// NewToolRegistry creates an empty ToolRegistry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{}
}

// Register adds a tool to the registry.
func (r *ToolRegistry) Register(t ToolDefinition) {
	r.tools = append(r.tools, t)
}

// Get returns the ToolDefinition for a given tool name, and whether it was found.
func (r *ToolRegistry) Get(name string) (ToolDefinition, bool) {
	for _, t := range r.tools {
		if t.Name == name {
			return t, true
		}
	}
	return ToolDefinition{}, false
}

// ToOpenAITools converts the registry to the OpenAI Responses API tool format.
func (r *ToolRegistry) ToOpenAITools() []responses.ToolUnionParam {
	out := make([]responses.ToolUnionParam, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, responses.ToolUnionParam{
			OfFunction: &responses.FunctionToolParam{
				Name:        t.Name,
				Description: openai.String(t.Description),
				Parameters:  t.InputSchema,
			},
		})
	}
	return out
}

// InputSchema reflects a JSON Schema map from a tool's parameter struct.
func InputSchema[T any]() map[string]any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)
	data, err := json.Marshal(schema)
	if err != nil {
		return map[string]any{"type": "object"}
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return map[string]any{"type": "object"}
	}
	return m
}
