package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
)

// maxToolRounds bounds the agentic loop so a misbehaving model cannot spin
// read tools forever.
const maxToolRounds = 8

// Agent answers operational questions about the warehouse and the service
// board. It calls the registered read tools autonomously and returns a final
// plain-text answer; it never mutates anything.
type Agent struct {
	client *openai.Client
}

// NewAgent constructs an Agent for the given API key.
func NewAgent(apiKey string) *Agent {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Agent{client: &client}
}

// Answer runs the agentic read-tool loop for a single question.
func (a *Agent) Answer(ctx context.Context, question string, reg *ToolRegistry) (string, error) {
	prompt := fmt.Sprintf(`You are the operations assistant of a warehouse/service-assignment admin tool.
Answer the administrator's question using ONLY data fetched through the provided tools.
Rules:
1. Call tools to fetch stock levels and service records before answering.
2. Keep answers short and concrete: names, counts, statuses.
3. If the data cannot answer the question, say so — never invent records.

Question: %s`, question)

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(shared.ChatModelGPT4o),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(prompt),
		},
		Tools: reg.ToOpenAITools(),
	}

	for round := 0; round < maxToolRounds; round++ {
		resp, err := a.client.Responses.New(ctx, params)
		if err != nil {
			return "", fmt.Errorf("openai responses error: %w", err)
		}

		var outputs []responses.ResponseInputItemUnionParam
		for _, item := range resp.Output {
			if item.Type != "function_call" {
				continue
			}
			call := item.AsFunctionCall()
			result, err := a.execute(ctx, reg, call.Name, call.Arguments)
			if err != nil {
				// Surface tool failures to the model so it can answer anyway.
				result = fmt.Sprintf(`{"error": %q}`, err.Error())
			}
			outputs = append(outputs, responses.ResponseInputItemParamOfFunctionCallOutput(call.CallID, result))
		}

		if len(outputs) == 0 {
			answer := resp.OutputText()
			if answer == "" {
				return "", fmt.Errorf("empty response content")
			}
			return answer, nil
		}

		params = responses.ResponseNewParams{
			Model:              shared.ResponsesModel(shared.ChatModelGPT4o),
			PreviousResponseID: param.NewOpt(resp.ID),
			Input: responses.ResponseNewParamsInputUnion{
				OfInputItemList: outputs,
			},
			Tools: reg.ToOpenAITools(),
		}
	}

	return "", fmt.Errorf("tool loop exceeded %d rounds without a final answer", maxToolRounds)
}

// execute parses the model-supplied arguments and runs the named read tool.
func (a *Agent) execute(ctx context.Context, reg *ToolRegistry, name, arguments string) (string, error) {
	tool, ok := reg.Get(name)
	if !ok {
		return "", fmt.Errorf("unknown tool %q", name)
	}
	args := map[string]any{}
	if arguments != "" {
		if err := json.Unmarshal([]byte(arguments), &args); err != nil {
			return "", fmt.Errorf("invalid arguments for tool %q: %w", name, err)
		}
	}
	return tool.Handler(ctx, args)
}
