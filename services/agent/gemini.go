package agent

import (
	"context"
	"fmt"
	"strings"

	"busbook/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const maxToolRounds = 6

const systemPrompt = `You are a helpful bus booking assistant. You help users
search for buses between Indian cities, check seat availability, book tickets
paid from their wallet, and review their bookings. Use the provided tools for
every factual answer; never invent schedules, seats or prices. Amounts are in
rupees. Confirm seat selection and total price with the user before booking.`

// Conversation is the model runtime behind the agent service. It takes the
// persisted history plus the new user message and returns the assistant reply,
// running whatever tools the model asks for along the way.
type Conversation interface {
	Send(ctx context.Context, userID string, history []models.ChatMessage, message string) (string, error)
}

// GeminiAgent implements Conversation on Gemini function calling.
type GeminiAgent struct {
	model    *genai.GenerativeModel
	registry *ToolRegistry
}

// NewGeminiAgent builds the agent runtime against the given model name.
func NewGeminiAgent(ctx context.Context, apiKey, modelName string, registry *ToolRegistry) (*GeminiAgent, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.Tools = []*genai.Tool{{FunctionDeclarations: registry.Declarations()}}
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}
	return &GeminiAgent{model: model, registry: registry}, nil
}

func (g *GeminiAgent) Send(ctx context.Context, userID string, history []models.ChatMessage, message string) (string, error) {
	cs := g.model.StartChat()
	for _, m := range history {
		role := "user"
		if m.Role == models.ChatRoleAssistant {
			role = "model"
		}
		cs.History = append(cs.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}

	resp, err := cs.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", fmt.Errorf("gemini send error: %w", err)
	}

	// The model may chain tool calls; each round executes every requested
	// call and feeds the results back until it answers in text.
	for round := 0; round < maxToolRounds; round++ {
		calls := functionCalls(resp)
		if len(calls) == 0 {
			break
		}
		parts := make([]genai.Part, 0, len(calls))
		for _, call := range calls {
			out := g.registry.Dispatch(ctx, userID, call.Name, call.Args)
			parts = append(parts, genai.FunctionResponse{
				Name:     call.Name,
				Response: map[string]any{"content": out},
			})
		}
		resp, err = cs.SendMessage(ctx, parts...)
		if err != nil {
			return "", fmt.Errorf("gemini tool response error: %w", err)
		}
	}

	return responseText(resp), nil
}

func functionCalls(resp *genai.GenerateContentResponse) []genai.FunctionCall {
	var calls []genai.FunctionCall
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if call, ok := part.(genai.FunctionCall); ok {
			calls = append(calls, call)
		}
	}
	return calls
}

func responseText(resp *genai.GenerateContentResponse) string {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}
