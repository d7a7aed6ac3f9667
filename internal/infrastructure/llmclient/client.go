package llmclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"sitebot-server/services/assistant-api/internal/config"
	"sitebot-server/services/assistant-api/internal/domain/chat"
	"sitebot-server/services/assistant-api/internal/domain/conversation"
	"sitebot-server/services/assistant-api/internal/domain/lead"
)

const replyFunctionName = "assistant_reply"

// replySchema is the structured output contract the model must satisfy on
// every turn: a reply plus optional actions and an optional extracted lead.
var replySchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "reply": {
      "type": "string",
      "description": "The assistant's reply to the user, in the conversation locale."
    },
    "actions": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "type": {"type": "string", "enum": ["collect_lead", "cta"]},
          "fields": {"type": "array", "items": {"type": "string", "enum": ["name", "email", "phone"]}},
          "label": {"type": "string"},
          "url": {"type": "string"}
        },
        "required": ["type"]
      }
    },
    "lead": {
      "type": "object",
      "properties": {
        "name": {"type": "string"},
        "email": {"type": "string"},
        "phone": {"type": "string"}
      }
    }
  },
  "required": ["reply"]
}`)

// Client backs the chat generator and both embedding consumers with an
// OpenAI-compatible provider.
type Client struct {
	api            *openai.Client
	chatModel      string
	embeddingModel openai.EmbeddingModel
}

// NewClient constructs the provider client from config.
func NewClient(cfg *config.Config) *Client {
	apiConfig := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		apiConfig.BaseURL = cfg.OpenAIBaseURL
	}
	apiConfig.HTTPClient = &http.Client{Timeout: cfg.LLMTimeout}

	return &Client{
		api:            openai.NewClientWithConfig(apiConfig),
		chatModel:      cfg.ChatModel,
		embeddingModel: openai.EmbeddingModel(cfg.EmbeddingModel),
	}
}

type replyPayload struct {
	Reply   string          `json:"reply"`
	Actions []actionPayload `json:"actions"`
	Lead    *lead.Draft     `json:"lead"`
}

type actionPayload struct {
	Type   string   `json:"type"`
	Fields []string `json:"fields"`
	Label  string   `json:"label"`
	URL    string   `json:"url"`
}

// Generate invokes the chat model with the assembled system prompt and turn
// history, forcing the structured reply function.
func (c *Client) Generate(ctx context.Context, req chat.GenerateRequest) (*chat.GenerateResult, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.History)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: req.System,
	})
	for _, turn := range req.History {
		role := openai.ChatMessageRoleUser
		if turn.Role == conversation.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: turn.Content})
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.chatModel,
		Messages: messages,
		Tools: []openai.Tool{{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        replyFunctionName,
				Description: "Return the assistant reply with optional actions and an optional extracted lead.",
				Parameters:  replySchema,
			},
		}},
		ToolChoice: openai.ToolChoice{
			Type:     openai.ToolTypeFunction,
			Function: openai.ToolFunction{Name: replyFunctionName},
		},
	})
	if err != nil {
		return nil, classify(err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("provider returned no choices")
	}

	message := resp.Choices[0].Message
	payload := replyPayload{Reply: message.Content}
	for _, call := range message.ToolCalls {
		if call.Function.Name != replyFunctionName {
			continue
		}
		if err := json.Unmarshal([]byte(call.Function.Arguments), &payload); err != nil {
			return nil, fmt.Errorf("decode reply payload: %w", err)
		}
		break
	}
	if payload.Reply == "" {
		return nil, fmt.Errorf("provider returned an empty reply")
	}

	result := &chat.GenerateResult{Reply: payload.Reply, Lead: payload.Lead}
	for _, a := range payload.Actions {
		result.Actions = append(result.Actions, chat.Action{
			Type:   chat.ActionType(a.Type),
			Fields: a.Fields,
			Label:  a.Label,
			URL:    a.URL,
		})
	}
	return result, nil
}

// EmbedQuery embeds a single query string.
func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch embeds a batch of texts in one request.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: c.embeddingModel,
	})
	if err != nil {
		return nil, classify(err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("provider returned %d embeddings for %d inputs", len(resp.Data), len(texts))
	}

	vectors := make([][]float32, len(resp.Data))
	for _, item := range resp.Data {
		if item.Index < 0 || item.Index >= len(vectors) {
			return nil, fmt.Errorf("provider returned embedding index %d out of range", item.Index)
		}
		vectors[item.Index] = item.Embedding
	}
	return vectors, nil
}

// classify maps provider auth/quota/rate-limit rejections onto the throttled
// sentinel so callers can pick the right user-facing fallback.
func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusTooManyRequests, http.StatusPaymentRequired:
			return fmt.Errorf("%w: %v", chat.ErrProviderThrottled, err)
		}
	}
	return err
}
