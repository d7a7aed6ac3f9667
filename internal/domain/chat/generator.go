package chat

import (
	"context"
	"errors"

	"sitebot-server/services/assistant-api/internal/domain/conversation"
	"sitebot-server/services/assistant-api/internal/domain/lead"
)

// Provider failure classes. Throttled covers auth, quota and rate-limit
// rejections from the provider; anything else is a plain failure. Both map to
// localized fallback replies, never to a surfaced error.
var (
	ErrProviderThrottled = errors.New("provider throttled or unauthorized")
)

// Turn is one prior message handed to the model.
type Turn struct {
	Role    conversation.Role
	Content string
}

// GenerateRequest carries the assembled system prompt plus recent history.
type GenerateRequest struct {
	System  string
	History []Turn
	Locale  string
}

// GenerateResult is the structured output contract the model must satisfy:
// a reply plus optional actions and an optionally extracted lead.
type GenerateResult struct {
	Reply   string
	Actions []Action
	Lead    *lead.Draft
}

// Generator produces assistant replies. Implemented by the OpenAI-backed
// client in infrastructure/llmclient.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error)
}
