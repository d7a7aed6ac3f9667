package responses

import (
	"sitebot-server/services/assistant-api/internal/domain/chat"
	"sitebot-server/services/assistant-api/internal/domain/crawl"
	"sitebot-server/services/assistant-api/internal/domain/tenant"
)

// ChatResponse is the widget conversation payload.
type ChatResponse struct {
	ConversationID string        `json:"conversationId"`
	Reply          string        `json:"reply"`
	Locale         string        `json:"locale"`
	Actions        []chat.Action `json:"actions,omitempty"`
}

// FromReply maps the orchestrator reply to the wire payload.
func FromReply(reply *chat.Reply) ChatResponse {
	return ChatResponse{
		ConversationID: reply.ConversationID,
		Reply:          reply.Text,
		Locale:         reply.Locale,
		Actions:        reply.Actions,
	}
}

// SessionResponse carries a fresh embed session plus the widget bootstrap
// settings so the loader needs a single round trip.
type SessionResponse struct {
	Token          string            `json:"token"`
	Locale         string            `json:"locale"`
	Brand          string            `json:"brand"`
	Slug           string            `json:"slug"`
	Theme          map[string]string `json:"theme,omitempty"`
	ShowBranding   bool              `json:"show_branding"`
	LocaleAuto     bool              `json:"locale_auto"`
	ShowHeaderIcon bool              `json:"show_header_icon"`
	EnabledLocales []string          `json:"enabled_locales"`
}

// NewSessionResponse builds the session payload for a tenant.
func NewSessionResponse(token string, t *tenant.Tenant) SessionResponse {
	enabled := t.EnabledLocales
	if len(enabled) == 0 {
		enabled = []string{t.ResolveLocale("")}
	}
	return SessionResponse{
		Token:          token,
		Locale:         t.ResolveLocale(""),
		Brand:          t.Name,
		Slug:           t.Slug,
		Theme:          t.Theme,
		ShowBranding:   t.ShowBranding,
		LocaleAuto:     t.LocaleAuto,
		ShowHeaderIcon: t.ShowHeaderIcon,
		EnabledLocales: enabled,
	}
}

// CrawlResponse reports one crawl run.
type CrawlResponse struct {
	OK                bool         `json:"ok"`
	RunID             string       `json:"runId"`
	Mode              string       `json:"mode"`
	PagesScanned      int          `json:"pagesScanned"`
	DocumentsUpserted int          `json:"documentsUpserted"`
	ChunksUpserted    int          `json:"chunksUpserted"`
	Errors            []string     `json:"errors"`
	Limits            crawl.Limits `json:"limits"`
}

// FromCrawlResult maps a crawl run result to the wire payload.
func FromCrawlResult(result *crawl.Result) CrawlResponse {
	return CrawlResponse{
		OK:                true,
		RunID:             result.RunID,
		Mode:              string(result.Mode),
		PagesScanned:      result.PagesScanned,
		DocumentsUpserted: result.DocumentsUpserted,
		ChunksUpserted:    result.ChunksUpserted,
		Errors:            result.Errors,
		Limits:            result.Limits,
	}
}
