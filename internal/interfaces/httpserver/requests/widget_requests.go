package requests

// LeadPayload is a client-supplied lead attached to a chat turn.
type LeadPayload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Consent bool   `json:"consent"`
}

// ChatRequest is the widget conversation payload.
type ChatRequest struct {
	Token          string       `json:"token"`
	ConversationID string       `json:"conversationId"`
	ExternalRef    string       `json:"externalRef" binding:"omitempty,max=120"`
	Message        string       `json:"message" binding:"required,max=4000"`
	CustomerName   string       `json:"customerName" binding:"omitempty,max=120"`
	Channel        string       `json:"channel"`
	Locale         string       `json:"locale" binding:"omitempty,max=8"`
	Lead           *LeadPayload `json:"lead"`
}

// CrawlRequest triggers a knowledge ingestion run from the dashboard.
type CrawlRequest struct {
	URL    string `json:"url" validate:"required,url"`
	Locale string `json:"locale" validate:"omitempty,max=8"`
	Mode   string `json:"mode" validate:"omitempty,oneof=site page"`
	// Tenant is the tenant slug; used when the auth token carries no
	// tenant claim (local development).
	Tenant string `json:"tenant" validate:"omitempty,max=120"`
}
