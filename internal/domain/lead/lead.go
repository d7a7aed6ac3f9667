package lead

import (
	"context"
	"regexp"
	"strings"
	"time"

	"sitebot-server/services/assistant-api/internal/domain/conversation"
)

// Lead is one captured contact. Created once per qualifying signal; no
// deduplication beyond requiring at least one identifying field.
type Lead struct {
	ID             uint
	TenantID       uint
	ConversationID uint
	Channel        conversation.Channel
	SourceHost     string
	ExternalRef    *string
	CallerIP       string
	Name           *string
	Email          *string
	Phone          *string
	Consent        bool
	CreatedAt      time.Time
}

// Repository persists leads.
type Repository interface {
	Create(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, id uint) (*Lead, error)
}

// Draft is an unvalidated lead payload, supplied by the client or extracted
// by the model.
type Draft struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Consent bool   `json:"consent,omitempty"`
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]{2,}$`)

const (
	maxNameLen  = 120
	maxPhoneLen = 40
)

// Normalize validates and cleans a draft. The result is nil when no
// identifying field survives normalization: such drafts are not leads.
func (d Draft) Normalize() *Draft {
	out := Draft{Consent: d.Consent}

	if name := strings.TrimSpace(d.Name); name != "" {
		if len(name) > maxNameLen {
			name = name[:maxNameLen]
		}
		out.Name = name
	}

	if email := strings.ToLower(strings.TrimSpace(d.Email)); email != "" && emailPattern.MatchString(email) {
		out.Email = email
	}

	if phone := strings.TrimSpace(d.Phone); phone != "" {
		if len(phone) > maxPhoneLen {
			phone = phone[:maxPhoneLen]
		}
		out.Phone = phone
	}

	if out.Name == "" && out.Email == "" && out.Phone == "" {
		return nil
	}
	return &out
}
