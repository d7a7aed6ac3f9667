package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"sitebot-server/services/assistant-api/internal/domain/accessgate"
	"sitebot-server/services/assistant-api/internal/domain/billing"
	"sitebot-server/services/assistant-api/internal/domain/chat"
	"sitebot-server/services/assistant-api/internal/domain/conversation"
	"sitebot-server/services/assistant-api/internal/domain/lead"
	"sitebot-server/services/assistant-api/internal/domain/ratelimit"
	"sitebot-server/services/assistant-api/internal/domain/tenant"
	"sitebot-server/services/assistant-api/internal/infrastructure/metrics"
	"sitebot-server/services/assistant-api/internal/infrastructure/observability"
	"sitebot-server/services/assistant-api/internal/interfaces/httpserver/requests"
	"sitebot-server/services/assistant-api/internal/interfaces/httpserver/responses"
	"sitebot-server/services/assistant-api/internal/utils/platformerrors"
)

// ChatHandler serves the widget conversation endpoint. The request passes the
// access gate, the rate limiter and the usage accountant, in that order,
// before the orchestrator runs a turn.
type ChatHandler struct {
	gate         *accessgate.Gate
	limiter      *ratelimit.Limiter
	accountant   *billing.Accountant
	tenants      tenant.Repository
	chatService  *chat.Service
	platformHost string
	log          zerolog.Logger
}

// NewChatHandler constructs the handler.
func NewChatHandler(
	gate *accessgate.Gate,
	limiter *ratelimit.Limiter,
	accountant *billing.Accountant,
	tenants tenant.Repository,
	chatService *chat.Service,
	platformHost string,
	log zerolog.Logger,
) *ChatHandler {
	return &ChatHandler{
		gate:         gate,
		limiter:      limiter,
		accountant:   accountant,
		tenants:      tenants,
		chatService:  chatService,
		platformHost: platformHost,
		log:          log.With().Str("handler", "chat").Logger(),
	}
}

// Chat handles POST /v1/widget/chat.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req requests.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "Missing message")
		return
	}

	ctx := c.Request.Context()
	token := req.Token
	if token == "" {
		token = bearerToken(c.GetHeader("Authorization"))
	}
	host := accessgate.CallerHost(c.GetHeader("Origin"), c.GetHeader("Referer"), h.platformHost)

	gateResult, err := h.gate.Authorize(ctx, token, host)
	if err != nil {
		responses.HandleError(c, err, "Forbidden")
		return
	}

	t, err := h.tenants.FindByID(ctx, gateResult.TenantID)
	if err != nil {
		// The credential resolved but the tenant did not: stay generic.
		responses.HandleNewError(c, platformerrors.ErrorTypeForbidden, "Forbidden")
		return
	}

	if err := h.limiter.Allow(ctx, t.ID, c.ClientIP()); err != nil {
		if platformerrors.IsErrorType(err, platformerrors.ErrorTypeRateLimited) {
			metrics.RateLimitHitsTotal.Inc()
		}
		responses.HandleError(c, err, "Too many requests")
		return
	}

	if _, err := h.accountant.Authorize(ctx, t); err != nil {
		if platformerrors.IsErrorType(err, platformerrors.ErrorTypePaymentRequired) {
			metrics.QuotaHitsTotal.Inc()
		}
		responses.HandleError(c, err, "Usage limit reached")
		return
	}

	channel := conversation.NormalizeChannel(req.Channel)
	ctx, span := observability.StartTurnSpan(ctx, t.ID, string(channel))
	defer span.End()

	var clientLead *lead.Draft
	if req.Lead != nil {
		clientLead = &lead.Draft{
			Name:    req.Lead.Name,
			Email:   req.Lead.Email,
			Phone:   req.Lead.Phone,
			Consent: req.Lead.Consent,
		}
	}

	reply, err := h.chatService.Respond(ctx, chat.Params{
		Tenant:       t,
		IsPreview:    gateResult.IsPreview,
		PublicID:     req.ConversationID,
		ExternalRef:  req.ExternalRef,
		Message:      req.Message,
		CustomerName: req.CustomerName,
		Channel:      channel,
		Locale:       t.ResolveLocale(req.Locale),
		ClientLead:   clientLead,
		CallerIP:     c.ClientIP(),
		SourceHost:   host,
	})
	if err != nil {
		observability.RecordError(span, err)
		responses.HandleError(c, err, "Failed to process message")
		return
	}

	c.JSON(http.StatusOK, responses.FromReply(reply))
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
