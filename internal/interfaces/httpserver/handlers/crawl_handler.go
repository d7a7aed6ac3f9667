package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"sitebot-server/services/assistant-api/internal/domain/crawl"
	"sitebot-server/services/assistant-api/internal/domain/tenant"
	"sitebot-server/services/assistant-api/internal/infrastructure/observability"
	"sitebot-server/services/assistant-api/internal/interfaces/httpserver/requests"
	"sitebot-server/services/assistant-api/internal/interfaces/httpserver/responses"
	"sitebot-server/services/assistant-api/internal/utils/platformerrors"
)

// CrawlHandler triggers knowledge ingestion runs from the dashboard.
type CrawlHandler struct {
	crawler  *crawl.Crawler
	tenants  tenant.Repository
	validate *validator.Validate
	log      zerolog.Logger
}

// NewCrawlHandler constructs the handler.
func NewCrawlHandler(crawler *crawl.Crawler, tenants tenant.Repository, log zerolog.Logger) *CrawlHandler {
	return &CrawlHandler{
		crawler:  crawler,
		tenants:  tenants,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log.With().Str("handler", "crawl").Logger(),
	}
}

// Crawl handles POST /v1/knowledge/crawl.
func (h *CrawlHandler) Crawl(c *gin.Context) {
	var req requests.CrawlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "Invalid crawl request")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "Invalid crawl request")
		return
	}

	slug := tenantSlug(c, req.Tenant)
	if slug == "" {
		responses.HandleNewError(c, platformerrors.ErrorTypeForbidden, "Forbidden: missing tenant")
		return
	}

	ctx := c.Request.Context()
	t, err := h.tenants.FindByFilter(ctx, tenant.Filter{Slug: &slug})
	if err != nil || t == nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeForbidden, "Forbidden")
		return
	}

	mode := crawl.NormalizeMode(req.Mode)
	locale := t.ResolveLocale(req.Locale)

	ctx, span := observability.StartCrawlSpan(ctx, t.ID, req.URL, string(mode))
	defer span.End()

	result, err := h.crawler.Run(ctx, t, req.URL, locale, mode)
	if err != nil {
		observability.RecordError(span, err)
		responses.HandleError(c, err, "Crawl failed")
		return
	}

	c.JSON(http.StatusOK, responses.FromCrawlResult(result))
}

// tenantSlug resolves the acting tenant from the auth token's claim, falling
// back to the request body when auth is disabled.
func tenantSlug(c *gin.Context, fallback string) string {
	if value, ok := c.Get("auth_token"); ok {
		if token, ok := value.(*jwt.Token); ok {
			if claims, ok := token.Claims.(jwt.MapClaims); ok {
				if slug, _ := claims["tenant_slug"].(string); slug != "" {
					return slug
				}
			}
		}
	}
	return fallback
}
