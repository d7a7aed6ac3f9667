package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"sitebot-server/services/assistant-api/internal/utils/platformerrors"
)

// ErrorResponse represents an error response with platform error details.
// Billing rejections additionally carry limit/used/period_end so the widget
// can render a precise upgrade prompt.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`

	Limit     *int   `json:"limit,omitempty"`
	Used      *int64 `json:"used,omitempty"`
	PeriodEnd string `json:"period_end,omitempty"`
}

// HandleError handles domain errors and returns appropriate HTTP responses
func HandleError(reqCtx *gin.Context, err error, message string) {
	var domainErr *platformerrors.PlatformError
	if errors.As(err, &domainErr) {
		statusCode := platformerrors.ErrorTypeToHTTPStatus(domainErr.GetErrorType())

		errResp := ErrorResponse{
			Error:     domainErr.Message,
			RequestID: domainErr.GetRequestID(),
		}
		applyContextFields(&errResp, domainErr.Context)

		reqCtx.AbortWithStatusJSON(statusCode, errResp)
		return
	}
	// Non-platform errors never leak details
	reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: message})
}

// HandleNewError creates a new typed error at the route layer and handles it
func HandleNewError(reqCtx *gin.Context, errorType platformerrors.ErrorType, message string) {
	ctx := reqCtx.Request.Context()
	err := platformerrors.NewError(ctx, platformerrors.LayerRoute, errorType, message, nil)

	statusCode := platformerrors.ErrorTypeToHTTPStatus(err.GetErrorType())

	reqCtx.AbortWithStatusJSON(statusCode, ErrorResponse{
		Error:     message,
		RequestID: err.GetRequestID(),
	})
}

func applyContextFields(resp *ErrorResponse, fields map[string]any) {
	if fields == nil {
		return
	}
	if limit, ok := fields["limit"].(int); ok {
		resp.Limit = &limit
	}
	if used, ok := fields["used"].(int64); ok {
		resp.Used = &used
	}
	if periodEnd, ok := fields["period_end"].(string); ok {
		resp.PeriodEnd = periodEnd
	}
}
