package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gifty/internal/giftprompt"
	"gifty/internal/presets"
	"gifty/pkg/imagesearch"
	"gifty/pkg/llm"
	"gifty/pkg/logger"
	"gifty/pkg/maps"
	"gifty/pkg/region"
	"gifty/pkg/validation"
	"gifty/pkg/wizard"
)

const (
	TraceIDKey = "trace_id"
	SessionKey = "session_id"
	LoggerKey  = "logger"
)

type APIResponse struct {
	Status  string            `json:"status"`
	Code    int               `json:"code"`
	Message string            `json:"message,omitempty"`
	TraceID string            `json:"trace_id,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	RespondWithStatus(c, http.StatusOK, data, message)
}

func RespondWithStatus(c *gin.Context, code int, data interface{}, message string) {
	c.JSON(code, APIResponse{
		Status:  "success",
		Code:    code,
		Message: message,
		TraceID: c.GetString(TraceIDKey),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	respondError(c, code, message, nil)
}

func respondError(c *gin.Context, code int, message string, details map[string]string) {
	c.AbortWithStatusJSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: c.GetString(TraceIDKey),
		Details: details,
	})
}

// SessionID returns the browser session set by the session middleware.
func SessionID(c *gin.Context) string {
	return c.GetString(SessionKey)
}

func HandleServiceError(c *gin.Context, err error) {
	var verr *validation.Error
	var perr *giftprompt.ParseError

	switch {
	case errors.As(err, &verr):
		respondError(c, http.StatusBadRequest, "Please fix the highlighted fields", verr.Fields)
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, region.ErrUnknownRegion),
		errors.Is(err, wizard.ErrEmptyValue),
		errors.Is(err, wizard.ErrUnknownOption),
		errors.Is(err, wizard.ErrWrongStepKind),
		errors.Is(err, wizard.ErrInvalidStep),
		errors.Is(err, ErrEmptyAudio),
		errors.Is(err, ErrAudioTooLarge),
		errors.Is(err, ErrEmptyText),
		errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrContributionTooLow),
		errors.Is(err, ErrContributionTooHigh),
		errors.Is(err, ErrDeadlinePassed),
		errors.Is(err, ErrParticipantsRequired):
		respondError(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, ErrSessionRequired), errors.Is(err, ErrInvalidSession):
		respondError(c, http.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, ErrNoGiftRequest):
		respondError(c, http.StatusNotFound, "No gift request found, please start over", nil)
	case errors.Is(err, presets.ErrUnknownFlow):
		respondError(c, http.StatusNotFound, "Unknown gift finder", nil)
	case errors.Is(err, ErrRecipientNotFound),
		errors.Is(err, ErrGroupGiftNotFound),
		errors.Is(err, ErrParticipantNotFound),
		errors.Is(err, ErrGiftOptionNotFound),
		errors.Is(err, maps.ErrNotFound):
		respondError(c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, ErrStaleResponse),
		errors.Is(err, ErrGroupGiftClosed),
		errors.Is(err, ErrAlreadyVoted),
		errors.Is(err, wizard.ErrAlreadySubmitted),
		errors.Is(err, wizard.ErrNotFinalStep),
		errors.Is(err, wizard.ErrAtFirstStep),
		errors.Is(err, wizard.ErrAtLastStep):
		respondError(c, http.StatusConflict, err.Error(), nil)
	case errors.As(err, &perr), errors.Is(err, llm.ErrEmptyResponse):
		logError(c, "generator reply rejected", err)
		respondError(c, http.StatusBadGateway, "Suggestions unavailable, please try again", nil)
	case errors.Is(err, imagesearch.ErrAccessDenied), errors.Is(err, imagesearch.ErrQuotaExceeded):
		logError(c, "image search refused", err)
		respondError(c, http.StatusServiceUnavailable, err.Error(), nil)
	case errors.Is(err, llm.ErrUnavailable),
		errors.Is(err, maps.ErrUpstream),
		errors.Is(err, imagesearch.ErrUpstream),
		errors.Is(err, ErrFeatureDisabled):
		logError(c, "upstream unavailable", err)
		respondError(c, http.StatusServiceUnavailable, "Service temporarily unavailable, please try again", nil)
	case errors.Is(err, ErrDatabaseError):
		logError(c, "database error", err)
		respondError(c, http.StatusInternalServerError, "Internal server error", nil)
	default:
		logError(c, "unhandled error", err)
		respondError(c, http.StatusInternalServerError, "Internal server error", nil)
	}
}

func logError(c *gin.Context, msg string, err error) {
	if v, ok := c.Get(LoggerKey); ok {
		if log, ok := v.(*logger.Logger); ok {
			log.Error(c.Request.Context(), msg, err)
		}
	}
}
