package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	stderrors "persona-match/internal/common/errors"
	"persona-match/internal/common/logger"
	"persona-match/internal/common/metrics"
	"persona-match/internal/insights"
	"persona-match/internal/scoring"
)

const (
	maxPosts      = 200
	maxTextLength = 10000
)

// Analyzer is the scoring surface the handler depends on.
type Analyzer interface {
	Analyze(ctx context.Context, bio string, posts []string, topK int) (*scoring.Result, error)
}

type Handler struct {
	analyzer Analyzer
	logger   logger.Logger
}

func NewHandler(analyzer Analyzer, log logger.Logger) *Handler {
	return &Handler{
		analyzer: analyzer,
		logger:   log.WithFields(map[string]interface{}{"component": "server"}),
	}
}

// HandleAnalyze runs the full analysis pipeline for one profile: persona
// scoring, product recommendations, and style insights.
func (h *Handler) HandleAnalyze(c *gin.Context) {
	start := time.Now()
	requestID := RequestIDFrom(c)

	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, requestID, stderrors.NewInvalidRequestError(err.Error()))
		return
	}

	if err := validateRequest(&req); err != nil {
		h.respondError(c, requestID, err)
		return
	}

	result, err := h.analyzer.Analyze(c.Request.Context(), req.Bio, req.Posts, req.TopK)
	if err != nil {
		h.logger.WithError(err).Error("analysis failed", map[string]interface{}{
			"requestId": requestID,
		})
		h.respondError(c, requestID, err)
		return
	}

	metrics.AnalyzeRequestsTotal.WithLabelValues("success").Inc()
	metrics.AnalyzeDuration.Observe(time.Since(start).Seconds())

	h.logger.Info("analysis completed", map[string]interface{}{
		"requestId":  requestID,
		"matches":    len(result.Matches),
		"durationMs": time.Since(start).Milliseconds(),
	})

	c.JSON(http.StatusOK, AnalyzeResponse{
		RequestID:       requestID,
		Matches:         result.Matches,
		TopCategories:   result.TopCategories,
		Recommendations: result.Recommendations,
		Insights:        insights.Analyze(req.Posts),
	})
}

// HandleIndex renders the interactive analysis form.
func (h *Handler) HandleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"title": "Persona Match",
	})
}

func (h *Handler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func validateRequest(req *AnalyzeRequest) error {
	if req.TopK < 0 {
		return stderrors.NewInvalidRequestError("top_k must not be negative")
	}
	if len(req.Posts) > maxPosts {
		return stderrors.NewInvalidRequestError("posts exceeds limit of " + strconv.Itoa(maxPosts))
	}
	if len(req.Bio) > maxTextLength {
		return stderrors.NewInvalidRequestError("bio exceeds limit of " + strconv.Itoa(maxTextLength) + " characters")
	}
	for _, p := range req.Posts {
		if len(p) > maxTextLength {
			return stderrors.NewInvalidRequestError("post exceeds limit of " + strconv.Itoa(maxTextLength) + " characters")
		}
	}
	return nil
}

func (h *Handler) respondError(c *gin.Context, requestID string, err error) {
	status := statusFor(err)

	metrics.AnalyzeRequestsTotal.WithLabelValues(statusLabel(status)).Inc()

	code := stderrors.CodeOf(err)
	resp := ErrorResponse{
		RequestID: requestID,
		Code:      string(code),
		Message:   err.Error(),
	}
	var se *stderrors.StandardError
	if errors.As(err, &se) {
		resp.Message = se.Message
		resp.Details = se.Details
	}
	if resp.Code == "" {
		resp.Code = "INTERNAL_ERROR"
	}

	c.JSON(status, resp)
}

// statusFor maps error codes to HTTP statuses: client faults are 400,
// inference collaborator failures surface as 502, everything else is 500.
func statusFor(err error) int {
	switch {
	case stderrors.CodeOf(err) == stderrors.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case stderrors.IsInferenceUnavailable(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func statusLabel(status int) string {
	switch {
	case status == http.StatusBadRequest:
		return "invalid"
	case status >= 500:
		return "error"
	default:
		return "success"
	}
}
