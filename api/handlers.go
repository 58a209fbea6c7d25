package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/chxlky/trello-verify-action/integrations"
	"github.com/chxlky/trello-verify-action/internal/verify"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultMaxBodyBytes is GitHub's cap on webhook payload size.
const DefaultMaxBodyBytes = 25 << 20

type Handler struct {
	Config        verify.Config
	Cards         verify.CardService
	Github        *integrations.GithubClient
	WebhookSecret string
	// Workers bounds the number of verifications running at once.
	Workers       chan struct{}
	// MaxBodyBytes limits the delivery size; zero means DefaultMaxBodyBytes.
	MaxBodyBytes  int64
}

func (h *Handler) GithubWebhookHandler(c *gin.Context) {
	limit := h.MaxBodyBytes
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Payload too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read request body"})
		return
	}

	if h.WebhookSecret != "" && !validSignature(h.WebhookSecret, c.GetHeader("X-Hub-Signature-256"), body) {
		zap.L().Warn("Rejected webhook with invalid signature", zap.String("remote", c.ClientIP()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid signature"})
		return
	}

	eventName := c.GetHeader("X-GitHub-Event")
	if eventName == "ping" {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
		return
	}

	runID := c.GetHeader("X-GitHub-Delivery")
	if runID == "" {
		runID = uuid.NewString()
	}
	log := zap.L().With(zap.String("runID", runID), zap.String("event", eventName))

	event, err := integrations.NewWebhookEvent(h.Github, eventName, body)
	if err != nil {
		log.Warn("Could not decode webhook payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload"})
		return
	}
	log = log.With(zap.String("action", event.Action()), zap.String("pullRequest", event.PullRequest().URL))

	if h.Workers != nil {
		select {
		case h.Workers <- struct{}{}:
			defer func() { <-h.Workers }()
		case <-c.Request.Context().Done():
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Request cancelled"})
			return
		}
	}

	err = verify.Run(c.Request.Context(), h.Config, event, h.Cards)
	if err == nil {
		log.Info("Pull request verified")
		c.JSON(http.StatusOK, gin.H{"status": "passed", "runID": runID})
		return
	}

	kind := verify.KindOf(err)
	status := http.StatusUnprocessableEntity
	if kind == verify.UpstreamServiceError {
		status = http.StatusBadGateway
	}
	log.Info("Pull request failed verification", zap.Stringer("kind", kind), zap.Error(err))
	c.JSON(status, gin.H{
		"status": "failed",
		"kind":   kind.String(),
		"error":  err.Error(),
		"runID":  runID,
	})
}

func (h *Handler) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// validSignature checks a "sha256=<hex>" HMAC header against body.
func validSignature(secret, header string, body []byte) bool {
	sig, ok := strings.CutPrefix(header, "sha256=")
	if !ok {
		return false
	}
	got, err := hex.DecodeString(sig)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(got, mac.Sum(nil))
}
