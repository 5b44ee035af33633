package http

import (
	"context"
	"net/http"

	"gitgallery/gallery/application"

	"github.com/gin-gonic/gin"
	"github.com/google/go-github/v75/github"
	"github.com/rs/zerolog/log"
)

// Reconciler is the slice of the application layer the webhook needs.
type Reconciler interface {
	Reconcile(ctx context.Context) (*application.ReconcileReport, error)
}

// WebhookHandler reacts to pushes made to the gallery repository outside of
// this server (manual commits, other tooling) by running a reconciliation
// pass, so out-of-band edits to the blob folder or the catalog surface in
// the logs instead of lingering silently.
type WebhookHandler struct {
	webhookSecret []byte
	gallery       Reconciler
}

func NewWebhookHandler(secret string, gallery Reconciler) *WebhookHandler {
	return &WebhookHandler{
		webhookSecret: []byte(secret),
		gallery:       gallery,
	}
}

func (h *WebhookHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/webhook/git", h.HandleGitWebhook)
}

func (h *WebhookHandler) HandleGitWebhook(c *gin.Context) {
	payload, err := github.ValidatePayload(c.Request, h.webhookSecret)
	if err != nil {
		c.String(http.StatusBadRequest, "Invalid payload")
		return
	}

	event, err := github.ParseWebHook(github.WebHookType(c.Request), payload)
	if err != nil {
		c.String(http.StatusBadRequest, "Invalid event")
		return
	}

	switch event.(type) {
	case *github.PushEvent:
		report, err := h.gallery.Reconcile(c.Request.Context())
		if err != nil {
			log.Error().Err(err).Msg("Reconciliation after push failed")
			c.String(http.StatusInternalServerError, "Error handling event")
			return
		}
		if report.Consistent() {
			log.Info().Msg("Push received, gallery is consistent")
		}
	}

	c.Status(http.StatusNoContent)
}
