package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"reading-service/internal/models"
	"reading-service/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
)

const (
	eventCheckoutSessionCompleted = "checkout.session.completed"

	// Checkout session metadata keys
	metadataPackageType = "packageType"
	metadataQuantity    = "quantity"

	maxStripePayload = 65536
)

type StripeWebhookHandler struct {
	checkout CheckoutHandler
	secret   string
}

func NewStripeWebhookHandler(checkout CheckoutHandler, secret string) *StripeWebhookHandler {
	return &StripeWebhookHandler{checkout: checkout, secret: secret}
}

// HandleStripeWebhook godoc
// @Summary Payment provider webhook
// @Description Fulfils completed checkout sessions
// @Tags webhooks
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Signature"
// @Success 200 {object} models.WebhookAck
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /payments/webhook/stripe [post]
func (h *StripeWebhookHandler) HandleStripeWebhook(c *gin.Context) {
	if h.secret == "" {
		response.Error(c, http.StatusUnauthorized, response.MsgWebhookSecretMissing)
		return
	}

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxStripePayload))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Unable to read request body")
		return
	}

	event, err := webhook.ConstructEventWithOptions(payload, c.GetHeader("Stripe-Signature"), h.secret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		slog.Warn("Rejected stripe webhook", "error", err)
		response.Error(c, http.StatusBadRequest, "Invalid stripe webhook signature")
		return
	}

	if event.Type != eventCheckoutSessionCompleted {
		slog.Debug("Ignoring stripe event", "type", event.Type, "eventID", event.ID)
		c.JSON(http.StatusOK, models.WebhookAck{Received: true})
		return
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid checkout session payload")
		return
	}
	if session.PaymentStatus == stripe.CheckoutSessionPaymentStatusUnpaid {
		slog.Info("Checkout completed without payment, awaiting async settlement", "sessionID", session.ID)
		c.JSON(http.StatusOK, models.WebhookAck{Received: true})
		return
	}

	if err := h.checkout.HandleCheckoutCompleted(c.Request.Context(), purchaseFromSession(&session)); err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.WebhookAck{Received: true})
}

func purchaseFromSession(s *stripe.CheckoutSession) models.PurchaseCompleted {
	p := models.PurchaseCompleted{
		SessionID:   s.ID,
		ClerkUserID: s.ClientReferenceID,
		PackageType: models.PackageType(s.Metadata[metadataPackageType]),
		Quantity:    1,
	}
	if s.Customer != nil {
		p.CustomerID = s.Customer.ID
	}
	if q, err := strconv.Atoi(s.Metadata[metadataQuantity]); err == nil && q > 0 {
		p.Quantity = q
	}
	return p
}
