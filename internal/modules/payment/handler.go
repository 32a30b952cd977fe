package payment

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"beatlab/internal/pkg/response"
)

type Handler struct {
	service *Service
	loggerf func(format string, args ...interface{})
}

func NewHandler(service *Service, loggerf func(format string, args ...interface{})) *Handler {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Handler{service: service, loggerf: loggerf}
}

// CreateCheckout handles POST /api/v1/beats/:id/checkout. Works for both
// signed-in buyers (identity resolved by the optional JWT middleware)
// and guests.
func (h *Handler) CreateCheckout(c *gin.Context) {
	beatID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid beat ID")
		return
	}

	actor := h.service.ResolveActor(c.Request.Context(), c.GetInt64("user_id"))
	origin := c.GetHeader("Origin")

	resp, err := h.service.CreateCheckout(c.Request.Context(), beatID, actor, origin)
	if err != nil {
		switch {
		case errors.Is(err, ErrBeatNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Beat not found")
		case errors.Is(err, ErrUpstream):
			response.Error(c, http.StatusBadGateway, "UPSTREAM_FAILURE", "Payment provider is unavailable")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create checkout session")
		}
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// StripeWebhook handles POST /api/v1/webhooks/stripe. The contract is
// Stripe's, not the app envelope: 400 plain text on signature failures,
// 200 {"verified": true} for test events, 200 {"received": true} after
// dispatch, 500 plain text when processing fails post-verification.
func (h *Handler) StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.String(http.StatusBadRequest, "Cannot read body")
		return
	}

	sig := c.GetHeader("Stripe-Signature")
	if sig == "" {
		h.loggerf("level=error msg=missing stripe-signature header")
		c.String(http.StatusBadRequest, "Missing signature")
		return
	}

	ack, err := h.service.HandleWebhook(c.Request.Context(), payload, sig)
	if err != nil {
		if errors.Is(err, ErrInvalidSignature) || errors.Is(err, ErrMissingSignature) {
			h.loggerf("level=error msg=webhook signature verification failed err=%v", err)
			c.String(http.StatusBadRequest, "Webhook Error: "+err.Error())
			return
		}
		h.loggerf("level=error msg=webhook processing failed err=%v", err)
		c.String(http.StatusInternalServerError, "Webhook processing failed")
		return
	}

	if ack.Verified {
		c.JSON(http.StatusOK, gin.H{"verified": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

/* ---------- ROUTE REGISTRATION ---------- */

// RegisterCheckoutRoutes goes on the group wrapped with OptionalJWTAuth.
func (h *Handler) RegisterCheckoutRoutes(r *gin.RouterGroup) {
	r.POST("/beats/:id/checkout", h.CreateCheckout)
}

func (h *Handler) RegisterWebhookRoutes(r *gin.RouterGroup) {
	r.POST("/webhooks/stripe", h.StripeWebhook)
}
