package payment

// Actor is the requesting identity for checkout creation. A zero UserID
// means an anonymous/guest buyer; the session metadata then carries the
// "guest" sentinel.
type Actor struct {
	UserID int64
	Email  string
	Name   string
}

type CheckoutResponse struct {
	CheckoutURL string `json:"checkoutUrl"`
}

// WebhookAck mirrors the two acknowledgment shapes of the webhook
// endpoint: {"verified": true} for synthetic test events and
// {"received": true} after real dispatch.
type WebhookAck struct {
	Verified bool
	Received bool
}
