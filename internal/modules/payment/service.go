package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/stripe/stripe-go/v74"
	"gorm.io/gorm"

	"beatlab/internal/domain"
)

// TestEventPrefix marks synthetic verification events. They acknowledge
// with {"verified": true} and never reach any business handler.
const TestEventPrefix = "evt_test_"

type Service struct {
	beats     beatReader
	users     userReader
	purchases purchaseWriter
	stripe    stripeGateway
	loggerf   func(format string, args ...interface{})
}

func NewService(beats beatReader, users userReader, purchases purchaseWriter, gateway stripeGateway, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		beats:     beats,
		users:     users,
		purchases: purchases,
		stripe:    gateway,
		loggerf:   loggerf,
	}
}

/* ---------- CHECKOUT SESSION ---------- */

// CreateCheckout builds a Stripe Checkout session for a beat. The
// metadata bag is the only channel that lets the later webhook event be
// reconciled back to the beat and buyer, so it is populated on every
// session, guest checkouts included.
func (s *Service) CreateCheckout(ctx context.Context, beatID int64, actor Actor, origin string) (*CheckoutResponse, error) {
	beat, err := s.beats.GetByID(ctx, beatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBeatNotFound
		}
		return nil, err
	}
	if !beat.IsActive {
		return nil, ErrBeatNotFound
	}

	if origin == "" {
		origin = "http://localhost:3000"
	}

	name, description := beatProduct(beat)

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String("usd"),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(name),
						Description: stripe.String(description),
					},
					UnitAmount: stripe.Int64(beat.Price),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:          stripe.String(origin + "/purchase-success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:           stripe.String(origin + "/beats"),
		AllowPromotionCodes: stripe.Bool(true),
	}

	userID := "guest"
	if actor.UserID != 0 {
		userID = strconv.FormatInt(actor.UserID, 10)
		params.ClientReferenceID = stripe.String(userID)
		if actor.Email != "" {
			params.CustomerEmail = stripe.String(actor.Email)
		}
	}
	params.AddMetadata("beat_id", strconv.FormatInt(beat.ID, 10))
	params.AddMetadata("user_id", userID)
	params.AddMetadata("customer_email", actor.Email)
	params.AddMetadata("customer_name", actor.Name)

	sess, err := s.stripe.CreateCheckoutSession(params)
	if err != nil {
		s.loggerf("level=error msg=stripe checkout session failed beat_id=%d err=%v", beat.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	return &CheckoutResponse{CheckoutURL: sess.URL}, nil
}

// ResolveActor loads email and name for a signed-in buyer. A zero or
// unknown user is treated as a guest.
func (s *Service) ResolveActor(ctx context.Context, userID int64) Actor {
	if userID == 0 {
		return Actor{}
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.loggerf("level=warn msg=checkout actor lookup failed user_id=%d err=%v", userID, err)
		return Actor{}
	}
	return Actor{UserID: user.ID, Email: user.Email, Name: user.Name}
}

func beatProduct(beat *domain.Beat) (name, description string) {
	description = strings.TrimSpace(fmt.Sprintf("%s | Genre: %s | BPM: %d", beat.Description, beat.Genre, beat.BPM))
	return beat.Title, description
}

/* ---------- WEBHOOK ---------- */

// HandleWebhook verifies the signature over the raw body, then routes
// the event. Only checkout.session.completed mutates anything; every
// other known or unknown type is acknowledged as a no-op so the sender
// stops redelivering.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) (*WebhookAck, error) {
	if sigHeader == "" {
		return nil, ErrMissingSignature
	}

	event, err := s.stripe.ConstructEvent(payload, sigHeader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	if strings.HasPrefix(event.ID, TestEventPrefix) {
		s.loggerf("level=info msg=test event detected event_id=%s", event.ID)
		return &WebhookAck{Verified: true}, nil
	}

	s.loggerf("level=info msg=webhook event received type=%s event_id=%s", event.Type, event.ID)

	switch event.Type {
	case "checkout.session.completed":
		if err := s.recordCompletedCheckout(ctx, event); err != nil {
			return nil, err
		}
	case "payment_intent.succeeded":
		s.loggerf("level=info msg=payment intent succeeded event_id=%s", event.ID)
	case "payment_intent.payment_failed":
		s.loggerf("level=info msg=payment intent failed event_id=%s", event.ID)
	default:
		s.loggerf("level=info msg=unhandled event type type=%s event_id=%s", event.Type, event.ID)
	}

	return &WebhookAck{Received: true}, nil
}

// recordCompletedCheckout persists exactly one purchase per Stripe
// payment. Events that can never be processed (missing beat id or buyer
// email) are logged and dropped without error, so the sender's retry
// loop is not poisoned by them.
func (s *Service) recordCompletedCheckout(ctx context.Context, event stripe.Event) error {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		s.loggerf("level=error msg=cannot parse checkout session event_id=%s err=%v", event.ID, err)
		return nil
	}

	beatIDStr := sess.Metadata["beat_id"]

	email := sess.Metadata["customer_email"]
	name := sess.Metadata["customer_name"]
	if sess.CustomerDetails != nil {
		if sess.CustomerDetails.Email != "" {
			email = sess.CustomerDetails.Email
		}
		if sess.CustomerDetails.Name != "" {
			name = sess.CustomerDetails.Name
		}
	}

	if beatIDStr == "" || email == "" {
		s.loggerf("level=error msg=missing metadata in checkout session session_id=%s", sess.ID)
		return nil
	}

	beatID, err := strconv.ParseInt(beatIDStr, 10, 64)
	if err != nil {
		s.loggerf("level=error msg=malformed beat_id in metadata session_id=%s beat_id=%q", sess.ID, beatIDStr)
		return nil
	}

	paymentID := sess.ID
	if sess.PaymentIntent != nil && sess.PaymentIntent.ID != "" {
		paymentID = sess.PaymentIntent.ID
	}

	purchase := &domain.Purchase{
		BeatID:          beatID,
		BuyerEmail:      email,
		StripePaymentID: paymentID,
		Amount:          sess.AmountTotal,
		Status:          domain.PurchaseCompleted,
	}
	if name != "" {
		purchase.BuyerName = &name
	}

	created, err := s.purchases.CreateIdempotent(ctx, purchase)
	if err != nil {
		return err
	}
	if !created {
		s.loggerf("level=info msg=duplicate delivery, purchase already recorded payment_id=%s", paymentID)
		return nil
	}

	s.loggerf("level=info msg=purchase recorded beat_id=%d buyer=%s payment_id=%s", beatID, email, paymentID)
	return nil
}
