package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v74"
	"gorm.io/gorm"

	"beatlab/internal/domain"
)

type mockBeatReader struct {
	beats map[int64]*domain.Beat
}

func (m *mockBeatReader) GetByID(_ context.Context, id int64) (*domain.Beat, error) {
	if b, ok := m.beats[id]; ok {
		return b, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type mockUserReader struct {
	users map[int64]*domain.User
}

func (m *mockUserReader) GetByID(_ context.Context, id int64) (*domain.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type mockPurchaseRepo struct {
	byPaymentID map[string]*domain.Purchase
	createCalls int
	failWith    error
}

func newMockPurchaseRepo() *mockPurchaseRepo {
	return &mockPurchaseRepo{byPaymentID: map[string]*domain.Purchase{}}
}

func (m *mockPurchaseRepo) CreateIdempotent(_ context.Context, p *domain.Purchase) (bool, error) {
	m.createCalls++
	if m.failWith != nil {
		return false, m.failWith
	}
	if _, exists := m.byPaymentID[p.StripePaymentID]; exists {
		return false, nil
	}
	m.byPaymentID[p.StripePaymentID] = p
	return true, nil
}

type fakeGateway struct {
	session      *stripe.CheckoutSession
	sessionErr   error
	lastParams   *stripe.CheckoutSessionParams
	event        stripe.Event
	constructErr error
}

func (g *fakeGateway) CreateCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	g.lastParams = params
	return g.session, g.sessionErr
}

func (g *fakeGateway) ConstructEvent(_ []byte, _ string) (stripe.Event, error) {
	if g.constructErr != nil {
		return stripe.Event{}, g.constructErr
	}
	return g.event, nil
}

func newTestService(beats *mockBeatReader, users *mockUserReader, purchases *mockPurchaseRepo, gw *fakeGateway) *Service {
	if beats == nil {
		beats = &mockBeatReader{beats: map[int64]*domain.Beat{}}
	}
	if users == nil {
		users = &mockUserReader{users: map[int64]*domain.User{}}
	}
	if purchases == nil {
		purchases = newMockPurchaseRepo()
	}
	return NewService(beats, users, purchases, gw, nil)
}

func testBeat() *domain.Beat {
	return &domain.Beat{
		ID:          7,
		Title:       "Midnight Vibes",
		Genre:       "Hip Hop",
		Mood:        "Dark",
		BPM:         85,
		Price:       2999,
		Description: "Dark atmospheric hip hop beat",
		IsActive:    true,
	}
}

/* ---------- CHECKOUT ---------- */

func TestCreateCheckout_GuestMetadataAndAmount(t *testing.T) {
	beats := &mockBeatReader{beats: map[int64]*domain.Beat{7: testBeat()}}
	gw := &fakeGateway{session: &stripe.CheckoutSession{URL: "https://checkout.stripe.test/s/123"}}
	svc := newTestService(beats, nil, nil, gw)

	resp, err := svc.CreateCheckout(context.Background(), 7, Actor{}, "https://shop.example")
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.stripe.test/s/123", resp.CheckoutURL)

	require.NotNil(t, gw.lastParams)
	require.Len(t, gw.lastParams.LineItems, 1)
	item := gw.lastParams.LineItems[0]
	assert.Equal(t, int64(2999), *item.PriceData.UnitAmount)
	assert.Equal(t, int64(1), *item.Quantity)
	assert.Equal(t, "Midnight Vibes", *item.PriceData.ProductData.Name)
	assert.Equal(t, "Dark atmospheric hip hop beat | Genre: Hip Hop | BPM: 85", *item.PriceData.ProductData.Description)

	assert.Equal(t, "7", gw.lastParams.Metadata["beat_id"])
	assert.Equal(t, "guest", gw.lastParams.Metadata["user_id"])
	assert.Nil(t, gw.lastParams.CustomerEmail)
	assert.Equal(t, "https://shop.example/purchase-success?session_id={CHECKOUT_SESSION_ID}", *gw.lastParams.SuccessURL)
	assert.Equal(t, "https://shop.example/beats", *gw.lastParams.CancelURL)
}

func TestCreateCheckout_KnownBuyerMetadata(t *testing.T) {
	beats := &mockBeatReader{beats: map[int64]*domain.Beat{7: testBeat()}}
	gw := &fakeGateway{session: &stripe.CheckoutSession{URL: "https://checkout.stripe.test/s/456"}}
	svc := newTestService(beats, nil, nil, gw)

	actor := Actor{UserID: 42, Email: "buyer@example.com", Name: "Buyer"}
	_, err := svc.CreateCheckout(context.Background(), 7, actor, "")
	require.NoError(t, err)

	assert.Equal(t, "42", gw.lastParams.Metadata["user_id"])
	assert.Equal(t, "buyer@example.com", gw.lastParams.Metadata["customer_email"])
	assert.Equal(t, "Buyer", gw.lastParams.Metadata["customer_name"])
	assert.Equal(t, "buyer@example.com", *gw.lastParams.CustomerEmail)
	assert.Equal(t, "42", *gw.lastParams.ClientReferenceID)
}

func TestCreateCheckout_NotFound(t *testing.T) {
	inactive := testBeat()
	inactive.ID = 8
	inactive.IsActive = false
	beats := &mockBeatReader{beats: map[int64]*domain.Beat{8: inactive}}
	svc := newTestService(beats, nil, nil, &fakeGateway{})

	_, err := svc.CreateCheckout(context.Background(), 99, Actor{}, "")
	assert.ErrorIs(t, err, ErrBeatNotFound)

	// inactive behaves like absent for checkout
	_, err = svc.CreateCheckout(context.Background(), 8, Actor{}, "")
	assert.ErrorIs(t, err, ErrBeatNotFound)
}

func TestCreateCheckout_UpstreamFailure(t *testing.T) {
	beats := &mockBeatReader{beats: map[int64]*domain.Beat{7: testBeat()}}
	purchases := newMockPurchaseRepo()
	gw := &fakeGateway{sessionErr: errors.New("stripe is down")}
	svc := newTestService(beats, nil, purchases, gw)

	_, err := svc.CreateCheckout(context.Background(), 7, Actor{}, "")
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Equal(t, 0, purchases.createCalls, "no partial state on upstream failure")
}

func TestResolveActor(t *testing.T) {
	users := &mockUserReader{users: map[int64]*domain.User{
		42: {ID: 42, Email: "buyer@example.com", Name: "Buyer"},
	}}
	svc := newTestService(nil, users, nil, &fakeGateway{})

	actor := svc.ResolveActor(context.Background(), 42)
	assert.Equal(t, Actor{UserID: 42, Email: "buyer@example.com", Name: "Buyer"}, actor)

	assert.Equal(t, Actor{}, svc.ResolveActor(context.Background(), 0))
	assert.Equal(t, Actor{}, svc.ResolveActor(context.Background(), 9000))
}

/* ---------- WEBHOOK ---------- */

func completedCheckoutEvent(eventID, paymentIntent string, meta map[string]string, customer *stripe.CheckoutSessionCustomerDetails) stripe.Event {
	sess := map[string]interface{}{
		"id":           "cs_test_1",
		"object":       "checkout.session",
		"amount_total": 2999,
		"metadata":     meta,
	}
	if paymentIntent != "" {
		sess["payment_intent"] = paymentIntent
	}
	if customer != nil {
		sess["customer_details"] = map[string]string{"email": customer.Email, "name": customer.Name}
	}
	raw, _ := json.Marshal(sess)
	return stripe.Event{
		ID:   eventID,
		Type: "checkout.session.completed",
		Data: &stripe.EventData{Raw: raw},
	}
}

func TestHandleWebhook_MissingSignature(t *testing.T) {
	purchases := newMockPurchaseRepo()
	svc := newTestService(nil, nil, purchases, &fakeGateway{})

	_, err := svc.HandleWebhook(context.Background(), []byte(`{}`), "")
	assert.ErrorIs(t, err, ErrMissingSignature)
	assert.Equal(t, 0, purchases.createCalls)
}

func TestHandleWebhook_InvalidSignature(t *testing.T) {
	purchases := newMockPurchaseRepo()
	gw := &fakeGateway{constructErr: errors.New("signature mismatch")}
	svc := newTestService(nil, nil, purchases, gw)

	_, err := svc.HandleWebhook(context.Background(), []byte(`{}`), "t=1,v1=bad")
	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.Equal(t, 0, purchases.createCalls, "no side effects on signature failure")
}

func TestHandleWebhook_TestEventShortCircuit(t *testing.T) {
	purchases := newMockPurchaseRepo()
	// Payload looks like a real completed checkout, but the synthetic
	// event id must win and bypass the recorder.
	event := completedCheckoutEvent("evt_test_123", "pi_123", map[string]string{
		"beat_id":        "7",
		"customer_email": "buyer@example.com",
	}, nil)
	gw := &fakeGateway{event: event}
	svc := newTestService(nil, nil, purchases, gw)

	ack, err := svc.HandleWebhook(context.Background(), []byte(`{}`), "t=1,v1=ok")
	require.NoError(t, err)
	assert.True(t, ack.Verified)
	assert.False(t, ack.Received)
	assert.Equal(t, 0, purchases.createCalls)
}

func TestHandleWebhook_RecordsPurchase(t *testing.T) {
	purchases := newMockPurchaseRepo()
	event := completedCheckoutEvent("evt_1", "pi_123", map[string]string{
		"beat_id":        "7",
		"user_id":        "guest",
		"customer_email": "meta@example.com",
		"customer_name":  "Meta Name",
	}, &stripe.CheckoutSessionCustomerDetails{Email: "buyer@example.com", Name: "Buyer"})
	gw := &fakeGateway{event: event}
	svc := newTestService(nil, nil, purchases, gw)

	ack, err := svc.HandleWebhook(context.Background(), []byte(`{}`), "t=1,v1=ok")
	require.NoError(t, err)
	assert.True(t, ack.Received)

	p, ok := purchases.byPaymentID["pi_123"]
	require.True(t, ok, "purchase keyed by payment intent id")
	assert.Equal(t, int64(7), p.BeatID)
	// customer_details wins over metadata fallbacks
	assert.Equal(t, "buyer@example.com", p.BuyerEmail)
	require.NotNil(t, p.BuyerName)
	assert.Equal(t, "Buyer", *p.BuyerName)
	assert.Equal(t, int64(2999), p.Amount)
	assert.Equal(t, domain.PurchaseCompleted, p.Status)
}

func TestHandleWebhook_MetadataFallbackEmail(t *testing.T) {
	purchases := newMockPurchaseRepo()
	event := completedCheckoutEvent("evt_2", "pi_456", map[string]string{
		"beat_id":        "7",
		"customer_email": "meta@example.com",
	}, nil)
	gw := &fakeGateway{event: event}
	svc := newTestService(nil, nil, purchases, gw)

	_, err := svc.HandleWebhook(context.Background(), []byte(`{}`), "t=1,v1=ok")
	require.NoError(t, err)

	p, ok := purchases.byPaymentID["pi_456"]
	require.True(t, ok)
	assert.Equal(t, "meta@example.com", p.BuyerEmail)
	assert.Nil(t, p.BuyerName)
}

func TestHandleWebhook_DuplicateDelivery(t *testing.T) {
	purchases := newMockPurchaseRepo()
	event := completedCheckoutEvent("evt_3", "pi_789", map[string]string{
		"beat_id":        "7",
		"customer_email": "buyer@example.com",
	}, nil)
	gw := &fakeGateway{event: event}
	svc := newTestService(nil, nil, purchases, gw)

	for i := 0; i < 3; i++ {
		ack, err := svc.HandleWebhook(context.Background(), []byte(`{}`), "t=1,v1=ok")
		require.NoError(t, err, "redelivery %d must still ack", i)
		assert.True(t, ack.Received)
	}

	assert.Len(t, purchases.byPaymentID, 1, "exactly one purchase per payment id")
	assert.Equal(t, 3, purchases.createCalls)
}

func TestHandleWebhook_MissingMetadataDropped(t *testing.T) {
	cases := []map[string]string{
		{},                             // nothing
		{"beat_id": "7"},               // no email anywhere
		{"customer_email": "a@b.com"},  // no beat id
		{"beat_id": "x", "customer_email": "a@b.com"}, // malformed beat id
	}

	for i, meta := range cases {
		purchases := newMockPurchaseRepo()
		gw := &fakeGateway{event: completedCheckoutEvent(fmt.Sprintf("evt_m%d", i), "pi_m", meta, nil)}
		svc := newTestService(nil, nil, purchases, gw)

		ack, err := svc.HandleWebhook(context.Background(), []byte(`{}`), "t=1,v1=ok")
		require.NoError(t, err, "unprocessable event must not fail the delivery (case %d)", i)
		assert.True(t, ack.Received)
		assert.Len(t, purchases.byPaymentID, 0)
	}
}

func TestHandleWebhook_UnhandledTypesAcked(t *testing.T) {
	purchases := newMockPurchaseRepo()
	for _, typ := range []string{"payment_intent.succeeded", "payment_intent.payment_failed", "charge.refunded"} {
		gw := &fakeGateway{event: stripe.Event{ID: "evt_x", Type: typ, Data: &stripe.EventData{Raw: []byte(`{}`)}}}
		svc := newTestService(nil, nil, purchases, gw)

		ack, err := svc.HandleWebhook(context.Background(), []byte(`{}`), "t=1,v1=ok")
		require.NoError(t, err)
		assert.True(t, ack.Received)
	}
	assert.Equal(t, 0, purchases.createCalls)
}

func TestHandleWebhook_StorageErrorPropagates(t *testing.T) {
	purchases := newMockPurchaseRepo()
	purchases.failWith = errors.New("db down")
	gw := &fakeGateway{event: completedCheckoutEvent("evt_4", "pi_err", map[string]string{
		"beat_id":        "7",
		"customer_email": "buyer@example.com",
	}, nil)}
	svc := newTestService(nil, nil, purchases, gw)

	_, err := svc.HandleWebhook(context.Background(), []byte(`{}`), "t=1,v1=ok")
	assert.Error(t, err)
}
