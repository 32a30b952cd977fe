package payment

import (
	"context"

	"github.com/stripe/stripe-go/v74"

	"beatlab/internal/domain"
)

type beatReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Beat, error)
}

type userReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type purchaseWriter interface {
	CreateIdempotent(ctx context.Context, p *domain.Purchase) (bool, error)
}

// stripeGateway wraps the two stripe-go entry points the service needs,
// so tests can swap in a fake without hitting the network.
type stripeGateway interface {
	CreateCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	ConstructEvent(payload []byte, sigHeader string) (stripe.Event, error)
}
