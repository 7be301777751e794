package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/mercadopago/sdk-go/pkg/config"
	mppayment "github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/sony/gobreaker/v2"
)

// Gateway statuses the booking flow reacts to.
const (
	StatusApproved  = "approved"
	StatusPending   = "pending"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
	StatusRefunded  = "refunded"
)

var (
	ErrNotConfigured = errors.New("payment gateway not configured")
	ErrUnavailable   = errors.New("payment gateway unavailable")
)

// Gateway reports the status of a payment created outside this service.
type Gateway interface {
	Status(ctx context.Context, externalID string) (string, error)
}

// MercadoPagoGateway looks payments up on Mercado Pago. Calls go through a
// circuit breaker so an outage fails fast instead of piling up requests.
type MercadoPagoGateway struct {
	client  mppayment.Client
	breaker *gobreaker.CircuitBreaker[string]
}

func NewMercadoPagoGateway(accessToken string) (*MercadoPagoGateway, error) {
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}

	breaker := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "mercadopago",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})

	return &MercadoPagoGateway{
		client:  mppayment.NewClient(cfg),
		breaker: breaker,
	}, nil
}

func (g *MercadoPagoGateway) Status(ctx context.Context, externalID string) (string, error) {
	id, err := strconv.Atoi(externalID)
	if err != nil {
		return "", fmt.Errorf("invalid mercadopago payment id %q", externalID)
	}

	status, err := g.breaker.Execute(func() (string, error) {
		res, err := g.client.Get(ctx, id)
		if err != nil {
			return "", err
		}
		return res.Status, nil
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", ErrUnavailable
	}
	if err != nil {
		return "", fmt.Errorf("mercadopago get payment %d: %w", id, err)
	}
	return status, nil
}

// Disabled is used when no gateway credentials are configured.
type Disabled struct{}

func (Disabled) Status(context.Context, string) (string, error) {
	return "", ErrNotConfigured
}

var (
	_ Gateway = (*MercadoPagoGateway)(nil)
	_ Gateway = Disabled{}
)
