package payment

import (
	"context"
	"errors"
	"math"
)

var (
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrGatewayRejected    = errors.New("payment gateway rejected the request")
)

// Intent is a gateway-side record of an amount to be collected, created
// before the buyer pays.
type Intent struct {
	ID       string
	Amount   int64 // minor units
	Currency string
	Receipt  string
}

// Gateway is the payment provider contract consumed by the order
// workflow. Implementations must not retry internally: a failed call is
// reported synchronously and the whole operation aborts.
type Gateway interface {
	CreateIntent(ctx context.Context, amount int64, currency, receipt string) (*Intent, error)
	Refund(ctx context.Context, paymentID string, amount int64) error
}

// MinorUnits converts a major-currency amount to integer minor units
// (e.g. rupees to paise), rounding to the nearest unit.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
