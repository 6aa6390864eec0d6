package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"absolute-cinema-cli/logger"
	"absolute-cinema-cli/model"
	"absolute-cinema-cli/validate"
)

var (
	ErrPaymentExpired     = errors.New("payment session expired")
	ErrUnsupportedMethod  = errors.New("unsupported payment method")
	ErrPaymentUnavailable = errors.New("payment information not available")
)

type PaymentAPI interface {
	CreatePayment(ctx context.Context, bookingID string) error
	GetPayment(ctx context.Context, bookingID string) (model.Payment, error)
	Pay(ctx context.Context, paymentID string, method model.PaymentMethod, amount float64) (string, error)
}

// PaymentRequest carries the method and the details the method needs.
// Card and wallet details are checked locally and never sent.
type PaymentRequest struct {
	Method model.PaymentMethod
	Card   model.CardDetails
	Wallet model.WalletDetails
}

// Checkout opens a payment for a booking and settles it.
type Checkout struct {
	api       PaymentAPI
	validator *validate.Validator
	log       *logger.Logger
	now       func() time.Time
}

func NewCheckout(api PaymentAPI, log *logger.Logger) *Checkout {
	if log == nil {
		log = logger.Discard()
	}
	return &Checkout{
		api:       api,
		validator: validate.New(),
		log:       log.WithComponent("payment"),
		now:       time.Now,
	}
}

// Start creates the pending payment and returns it with a countdown bound
// to its expiry time.
func (c *Checkout) Start(ctx context.Context, bookingID string, onExpire func()) (model.Payment, *Countdown, error) {
	if err := c.api.CreatePayment(ctx, bookingID); err != nil {
		return model.Payment{}, nil, err
	}
	payment, err := c.api.GetPayment(ctx, bookingID)
	if err != nil {
		return model.Payment{}, nil, fmt.Errorf("load payment: %w", err)
	}
	c.log.Info("payment opened",
		slog.String("booking_id", bookingID),
		slog.String("payment_id", payment.Id.String()),
		slog.Float64("amount", payment.Amount),
	)
	return payment, CountdownUntil(payment.ExpiryTime.Time, c.now(), onExpire), nil
}

// Validate checks the request without contacting the backend.
func (c *Checkout) Validate(req PaymentRequest) error {
	switch req.Method {
	case model.PaymentCreditCard:
		return c.validator.Card(&req.Card)
	case model.PaymentDigitalWallet:
		return c.validator.Wallet(&req.Wallet)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedMethod, req.Method)
	}
}

// Pay settles payment. It refuses locally when the countdown has run out or
// the payment's own expiry time has passed.
func (c *Checkout) Pay(ctx context.Context, payment model.Payment, countdown *Countdown, req PaymentRequest) (string, error) {
	if payment.Id == "" {
		return "", ErrPaymentUnavailable
	}
	if countdown != nil && countdown.Expired() {
		return "", ErrPaymentExpired
	}
	if !payment.ExpiryTime.IsZero() && !c.now().Before(payment.ExpiryTime.Time) {
		return "", ErrPaymentExpired
	}
	if err := c.Validate(req); err != nil {
		return "", err
	}

	confirmation, err := c.api.Pay(ctx, payment.Id.String(), req.Method, payment.Amount)
	if err != nil {
		c.log.Warn("payment failed", slog.String("payment_id", payment.Id.String()), slog.String("error", err.Error()))
		return "", err
	}
	c.log.Info("payment settled", slog.String("payment_id", payment.Id.String()), slog.String("method", string(req.Method)))
	return confirmation, nil
}
