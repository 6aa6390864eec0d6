package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"absolute-cinema-cli/booking"
	"absolute-cinema-cli/model"
)

type payFlags struct {
	method     string
	wallet     string
	cardNumber string
	cardHolder string
	cardExpiry string
	cvv        string
}

func newPayCmd(a *app) *cobra.Command {
	var f payFlags
	cmd := &cobra.Command{
		Use:   "pay <bookingId>",
		Short: "Pay for a pending booking",
		Long: `Open a payment for the booking and settle it. The payment window is
bounded by the backend; paying after it closes is refused.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			checkout := booking.NewCheckout(a.client, a.log)

			payment, countdown, err := checkout.Start(ctx, args[0], nil)
			if err != nil {
				return err
			}
			// Prompts can outlast the window, so the deadline is pinned
			// here and checked again when paying.
			if payment.ExpiryTime.IsZero() {
				payment.ExpiryTime = model.Timestamp{Time: time.Now().Add(time.Duration(countdown.Remaining()) * time.Second)}
			}
			fmt.Fprintf(out, "Payment %s: %s, expires in %s\n", payment.Id, booking.FormatMoney(payment.Amount), countdown.Format())

			req, err := f.request()
			if err != nil {
				return err
			}
			if err := checkout.Validate(req); err != nil {
				return err
			}
			confirmation, err := checkout.Pay(ctx, payment, nil, req)
			if err != nil {
				if errors.Is(err, booking.ErrPaymentExpired) {
					return fmt.Errorf("%w: start again with %s pay %s", err, appName, args[0])
				}
				return err
			}
			if confirmation == "" {
				confirmation = "Payment successful"
			}
			fmt.Fprintln(out, confirmation)
			fmt.Fprintf(out, "Download your ticket with: %s ticket %s\n", appName, args[0])
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.method, "method", "", "CREDIT_CARD or DIGITAL_WALLET")
	fl.StringVar(&f.wallet, "wallet", "", "e-wallet provider: TNG, GRAB, BOOST or SHOPEE")
	fl.StringVar(&f.cardNumber, "card-number", "", "card number")
	fl.StringVar(&f.cardHolder, "card-holder", "", "name on the card")
	fl.StringVar(&f.cardExpiry, "card-expiry", "", "card expiry as MM/YY")
	fl.StringVar(&f.cvv, "cvv", "", "card security code")
	return cmd
}

// request completes missing flags with interactive prompts.
func (f payFlags) request() (booking.PaymentRequest, error) {
	method := model.PaymentMethod(strings.ToUpper(strings.TrimSpace(f.method)))
	if method == "" {
		choice, err := promptSelect("Payment method", []string{string(model.PaymentCreditCard), string(model.PaymentDigitalWallet)})
		if err != nil {
			return booking.PaymentRequest{}, err
		}
		method = model.PaymentMethod(choice)
	}
	req := booking.PaymentRequest{Method: method}

	switch method {
	case model.PaymentDigitalWallet:
		provider := strings.ToUpper(strings.TrimSpace(f.wallet))
		if provider == "" {
			var names []string
			for _, p := range model.WalletProviders {
				names = append(names, string(p))
			}
			choice, err := promptSelect("E-wallet provider", names)
			if err != nil {
				return booking.PaymentRequest{}, err
			}
			provider = choice
		}
		req.Wallet = model.WalletDetails{Provider: model.WalletProvider(provider)}
	case model.PaymentCreditCard:
		card := model.CardDetails{Number: f.cardNumber, Holder: f.cardHolder, Expiry: f.cardExpiry, CVV: f.cvv}
		fields := []struct {
			label string
			value *string
			mask  bool
		}{
			{"Card number", &card.Number, false},
			{"Cardholder name", &card.Holder, false},
			{"Expiry (MM/YY)", &card.Expiry, false},
			{"CVV", &card.CVV, true},
		}
		for _, field := range fields {
			if *field.value != "" {
				continue
			}
			prompt := promptui.Prompt{Label: field.label}
			if field.mask {
				prompt.Mask = '*'
			}
			v, err := prompt.Run()
			if err != nil {
				return booking.PaymentRequest{}, err
			}
			*field.value = strings.TrimSpace(v)
		}
		req.Card = card
	}
	return req, nil
}

func promptSelect(label string, items []string) (string, error) {
	sel := promptui.Select{Label: label, Items: items, Size: 10}
	_, choice, err := sel.Run()
	return choice, err
}

func newRefundCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "refund <paymentId>",
		Short: "Request a refund for a payment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := a.client.RequestRefund(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if msg == "" {
				msg = "Refund requested."
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}
