package lib

import (
	"context"
	"os"

	"github.com/stripe/stripe-go/v82"
)

var stripeClient *stripe.Client

func GetStripeClient() *stripe.Client {
	if stripeClient != nil {
		return stripeClient
	}
	apiKey := os.Getenv("STRIPE_SECRET_KEY")
	sc := stripe.NewClient(apiKey)
	stripeClient = sc

	return sc
}

func NewStripeClient(c *stripe.Client) {
	stripeClient = c
}

// CreateBookingCheckout opens a checkout session for a booking. The session
// id is stored on the booking as the payment order reference.
func CreateBookingCheckout(description string, amount int64, currency string) (url *string, sessionId *string, err error) {
	sc := GetStripeClient()
	successURL := os.Getenv("CHECKOUT_SUCCESS_URL")
	cancelURL := os.Getenv("CHECKOUT_CANCEL_URL")
	params := stripe.CheckoutSessionCreateParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
					Currency:   stripe.String(currency),
					UnitAmount: stripe.Int64(amount),
					ProductData: &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
						Name: stripe.String(description),
					},
				},
			},
		},
	}
	checkoutSession, err := sc.V1CheckoutSessions.Create(context.Background(), &params)
	if err != nil {
		return nil, nil, err
	}
	return &checkoutSession.URL, &checkoutSession.ID, nil
}
