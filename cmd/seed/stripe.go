package main

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

type stripeCatalog struct {
	sc      *client.API
	account string
}

func newStripeCatalog(secretKey, connectedAccount string) *stripeCatalog {
	return &stripeCatalog{sc: client.New(secretKey, nil), account: connectedAccount}
}

func (s *stripeCatalog) CreatePrice(ctx context.Context, def packageDef) (string, error) {
	productParams := &stripe.ProductParams{
		Name:        stripe.String(def.ProductName),
		Description: stripe.String(def.ProductDescription),
	}
	productParams.Context = ctx
	productParams.AddMetadata("packageType", string(def.Type))
	if s.account != "" {
		productParams.SetStripeAccount(s.account)
	}

	product, err := s.sc.Products.New(productParams)
	if err != nil {
		return "", fmt.Errorf("create product: %w", err)
	}

	priceParams := &stripe.PriceParams{
		Product:    stripe.String(product.ID),
		UnitAmount: stripe.Int64(def.UnitAmount),
		Currency:   stripe.String(string(stripe.CurrencyTHB)),
	}
	if def.Interval != "" {
		priceParams.Recurring = &stripe.PriceRecurringParams{Interval: stripe.String(def.Interval)}
	}
	priceParams.Context = ctx
	priceParams.AddMetadata("packageType", string(def.Type))
	if s.account != "" {
		priceParams.SetStripeAccount(s.account)
	}

	price, err := s.sc.Prices.New(priceParams)
	if err != nil {
		return "", fmt.Errorf("create price: %w", err)
	}
	return price.ID, nil
}
