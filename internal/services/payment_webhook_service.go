package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"reading-service/internal/models"
	"reading-service/internal/repositories/postgres"
)

// PaymentWebhookService applies completed checkouts: flip tokens are
// credited, subscription packages are granted or extended. Each checkout
// session is applied at most once.
type PaymentWebhookService struct {
	accounts      PaymentAccountStore
	checkouts     CheckoutLedger
	tokens        *TokenService
	subscriptions *SubscriptionService
}

func NewPaymentWebhookService(accounts PaymentAccountStore, checkouts CheckoutLedger, tokens *TokenService, subscriptions *SubscriptionService) *PaymentWebhookService {
	return &PaymentWebhookService{
		accounts:      accounts,
		checkouts:     checkouts,
		tokens:        tokens,
		subscriptions: subscriptions,
	}
}

func (s *PaymentWebhookService) HandleCheckoutCompleted(ctx context.Context, p models.PurchaseCompleted) error {
	if !p.PackageType.IsValid() {
		return fmt.Errorf("%w: checkout %s has unknown package type %q", ErrInvalidRequest, p.SessionID, p.PackageType)
	}
	if p.SessionID == "" {
		return fmt.Errorf("%w: checkout has no session id", ErrInvalidRequest)
	}

	userID, err := s.resolveUser(ctx, p)
	if err != nil {
		return err
	}

	log := slog.With("sessionID", p.SessionID, "userID", userID, "packageType", p.PackageType)

	qty := p.Quantity
	if qty <= 0 {
		qty = 1
	}

	claimed, err := s.checkouts.Claim(ctx, &models.FulfilledCheckout{
		SessionID:   p.SessionID,
		ClerkUserID: userID,
		PackageType: p.PackageType,
		Quantity:    qty,
	})
	if err != nil {
		return err
	}
	if !claimed {
		log.Info("Checkout already fulfilled, ignoring redelivery")
		return nil
	}

	if err := s.fulfil(ctx, log, userID, p.PackageType, qty); err != nil {
		// released so a redelivery can apply it
		if relErr := s.checkouts.Release(ctx, p.SessionID); relErr != nil {
			log.Error("Failed to release checkout claim", "error", relErr)
		}
		return err
	}
	return nil
}

func (s *PaymentWebhookService) fulfil(ctx context.Context, log *slog.Logger, userID string, pkg models.PackageType, qty int) error {
	if pkg == models.PackageFlipToken1 {
		if _, err := s.tokens.Credit(ctx, userID, qty); err != nil {
			log.Error("Failed to credit tokens", "quantity", qty, "error", err)
			return err
		}
		log.Info("Checkout fulfilled with flip tokens", "quantity", qty)
		return nil
	}

	sub, err := s.subscriptions.Activate(ctx, userID, pkg)
	if err != nil {
		log.Error("Failed to activate subscription", "error", err)
		return err
	}
	log.Info("Checkout fulfilled with subscription", "subscriptionID", sub.ID, "endTime", sub.EndTime)
	return nil
}

// resolveUser prefers the client reference set at checkout and falls back to
// the stored customer mapping.
func (s *PaymentWebhookService) resolveUser(ctx context.Context, p models.PurchaseCompleted) (string, error) {
	if p.ClerkUserID != "" {
		return p.ClerkUserID, nil
	}
	if p.CustomerID == "" {
		return "", fmt.Errorf("%w: checkout %s has no user reference", ErrInvalidRequest, p.SessionID)
	}
	acct, err := s.accounts.FindByCustomerID(ctx, models.PaymentProviderStripe, p.CustomerID)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return "", fmt.Errorf("%w: no account for customer %s", ErrUserNotFound, p.CustomerID)
		}
		return "", err
	}
	return acct.ClerkUserID, nil
}
