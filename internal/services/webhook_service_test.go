package services

import (
	"context"
	"testing"
	"time"

	"reading-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClerkWebhookService_UserCreated(t *testing.T) {
	users := newFakeUserStore()
	svc := NewClerkWebhookService(users)

	res, err := svc.HandleEvent(context.Background(), models.ClerkWebhookEvent{
		Type: models.ClerkEventUserCreated,
		Data: models.ClerkWebhookData{ID: "user_new"},
	})
	require.NoError(t, err)
	result, ok := res.(*models.ClerkWebhookResult)
	require.True(t, ok)
	assert.True(t, result.Success)
	assert.NotEmpty(t, result.UserID)

	_, err = users.FindByClerkID(context.Background(), "user_new")
	assert.NoError(t, err)

	_, err = svc.HandleEvent(context.Background(), models.ClerkWebhookEvent{
		Type: models.ClerkEventUserCreated,
		Data: models.ClerkWebhookData{ID: "user_new"},
	})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestClerkWebhookService_UserCreatedMissingID(t *testing.T) {
	svc := NewClerkWebhookService(newFakeUserStore())
	_, err := svc.HandleEvent(context.Background(), models.ClerkWebhookEvent{Type: models.ClerkEventUserCreated})
	assert.ErrorIs(t, err, ErrMissingUserID)
}

func TestClerkWebhookService_UserDeleted(t *testing.T) {
	users := newFakeUserStore(&models.User{ClerkUserID: "user_1"})
	svc := NewClerkWebhookService(users)

	_, err := svc.HandleEvent(context.Background(), models.ClerkWebhookEvent{
		Type: models.ClerkEventUserDeleted,
		Data: models.ClerkWebhookData{ID: "user_1", Deleted: true},
	})
	require.NoError(t, err)

	_, err = users.FindByClerkID(context.Background(), "user_1")
	assert.Error(t, err)
}

func TestClerkWebhookService_OtherEventsAcknowledged(t *testing.T) {
	svc := NewClerkWebhookService(newFakeUserStore())
	res, err := svc.HandleEvent(context.Background(), models.ClerkWebhookEvent{Type: "session.created"})
	require.NoError(t, err)
	assert.Equal(t, models.WebhookAck{Received: true}, res)
}

func newTestPaymentService(users *fakeUserStore, subs *fakeSubscriptionStore, b *recordingBroadcaster) *PaymentWebhookService {
	tokens := NewTokenService(users, b, nil)
	subSvc := newTestSubscriptionService(subs)
	accounts := &fakePaymentAccountStore{byCustomer: map[string]string{"cus_1": "user_1"}}
	return NewPaymentWebhookService(accounts, newFakeCheckoutLedger(), tokens, subSvc)
}

func TestPaymentWebhookService_FlipTokensCredited(t *testing.T) {
	users := newFakeUserStore(&models.User{ClerkUserID: "user_1", TokenBalance: 1})
	b := &recordingBroadcaster{}
	svc := newTestPaymentService(users, newFakeSubscriptionStore(), b)

	err := svc.HandleCheckoutCompleted(context.Background(), models.PurchaseCompleted{
		SessionID: "cs_1", ClerkUserID: "user_1", PackageType: models.PackageFlipToken1, Quantity: 4,
	})
	require.NoError(t, err)

	u, _ := users.FindByClerkID(context.Background(), "user_1")
	assert.Equal(t, 5, u.TokenBalance)
	require.Len(t, b.calls, 1)
	assert.Equal(t, 5, b.calls[0].TokenBalance)
}

func TestPaymentWebhookService_ResolvesUserFromCustomer(t *testing.T) {
	users := newFakeUserStore(&models.User{ClerkUserID: "user_1"})
	svc := newTestPaymentService(users, newFakeSubscriptionStore(), &recordingBroadcaster{})

	err := svc.HandleCheckoutCompleted(context.Background(), models.PurchaseCompleted{
		SessionID: "cs_2", CustomerID: "cus_1", PackageType: models.PackageFlipToken1,
	})
	require.NoError(t, err)

	u, _ := users.FindByClerkID(context.Background(), "user_1")
	assert.Equal(t, 1, u.TokenBalance)

	err = svc.HandleCheckoutCompleted(context.Background(), models.PurchaseCompleted{
		SessionID: "cs_3", CustomerID: "cus_unknown", PackageType: models.PackageFlipToken1,
	})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestPaymentWebhookService_SubscriptionActivated(t *testing.T) {
	subs := newFakeSubscriptionStore()
	svc := newTestPaymentService(newFakeUserStore(), subs, &recordingBroadcaster{})

	err := svc.HandleCheckoutCompleted(context.Background(), models.PurchaseCompleted{
		SessionID: "cs_4", ClerkUserID: "user_1", PackageType: models.PackageYearly,
	})
	require.NoError(t, err)
	require.Len(t, subs.saved, 1)
	assert.Equal(t, fixedNow.AddDate(1, 0, 0), subs.saved[0].EndTime)
	assert.WithinDuration(t, fixedNow, subs.saved[0].StartTime, time.Second)
}

func TestPaymentWebhookService_InvalidPackage(t *testing.T) {
	svc := newTestPaymentService(newFakeUserStore(), newFakeSubscriptionStore(), &recordingBroadcaster{})
	err := svc.HandleCheckoutCompleted(context.Background(), models.PurchaseCompleted{ClerkUserID: "user_1"})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestPaymentWebhookService_RedeliveredSessionAppliedOnce(t *testing.T) {
	users := newFakeUserStore(&models.User{ClerkUserID: "user_1"})
	subs := newFakeSubscriptionStore()
	b := &recordingBroadcaster{}
	svc := newTestPaymentService(users, subs, b)

	tokens := models.PurchaseCompleted{SessionID: "cs_1", ClerkUserID: "user_1", PackageType: models.PackageFlipToken1, Quantity: 3}
	require.NoError(t, svc.HandleCheckoutCompleted(context.Background(), tokens))
	require.NoError(t, svc.HandleCheckoutCompleted(context.Background(), tokens))

	u, _ := users.FindByClerkID(context.Background(), "user_1")
	assert.Equal(t, 3, u.TokenBalance)
	assert.Len(t, b.calls, 1)

	monthly := models.PurchaseCompleted{SessionID: "cs_2", ClerkUserID: "user_1", PackageType: models.PackageMonthly}
	require.NoError(t, svc.HandleCheckoutCompleted(context.Background(), monthly))
	require.NoError(t, svc.HandleCheckoutCompleted(context.Background(), monthly))

	require.Len(t, subs.saved, 1)
	assert.Equal(t, fixedNow.AddDate(0, 1, 0), subs.saved[0].EndTime)
}

func TestPaymentWebhookService_FailedFulfilmentCanBeRetried(t *testing.T) {
	users := newFakeUserStore()
	svc := newTestPaymentService(users, newFakeSubscriptionStore(), &recordingBroadcaster{})
	purchase := models.PurchaseCompleted{SessionID: "cs_1", ClerkUserID: "user_late", PackageType: models.PackageFlipToken1, Quantity: 2}

	err := svc.HandleCheckoutCompleted(context.Background(), purchase)
	assert.ErrorIs(t, err, ErrUserNotFound)

	require.NoError(t, users.Create(context.Background(), &models.User{ClerkUserID: "user_late"}))
	require.NoError(t, svc.HandleCheckoutCompleted(context.Background(), purchase))

	u, _ := users.FindByClerkID(context.Background(), "user_late")
	assert.Equal(t, 2, u.TokenBalance)
}

func TestPaymentWebhookService_RequiresSessionID(t *testing.T) {
	svc := newTestPaymentService(newFakeUserStore(), newFakeSubscriptionStore(), &recordingBroadcaster{})
	err := svc.HandleCheckoutCompleted(context.Background(), models.PurchaseCompleted{
		ClerkUserID: "user_1", PackageType: models.PackageFlipToken1,
	})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}
