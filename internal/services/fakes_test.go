package services

import (
	"context"
	"sync"
	"time"

	"reading-service/internal/models"
	"reading-service/internal/repositories/postgres"
)

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*models.User
	err   error
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	s := &fakeUserStore{users: map[string]*models.User{}}
	for _, u := range users {
		s.users[u.ClerkUserID] = u
	}
	return s
}

func (s *fakeUserStore) get(id string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *fakeUserStore) FindByClerkID(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(id)
}

func (s *fakeUserStore) FindProfile(_ context.Context, id string, _ time.Time) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(id)
}

func (s *fakeUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ClerkUserID]; ok {
		return postgres.ErrAlreadyExists
	}
	if user.ID == "" {
		user.ID = "id-" + user.ClerkUserID
	}
	cp := *user
	s.users[user.ClerkUserID] = &cp
	return nil
}

func (s *fakeUserStore) DeleteByClerkID(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return postgres.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *fakeUserStore) mutate(id string, fn func(u *models.User)) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	fn(u)
	u.UpdatedAt = time.Now()
	cp := *u
	return &cp, nil
}

func (s *fakeUserStore) UpdateTokenBalance(_ context.Context, id string, balance int) (*models.User, error) {
	return s.mutate(id, func(u *models.User) { u.TokenBalance = balance })
}

func (s *fakeUserStore) IncrementTokenBalance(_ context.Context, id string, delta int) (*models.User, error) {
	return s.mutate(id, func(u *models.User) { u.TokenBalance += delta })
}

func (s *fakeUserStore) ResetTestingState(_ context.Context, id string, balance int) (*models.User, error) {
	return s.mutate(id, func(u *models.User) {
		u.TokenBalance = balance
		u.LastFreeFlipAt = nil
	})
}

type fakePackageStore struct {
	byType map[models.PackageType]*models.Package
}

func newFakePackageStore() *fakePackageStore {
	return &fakePackageStore{byType: map[models.PackageType]*models.Package{
		models.PackageMonthly:    {ID: "pkg-monthly", Type: models.PackageMonthly, NameTh: "แพ็คเกจรายเดือน", NameEn: "Monthly Card Reading Package", PriceThb: 198},
		models.PackageYearly:     {ID: "pkg-yearly", Type: models.PackageYearly, NameTh: "แพ็คเกจรายปี", NameEn: "Yearly Card Reading Package", PriceThb: 1599},
		models.PackageFlipToken1: {ID: "pkg-flip", Type: models.PackageFlipToken1, NameTh: "1 โทเค็นพลิกการ์ด", NameEn: "1 Flip Token", PriceThb: 18},
	}}
}

func (s *fakePackageStore) FindByType(_ context.Context, t models.PackageType) (*models.Package, error) {
	p, ok := s.byType[t]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

type fakeSubscriptionStore struct {
	subs  map[string]*models.Subscription
	saved []*models.Subscription
}

func newFakeSubscriptionStore(subs ...*models.Subscription) *fakeSubscriptionStore {
	s := &fakeSubscriptionStore{subs: map[string]*models.Subscription{}}
	for _, sub := range subs {
		s.subs[sub.ClerkUserID+"/"+sub.PackageID] = sub
	}
	return s
}

func (s *fakeSubscriptionStore) FindByUserAndPackage(_ context.Context, userID, packageID string) (*models.Subscription, error) {
	sub, ok := s.subs[userID+"/"+packageID]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	cp := *sub
	return &cp, nil
}

func (s *fakeSubscriptionStore) Void(_ context.Context, sub *models.Subscription, at time.Time) error {
	sub.IsVoided = true
	sub.VoidedAt = &at
	s.subs[sub.ClerkUserID+"/"+sub.PackageID] = sub
	return nil
}

func (s *fakeSubscriptionStore) Save(_ context.Context, sub *models.Subscription) error {
	if sub.ID == "" {
		sub.ID = "sub-" + sub.ClerkUserID
	}
	s.subs[sub.ClerkUserID+"/"+sub.PackageID] = sub
	s.saved = append(s.saved, sub)
	return nil
}

type fakePaymentAccountStore struct {
	byCustomer map[string]string
}

func (s *fakePaymentAccountStore) FindByCustomerID(_ context.Context, provider models.PaymentProvider, customerID string) (*models.PaymentAccount, error) {
	userID, ok := s.byCustomer[customerID]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	return &models.PaymentAccount{ClerkUserID: userID, Provider: provider, ProviderCustomerID: customerID}, nil
}

type broadcastCall struct {
	UserID       string
	TokenBalance int
	Extra        map[string]any
}

type recordingBroadcaster struct {
	mu    sync.Mutex
	calls []broadcastCall
}

func (b *recordingBroadcaster) BroadcastTokenBalanceUpdate(userID string, tokenBalance int, extra map[string]any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, broadcastCall{userID, tokenBalance, extra})
}

type recordingPublisher struct {
	events []models.BalanceEvent
	err    error
}

func (p *recordingPublisher) PublishBalanceEvent(_ context.Context, e models.BalanceEvent) error {
	p.events = append(p.events, e)
	return p.err
}

type fakeCheckoutLedger struct {
	mu       sync.Mutex
	sessions map[string]models.FulfilledCheckout
}

func newFakeCheckoutLedger() *fakeCheckoutLedger {
	return &fakeCheckoutLedger{sessions: map[string]models.FulfilledCheckout{}}
}

func (l *fakeCheckoutLedger) Claim(_ context.Context, c *models.FulfilledCheckout) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.sessions[c.SessionID]; ok {
		return false, nil
	}
	l.sessions[c.SessionID] = *c
	return true, nil
}

func (l *fakeCheckoutLedger) Release(_ context.Context, sessionID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.sessions, sessionID)
	return nil
}
