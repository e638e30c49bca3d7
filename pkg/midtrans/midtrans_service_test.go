package midtrans

import (
	"MeatFresh-Backend/domain"
	"MeatFresh-Backend/entities"
	"MeatFresh-Backend/pkg/user"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeTransactions map[string]*entities.Transaction

func (f fakeTransactions) CreateTransaction(_ context.Context, tx *entities.Transaction) error {
	cp := *tx
	f[tx.OrderID] = &cp
	return nil
}

func (f fakeTransactions) GetTransactionByOrderID(_ context.Context, orderID string) (*entities.Transaction, error) {
	tx, ok := f[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *tx
	return &cp, nil
}

func (f fakeTransactions) ClaimPending(_ context.Context, orderID string, status string, paymentType string, paidAt *time.Time) (bool, error) {
	tx, ok := f[orderID]
	if !ok || tx.Status != domain.TransactionPending {
		return false, nil
	}
	tx.Status = status
	tx.PaymentType = paymentType
	tx.PaidAt = paidAt
	return true, nil
}

func (f fakeTransactions) RunInTransaction(context.Context, func(MidtransRepository, user.UserRepository) error) error {
	return errors.New("nested transaction")
}

// fakeStore serialises access to the fakes the way row locks would, and
// runs a transaction body with the store lock held.
type fakeStore struct {
	mu    sync.Mutex
	txs   fakeTransactions
	users fakeUsers
}

func (s *fakeStore) CreateTransaction(ctx context.Context, tx *entities.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.txs.CreateTransaction(ctx, tx)
}

func (s *fakeStore) GetTransactionByOrderID(ctx context.Context, orderID string) (*entities.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.txs.GetTransactionByOrderID(ctx, orderID)
}

func (s *fakeStore) ClaimPending(ctx context.Context, orderID string, status string, paymentType string, paidAt *time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.txs.ClaimPending(ctx, orderID, status, paymentType, paidAt)
}

func (s *fakeStore) RunInTransaction(_ context.Context, fn func(MidtransRepository, user.UserRepository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.txs, s.users)
}

type fakeUsers map[string]*entities.User

func (f fakeUsers) CreateUser(_ context.Context, u *entities.User) error {
	f[u.ID.String()] = u
	return nil
}

func (f fakeUsers) GetUserByID(_ context.Context, id string) (*entities.User, error) {
	u, ok := f[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (f fakeUsers) GetUserByEmail(context.Context, string) (*entities.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f fakeUsers) CheckEmailExists(context.Context, string) (bool, error) {
	return false, nil
}

func (f fakeUsers) UpdatePassword(_ context.Context, id string, hashed string) error {
	f[id].Password = hashed
	return nil
}

func (f fakeUsers) UpdateSubscription(_ context.Context, id string, plan string, expiresAt *time.Time) error {
	f[id].SubscriptionType = plan
	f[id].SubscriptionExpiresAt = expiresAt
	return nil
}

type fakeGateway struct {
	requests []*snap.Request
	status   coreapi.TransactionStatusResponse
	snapErr  error
	checkErr error

	mu        sync.Mutex
	checks    int
	holdFirst func()
}

func (g *fakeGateway) CreateSnap(req *snap.Request) (*snap.Response, error) {
	if g.snapErr != nil {
		return nil, g.snapErr
	}
	g.requests = append(g.requests, req)
	return &snap.Response{
		Token:       "snap-token",
		RedirectURL: "https://app.sandbox.midtrans.com/snap/v3/redirection/snap-token",
	}, nil
}

func (g *fakeGateway) CheckStatus(string) (*coreapi.TransactionStatusResponse, error) {
	g.mu.Lock()
	g.checks++
	hold := g.checks == 1 && g.holdFirst != nil
	g.mu.Unlock()
	if hold {
		g.holdFirst()
	}

	if g.checkErr != nil {
		return nil, g.checkErr
	}
	st := g.status
	return &st, nil
}

type premiumHarness struct {
	svc     *midtransService
	txs     fakeTransactions
	users   fakeUsers
	gateway *fakeGateway
	userID  string
	now     time.Time
}

func newPremiumHarness(t *testing.T) *premiumHarness {
	t.Helper()
	id := uuid.New()
	h := &premiumHarness{
		txs:     fakeTransactions{},
		users:   fakeUsers{},
		gateway: &fakeGateway{},
		userID:  id.String(),
		now:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	h.users[id.String()] = &entities.User{ID: id, Name: "Linh", Email: "linh@example.com", SubscriptionType: domain.SubscriptionFree}
	store := &fakeStore{txs: h.txs, users: h.users}
	h.svc = NewMidtransService(store, h.users, h.gateway, zap.NewNop()).(*midtransService)
	h.svc.serverKey = "SB-Mid-server-test"
	h.svc.now = func() time.Time { return h.now }
	return h
}

func TestGetPlans(t *testing.T) {
	h := newPremiumHarness(t)
	plans := h.svc.GetPlans()
	require.Len(t, plans, 2)
	assert.Equal(t, domain.SubscriptionMonthly, plans[0].Name)
	assert.Equal(t, int64(59000), plans[0].Price)
	assert.Equal(t, domain.SubscriptionAnnual, plans[1].Name)
	assert.Equal(t, 365, plans[1].Days)
}

func TestCreateTransaction(t *testing.T) {
	h := newPremiumHarness(t)
	ctx := context.Background()

	res, err := h.svc.CreateTransaction(ctx, domain.MidtransPaymentRequest{Plan: domain.SubscriptionAnnual}, h.userID)
	require.NoError(t, err)
	assert.Equal(t, "snap-token", res.Token)
	assert.Contains(t, res.OrderID, "MF-")
	assert.Equal(t, int64(499000), res.Plan.Price)

	require.Len(t, h.gateway.requests, 1)
	assert.Equal(t, int64(499000), h.gateway.requests[0].TransactionDetails.GrossAmt)
	assert.Equal(t, "linh@example.com", h.gateway.requests[0].CustomerDetail.Email)

	tx := h.txs[res.OrderID]
	require.NotNil(t, tx)
	assert.Equal(t, domain.TransactionPending, tx.Status)
	assert.Equal(t, domain.SubscriptionAnnual, tx.Plan)

	_, err = h.svc.CreateTransaction(ctx, domain.MidtransPaymentRequest{Plan: "weekly"}, h.userID)
	assert.ErrorIs(t, err, domain.ErrInvalidPlan)

	h.gateway.snapErr = errors.New("midtrans down")
	_, err = h.svc.CreateTransaction(ctx, domain.MidtransPaymentRequest{Plan: domain.SubscriptionMonthly}, h.userID)
	assert.ErrorIs(t, err, domain.ErrPaymentFailed)
}

func TestHandleNotification(t *testing.T) {
	ctx := context.Background()

	t.Run("settlement activates premium", func(t *testing.T) {
		h := newPremiumHarness(t)
		res, err := h.svc.CreateTransaction(ctx, domain.MidtransPaymentRequest{Plan: domain.SubscriptionMonthly}, h.userID)
		require.NoError(t, err)

		h.gateway.status = coreapi.TransactionStatusResponse{TransactionStatus: "settlement", PaymentType: "qris"}
		require.NoError(t, h.svc.HandleNotification(ctx, domain.MidtransNotification{OrderID: res.OrderID}))

		u := h.users[h.userID]
		assert.Equal(t, domain.SubscriptionMonthly, u.SubscriptionType)
		require.NotNil(t, u.SubscriptionExpiresAt)
		assert.Equal(t, h.now.Add(30*24*time.Hour), *u.SubscriptionExpiresAt)

		tx := h.txs[res.OrderID]
		assert.Equal(t, domain.TransactionPaid, tx.Status)
		assert.Equal(t, "qris", tx.PaymentType)

		err = h.svc.HandleNotification(ctx, domain.MidtransNotification{OrderID: res.OrderID})
		assert.ErrorIs(t, err, domain.ErrTransactionCompleted)
	})

	t.Run("overlapping deliveries credit the plan once", func(t *testing.T) {
		h := newPremiumHarness(t)
		res, err := h.svc.CreateTransaction(ctx, domain.MidtransPaymentRequest{Plan: domain.SubscriptionMonthly}, h.userID)
		require.NoError(t, err)
		h.gateway.status = coreapi.TransactionStatusResponse{TransactionStatus: "settlement", PaymentType: "qris"}

		entered := make(chan struct{})
		release := make(chan struct{})
		h.gateway.holdFirst = func() {
			close(entered)
			<-release
		}

		notification := domain.MidtransNotification{OrderID: res.OrderID}
		firstErr := make(chan error, 1)
		go func() { firstErr <- h.svc.HandleNotification(ctx, notification) }()

		<-entered
		secondErr := h.svc.HandleNotification(ctx, notification)
		close(release)

		require.NoError(t, secondErr)
		assert.ErrorIs(t, <-firstErr, domain.ErrTransactionCompleted)

		u := h.users[h.userID]
		require.NotNil(t, u.SubscriptionExpiresAt)
		assert.Equal(t, h.now.Add(30*24*time.Hour), *u.SubscriptionExpiresAt)
		assert.Equal(t, domain.TransactionPaid, h.txs[res.OrderID].Status)
	})

	t.Run("missing user fails the settlement", func(t *testing.T) {
		h := newPremiumHarness(t)
		res, err := h.svc.CreateTransaction(ctx, domain.MidtransPaymentRequest{Plan: domain.SubscriptionMonthly}, h.userID)
		require.NoError(t, err)
		h.txs[res.OrderID].UserID = uuid.New()

		h.gateway.status = coreapi.TransactionStatusResponse{TransactionStatus: "settlement"}
		err = h.svc.HandleNotification(ctx, domain.MidtransNotification{OrderID: res.OrderID})
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("renewal stacks on the remaining period", func(t *testing.T) {
		h := newPremiumHarness(t)
		left := h.now.Add(10 * 24 * time.Hour)
		h.users[h.userID].SubscriptionType = domain.SubscriptionMonthly
		h.users[h.userID].SubscriptionExpiresAt = &left

		res, err := h.svc.CreateTransaction(ctx, domain.MidtransPaymentRequest{Plan: domain.SubscriptionAnnual}, h.userID)
		require.NoError(t, err)
		h.gateway.status = coreapi.TransactionStatusResponse{TransactionStatus: "capture", FraudStatus: "accept"}
		require.NoError(t, h.svc.HandleNotification(ctx, domain.MidtransNotification{OrderID: res.OrderID}))

		u := h.users[h.userID]
		assert.Equal(t, domain.SubscriptionAnnual, u.SubscriptionType)
		assert.Equal(t, left.Add(365*24*time.Hour), *u.SubscriptionExpiresAt)
	})

	t.Run("expire marks failed", func(t *testing.T) {
		h := newPremiumHarness(t)
		res, err := h.svc.CreateTransaction(ctx, domain.MidtransPaymentRequest{Plan: domain.SubscriptionMonthly}, h.userID)
		require.NoError(t, err)

		h.gateway.status = coreapi.TransactionStatusResponse{TransactionStatus: "expire"}
		require.NoError(t, h.svc.HandleNotification(ctx, domain.MidtransNotification{OrderID: res.OrderID}))
		assert.Equal(t, domain.TransactionFailed, h.txs[res.OrderID].Status)
		assert.Equal(t, domain.SubscriptionFree, h.users[h.userID].SubscriptionType)
	})

	t.Run("pending leaves everything alone", func(t *testing.T) {
		h := newPremiumHarness(t)
		res, err := h.svc.CreateTransaction(ctx, domain.MidtransPaymentRequest{Plan: domain.SubscriptionMonthly}, h.userID)
		require.NoError(t, err)

		h.gateway.status = coreapi.TransactionStatusResponse{TransactionStatus: "pending"}
		require.NoError(t, h.svc.HandleNotification(ctx, domain.MidtransNotification{OrderID: res.OrderID}))
		assert.Equal(t, domain.TransactionPending, h.txs[res.OrderID].Status)
	})

	t.Run("signature and lookup failures", func(t *testing.T) {
		h := newPremiumHarness(t)
		res, err := h.svc.CreateTransaction(ctx, domain.MidtransPaymentRequest{Plan: domain.SubscriptionMonthly}, h.userID)
		require.NoError(t, err)

		err = h.svc.HandleNotification(ctx, domain.MidtransNotification{
			OrderID: res.OrderID, StatusCode: "200", GrossAmount: "59000.00", SignatureKey: "forged",
		})
		assert.ErrorIs(t, err, domain.ErrPaymentVerifyFailed)

		h.gateway.status = coreapi.TransactionStatusResponse{TransactionStatus: "settlement"}
		err = h.svc.HandleNotification(ctx, domain.MidtransNotification{
			OrderID:      res.OrderID,
			StatusCode:   "200",
			GrossAmount:  "59000.00",
			SignatureKey: Signature(res.OrderID, "200", "59000.00", "SB-Mid-server-test"),
		})
		require.NoError(t, err)

		err = h.svc.HandleNotification(ctx, domain.MidtransNotification{OrderID: "MF-unknown"})
		assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
	})

	t.Run("core api unavailable", func(t *testing.T) {
		h := newPremiumHarness(t)
		res, err := h.svc.CreateTransaction(ctx, domain.MidtransPaymentRequest{Plan: domain.SubscriptionMonthly}, h.userID)
		require.NoError(t, err)

		h.gateway.checkErr = errors.New("timeout")
		err = h.svc.HandleNotification(ctx, domain.MidtransNotification{OrderID: res.OrderID})
		assert.ErrorIs(t, err, domain.ErrPaymentVerifyFailed)
		assert.Equal(t, domain.TransactionPending, h.txs[res.OrderID].Status)
	})
}

func TestPaymentOutcome(t *testing.T) {
	tests := []struct {
		status, fraud, want string
	}{
		{"capture", "accept", domain.TransactionPaid},
		{"capture", "", domain.TransactionPaid},
		{"capture", "challenge", ""},
		{"capture", "deny", domain.TransactionFailed},
		{"settlement", "", domain.TransactionPaid},
		{"pending", "", ""},
		{"deny", "", domain.TransactionFailed},
		{"cancel", "", domain.TransactionFailed},
		{"expire", "", domain.TransactionFailed},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PaymentOutcome(tt.status, tt.fraud), "%s/%s", tt.status, tt.fraud)
	}
}
