package midtrans

import (
	"MeatFresh-Backend/domain"
	"MeatFresh-Backend/entities"
	"MeatFresh-Backend/internal/utils"
	"MeatFresh-Backend/pkg/user"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type (
	MidtransService interface {
		GetPlans() []domain.Plan
		CreateTransaction(ctx context.Context, req domain.MidtransPaymentRequest, userID string) (domain.MidtransPaymentResponse, error)
		HandleNotification(ctx context.Context, req domain.MidtransNotification) error
	}

	midtransService struct {
		midtransRepository MidtransRepository
		userRepository     user.UserRepository
		gateway            Gateway
		serverKey          string
		log                *zap.Logger
		now                func() time.Time
	}
)

func NewMidtransService(midtransRepository MidtransRepository, userRepository user.UserRepository, gateway Gateway, log *zap.Logger) MidtransService {
	return &midtransService{
		midtransRepository: midtransRepository,
		userRepository:     userRepository,
		gateway:            gateway,
		serverKey:          utils.GetConfig("SERVER_KEY"),
		log:                log,
		now:                time.Now,
	}
}

func (s *midtransService) GetPlans() []domain.Plan {
	plans := make([]domain.Plan, 0, len(domain.Plans))
	for _, p := range domain.Plans {
		plans = append(plans, p)
	}
	sort.Slice(plans, func(i, j int) bool { return plans[i].Price < plans[j].Price })
	return plans
}

func (s *midtransService) CreateTransaction(ctx context.Context, req domain.MidtransPaymentRequest, userID string) (domain.MidtransPaymentResponse, error) {
	plan, ok := domain.Plans[req.Plan]
	if !ok {
		return domain.MidtransPaymentResponse{}, domain.ErrInvalidPlan
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.MidtransPaymentResponse{}, domain.ErrParseUUID
	}
	u, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.MidtransPaymentResponse{}, domain.ErrUserNotFound
		}
		return domain.MidtransPaymentResponse{}, err
	}

	orderID := fmt.Sprintf("MF-%d-%s", s.now().Unix(), strings.Split(uuid.NewString(), "-")[0])

	resp, err := s.gateway.CreateSnap(&snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: plan.Price,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: u.Name,
			Email: u.Email,
		},
		Items: &[]midtrans.ItemDetails{{
			ID:    "premium-" + plan.Name,
			Name:  fmt.Sprintf("MeatFresh Premium (%d days)", plan.Days),
			Price: plan.Price,
			Qty:   1,
		}},
	})
	if err != nil {
		s.log.Error("snap transaction failed", zap.String("order_id", orderID), zap.Error(err))
		return domain.MidtransPaymentResponse{}, domain.ErrPaymentFailed
	}

	tx := &entities.Transaction{
		ID:         uuid.New(),
		UserID:     userUUID,
		OrderID:    orderID,
		Plan:       plan.Name,
		Amount:     plan.Price,
		Status:     domain.TransactionPending,
		SnapToken:  resp.Token,
		InvoiceURL: resp.RedirectURL,
	}
	if err := s.midtransRepository.CreateTransaction(ctx, tx); err != nil {
		return domain.MidtransPaymentResponse{}, err
	}

	s.log.Info("premium checkout started",
		zap.String("order_id", orderID),
		zap.String("user_id", userID),
		zap.String("plan", plan.Name))

	return domain.MidtransPaymentResponse{
		OrderID: orderID,
		Token:   resp.Token,
		Invoice: resp.RedirectURL,
		Plan:    plan,
	}, nil
}

func (s *midtransService) HandleNotification(ctx context.Context, req domain.MidtransNotification) error {
	if req.SignatureKey != "" && req.SignatureKey != Signature(req.OrderID, req.StatusCode, req.GrossAmount, s.serverKey) {
		s.log.Warn("notification signature mismatch", zap.String("order_id", req.OrderID))
		return domain.ErrPaymentVerifyFailed
	}

	tx, err := s.midtransRepository.GetTransactionByOrderID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrTransactionNotFound
		}
		return err
	}
	if tx.Status != domain.TransactionPending {
		return domain.ErrTransactionCompleted
	}

	// the notification body is untrusted, the Core API is the source of truth
	status, err := s.gateway.CheckStatus(req.OrderID)
	if err != nil {
		s.log.Error("payment status check failed", zap.String("order_id", req.OrderID), zap.Error(err))
		return domain.ErrPaymentVerifyFailed
	}

	switch PaymentOutcome(status.TransactionStatus, status.FraudStatus) {
	case domain.TransactionPaid:
		return s.markPaid(ctx, tx, status.PaymentType)
	case domain.TransactionFailed:
		claimed, err := s.midtransRepository.ClaimPending(ctx, tx.OrderID, domain.TransactionFailed, status.PaymentType, nil)
		if err != nil {
			return err
		}
		if !claimed {
			return domain.ErrTransactionCompleted
		}
		s.log.Info("payment failed", zap.String("order_id", tx.OrderID), zap.String("status", status.TransactionStatus))
		return nil
	default:
		return nil
	}
}

// markPaid settles the order and extends the user's plan in one database
// transaction. Only the delivery that claims the pending row credits the plan.
func (s *midtransService) markPaid(ctx context.Context, tx *entities.Transaction, paymentType string) error {
	plan, ok := domain.Plans[tx.Plan]
	if !ok {
		return domain.ErrInvalidPlan
	}

	now := s.now()
	var expiresAt time.Time
	err := s.midtransRepository.RunInTransaction(ctx, func(repo MidtransRepository, users user.UserRepository) error {
		claimed, err := repo.ClaimPending(ctx, tx.OrderID, domain.TransactionPaid, paymentType, &now)
		if err != nil {
			return err
		}
		if !claimed {
			return domain.ErrTransactionCompleted
		}

		u, err := users.GetUserByID(ctx, tx.UserID.String())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrUserNotFound
			}
			return err
		}

		expiresAt = ExtendSubscription(u, plan, now)
		return users.UpdateSubscription(ctx, u.ID.String(), plan.Name, &expiresAt)
	})
	if err != nil {
		return err
	}

	s.log.Info("premium activated",
		zap.String("order_id", tx.OrderID),
		zap.String("user_id", tx.UserID.String()),
		zap.Time("expires_at", expiresAt))
	return nil
}

// PaymentOutcome maps a Midtrans transaction status onto the local status.
// An empty result means the payment is still in flight.
func PaymentOutcome(transactionStatus, fraudStatus string) string {
	switch transactionStatus {
	case "capture":
		switch fraudStatus {
		case "", "accept":
			return domain.TransactionPaid
		case "deny":
			return domain.TransactionFailed
		}
		return ""
	case "settlement":
		return domain.TransactionPaid
	case "deny", "cancel", "expire", "failure":
		return domain.TransactionFailed
	default:
		return ""
	}
}

// ExtendSubscription stacks a new period on top of any time still left.
func ExtendSubscription(u *entities.User, plan domain.Plan, now time.Time) time.Time {
	start := now
	if user.EffectiveSubscription(u, now) != domain.SubscriptionFree &&
		u.SubscriptionExpiresAt != nil && u.SubscriptionExpiresAt.After(now) {
		start = *u.SubscriptionExpiresAt
	}
	return start.Add(plan.Period)
}
