package midtrans

import (
	"MeatFresh-Backend/domain"
	"MeatFresh-Backend/entities"
	"MeatFresh-Backend/pkg/user"
	"context"
	"time"

	"gorm.io/gorm"
)

type (
	MidtransRepository interface {
		CreateTransaction(ctx context.Context, tx *entities.Transaction) error
		GetTransactionByOrderID(ctx context.Context, orderID string) (*entities.Transaction, error)
		// ClaimPending moves a pending transaction to status. It reports false
		// when the transaction was no longer pending.
		ClaimPending(ctx context.Context, orderID string, status string, paymentType string, paidAt *time.Time) (bool, error)
		RunInTransaction(ctx context.Context, fn func(repo MidtransRepository, users user.UserRepository) error) error
	}

	midtransRepository struct {
		db *gorm.DB
	}
)

func NewMidtransRepository(db *gorm.DB) MidtransRepository {
	return &midtransRepository{db: db}
}

func (r *midtransRepository) CreateTransaction(ctx context.Context, tx *entities.Transaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *midtransRepository) GetTransactionByOrderID(ctx context.Context, orderID string) (*entities.Transaction, error) {
	var tx entities.Transaction
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&tx).Error; err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *midtransRepository) ClaimPending(ctx context.Context, orderID string, status string, paymentType string, paidAt *time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&entities.Transaction{}).
		Where("order_id = ? AND status = ?", orderID, domain.TransactionPending).
		Updates(map[string]interface{}{
			"status":       status,
			"payment_type": paymentType,
			"paid_at":      paidAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *midtransRepository) RunInTransaction(ctx context.Context, fn func(repo MidtransRepository, users user.UserRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&midtransRepository{db: tx}, user.NewUserRepository(tx))
	})
}
