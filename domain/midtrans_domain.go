package domain

import (
	"errors"
	"time"
)

const (
	TransactionPending = "Pending"
	TransactionPaid    = "Paid"
	TransactionFailed  = "Failed"
)

var (
	MessageSuccessCreateTransaction = "transaction created successfully"
	MessageSuccessNotification      = "notification processed"
	MessageSuccessGetPlans          = "premium plans retrieved successfully"

	MessageFailedCreateTransaction = "failed to create transaction"
	MessageFailedNotification      = "failed to process notification"

	ErrInvalidPlan          = errors.New("invalid subscription plan")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrPaymentFailed        = errors.New("payment processing failed")
	ErrPaymentVerifyFailed  = errors.New("failed to verify payment status")
	ErrTransactionCompleted = errors.New("transaction already completed")
)

// Plan is a purchasable premium subscription.
type Plan struct {
	Name     string        `json:"name"`
	Price    int64         `json:"price"`
	Currency string        `json:"currency"`
	Period   time.Duration `json:"-"`
	Days     int           `json:"days"`
}

var Plans = map[string]Plan{
	SubscriptionMonthly: {Name: SubscriptionMonthly, Price: 59000, Currency: "IDR", Period: 30 * 24 * time.Hour, Days: 30},
	SubscriptionAnnual:  {Name: SubscriptionAnnual, Price: 499000, Currency: "IDR", Period: 365 * 24 * time.Hour, Days: 365},
}

type (
	MidtransPaymentRequest struct {
		Plan string `json:"plan" validate:"required,oneof=monthly annual"`
	}

	MidtransPaymentResponse struct {
		OrderID string `json:"order_id"`
		Token   string `json:"token"`
		Invoice string `json:"invoice_url"`
		Plan    Plan   `json:"plan"`
	}

	MidtransNotification struct {
		OrderID           string `json:"order_id" validate:"required"`
		TransactionStatus string `json:"transaction_status"`
		FraudStatus       string `json:"fraud_status"`
		StatusCode        string `json:"status_code"`
		GrossAmount       string `json:"gross_amount"`
		SignatureKey      string `json:"signature_key"`
	}
)
