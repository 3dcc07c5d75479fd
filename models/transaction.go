package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypePayout      TransactionType = "payout"
	TransactionTypeWagerRefund TransactionType = "wager_refund"
)

// TransactionMetadata represents additional transaction metadata
type TransactionMetadata struct {
	EventID *uuid.UUID `json:"event_id,omitempty"`
	Trigger string     `json:"trigger,omitempty"`
	Notes   string     `json:"notes,omitempty"`
}

// Value implements driver.Valuer interface
func (tm TransactionMetadata) Value() (driver.Value, error) {
	return json.Marshal(tm)
}

// Scan implements sql.Scanner interface
func (tm *TransactionMetadata) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, tm)
	case string:
		return json.Unmarshal([]byte(v), tm)
	}
	return nil
}

// Transaction represents a balance credit in the immutable ledger
type Transaction struct {
	ID              uuid.UUID           `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID          uuid.UUID           `gorm:"type:uuid;not null;index:idx_transactions_user" json:"user_id"`
	WalletID        uuid.UUID           `gorm:"type:uuid;not null" json:"wallet_id"`
	TransactionType TransactionType     `gorm:"type:varchar(20);not null" json:"transaction_type"`
	Amount          decimal.Decimal     `gorm:"type:decimal(20,2);not null" json:"amount"`
	BalanceBefore   decimal.Decimal     `gorm:"type:decimal(20,2);not null" json:"balance_before"`
	BalanceAfter    decimal.Decimal     `gorm:"type:decimal(20,2);not null" json:"balance_after"`
	ReferenceType   string              `gorm:"type:varchar(20)" json:"reference_type"`
	ReferenceID     *uuid.UUID          `gorm:"type:uuid" json:"reference_id"`
	Description     string              `gorm:"type:text" json:"description"`
	Metadata        TransactionMetadata `gorm:"type:jsonb;default:'{}'" json:"metadata"`
	CreatedAt       time.Time           `gorm:"autoCreateTime;index:idx_transactions_created_at" json:"created_at"`

	// Associations (Note: Transactions are immutable, no updates)
	Wallet *Wallet `gorm:"foreignKey:WalletID" json:"wallet,omitempty"`
}

// TableName specifies the table name for Transaction model
func (*Transaction) TableName() string {
	return "transactions"
}

// BeforeCreate sets up the model before creation
func (t *Transaction) BeforeCreate(_ *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// IsBalanceConsistent checks if the balance calculation is consistent
func (t *Transaction) IsBalanceConsistent() bool {
	return t.BalanceBefore.Add(t.Amount).Equal(t.BalanceAfter)
}

// Validate performs validation on the transaction model
func (t *Transaction) Validate() error {
	if t.UserID == uuid.Nil {
		return ErrInvalidUserID
	}
	if t.WalletID == uuid.Nil {
		return ErrInvalidWalletBalance
	}
	if t.TransactionType != TransactionTypePayout && t.TransactionType != TransactionTypeWagerRefund {
		return ErrInvalidTransactionType
	}
	if !t.Amount.GreaterThan(decimal.Zero) {
		return ErrInvalidTransactionAmount
	}
	if !t.IsBalanceConsistent() {
		return ErrInvalidTransactionAmount
	}
	if t.BalanceAfter.LessThan(decimal.Zero) {
		return ErrNegativeBalance
	}
	return nil
}

// CreatePayoutTransaction records a winning wager credit
func CreatePayoutTransaction(userID,
	walletID uuid.UUID,
	amount, balanceAfter decimal.Decimal,
	wagerID uuid.UUID) *Transaction {
	return &Transaction{
		UserID:          userID,
		WalletID:        walletID,
		TransactionType: TransactionTypePayout,
		Amount:          amount,
		BalanceBefore:   balanceAfter.Sub(amount),
		BalanceAfter:    balanceAfter,
		ReferenceType:   "wager",
		ReferenceID:     &wagerID,
		Description:     "Wager payout",
	}
}

// CreateWagerRefundTransaction records a stake refund for a voided wager
func CreateWagerRefundTransaction(userID,
	walletID uuid.UUID,
	amount, balanceAfter decimal.Decimal,
	wagerID uuid.UUID) *Transaction {
	return &Transaction{
		UserID:          userID,
		WalletID:        walletID,
		TransactionType: TransactionTypeWagerRefund,
		Amount:          amount,
		BalanceBefore:   balanceAfter.Sub(amount),
		BalanceAfter:    balanceAfter,
		ReferenceType:   "wager",
		ReferenceID:     &wagerID,
		Description:     "Refund for voided wager",
	}
}
