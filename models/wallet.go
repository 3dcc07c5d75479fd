package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/joefazee/sportsbook/internal/validator"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Wallet represents a user's balance for a specific currency.
// Settlement only ever changes Balance through a relative increment.
type Wallet struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_wallets_user_currency" json:"user_id"`
	CurrencyCode string          `gorm:"type:varchar(3);not null;uniqueIndex:idx_wallets_user_currency" json:"currency_code"`
	Balance      decimal.Decimal `gorm:"type:decimal(20,2);default:0.00;check:balance >= 0" json:"balance"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	Transactions []Transaction `gorm:"foreignKey:WalletID" json:"-"`
}

// TableName specifies the table name for Wallet model
func (*Wallet) TableName() string {
	return "wallets"
}

// BeforeCreate sets up the model before creation
func (w *Wallet) BeforeCreate(_ *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// Credit adds funds to the in-memory wallet
func (w *Wallet) Credit(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidTransactionAmount
	}
	w.Balance = w.Balance.Add(amount)
	return nil
}

// Validate performs validation on the wallet model
func (w *Wallet) Validate() error {
	if w.UserID == uuid.Nil {
		return ErrInvalidUserID
	}
	if !validator.IsCurrencyCode(w.CurrencyCode) {
		return ErrInvalidCurrencyCode
	}
	if w.Balance.LessThan(decimal.Zero) {
		return ErrNegativeBalance
	}
	return nil
}
