package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SettlementType represents the type of settlement
type SettlementType string

const (
	SettlementTypeWin    SettlementType = "win"
	SettlementTypeLoss   SettlementType = "loss"
	SettlementTypeRefund SettlementType = "refund"
)

// SettlementTrigger records what started the settlement run
type SettlementTrigger string

const (
	TriggerAdmin  SettlementTrigger = "admin"
	TriggerFeed   SettlementTrigger = "feed"
	TriggerSweep  SettlementTrigger = "sweep"
	TriggerManual SettlementTrigger = "manual"
)

// Settlement is the immutable audit record written alongside every wager transition.
// Trace holds the human-readable reasoning: resolved pick, comparison and outcome.
type Settlement struct {
	ID             uuid.UUID         `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	WagerID        uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex" json:"wager_id"`
	UserID         uuid.UUID         `gorm:"type:uuid;not null;index:idx_settlements_user" json:"user_id"`
	EventID        *uuid.UUID        `gorm:"type:uuid;index:idx_settlements_event" json:"event_id"`
	SettlementType SettlementType    `gorm:"type:varchar(20);not null" json:"settlement_type"`
	Market         string            `gorm:"type:varchar(50)" json:"market"`
	Selection      string            `gorm:"type:varchar(100)" json:"selection"`
	Stake          decimal.Decimal   `gorm:"type:decimal(20,2);not null" json:"stake"`
	PayoutAmount   decimal.Decimal   `gorm:"type:decimal(20,2);not null;default:0.00" json:"payout_amount"`
	Trace          string            `gorm:"type:text;not null" json:"trace"`
	Trigger        SettlementTrigger `gorm:"type:varchar(20);not null" json:"trigger"`
	TransactionID  *uuid.UUID        `gorm:"type:uuid" json:"transaction_id"`
	CreatedAt      time.Time         `gorm:"autoCreateTime" json:"created_at"`

	// Associations (Note: Settlements are immutable, no updates)
	Wager       *Wager       `gorm:"foreignKey:WagerID" json:"wager,omitempty"`
	Transaction *Transaction `gorm:"foreignKey:TransactionID" json:"transaction,omitempty"`
}

// TableName specifies the table name for Settlement model
func (*Settlement) TableName() string {
	return "settlements"
}

// BeforeCreate sets up the model before creation
func (s *Settlement) BeforeCreate(_ *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// IsWin checks if this is a winning settlement
func (s *Settlement) IsWin() bool {
	return s.SettlementType == SettlementTypeWin
}

// IsRefund checks if this is a refund settlement
func (s *Settlement) IsRefund() bool {
	return s.SettlementType == SettlementTypeRefund
}

// GetNetAmount returns the net amount (payout - stake)
func (s *Settlement) GetNetAmount() decimal.Decimal {
	return s.PayoutAmount.Sub(s.Stake)
}

// Validate performs validation on the settlement model
func (s *Settlement) Validate() error {
	if s.WagerID == uuid.Nil {
		return ErrInvalidWagerID
	}
	if s.UserID == uuid.Nil {
		return ErrInvalidUserID
	}
	if s.Stake.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidStakeAmount
	}
	if s.PayoutAmount.LessThan(decimal.Zero) {
		return ErrInvalidTransactionAmount
	}

	switch s.SettlementType {
	case SettlementTypeWin:
		if !s.PayoutAmount.GreaterThan(decimal.Zero) {
			return ErrInvalidTransactionAmount
		}
	case SettlementTypeLoss:
		if !s.PayoutAmount.IsZero() {
			return ErrInvalidTransactionAmount
		}
	case SettlementTypeRefund:
		if !s.PayoutAmount.Equal(s.Stake) {
			return ErrInvalidTransactionAmount
		}
	default:
		return ErrInvalidSettlementType
	}
	return nil
}

// NewSettlement builds the audit record for a wager that has just been transitioned
func NewSettlement(w *Wager, kind SettlementType, trace string, trigger SettlementTrigger) *Settlement {
	return &Settlement{
		WagerID:        w.ID,
		UserID:         w.UserID,
		EventID:        w.EventID,
		SettlementType: kind,
		Market:         w.Market,
		Selection:      w.Selection,
		Stake:          w.Stake,
		PayoutAmount:   w.SettledPayout,
		Trace:          trace,
		Trigger:        trigger,
	}
}
