package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WagerStatus represents the status of a wager
type WagerStatus string

const (
	WagerStatusPending   WagerStatus = "pending"
	WagerStatusActive    WagerStatus = "active"
	WagerStatusWon       WagerStatus = "won"
	WagerStatusLost      WagerStatus = "lost"
	WagerStatusCancelled WagerStatus = "cancelled"
	WagerStatusVoided    WagerStatus = "voided"
)

// OpenWagerStatuses are the statuses a settlement run is allowed to move away from
var OpenWagerStatuses = []WagerStatus{WagerStatusPending, WagerStatusActive}

// WagerResult is the result label stored once a wager is closed
type WagerResult string

const (
	WagerResultWin     WagerResult = "win"
	WagerResultLoss    WagerResult = "loss"
	WagerResultVoided  WagerResult = "voided"
	WagerResultCashout WagerResult = "cashout"
)

// WagerKind distinguishes single-event wagers from accumulators
type WagerKind string

const (
	WagerKindSingle WagerKind = "single"
	WagerKindParlay WagerKind = "parlay"
)

// Wager represents a user's stake on one event selection or on a parlay of legs.
// Market and Selection are empty for legacy rows that only carry a description.
type Wager struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index:idx_wagers_user" json:"user_id"`
	Kind            WagerKind       `gorm:"type:varchar(10);not null;default:'single'" json:"kind"`
	Stake           decimal.Decimal `gorm:"type:decimal(20,2);not null;check:stake > 0" json:"stake"`
	Odds            decimal.Decimal `gorm:"type:decimal(10,4);not null;check:odds > 1" json:"odds"`
	PotentialPayout decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"potential_payout"`
	EventID         *uuid.UUID      `gorm:"type:uuid;index:idx_wagers_event" json:"event_id"`
	Market          string          `gorm:"type:varchar(50)" json:"market"`
	Selection       string          `gorm:"type:varchar(100)" json:"selection"`
	Description     string          `gorm:"type:text;not null" json:"description"`
	Status          WagerStatus     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Result          *WagerResult    `gorm:"type:varchar(20)" json:"result"`
	SettledPayout   decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0.00" json:"settled_payout"`
	SettledAt       *time.Time      `gorm:"type:timestamptz" json:"settled_at"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Associations
	Event      *Event      `gorm:"foreignKey:EventID" json:"event,omitempty"`
	Selections []Selection `gorm:"foreignKey:WagerID" json:"selections,omitempty"`
}

// TableName specifies the table name for Wager model
func (*Wager) TableName() string {
	return "wagers"
}

// BeforeCreate sets up the model before creation
func (w *Wager) BeforeCreate(_ *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// IsOpen checks if the wager can still be settled
func (w *Wager) IsOpen() bool {
	return w.Status == WagerStatusPending || w.Status == WagerStatusActive
}

// IsParlay checks if the wager is an accumulator
func (w *Wager) IsParlay() bool {
	return w.Kind == WagerKindParlay
}

// HasStructuredPick reports whether both market and selection were captured at placement
func (w *Wager) HasStructuredPick() bool {
	return strings.TrimSpace(w.Market) != "" && strings.TrimSpace(w.Selection) != ""
}

// CalculatePotentialPayout returns stake x odds rounded to cents
func CalculatePotentialPayout(stake, odds decimal.Decimal) decimal.Decimal {
	return stake.Mul(odds).Round(2)
}

// ApplySettlement moves an open wager to its terminal state in memory and returns
// the amount the user must be credited. The caller persists the change.
func (w *Wager) ApplySettlement(kind SettlementType, at time.Time) (decimal.Decimal, error) {
	if !w.IsOpen() {
		return decimal.Zero, ErrWagerAlreadySettled
	}

	var (
		status WagerStatus
		result WagerResult
		payout decimal.Decimal
	)
	switch kind {
	case SettlementTypeWin:
		status, result, payout = WagerStatusWon, WagerResultWin, w.PotentialPayout
	case SettlementTypeLoss:
		status, result, payout = WagerStatusLost, WagerResultLoss, decimal.Zero
	case SettlementTypeRefund:
		status, result, payout = WagerStatusVoided, WagerResultVoided, w.Stake
	default:
		return decimal.Zero, ErrInvalidSettlementType
	}

	w.Status = status
	w.Result = &result
	w.SettledPayout = payout
	w.SettledAt = &at
	return payout, nil
}

// GetProfitLoss returns settled payout minus stake; zero while open
func (w *Wager) GetProfitLoss() decimal.Decimal {
	if w.IsOpen() {
		return decimal.Zero
	}
	return w.SettledPayout.Sub(w.Stake)
}

// Validate performs validation on the wager model
func (w *Wager) Validate() error {
	if w.UserID == uuid.Nil {
		return ErrInvalidUserID
	}
	if w.Stake.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidStakeAmount
	}
	if w.Odds.LessThanOrEqual(decimal.NewFromInt(1)) {
		return ErrInvalidOdds
	}
	if strings.TrimSpace(w.Description) == "" {
		return ErrMissingDescription
	}

	switch w.Kind {
	case WagerKindSingle, "":
	case WagerKindParlay:
		if w.EventID != nil {
			return ErrParlayWithEventRef
		}
		if w.Selections != nil && len(w.Selections) < 2 {
			return ErrParlayWithoutLegs
		}
	default:
		return ErrInvalidWagerKind
	}
	return nil
}
