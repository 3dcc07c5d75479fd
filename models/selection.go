package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Selection is one leg of a parlay wager (immutable once placed)
type Selection struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	WagerID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_wager_selections_wager" json:"wager_id"`
	EventID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_wager_selections_event" json:"event_id"`
	Market    string          `gorm:"type:varchar(50);not null" json:"market"`
	Selection string          `gorm:"type:varchar(100);not null" json:"selection"`
	Odds      decimal.Decimal `gorm:"type:decimal(10,4);not null;check:odds > 1" json:"odds"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`

	Event *Event `gorm:"foreignKey:EventID" json:"event,omitempty"`
}

// TableName specifies the table name for Selection model
func (*Selection) TableName() string {
	return "wager_selections"
}

// BeforeCreate sets up the model before creation
func (s *Selection) BeforeCreate(_ *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Validate performs validation on the selection model
func (s *Selection) Validate() error {
	if s.EventID == uuid.Nil {
		return ErrInvalidEventID
	}
	if s.Odds.LessThanOrEqual(decimal.NewFromInt(1)) {
		return ErrInvalidOdds
	}
	return nil
}
