package events

import (
	"context"

	"github.com/google/uuid"
	"github.com/joefazee/sportsbook/app/settlement"
	"github.com/joefazee/sportsbook/models"
	"gorm.io/gorm"
)

// Repository defines the interface for event data access
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	GetEvent(ctx context.Context, id uuid.UUID) (*models.Event, error)
	CreateEvent(ctx context.Context, event *models.Event) error
	// UpdateResult writes status and scores only if the stored status still
	// equals expected. Returns models.ErrResultConflict otherwise.
	UpdateResult(ctx context.Context, event *models.Event, expected models.EventStatus) error
	CreateAuditLog(ctx context.Context, entry *models.AuditLog) error
}

// Service defines the interface for result entry
type Service interface {
	CreateEvent(ctx context.Context, req *CreateEventRequest) (*Response, error)
	GetEvent(ctx context.Context, id uuid.UUID) (*Response, error)
	RecordResult(ctx context.Context, id uuid.UUID, req *ResultRequest, source Source) (*ResultResponse, error)
	CancelEvent(ctx context.Context, id uuid.UUID, source Source) (*ResultResponse, error)
}

// Settler runs settlement once a result is final
type Settler interface {
	SettleEvent(ctx context.Context, eventID uuid.UUID, trigger models.SettlementTrigger) (*settlement.Report, error)
	VoidEvent(ctx context.Context, eventID uuid.UUID, trigger models.SettlementTrigger) (*settlement.Report, error)
}
