package settlement

import (
	"context"

	"github.com/google/uuid"
	"github.com/joefazee/sportsbook/app/wallet"
	"github.com/joefazee/sportsbook/models"
	"gorm.io/gorm"
)

// Repository defines the data access needed to settle wagers
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	GetEvent(ctx context.Context, id uuid.UUID) (*models.Event, error)
	GetEvents(ctx context.Context, ids []uuid.UUID) ([]models.Event, error)

	// Candidate discovery (open wagers only)
	FindWagersByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Wager, error)
	FindLegacyWagers(ctx context.Context, homeTeam, awayTeam string) ([]models.Wager, error)
	FindOpenParlaysByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Wager, error)
	FindOpenParlays(ctx context.Context, afterID uuid.UUID, limit int) ([]models.Wager, error)

	// TransitionWager persists an in-memory settlement only if the stored row
	// is still open. Returns models.ErrConcurrentSettlement otherwise.
	TransitionWager(ctx context.Context, wager *models.Wager) error
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error
	CreateAuditLog(ctx context.Context, entry *models.AuditLog) error

	ListSettlementsByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Settlement, error)
}

// Service defines the settlement business logic
type Service interface {
	SettleEvent(ctx context.Context, eventID uuid.UUID, trigger models.SettlementTrigger) (*Report, error)
	VoidEvent(ctx context.Context, eventID uuid.UUID, trigger models.SettlementTrigger) (*Report, error)
	SettleParlays(ctx context.Context, trigger models.SettlementTrigger) (*Report, error)

	GetEventSettlements(ctx context.Context, eventID uuid.UUID) ([]Response, error)
	GetReport(ctx context.Context, eventID uuid.UUID) (*Report, error)
}

// Creditor moves money into a user's wallet inside the settlement transaction
type Creditor interface {
	Credit(ctx context.Context, tx *gorm.DB, req *wallet.CreditRequest) (*models.Transaction, error)
}

// Publisher announces committed settlements to downstream consumers
type Publisher interface {
	PublishSettled(ctx context.Context, msg *WagerSettled) error
}
