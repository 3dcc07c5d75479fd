package settlement

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/joefazee/sportsbook/models"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new settlement repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) GetEvent(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	var event models.Event
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *repository) GetEvents(ctx context.Context, ids []uuid.UUID) ([]models.Event, error) {
	var events []models.Event
	if len(ids) == 0 {
		return events, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&events).Error
	return events, err
}

func (r *repository) FindWagersByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Wager, error) {
	var wagers []models.Wager
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND kind = ? AND status IN ?", eventID, models.WagerKindSingle, models.OpenWagerStatuses).
		Order("created_at ASC").
		Find(&wagers).Error
	return wagers, err
}

// FindLegacyWagers returns open single wagers with no event reference whose
// description names the fixture in order ("Home vs Away" or "Home vs. Away"),
// case-insensitively. The reverse fixture swaps the sides and never matches.
func (r *repository) FindLegacyWagers(ctx context.Context, homeTeam, awayTeam string) ([]models.Wager, error) {
	names := fixtureNames(homeTeam, awayTeam)
	var wagers []models.Wager
	err := r.db.WithContext(ctx).
		Where("event_id IS NULL AND kind = ? AND status IN ?", models.WagerKindSingle, models.OpenWagerStatuses).
		Where("description ILIKE ? OR description ILIKE ?", containsPattern(names[0]), containsPattern(names[1])).
		Order("created_at ASC").
		Find(&wagers).Error
	return wagers, err
}

func (r *repository) FindOpenParlaysByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Wager, error) {
	var wagers []models.Wager
	err := r.db.WithContext(ctx).
		Preload("Selections").
		Where("kind = ? AND status IN ?", models.WagerKindParlay, models.OpenWagerStatuses).
		Where("id IN (?)", r.db.Model(&models.Selection{}).Select("wager_id").Where("event_id = ?", eventID)).
		Order("created_at ASC").
		Find(&wagers).Error
	return wagers, err
}

// FindOpenParlays pages through open parlays by id so a sweep never revisits a row
func (r *repository) FindOpenParlays(ctx context.Context, afterID uuid.UUID, limit int) ([]models.Wager, error) {
	var wagers []models.Wager
	err := r.db.WithContext(ctx).
		Preload("Selections").
		Where("kind = ? AND status IN ? AND id > ?", models.WagerKindParlay, models.OpenWagerStatuses, afterID).
		Order("id ASC").
		Limit(limit).
		Find(&wagers).Error
	return wagers, err
}

func (r *repository) TransitionWager(ctx context.Context, wager *models.Wager) error {
	res := r.db.WithContext(ctx).
		Model(&models.Wager{}).
		Where("id = ? AND status IN ?", wager.ID, models.OpenWagerStatuses).
		Updates(map[string]interface{}{
			"status":         wager.Status,
			"result":         wager.Result,
			"settled_payout": wager.SettledPayout,
			"settled_at":     wager.SettledAt,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to transition wager: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrConcurrentSettlement
	}
	return nil
}

func (r *repository) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	if err := settlement.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(settlement).Error
}

func (r *repository) CreateAuditLog(ctx context.Context, entry *models.AuditLog) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) ListSettlementsByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Settlement, error) {
	var settlements []models.Settlement
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&settlements).Error
	return settlements, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// fixtureNames lists the ways a legacy description spells the fixture
func fixtureNames(homeTeam, awayTeam string) []string {
	home, away := strings.TrimSpace(homeTeam), strings.TrimSpace(awayTeam)
	return []string{home + " vs " + away, home + " vs. " + away}
}

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.TrimSpace(s)) + "%"
}
