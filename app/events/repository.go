package events

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/joefazee/sportsbook/models"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new event repository
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

func (r *repository) CreateEvent(ctx context.Context, event *models.Event) error {
	if err := event.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) UpdateResult(ctx context.Context, event *models.Event, expected models.EventStatus) error {
	if err := event.Validate(); err != nil {
		return err
	}

	res := r.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("id = ? AND status = ?", event.ID, expected).
		Updates(map[string]interface{}{
			"status":        event.Status,
			"home_goals":    event.HomeGoals,
			"away_goals":    event.AwayGoals,
			"ht_home_goals": event.HTHomeGoals,
			"ht_away_goals": event.HTAwayGoals,
			"finished_at":   event.FinishedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update event result: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrResultConflict
	}
	return nil
}

func (r *repository) CreateAuditLog(ctx context.Context, entry *models.AuditLog) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(entry).Error
}
