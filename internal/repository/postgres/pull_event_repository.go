package postgres

import (
	"context"

	"gachaVault/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PullEventRepository struct {
	DB *gorm.DB
}

func NewPullEventRepository(db *gorm.DB) *PullEventRepository {
	return &PullEventRepository{
		DB: db,
	}
}

// UpsertBatch inserts events keyed by (user_id, external_id). A conflicting
// row is overwritten: importers re-exporting the same draw with corrected
// fields win over what was stored before.
func (r *PullEventRepository) UpsertBatch(ctx context.Context, events []domain.PullEvent) error {
	if len(events) == 0 {
		return nil
	}

	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"banner_category",
			"item_type",
			"item_key",
			"rarity",
			"is_featured",
			"tracked_target",
			"occurred_at",
			"ingested_at",
			"raw",
		}),
	}).Create(&events).Error
}

// FindAllByUser returns the user's full log. The replay engine re-derives its
// own ordering, the query order just keeps responses stable for listing.
func (r *PullEventRepository) FindAllByUser(ctx context.Context, userID uint) ([]domain.PullEvent, error) {
	var events []domain.PullEvent

	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("occurred_at, ingested_at, id").
		Find(&events).Error
	if err != nil {
		return nil, err
	}

	return events, nil
}

func (r *PullEventRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64

	err := r.DB.WithContext(ctx).
		Model(&domain.PullEvent{}).
		Where("user_id = ?", userID).
		Count(&count).Error

	return count, err
}
