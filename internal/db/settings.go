package db

import (
	"context"
	"fmt"
	"time"

	"github.com/stwalsh4118/pie/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingsRepository handles database operations for settings.
// Settings is a singleton table with at most one row (id = 1).
type SettingsRepository struct {
	db *DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Load returns the persisted settings, or defaults when no row exists.
// Nothing is written when defaults are returned.
func (r *SettingsRepository) Load(ctx context.Context) (*models.Settings, error) {
	var settings models.Settings
	result := r.db.WithContext(ctx).Where("id = ?", models.SettingsID).First(&settings)
	if result.Error != nil {
		if IsNotFound(MapGormError(result.Error)) {
			return models.DefaultSettings(), nil
		}
		return nil, fmt.Errorf("failed to load settings: %w", MapGormError(result.Error))
	}
	return &settings, nil
}

// Save writes every column of settings in a single upsert.
// On success settings.ID and settings.UpdatedAt reflect the stored row.
func (r *SettingsRepository) Save(ctx context.Context, settings *models.Settings) error {
	row := settings.Clone()
	row.ID = models.SettingsID
	row.UpdatedAt = time.Now().UTC()

	err := r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(row).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", MapGormError(err))
	}

	settings.ID = row.ID
	settings.UpdatedAt = row.UpdatedAt
	return nil
}

// Clear deletes the settings row so the next Load returns defaults.
// Clearing an empty table succeeds.
func (r *SettingsRepository) Clear(ctx context.Context) error {
	result := r.db.WithContext(ctx).Where("id = ?", models.SettingsID).Delete(&models.Settings{})
	if result.Error != nil {
		return fmt.Errorf("failed to clear settings: %w", MapGormError(result.Error))
	}
	return nil
}
