//go:generate mockery --name StatsRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"go_flash_keep/internal/middleware"
	"go_flash_keep/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StatsRepository は単一レコードの生涯統計を管理します
type StatsRepository interface {
	Get(ctx context.Context, db *gorm.DB) (*model.GlobalStats, error)
	Save(ctx context.Context, tx *gorm.DB, stats *model.GlobalStats) error
}

type gormStatsRepository struct{}

func NewGormStatsRepository() StatsRepository {
	return &gormStatsRepository{}
}

// Get は統計レコードを返します。未作成ならゼロ値を返します
func (r *gormStatsRepository) Get(ctx context.Context, db *gorm.DB) (*model.GlobalStats, error) {
	logger := middleware.GetLogger(ctx)
	var stats model.GlobalStats
	result := db.WithContext(ctx).Where("id = ?", model.GlobalStatsID).First(&stats)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			// 初回アクセス。ゼロ値から加算を始める
			return &model.GlobalStats{ID: model.GlobalStatsID}, nil
		}
		logger.Error("Error finding global stats in DB",
			"error", result.Error,
		)
		return nil, fmt.Errorf("gormStatsRepository.Get: %w", result.Error)
	}
	return &stats, nil
}

// Save は統計レコードを upsert します (主キーは常に model.GlobalStatsID)
func (r *gormStatsRepository) Save(ctx context.Context, tx *gorm.DB, stats *model.GlobalStats) error {
	logger := middleware.GetLogger(ctx)
	stats.ID = model.GlobalStatsID
	result := tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(stats)
	if result.Error != nil {
		logger.Error("Error saving global stats in DB",
			"error", result.Error,
		)
		return fmt.Errorf("gormStatsRepository.Save: %w", result.Error)
	}
	return nil
}
