//go:generate mockery --name CardRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"go_flash_keep/internal/middleware"
	"go_flash_keep/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CardRepository インターフェース
type CardRepository interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, cards []model.Card) error
	FindByID(ctx context.Context, db *gorm.DB, deckID, cardID uuid.UUID) (*model.Card, error)
	FindByDeck(ctx context.Context, db *gorm.DB, deckID uuid.UUID) ([]model.Card, error)
	Update(ctx context.Context, tx *gorm.DB, card *model.Card) error
	DeleteByDeck(ctx context.Context, tx *gorm.DB, deckID uuid.UUID) error
}

type gormCardRepository struct{}

func NewGormCardRepository() CardRepository {
	return &gormCardRepository{}
}

// CreateBatch はデッキ作成・インポート時にカードを一括挿入します
func (r *gormCardRepository) CreateBatch(ctx context.Context, tx *gorm.DB, cards []model.Card) error {
	logger := middleware.GetLogger(ctx)
	if len(cards) == 0 {
		return nil
	}
	result := tx.WithContext(ctx).CreateInBatches(cards, 100)
	if result.Error != nil {
		logger.Error("Error creating cards in DB",
			"error", result.Error,
			"count", len(cards),
		)
		return fmt.Errorf("gormCardRepository.CreateBatch: %w", result.Error)
	}
	return nil
}

func (r *gormCardRepository) FindByID(ctx context.Context, db *gorm.DB, deckID, cardID uuid.UUID) (*model.Card, error) {
	logger := middleware.GetLogger(ctx)
	var card model.Card
	result := db.WithContext(ctx).Where("deck_id = ? AND card_id = ?", deckID, cardID).First(&card)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding card by ID in DB",
			"error", result.Error,
			"deck_id", deckID.String(),
			"card_id", cardID.String(),
		)
		return nil, fmt.Errorf("gormCardRepository.FindByID: %w", result.Error)
	}
	return &card, nil
}

// FindByDeck はデッキのカードを挿入順 (created_at 順) で返します
func (r *gormCardRepository) FindByDeck(ctx context.Context, db *gorm.DB, deckID uuid.UUID) ([]model.Card, error) {
	logger := middleware.GetLogger(ctx)
	var cards []model.Card
	result := db.WithContext(ctx).Where("deck_id = ?", deckID).Order("created_at ASC").Find(&cards)
	if result.Error != nil {
		logger.Error("Error finding cards by deck in DB",
			"error", result.Error,
			"deck_id", deckID.String(),
		)
		return nil, fmt.Errorf("gormCardRepository.FindByDeck: %w", result.Error)
	}
	return cards, nil
}

// Update はスケジューラ適用後のカード状態を丸ごと保存します
func (r *gormCardRepository) Update(ctx context.Context, tx *gorm.DB, card *model.Card) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Save(card)
	if result.Error != nil {
		logger.Error("Error updating card in DB",
			"error", result.Error,
			"card_id", card.CardID.String(),
		)
		return fmt.Errorf("gormCardRepository.Update: %w", result.Error)
	}
	return nil
}

// DeleteByDeck はデッキ削除時にカードをまとめて消します
func (r *gormCardRepository) DeleteByDeck(ctx context.Context, tx *gorm.DB, deckID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Where("deck_id = ?", deckID).Delete(&model.Card{})
	if result.Error != nil {
		logger.Error("Error deleting cards by deck in DB",
			"error", result.Error,
			"deck_id", deckID.String(),
		)
		return fmt.Errorf("gormCardRepository.DeleteByDeck: %w", result.Error)
	}
	return nil
}
