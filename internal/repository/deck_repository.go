//go:generate mockery --name DeckRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	// middleware.GetLoggerが返す型として必要
	"go_flash_keep/internal/middleware"
	"go_flash_keep/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DeckRepository インターフェース
type DeckRepository interface {
	Create(ctx context.Context, tx *gorm.DB, deck *model.Deck) error
	FindByID(ctx context.Context, db *gorm.DB, deckID uuid.UUID) (*model.Deck, error)
	FindByIDWithCards(ctx context.Context, db *gorm.DB, deckID uuid.UUID) (*model.Deck, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]*model.Deck, error)
	FindAllWithCards(ctx context.Context, db *gorm.DB) ([]*model.Deck, error)
	Update(ctx context.Context, tx *gorm.DB, deckID uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, tx *gorm.DB, deckID uuid.UUID) error
	CheckNameExists(ctx context.Context, db *gorm.DB, name string) (bool, error)
}

type gormDeckRepository struct{}

func NewGormDeckRepository() DeckRepository {
	return &gormDeckRepository{}
}

func (r *gormDeckRepository) Create(ctx context.Context, tx *gorm.DB, deck *model.Deck) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(deck)
	if result.Error != nil {
		logger.Error("Error creating deck in DB",
			"error", result.Error,
			"deck_name", deck.Name,
		)
		return fmt.Errorf("gormDeckRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormDeckRepository) FindByID(ctx context.Context, db *gorm.DB, deckID uuid.UUID) (*model.Deck, error) {
	logger := middleware.GetLogger(ctx)
	var deck model.Deck
	result := db.WithContext(ctx).Where("deck_id = ?", deckID).First(&deck)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding deck by ID in DB",
			"error", result.Error,
			"deck_id", deckID.String(),
		)
		return nil, fmt.Errorf("gormDeckRepository.FindByID: %w", result.Error)
	}
	return &deck, nil
}

// FindByIDWithCards はカードを挿入順 (created_at 順) でプリロードして返します
func (r *gormDeckRepository) FindByIDWithCards(ctx context.Context, db *gorm.DB, deckID uuid.UUID) (*model.Deck, error) {
	logger := middleware.GetLogger(ctx)
	var deck model.Deck
	result := db.WithContext(ctx).
		Preload("Cards", func(db *gorm.DB) *gorm.DB {
			return db.Order("cards.created_at ASC")
		}).
		Where("deck_id = ?", deckID).First(&deck)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding deck with cards in DB",
			"error", result.Error,
			"deck_id", deckID.String(),
		)
		return nil, fmt.Errorf("gormDeckRepository.FindByIDWithCards: %w", result.Error)
	}
	return &deck, nil
}

func (r *gormDeckRepository) FindAll(ctx context.Context, db *gorm.DB) ([]*model.Deck, error) {
	logger := middleware.GetLogger(ctx)
	var decks []*model.Deck
	result := db.WithContext(ctx).Order("created_at ASC").Find(&decks)
	if result.Error != nil {
		logger.Error("Error finding decks in DB",
			"error", result.Error,
		)
		return nil, fmt.Errorf("gormDeckRepository.FindAll: %w", result.Error)
	}
	return decks, nil
}

// FindAllWithCards はエクスポート用に全デッキをカード込みで返します
func (r *gormDeckRepository) FindAllWithCards(ctx context.Context, db *gorm.DB) ([]*model.Deck, error) {
	logger := middleware.GetLogger(ctx)
	var decks []*model.Deck
	result := db.WithContext(ctx).
		Preload("Cards", func(db *gorm.DB) *gorm.DB {
			return db.Order("cards.created_at ASC")
		}).
		Order("created_at ASC").Find(&decks)
	if result.Error != nil {
		logger.Error("Error finding decks with cards in DB",
			"error", result.Error,
		)
		return nil, fmt.Errorf("gormDeckRepository.FindAllWithCards: %w", result.Error)
	}
	return decks, nil
}

func (r *gormDeckRepository) Update(ctx context.Context, tx *gorm.DB, deckID uuid.UUID, updates map[string]interface{}) error {
	logger := middleware.GetLogger(ctx)
	if len(updates) == 0 {
		return nil
	}
	result := tx.WithContext(ctx).Model(&model.Deck{}).Where("deck_id = ?", deckID).Updates(updates)
	if result.Error != nil {
		logger.Error("Error updating deck in DB",
			"error", result.Error,
			"deck_id", deckID.String(),
		)
		return fmt.Errorf("gormDeckRepository.Update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormDeckRepository) Delete(ctx context.Context, tx *gorm.DB, deckID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Delete(&model.Deck{}, "deck_id = ?", deckID)
	if result.Error != nil {
		logger.Error("Error deleting deck in DB",
			"error", result.Error,
			"deck_id", deckID.String(),
		)
		return fmt.Errorf("gormDeckRepository.Delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormDeckRepository) CheckNameExists(ctx context.Context, db *gorm.DB, name string) (bool, error) {
	logger := middleware.GetLogger(ctx)
	var count int64
	result := db.WithContext(ctx).Model(&model.Deck{}).Where("name = ?", name).Count(&count)
	if result.Error != nil {
		logger.Error("Error checking deck name existence in DB",
			"error", result.Error,
			"deck_name", name,
		)
		return false, fmt.Errorf("gormDeckRepository.CheckNameExists: %w", result.Error)
	}
	return count > 0, nil
}
