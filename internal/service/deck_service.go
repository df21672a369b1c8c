// internal/service/deck_service.go
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go_flash_keep/internal/importer"
	"go_flash_keep/internal/middleware"
	"go_flash_keep/internal/model"
	"go_flash_keep/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DeckService interface {
	CreateDeck(ctx context.Context, req *model.PostDeckRequest) (*model.Deck, error)
	GetDeck(ctx context.Context, deckID uuid.UUID) (*model.Deck, error)
	ListDecks(ctx context.Context) ([]*model.DeckSummaryResponse, error)
	DeleteDeck(ctx context.Context, deckID uuid.UUID) error
}

type deckService struct {
	db       *gorm.DB // トランザクション用にDB接続を持つ
	deckRepo repository.DeckRepository
	cardRepo repository.CardRepository
	now      func() time.Time
}

func NewDeckService(db *gorm.DB, deckRepo repository.DeckRepository, cardRepo repository.CardRepository) DeckService {
	return &deckService{
		db:       db,
		deckRepo: deckRepo,
		cardRepo: cardRepo,
		now:      time.Now,
	}
}

// CreateDeck はデッキとカード一式を1トランザクションで作成します。
// カードは req.Cards (ペア配列) か req.Text ("Front | Back" 行) のどちらかで渡されます
func (s *deckService) CreateDeck(ctx context.Context, req *model.PostDeckRequest) (*model.Deck, error) {
	logger := middleware.GetLogger(ctx)

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, model.NewAppError("INVALID_INPUT", "デッキ名を入力してください。", "name", model.ErrInvalidInput)
	}

	pairs := req.Cards
	if len(pairs) == 0 && req.Text != "" {
		parsed, err := importer.ParseText(req.Text)
		if err != nil {
			logger.Error("Failed to parse deck text", "error", err)
			return nil, model.NewAppError("INVALID_INPUT", "カードのテキストを読み取れませんでした。", "text", model.ErrInvalidInput)
		}
		pairs = parsed
	}

	now := s.now()
	var createdDeck *model.Deck

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. 重複チェック
		exists, err := s.deckRepo.CheckNameExists(ctx, tx, name)
		if err != nil {
			logger.Error("Error checking deck name in transaction", "error", err)
			return model.ErrInternalServer
		}
		if exists {
			return model.ErrConflict
		}

		// 2. デッキを作成
		deck := &model.Deck{
			DeckID: uuid.New(),
			Name:   name,
		}
		if err := s.deckRepo.Create(ctx, tx, deck); err != nil {
			logger.Error("Error creating deck in transaction", "error", err)
			return model.ErrInternalServer
		}

		// 3. カードを初期状態で一括作成
		cards := make([]model.Card, 0, len(pairs))
		for _, pair := range pairs {
			cards = append(cards, importer.NewCard(deck.DeckID, pair, now))
		}
		if err := s.cardRepo.CreateBatch(ctx, tx, cards); err != nil {
			logger.Error("Error creating cards in transaction", "error", err)
			return model.ErrInternalServer
		}

		deck.Cards = cards
		createdDeck = deck
		return nil // コミット
	})

	if err != nil {
		if errors.Is(err, model.ErrConflict) {
			return nil, model.NewAppError("CONFLICT", "同じ名前のデッキが既に存在します。", "name", model.ErrConflict)
		}
		logger.Error("Transaction failed for CreateDeck", "error", err)
		return nil, model.ErrInternalServer
	}

	logger.Info("Deck created", "deck_id", createdDeck.DeckID.String(), "card_count", len(createdDeck.Cards))
	return createdDeck, nil
}

func (s *deckService) GetDeck(ctx context.Context, deckID uuid.UUID) (*model.Deck, error) {
	deck, err := s.deckRepo.FindByIDWithCards(ctx, s.db, deckID)
	if err != nil {
		// エラーはリポジトリで変換済み
		return nil, err
	}
	return deck, nil
}

func (s *deckService) ListDecks(ctx context.Context) ([]*model.DeckSummaryResponse, error) {
	logger := middleware.GetLogger(ctx)

	decks, err := s.deckRepo.FindAllWithCards(ctx, s.db)
	if err != nil {
		logger.Error("Error listing decks", "error", err)
		return nil, model.ErrInternalServer
	}

	summaries := make([]*model.DeckSummaryResponse, 0, len(decks))
	for _, d := range decks {
		summaries = append(summaries, &model.DeckSummaryResponse{
			DeckID:      d.DeckID,
			Name:        d.Name,
			CardCount:   len(d.Cards),
			LastStudied: d.LastStudied,
			CreatedAt:   d.CreatedAt,
		})
	}
	return summaries, nil
}

// DeleteDeck はデッキを論理削除し、所属カードを物理削除します
func (s *deckService) DeleteDeck(ctx context.Context, deckID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. 存在確認
		if _, err := s.deckRepo.FindByID(ctx, tx, deckID); err != nil {
			return err // model.ErrNotFound or model.ErrInternalServer
		}

		// 2. カード → デッキの順に削除
		if err := s.cardRepo.DeleteByDeck(ctx, tx, deckID); err != nil {
			logger.Error("Error deleting cards in transaction", "error", err)
			return model.ErrInternalServer
		}
		if err := s.deckRepo.Delete(ctx, tx, deckID); err != nil {
			logger.Error("Error deleting deck in transaction", "error", err)
			if errors.Is(err, model.ErrNotFound) {
				return model.ErrNotFound
			}
			return model.ErrInternalServer
		}
		return nil // コミット
	})

	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return err
		}
		logger.Error("Transaction failed for DeleteDeck", "error", err, "deck_id", deckID.String())
		return model.ErrInternalServer
	}

	logger.Info("Deck deleted", "deck_id", deckID.String())
	return nil
}
