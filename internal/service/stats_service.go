// internal/service/stats_service.go
package service

import (
	"context"
	"time"

	"go_flash_keep/internal/config"
	"go_flash_keep/internal/middleware"
	"go_flash_keep/internal/model"
	"go_flash_keep/internal/repository"
	"go_flash_keep/internal/srs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StatsService interface {
	GetGlobalStats(ctx context.Context) (*model.StatsResponse, error)
	ExportSnapshot(ctx context.Context) (*model.Snapshot, error)
	ImportSnapshot(ctx context.Context, snapshot *model.Snapshot) error
}

type statsService struct {
	db        *gorm.DB
	deckRepo  repository.DeckRepository
	cardRepo  repository.CardRepository
	statsRepo repository.StatsRepository
	cfg       *config.Config
	now       func() time.Time
}

func NewStatsService(db *gorm.DB, deckRepo repository.DeckRepository, cardRepo repository.CardRepository, statsRepo repository.StatsRepository, cfg *config.Config) StatsService {
	return &statsService{
		db:        db,
		deckRepo:  deckRepo,
		cardRepo:  cardRepo,
		statsRepo: statsRepo,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *statsService) GetGlobalStats(ctx context.Context) (*model.StatsResponse, error) {
	logger := middleware.GetLogger(ctx)

	stats, err := s.statsRepo.Get(ctx, s.db)
	if err != nil {
		logger.Error("Error loading global stats", "error", err)
		return nil, model.ErrInternalServer
	}

	return &model.StatsResponse{
		GlobalStats:  *stats,
		DailyGoal:    s.cfg.App.DailyGoal,
		StudiedToday: stats.HasStudyDay(s.now().Format(srs.DayKey)),
	}, nil
}

// ExportSnapshot は全デッキ (カード込み) と生涯統計をまとめて返します
func (s *statsService) ExportSnapshot(ctx context.Context) (*model.Snapshot, error) {
	logger := middleware.GetLogger(ctx)

	var snapshot model.Snapshot
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		decks, err := s.deckRepo.FindAllWithCards(ctx, tx)
		if err != nil {
			return err
		}
		stats, err := s.statsRepo.Get(ctx, tx)
		if err != nil {
			return err
		}
		snapshot.Decks = make([]model.Deck, 0, len(decks))
		for _, d := range decks {
			snapshot.Decks = append(snapshot.Decks, *d)
		}
		snapshot.Stats = *stats
		return nil
	})
	if err != nil {
		logger.Error("Error exporting snapshot", "error", err)
		return nil, model.ErrInternalServer
	}

	snapshot.ExportedAt = s.now()
	logger.Info("Snapshot exported", "deck_count", len(snapshot.Decks))
	return &snapshot, nil
}

// ImportSnapshot はスナップショットで全データを置き換えます。
// 数値の範囲違反は Clamp で補正し、front/back が欠けたカードは
// model.ErrCorruptState で全体を拒否します (途中状態は残さない)
func (s *statsService) ImportSnapshot(ctx context.Context, snapshot *model.Snapshot) error {
	logger := middleware.GetLogger(ctx)

	// 1. 先に全件を検証・補正してからDBに触る
	decks := make([]model.Deck, 0, len(snapshot.Decks))
	total := 0
	for _, d := range snapshot.Decks {
		if d.Name == "" {
			return model.NewAppError("CORRUPT_STATE", "名前のないデッキが含まれています。", "decks", model.ErrCorruptState)
		}
		deck := d
		if deck.DeckID == uuid.Nil {
			deck.DeckID = uuid.New()
		}
		cards := make([]model.Card, 0, len(d.Cards))
		for _, c := range d.Cards {
			card := c
			card.Clamp()
			if !card.Valid() {
				return model.NewAppError("CORRUPT_STATE", "表か裏が欠けたカードが含まれています。", "cards", model.ErrCorruptState)
			}
			if card.CardID == uuid.Nil {
				card.CardID = uuid.New()
			}
			card.DeckID = deck.DeckID
			cards = append(cards, card)
		}
		deck.Cards = cards
		total += len(cards)
		decks = append(decks, deck)
	}

	stats := snapshot.Stats
	clampStats(&stats)

	// 2. 置き換えは1トランザクション
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 物理削除で作り直す (論理削除の残骸も含めて消す)
		if err := tx.Unscoped().Where("1 = 1").Delete(&model.Card{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("1 = 1").Delete(&model.Deck{}).Error; err != nil {
			return err
		}

		for i := range decks {
			deck := decks[i]
			cards := deck.Cards
			deck.Cards = nil
			if err := s.deckRepo.Create(ctx, tx, &deck); err != nil {
				return err
			}
			if err := s.cardRepo.CreateBatch(ctx, tx, cards); err != nil {
				return err
			}
		}

		return s.statsRepo.Save(ctx, tx, &stats)
	})
	if err != nil {
		logger.Error("Error importing snapshot", "error", err)
		return model.ErrInternalServer
	}

	logger.Info("Snapshot imported", "deck_count", len(decks), "card_count", total)
	return nil
}

// clampStats は統計カウンタを非負に寄せます。加算しかしない値なので
// 負数はスナップショットの破損としか考えられないが、復旧可能な範囲で直す
func clampStats(stats *model.GlobalStats) {
	if stats.TotalStudied < 0 {
		stats.TotalStudied = 0
	}
	if stats.TotalCorrect < 0 {
		stats.TotalCorrect = 0
	}
	if stats.TotalIncorrect < 0 {
		stats.TotalIncorrect = 0
	}
	if stats.CurrentStreak < 0 {
		stats.CurrentStreak = 0
	}
	if stats.BestStreak < stats.CurrentStreak {
		stats.BestStreak = stats.CurrentStreak
	}
}
