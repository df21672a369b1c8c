// internal/service/study_service.go
package service

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"go_flash_keep/internal/config"
	"go_flash_keep/internal/middleware"
	"go_flash_keep/internal/model"
	"go_flash_keep/internal/repository"
	"go_flash_keep/internal/session"
	"go_flash_keep/internal/srs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StudyService interface {
	StartSession(ctx context.Context, deckID uuid.UUID, mode model.StudyMode) (*model.SessionResponse, error)
	GetSession(ctx context.Context, sessionID uuid.UUID) (*model.SessionResponse, error)
	SubmitReview(ctx context.Context, sessionID uuid.UUID, req *model.SubmitReviewRequest) (*model.ReviewResponse, error)
	EndSession(ctx context.Context, sessionID uuid.UUID)
}

type studyService struct {
	db        *gorm.DB
	deckRepo  repository.DeckRepository
	cardRepo  repository.CardRepository
	statsRepo repository.StatsRepository
	sessions  *session.Store
	cfg       *config.Config
	now       func() time.Time
	newRand   func() *rand.Rand
}

func NewStudyService(db *gorm.DB, deckRepo repository.DeckRepository, cardRepo repository.CardRepository, statsRepo repository.StatsRepository, sessions *session.Store, cfg *config.Config) StudyService {
	return &studyService{
		db:        db,
		deckRepo:  deckRepo,
		cardRepo:  cardRepo,
		statsRepo: statsRepo,
		sessions:  sessions,
		cfg:       cfg,
		now:       time.Now,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

// StartSession はデッキのカードをモードで絞り込み、新しいセッションを作成します。
// 該当カード0枚も有効なセッションです (エラーにしない)
func (s *studyService) StartSession(ctx context.Context, deckID uuid.UUID, mode model.StudyMode) (*model.SessionResponse, error) {
	logger := middleware.GetLogger(ctx).With("deck_id", deckID)

	if !mode.Valid() {
		return nil, model.NewAppError("INVALID_INPUT", "未定義の学習モードです。", "mode", model.ErrInvalidInput)
	}

	if _, err := s.deckRepo.FindByID(ctx, s.db, deckID); err != nil {
		return nil, err // model.ErrNotFound or model.ErrInternalServer
	}

	cards, err := s.cardRepo.FindByDeck(ctx, s.db, deckID)
	if err != nil {
		logger.Error("Error loading deck cards", "error", err)
		return nil, model.ErrInternalServer
	}

	filtered := srs.FilterForStudy(cards, mode, s.newRand())
	if mode == model.ModeReview && s.cfg.App.ReviewLimit > 0 && len(filtered) > s.cfg.App.ReviewLimit {
		filtered = filtered[:s.cfg.App.ReviewLimit]
	}

	queue := make([]uuid.UUID, 0, len(filtered))
	for _, c := range filtered {
		queue = append(queue, c.CardID)
	}

	sess := s.sessions.Start(deckID, mode, queue)
	logger.Info("Study session started", "session_id", sess.SessionID.String(), "mode", string(mode), "card_count", len(filtered))

	return &model.SessionResponse{
		SessionID: sess.SessionID,
		DeckID:    deckID,
		Mode:      mode,
		Cards:     filtered,
		Stats:     sess.Stats,
	}, nil
}

// GetSession は進行中セッションの統計と残り枚数を返します
func (s *studyService) GetSession(ctx context.Context, sessionID uuid.UUID) (*model.SessionResponse, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err // model.ErrNotFound
	}

	cards := make([]model.Card, 0, sess.Remaining())
	for _, cardID := range sess.Queue[sess.Position:] {
		card, err := s.cardRepo.FindByID(ctx, s.db, sess.DeckID, cardID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				// セッション開始後にデッキが消された場合など。残りから除くだけ
				continue
			}
			return nil, model.ErrInternalServer
		}
		cards = append(cards, *card)
	}

	return &model.SessionResponse{
		SessionID: sess.SessionID,
		DeckID:    sess.DeckID,
		Mode:      sess.Mode,
		Cards:     cards,
		Stats:     sess.Stats,
	}, nil
}

// SubmitReview は1枚分の自己評価を適用します。スケジューラ、デッキの
// last_studied、生涯統計 (セッション最初の評価ならストリークも) を
// 1トランザクションで更新し、コミット後にセッション側の数値を進めます
func (s *studyService) SubmitReview(ctx context.Context, sessionID uuid.UUID, req *model.SubmitReviewRequest) (*model.ReviewResponse, error) {
	logger := middleware.GetLogger(ctx).With("session_id", sessionID, "card_id", req.CardID)

	if req.Rating == nil || !req.Rating.Valid() {
		return nil, model.NewAppError("INVALID_RATING", "評価は 0 (Hard) / 1 (Good) / 2 (Easy) のいずれかです。", "rating", model.ErrInvalidRating)
	}
	rating := *req.Rating

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err // model.ErrNotFound
	}
	if !sess.Contains(req.CardID) {
		return nil, model.NewAppError("NOT_FOUND", "このセッションの対象外のカードです。", "card_id", model.ErrNotFound)
	}

	now := s.now()
	var (
		updatedCard  model.Card
		outcome      model.Outcome
		sessionStats model.SessionStats
	)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. カード取得とスケジューラ適用
		card, err := s.cardRepo.FindByID(ctx, tx, sess.DeckID, req.CardID)
		if err != nil {
			return err
		}
		scheduled, out, err := srs.Schedule(*card, rating, now)
		if err != nil {
			return err // model.ErrInvalidRating (事前検証済みだが念のため)
		}

		// 2. カード保存
		if err := s.cardRepo.Update(ctx, tx, &scheduled); err != nil {
			logger.Error("Error saving scheduled card in transaction", "error", err)
			return model.ErrInternalServer
		}

		// 3. デッキの last_studied
		if err := s.deckRepo.Update(ctx, tx, sess.DeckID, map[string]interface{}{"last_studied": now}); err != nil {
			logger.Error("Error updating deck last_studied in transaction", "error", err)
			if errors.Is(err, model.ErrNotFound) {
				return model.ErrNotFound
			}
			return model.ErrInternalServer
		}

		// 4. 統計の加算 (+ セッション最初の評価なら日次ストリーク)
		global, err := s.statsRepo.Get(ctx, tx)
		if err != nil {
			logger.Error("Error loading global stats in transaction", "error", err)
			return model.ErrInternalServer
		}
		newSession, newGlobal := srs.Apply(out, sess.Stats, *global)
		if !sess.StreakRecorded {
			newGlobal = srs.RecordStudyEvent(newGlobal, now)
		}
		if err := s.statsRepo.Save(ctx, tx, &newGlobal); err != nil {
			logger.Error("Error saving global stats in transaction", "error", err)
			return model.ErrInternalServer
		}

		updatedCard = scheduled
		outcome = out
		sessionStats = newSession
		return nil // コミット
	})

	if err != nil {
		if errors.Is(err, model.ErrNotFound) || errors.Is(err, model.ErrInvalidRating) {
			return nil, err
		}
		logger.Error("Transaction failed for SubmitReview", "error", err)
		return nil, model.ErrInternalServer
	}

	// コミット後にのみセッション側の状態を進める
	sess.Stats = sessionStats
	sess.Position++
	sess.StreakRecorded = true
	if err := s.sessions.Update(sess); err != nil {
		// TTL掃除と競合した場合。DB側は確定済みなので結果は返す
		logger.Warn("Session vanished while recording review", "error", err)
	}

	logger.Info("Review recorded", "rating", int(rating), "outcome", outcome.String(), "remaining", sess.Remaining())

	return &model.ReviewResponse{
		Card:      updatedCard,
		Outcome:   outcome.String(),
		Stats:     sessionStats,
		Remaining: sess.Remaining(),
	}, nil
}

// EndSession はセッションを破棄します。存在しなくてもエラーにしません
func (s *studyService) EndSession(ctx context.Context, sessionID uuid.UUID) {
	s.sessions.Delete(sessionID)
}
