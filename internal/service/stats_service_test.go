// internal/service/stats_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"go_flash_keep/internal/config"
	"go_flash_keep/internal/model"
	"go_flash_keep/internal/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func setupTestDBStats(t *testing.T) *gorm.DB {
	t.Helper()
	db := setupTestDB()
	// ImportSnapshot は生のDELETEを発行するのでテーブルが必要
	if err := db.AutoMigrate(&model.Deck{}, &model.Card{}, &model.GlobalStats{}); err != nil {
		t.Fatalf("failed to migrate database for testing: %v", err)
	}
	return db
}

func newStatsServiceForTest(t *testing.T, db *gorm.DB, now time.Time) (*statsService, *studyServiceMocks) {
	t.Helper()
	m := &studyServiceMocks{
		deckRepo:  new(mocks.DeckRepository),
		cardRepo:  new(mocks.CardRepository),
		statsRepo: new(mocks.StatsRepository),
	}
	cfg := &config.Config{}
	cfg.App.DailyGoal = 20

	svc := NewStatsService(db, m.deckRepo, m.cardRepo, m.statsRepo, cfg).(*statsService)
	svc.now = func() time.Time { return now }
	return svc, m
}

// --- Test GetGlobalStats ---
func Test_statsService_GetGlobalStats(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.Local)
	db := setupTestDB()

	t.Run("正常系: 当日学習済みなら studied_today が立つ", func(t *testing.T) {
		svc, m := newStatsServiceForTest(t, db, now)
		m.statsRepo.On("Get", ctx, mock.AnythingOfType("*gorm.DB")).
			Return(&model.GlobalStats{
				ID:            model.GlobalStatsID,
				TotalStudied:  10,
				TotalCorrect:  7,
				CurrentStreak: 3,
				StudyDays:     datatypes.JSONSlice[string]{"2024-04-30", "2024-05-01"},
			}, nil).Once()

		resp, err := svc.GetGlobalStats(ctx)

		require.NoError(t, err)
		assert.Equal(t, 10, resp.TotalStudied)
		assert.Equal(t, 20, resp.DailyGoal)
		assert.True(t, resp.StudiedToday)
	})

	t.Run("正常系: 未学習の日は studied_today が落ちる", func(t *testing.T) {
		svc, m := newStatsServiceForTest(t, db, now)
		m.statsRepo.On("Get", ctx, mock.AnythingOfType("*gorm.DB")).
			Return(&model.GlobalStats{ID: model.GlobalStatsID}, nil).Once()

		resp, err := svc.GetGlobalStats(ctx)

		require.NoError(t, err)
		assert.False(t, resp.StudiedToday)
	})
}

// --- Test ExportSnapshot ---
func Test_statsService_ExportSnapshot(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.Local)
	db := setupTestDB()
	svc, m := newStatsServiceForTest(t, db, now)

	deckID := uuid.New()
	m.deckRepo.On("FindAllWithCards", ctx, mock.AnythingOfType("*gorm.DB")).
		Return([]*model.Deck{
			{DeckID: deckID, Name: "CS Basics", Cards: deckCards(deckID, 10, 20)},
		}, nil).Once()
	m.statsRepo.On("Get", ctx, mock.AnythingOfType("*gorm.DB")).
		Return(&model.GlobalStats{ID: model.GlobalStatsID, TotalStudied: 5}, nil).Once()

	snapshot, err := svc.ExportSnapshot(ctx)

	require.NoError(t, err)
	require.Len(t, snapshot.Decks, 1)
	assert.Len(t, snapshot.Decks[0].Cards, 2)
	assert.Equal(t, 5, snapshot.Stats.TotalStudied)
	assert.Equal(t, now, snapshot.ExportedAt)
}

// --- Test ImportSnapshot ---
func Test_statsService_ImportSnapshot(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.Local)

	t.Run("正常系: 範囲外の数値は補正して取り込む", func(t *testing.T) {
		db := setupTestDBStats(t)
		svc, m := newStatsServiceForTest(t, db, now)

		deckID := uuid.New()
		snapshot := &model.Snapshot{
			Decks: []model.Deck{
				{
					DeckID: deckID,
					Name:   "Restored",
					Cards: []model.Card{
						{CardID: uuid.New(), Front: "f", Back: "b", Easiness: 0.5, Interval: 0, Repetitions: -2, Mastery: 150},
					},
				},
			},
			Stats: model.GlobalStats{TotalStudied: 9, TotalCorrect: -1, CurrentStreak: 4, BestStreak: 2},
		}

		m.deckRepo.On("Create", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.Deck")).
			Return(nil).Once()
		m.cardRepo.On("CreateBatch", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("[]model.Card")).
			Run(func(args mock.Arguments) {
				cards := args.Get(2).([]model.Card)
				require.Len(t, cards, 1)
				assert.Equal(t, model.MinEasiness, cards[0].Easiness)
				assert.Equal(t, 1, cards[0].Interval)
				assert.Equal(t, 0, cards[0].Repetitions)
				assert.Equal(t, model.MaxMastery, cards[0].Mastery)
				assert.Equal(t, deckID, cards[0].DeckID)
			}).Return(nil).Once()
		m.statsRepo.On("Save", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.GlobalStats")).
			Run(func(args mock.Arguments) {
				stats := args.Get(2).(*model.GlobalStats)
				assert.Equal(t, 0, stats.TotalCorrect)
				// bestStreak >= currentStreak に引き上げられる
				assert.Equal(t, 4, stats.BestStreak)
			}).Return(nil).Once()

		err := svc.ImportSnapshot(ctx, snapshot)

		require.NoError(t, err)
		m.deckRepo.AssertExpectations(t)
		m.cardRepo.AssertExpectations(t)
		m.statsRepo.AssertExpectations(t)
	})

	t.Run("異常系: 裏面のないカードは全体を拒否する", func(t *testing.T) {
		db := setupTestDBStats(t)
		svc, m := newStatsServiceForTest(t, db, now)

		snapshot := &model.Snapshot{
			Decks: []model.Deck{
				{
					DeckID: uuid.New(),
					Name:   "Broken",
					Cards:  []model.Card{{CardID: uuid.New(), Front: "f", Back: ""}},
				},
			},
		}

		err := svc.ImportSnapshot(ctx, snapshot)

		assert.ErrorIs(t, err, model.ErrCorruptState)
		// 検証で弾かれるのでDBには一切触らない
		m.deckRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("異常系: 名前のないデッキは全体を拒否する", func(t *testing.T) {
		db := setupTestDBStats(t)
		svc, _ := newStatsServiceForTest(t, db, now)

		snapshot := &model.Snapshot{
			Decks: []model.Deck{{DeckID: uuid.New(), Name: ""}},
		}

		err := svc.ImportSnapshot(ctx, snapshot)

		assert.ErrorIs(t, err, model.ErrCorruptState)
	})
}
