// internal/service/deck_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"go_flash_keep/internal/model"
	"go_flash_keep/internal/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// --- テストヘルパー関数 ---
func setupTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic("failed to connect database for testing: " + err.Error())
	}
	return db
}

// --- Test CreateDeck ---
func Test_deckService_CreateDeck(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB() // トランザクション用DB (インメモリ)

	tests := []struct {
		name      string
		req       *model.PostDeckRequest
		setupMock func(deckRepo *mocks.DeckRepository, cardRepo *mocks.CardRepository)
		wantErr   error
		wantCards int
	}{
		{
			name: "正常系: ペア配列からデッキとカードを作成",
			req: &model.PostDeckRequest{
				Name: "CS Basics",
				Cards: []model.CardPair{
					{Front: "f1", Back: "b1"},
					{Front: "f2", Back: "b2"},
				},
			},
			setupMock: func(deckRepo *mocks.DeckRepository, cardRepo *mocks.CardRepository) {
				deckRepo.On("CheckNameExists", ctx, mock.AnythingOfType("*gorm.DB"), "CS Basics").
					Return(false, nil).Once()
				deckRepo.On("Create", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.Deck")).
					Run(func(args mock.Arguments) {
						deck := args.Get(2).(*model.Deck)
						assert.Equal(t, "CS Basics", deck.Name)
						assert.NotEqual(t, uuid.Nil, deck.DeckID)
					}).Return(nil).Once()
				cardRepo.On("CreateBatch", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("[]model.Card")).
					Run(func(args mock.Arguments) {
						cards := args.Get(2).([]model.Card)
						require.Len(t, cards, 2)
						// 初期スケジューリング状態で保存される
						assert.Equal(t, model.DefaultEasiness, cards[0].Easiness)
						assert.Equal(t, 1, cards[0].Interval)
						assert.Equal(t, 0, cards[0].Repetitions)
						assert.Equal(t, 0, cards[0].Mastery)
					}).Return(nil).Once()
			},
			wantErr:   nil,
			wantCards: 2,
		},
		{
			name: "正常系: パイプ区切りテキストからカードを作成",
			req: &model.PostDeckRequest{
				Name: "From Text",
				Text: "Front | Back\na | b\nc | d\n",
			},
			setupMock: func(deckRepo *mocks.DeckRepository, cardRepo *mocks.CardRepository) {
				deckRepo.On("CheckNameExists", ctx, mock.AnythingOfType("*gorm.DB"), "From Text").
					Return(false, nil).Once()
				deckRepo.On("Create", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.Deck")).
					Return(nil).Once()
				cardRepo.On("CreateBatch", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("[]model.Card")).
					Run(func(args mock.Arguments) {
						cards := args.Get(2).([]model.Card)
						require.Len(t, cards, 2) // ヘッダ行は数えない
						assert.Equal(t, "a", cards[0].Front)
						assert.Equal(t, "b", cards[0].Back)
					}).Return(nil).Once()
			},
			wantErr:   nil,
			wantCards: 2,
		},
		{
			name: "正常系: カード0枚のデッキも作れる",
			req:  &model.PostDeckRequest{Name: "Empty"},
			setupMock: func(deckRepo *mocks.DeckRepository, cardRepo *mocks.CardRepository) {
				deckRepo.On("CheckNameExists", ctx, mock.AnythingOfType("*gorm.DB"), "Empty").
					Return(false, nil).Once()
				deckRepo.On("Create", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.Deck")).
					Return(nil).Once()
				cardRepo.On("CreateBatch", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("[]model.Card")).
					Return(nil).Once()
			},
			wantErr:   nil,
			wantCards: 0,
		},
		{
			name: "異常系: 名前が空",
			req:  &model.PostDeckRequest{Name: "   "},
			setupMock: func(deckRepo *mocks.DeckRepository, cardRepo *mocks.CardRepository) {
				// リポジトリは呼ばれないはず
			},
			wantErr: model.ErrInvalidInput,
		},
		{
			name: "異常系: 名前が重複",
			req:  &model.PostDeckRequest{Name: "CS Basics"},
			setupMock: func(deckRepo *mocks.DeckRepository, cardRepo *mocks.CardRepository) {
				deckRepo.On("CheckNameExists", ctx, mock.AnythingOfType("*gorm.DB"), "CS Basics").
					Return(true, nil).Once()
			},
			wantErr: model.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDeckRepo := new(mocks.DeckRepository)
			mockCardRepo := new(mocks.CardRepository)
			tt.setupMock(mockDeckRepo, mockCardRepo)
			deckService := NewDeckService(db, mockDeckRepo, mockCardRepo)

			deck, err := deckService.CreateDeck(ctx, tt.req)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, deck)
			} else {
				require.NoError(t, err)
				require.NotNil(t, deck)
				assert.Len(t, deck.Cards, tt.wantCards)
			}
			mockDeckRepo.AssertExpectations(t)
			mockCardRepo.AssertExpectations(t)
		})
	}
}

// --- Test ListDecks ---
func Test_deckService_ListDecks(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB()
	mockDeckRepo := new(mocks.DeckRepository)
	mockCardRepo := new(mocks.CardRepository)
	deckService := NewDeckService(db, mockDeckRepo, mockCardRepo)

	lastStudied := time.Date(2024, 5, 1, 10, 0, 0, 0, time.Local)
	deckID := uuid.New()
	mockDeckRepo.On("FindAllWithCards", ctx, mock.AnythingOfType("*gorm.DB")).
		Return([]*model.Deck{
			{
				DeckID:      deckID,
				Name:        "CS Basics",
				LastStudied: &lastStudied,
				Cards:       []model.Card{{CardID: uuid.New()}, {CardID: uuid.New()}},
			},
		}, nil).Once()

	summaries, err := deckService.ListDecks(ctx)

	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, deckID, summaries[0].DeckID)
	assert.Equal(t, "CS Basics", summaries[0].Name)
	assert.Equal(t, 2, summaries[0].CardCount)
	assert.Equal(t, &lastStudied, summaries[0].LastStudied)
	mockDeckRepo.AssertExpectations(t)
}

// --- Test DeleteDeck ---
func Test_deckService_DeleteDeck(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB()
	deckID := uuid.New()

	tests := []struct {
		name      string
		setupMock func(deckRepo *mocks.DeckRepository, cardRepo *mocks.CardRepository)
		wantErr   error
	}{
		{
			name: "正常系: カード → デッキの順に削除",
			setupMock: func(deckRepo *mocks.DeckRepository, cardRepo *mocks.CardRepository) {
				deckRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), deckID).
					Return(&model.Deck{DeckID: deckID, Name: "CS Basics"}, nil).Once()
				cardRepo.On("DeleteByDeck", ctx, mock.AnythingOfType("*gorm.DB"), deckID).
					Return(nil).Once()
				deckRepo.On("Delete", ctx, mock.AnythingOfType("*gorm.DB"), deckID).
					Return(nil).Once()
			},
			wantErr: nil,
		},
		{
			name: "異常系: 存在しないデッキ",
			setupMock: func(deckRepo *mocks.DeckRepository, cardRepo *mocks.CardRepository) {
				deckRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), deckID).
					Return(nil, model.ErrNotFound).Once()
			},
			wantErr: model.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDeckRepo := new(mocks.DeckRepository)
			mockCardRepo := new(mocks.CardRepository)
			tt.setupMock(mockDeckRepo, mockCardRepo)
			deckService := NewDeckService(db, mockDeckRepo, mockCardRepo)

			err := deckService.DeleteDeck(ctx, deckID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			mockDeckRepo.AssertExpectations(t)
			mockCardRepo.AssertExpectations(t)
		})
	}
}
