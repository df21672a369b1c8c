// internal/handlers/stats_handler_test.go
package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go_flash_keep/internal/handlers"
	"go_flash_keep/internal/model"
	"go_flash_keep/internal/service/mocks"
)

func newStatsRouter(svc *mocks.MockStatsService) *chi.Mux {
	handler := handlers.NewStatsHandler(svc, nil)
	router := chi.NewRouter()
	router.Get("/api/v1/stats", handler.GetStats)
	router.Get("/api/v1/export", handler.GetExport)
	router.Post("/api/v1/import", handler.PostImport)
	return router
}

func TestStatsHandler_GetStats(t *testing.T) {
	mockService := mocks.NewMockStatsService(t)
	mockService.On("GetGlobalStats", mock.Anything).
		Return(&model.StatsResponse{
			GlobalStats: model.GlobalStats{
				ID:            model.GlobalStatsID,
				TotalStudied:  42,
				TotalCorrect:  30,
				CurrentStreak: 3,
				BestStreak:    7,
			},
			DailyGoal:    20,
			StudiedToday: true,
		}, nil).Once()
	router := newStatsRouter(mockService)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, createRequest(t, "GET", "/api/v1/stats", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp model.StatsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 42, resp.TotalStudied)
	assert.Equal(t, 20, resp.DailyGoal)
	assert.True(t, resp.StudiedToday)
}

func TestStatsHandler_GetExport(t *testing.T) {
	deckID := uuid.New()
	mockService := mocks.NewMockStatsService(t)
	mockService.On("ExportSnapshot", mock.Anything).
		Return(&model.Snapshot{
			Decks: []model.Deck{
				{DeckID: deckID, Name: "CS Basics", Cards: []model.Card{{CardID: uuid.New(), DeckID: deckID, Front: "f", Back: "b"}}},
			},
			Stats:      model.GlobalStats{ID: model.GlobalStatsID, TotalStudied: 5},
			ExportedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		}, nil).Once()
	router := newStatsRouter(mockService)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, createRequest(t, "GET", "/api/v1/export", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "flash_keep_export.json")
	var snapshot model.Snapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snapshot))
	require.Len(t, snapshot.Decks, 1)
	assert.Equal(t, 5, snapshot.Stats.TotalStudied)
}

func TestStatsHandler_PostImport(t *testing.T) {
	validSnapshot := model.Snapshot{
		Decks: []model.Deck{
			{DeckID: uuid.New(), Name: "Restored", Cards: []model.Card{}},
		},
		Stats: model.GlobalStats{TotalStudied: 3},
	}

	t.Run("正常系: インポートは204", func(t *testing.T) {
		mockService := mocks.NewMockStatsService(t)
		mockService.On("ImportSnapshot", mock.Anything, mock.AnythingOfType("*model.Snapshot")).
			Return(nil).Once()
		router := newStatsRouter(mockService)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, createRequest(t, "POST", "/api/v1/import", validSnapshot))

		assert.Equal(t, http.StatusNoContent, rr.Code)
	})

	t.Run("異常系: 壊れたスナップショットは422", func(t *testing.T) {
		mockService := mocks.NewMockStatsService(t)
		mockService.On("ImportSnapshot", mock.Anything, mock.AnythingOfType("*model.Snapshot")).
			Return(model.NewAppError("CORRUPT_STATE", "スナップショットの内容が不正です。", "", model.ErrCorruptState)).Once()
		router := newStatsRouter(mockService)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, createRequest(t, "POST", "/api/v1/import", validSnapshot))

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		errResp := decodeErrorResponse(t, rr)
		assert.Equal(t, "CORRUPT_STATE", errResp.Error.Code)
	})

	t.Run("異常系: JSONでないボディは400", func(t *testing.T) {
		mockService := mocks.NewMockStatsService(t)
		router := newStatsRouter(mockService)

		req := httptest.NewRequest("POST", "/api/v1/import", strings.NewReader("not json at all"))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		errResp := decodeErrorResponse(t, rr)
		assert.Equal(t, "INVALID_REQUEST_BODY", errResp.Error.Code)
	})
}
