// internal/handlers/deck_handler.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"go_flash_keep/internal/model"
	"go_flash_keep/internal/service"
	"go_flash_keep/internal/webutil"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// デッキ作成画面からダウンロードできる取り込みテンプレート
const deckTemplate = `Front | Back
What is Big O notation? | A way to describe how runtime grows with input size
What does LIFO stand for? | Last In First Out
`

type DeckHandler struct {
	service service.DeckService
	logger  *slog.Logger
}

func NewDeckHandler(s service.DeckService, logger *slog.Logger) *DeckHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DeckHandler{
		service: s,
		logger:  logger,
	}
}

// PostDeck は新しいデッキをカード一式ごと作成するためのハンドラ
func (h *DeckHandler) PostDeck(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostDeck"))

	var req model.PostDeckRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, appErr)
		return
	}

	if err := webutil.Validator.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			logger.Warn("Validation failed", slog.Any("errors", validationErrors.Error()))

			// 最初のエラーを代表としてクライアントに返す
			firstErr := validationErrors[0]
			translatedMsg := firstErr.Translate(webutil.Trans)
			appErr := model.NewAppError(
				"VALIDATION_ERROR",
				translatedMsg,
				firstErr.Field(),
				model.ErrInvalidInput,
			)
			webutil.HandleError(w, appErr)
		} else {
			logger.Error("Unexpected error during validation", slog.Any("error", err))
			webutil.HandleError(w, err)
		}
		return
	}

	deck, err := h.service.CreateDeck(r.Context(), &req)
	if err != nil {
		logger.Error("Error creating deck in service", slog.Any("error", err))
		webutil.HandleError(w, err)
		return
	}

	logger.Info("Deck created successfully", slog.String("deck_id", deck.DeckID.String()))
	webutil.RespondWithJSON(w, http.StatusCreated, deck)
}

// GetDecks はデッキ一覧 (カード枚数付き) を取得するためのハンドラ
func (h *DeckHandler) GetDecks(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetDecks"))

	decks, err := h.service.ListDecks(r.Context())
	if err != nil {
		logger.Error("Error listing decks in service", slog.Any("error", err))
		webutil.HandleError(w, err)
		return
	}

	if decks == nil {
		decks = []*model.DeckSummaryResponse{}
	}
	logger.Info("Decks listed successfully", slog.Int("count", len(decks)))
	webutil.RespondWithJSON(w, http.StatusOK, decks)
}

// GetDeck は特定のデッキをカード込みで取得するためのハンドラ
func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetDeck"))

	deckIDStr := chi.URLParam(r, "deck_id")
	deckID, err := uuid.Parse(deckIDStr)
	if err != nil {
		logger.Warn("Invalid deck ID format in URL", slog.String("deck_id_str", deckIDStr), slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_URL_PARAM", "deck_idの形式が正しくありません。", "deck_id", model.ErrInvalidInput)
		webutil.HandleError(w, appErr)
		return
	}
	logger = logger.With(slog.String("deck_id", deckID.String()))

	deck, err := h.service.GetDeck(r.Context(), deckID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Info("Deck not found in service", slog.Any("error", err))
		} else {
			logger.Error("Error getting deck from service", slog.Any("error", err))
		}
		webutil.HandleError(w, err)
		return
	}

	logger.Info("Deck retrieved successfully")
	webutil.RespondWithJSON(w, http.StatusOK, deck)
}

// DeleteDeck は特定のデッキを所属カードごと削除するためのハンドラ
func (h *DeckHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "DeleteDeck"))

	deckIDStr := chi.URLParam(r, "deck_id")
	deckID, err := uuid.Parse(deckIDStr)
	if err != nil {
		logger.Warn("Invalid deck ID format in URL", slog.String("deck_id_str", deckIDStr), slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_URL_PARAM", "deck_idの形式が正しくありません。", "deck_id", model.ErrInvalidInput)
		webutil.HandleError(w, appErr)
		return
	}
	logger = logger.With(slog.String("deck_id", deckID.String()))

	if err := h.service.DeleteDeck(r.Context(), deckID); err != nil {
		logger.Error("Error deleting deck in service", slog.Any("error", err))
		webutil.HandleError(w, err)
		return
	}

	logger.Info("Deck deleted successfully")
	w.WriteHeader(http.StatusNoContent)
}

// GetDeckTemplate は "Front | Back" 形式の取り込みテンプレートを返すためのハンドラ
func (h *DeckHandler) GetDeckTemplate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="deck_template.txt"`)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(deckTemplate))
}
