// internal/handlers/study_handler.go
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

type StudyHandler struct {
	service service.StudyService
	logger  *slog.Logger
}

func NewStudyHandler(s service.StudyService, logger *slog.Logger) *StudyHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StudyHandler{
		service: s,
		logger:  logger,
	}
}

// PostSession は学習セッションを開始するためのハンドラ
func (h *StudyHandler) PostSession(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostSession"))

	deckIDStr := chi.URLParam(r, "deck_id")
	deckID, err := uuid.Parse(deckIDStr)
	if err != nil {
		logger.Warn("Invalid deck ID format in URL", slog.String("deck_id_str", deckIDStr), slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_URL_PARAM", "deck_idの形式が正しくありません。", "deck_id", model.ErrInvalidInput)
		webutil.HandleError(w, appErr)
		return
	}
	logger = logger.With(slog.String("deck_id", deckID.String()))

	var req model.StartSessionRequest
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
			firstErr := validationErrors[0]
			appErr := model.NewAppError(
				"VALIDATION_ERROR",
				firstErr.Translate(webutil.Trans),
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

	resp, err := h.service.StartSession(r.Context(), deckID, req.Mode)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Info("Deck not found in service", slog.Any("error", err))
		} else {
			logger.Error("Error starting session in service", slog.Any("error", err))
		}
		webutil.HandleError(w, err)
		return
	}

	logger.Info("Session started successfully", slog.String("session_id", resp.SessionID.String()), slog.Int("card_count", len(resp.Cards)))
	webutil.RespondWithJSON(w, http.StatusCreated, resp)
}

// GetSession は進行中セッションの統計と残りカードを取得するためのハンドラ
func (h *StudyHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetSession"))

	sessionID, ok := h.parseSessionID(w, r, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("session_id", sessionID.String()))

	resp, err := h.service.GetSession(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Info("Session not found", slog.Any("error", err))
		} else {
			logger.Error("Error getting session from service", slog.Any("error", err))
		}
		webutil.HandleError(w, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, resp)
}

// PostReview は1枚分の自己評価を登録するためのハンドラ
func (h *StudyHandler) PostReview(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostReview"))

	sessionID, ok := h.parseSessionID(w, r, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("session_id", sessionID.String()))

	var req model.SubmitReviewRequest
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
			firstErr := validationErrors[0]
			appErr := model.NewAppError(
				"VALIDATION_ERROR",
				firstErr.Translate(webutil.Trans),
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

	resp, err := h.service.SubmitReview(r.Context(), sessionID, &req)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) || errors.Is(err, model.ErrInvalidRating) {
			logger.Info("Review rejected", slog.Any("error", err))
		} else {
			logger.Error("Error submitting review in service", slog.Any("error", err))
		}
		webutil.HandleError(w, err)
		return
	}

	logger.Info("Review recorded successfully", slog.String("outcome", resp.Outcome), slog.Int("remaining", resp.Remaining))
	webutil.RespondWithJSON(w, http.StatusOK, resp)
}

// DeleteSession はセッションを明示的に終了するためのハンドラ
func (h *StudyHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "DeleteSession"))

	sessionID, ok := h.parseSessionID(w, r, logger)
	if !ok {
		return
	}

	h.service.EndSession(r.Context(), sessionID)
	logger.Info("Session ended", slog.String("session_id", sessionID.String()))
	w.WriteHeader(http.StatusNoContent)
}

func (h *StudyHandler) parseSessionID(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (uuid.UUID, bool) {
	sessionIDStr := chi.URLParam(r, "session_id")
	sessionID, err := uuid.Parse(sessionIDStr)
	if err != nil {
		logger.Warn("Invalid session ID format in URL", slog.String("session_id_str", sessionIDStr), slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_URL_PARAM", "session_idの形式が正しくありません。", "session_id", model.ErrInvalidInput)
		webutil.HandleError(w, appErr)
		return uuid.Nil, false
	}
	return sessionID, true
}
