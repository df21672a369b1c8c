// internal/handlers/stats_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"go_flash_keep/internal/model"
	"go_flash_keep/internal/service"
	"go_flash_keep/internal/webutil"
)

type StatsHandler struct {
	service service.StatsService
	logger  *slog.Logger
}

func NewStatsHandler(s service.StatsService, logger *slog.Logger) *StatsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatsHandler{
		service: s,
		logger:  logger,
	}
}

// GetStats は生涯統計を取得するためのハンドラ
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetStats"))

	stats, err := h.service.GetGlobalStats(r.Context())
	if err != nil {
		logger.Error("Error getting global stats in service", slog.Any("error", err))
		webutil.HandleError(w, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, stats)
}

// GetExport は全データのスナップショットをJSONで返すためのハンドラ
func (h *StatsHandler) GetExport(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetExport"))

	snapshot, err := h.service.ExportSnapshot(r.Context())
	if err != nil {
		logger.Error("Error exporting snapshot in service", slog.Any("error", err))
		webutil.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="flash_keep_export.json"`)
	logger.Info("Snapshot exported successfully", slog.Int("deck_count", len(snapshot.Decks)))
	webutil.RespondWithJSON(w, http.StatusOK, snapshot)
}

// PostImport はスナップショットから全データを復元するためのハンドラ
func (h *StatsHandler) PostImport(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostImport"))

	var snapshot model.Snapshot
	if err := webutil.DecodeJSONBody(r, &snapshot); err != nil {
		logger.Warn("Failed to decode snapshot body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "スナップショットの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, appErr)
		return
	}

	if err := h.service.ImportSnapshot(r.Context(), &snapshot); err != nil {
		logger.Error("Error importing snapshot in service", slog.Any("error", err))
		webutil.HandleError(w, err)
		return
	}

	logger.Info("Snapshot imported successfully", slog.Int("deck_count", len(snapshot.Decks)))
	w.WriteHeader(http.StatusNoContent)
}
