package handler

import (
	"log/slog"
	"net/http"

	"github.com/GoArmGo/Albumy/internal/domain"
	"github.com/GoArmGo/Albumy/internal/usecase"
)

// NotificationHandler обработчик уведомлений текущего пользователя.
type NotificationHandler struct {
	notificationUseCase usecase.NotificationUseCase
	pageSize            PageSize
	logger              *slog.Logger
}

func NewNotificationHandler(uc usecase.NotificationUseCase, pageSize PageSize, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{notificationUseCase: uc, pageSize: pageSize, logger: logger}
}

// ListNotifications filter=unread оставляет только непрочитанные.
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	page, perPage, err := pagination(r, h.pageSize)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	filter := domain.NotificationFilterAll
	if r.URL.Query().Get("filter") == string(domain.NotificationFilterUnread) {
		filter = domain.NotificationFilterUnread
	}

	result, err := h.notificationUseCase.ListNotifications(r.Context(), UserFromContext(r.Context()), filter, page, perPage)
	if err != nil {
		respondWithUseCaseError(w, err, "ListNotifications", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, result, h.logger)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	notificationID, err := int64Param(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	if err := h.notificationUseCase.MarkRead(r.Context(), UserFromContext(r.Context()), notificationID); err != nil {
		respondWithUseCaseError(w, err, "MarkRead", h.logger)
		return
	}
	respondWithMessage(w, http.StatusOK, "Уведомление прочитано.", h.logger)
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	n, err := h.notificationUseCase.MarkAllRead(r.Context(), UserFromContext(r.Context()))
	if err != nil {
		respondWithUseCaseError(w, err, "MarkAllRead", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"message": "Все уведомления прочитаны.", "marked": n}, h.logger)
}
