package handler

import (
	"log/slog"
	"net/http"

	"github.com/GoArmGo/Albumy/internal/usecase"
)

// CollectHandler обработчик коллекций.
type CollectHandler struct {
	collectUseCase usecase.CollectUseCase
	pageSize       PageSize
	logger         *slog.Logger
}

func NewCollectHandler(uc usecase.CollectUseCase, pageSize PageSize, logger *slog.Logger) *CollectHandler {
	return &CollectHandler{collectUseCase: uc, pageSize: pageSize, logger: logger}
}

func (h *CollectHandler) Collect(w http.ResponseWriter, r *http.Request) {
	photoID, err := int64Param(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	if err := h.collectUseCase.Collect(r.Context(), UserFromContext(r.Context()), photoID); err != nil {
		respondWithUseCaseError(w, err, "Collect", h.logger)
		return
	}
	respondWithMessage(w, http.StatusOK, "Фото добавлено в коллекцию.", h.logger)
}

func (h *CollectHandler) Uncollect(w http.ResponseWriter, r *http.Request) {
	photoID, err := int64Param(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	if err := h.collectUseCase.Uncollect(r.Context(), UserFromContext(r.Context()), photoID); err != nil {
		respondWithUseCaseError(w, err, "Uncollect", h.logger)
		return
	}
	respondWithMessage(w, http.StatusOK, "Фото убрано из коллекции.", h.logger)
}

// ListCollectors пользователи, добавившие фото в коллекцию.
func (h *CollectHandler) ListCollectors(w http.ResponseWriter, r *http.Request) {
	photoID, err := int64Param(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}
	page, perPage, err := pagination(r, h.pageSize)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	collectors, err := h.collectUseCase.ListCollectors(r.Context(), photoID, page, perPage)
	if err != nil {
		respondWithUseCaseError(w, err, "ListCollectors", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, collectors, h.logger)
}
