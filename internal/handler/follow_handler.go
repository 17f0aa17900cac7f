package handler

import (
	"log/slog"
	"net/http"

	"github.com/GoArmGo/Albumy/internal/usecase"
)

// FollowHandler подписки на пользователей.
type FollowHandler struct {
	followUseCase usecase.FollowUseCase
	logger        *slog.Logger
}

func NewFollowHandler(uc usecase.FollowUseCase, logger *slog.Logger) *FollowHandler {
	return &FollowHandler{followUseCase: uc, logger: logger}
}

func (h *FollowHandler) Follow(w http.ResponseWriter, r *http.Request) {
	targetID, err := int64Param(r, "userID")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	if err := h.followUseCase.Follow(r.Context(), UserFromContext(r.Context()), targetID); err != nil {
		respondWithUseCaseError(w, err, "Follow", h.logger)
		return
	}
	respondWithMessage(w, http.StatusOK, "Вы подписались.", h.logger)
}

func (h *FollowHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	targetID, err := int64Param(r, "userID")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	if err := h.followUseCase.Unfollow(r.Context(), UserFromContext(r.Context()), targetID); err != nil {
		respondWithUseCaseError(w, err, "Unfollow", h.logger)
		return
	}
	respondWithMessage(w, http.StatusOK, "Вы отписались.", h.logger)
}
