package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/GoArmGo/Albumy/internal/usecase"
)

// TagHandler обработчик тегов фото.
type TagHandler struct {
	tagUseCase usecase.TagUseCase
	logger     *slog.Logger
}

func NewTagHandler(uc usecase.TagUseCase, logger *slog.Logger) *TagHandler {
	return &TagHandler{tagUseCase: uc, logger: logger}
}

type addTagsRequest struct {
	// теги через пробел
	Tags string `json:"tags"`
}

// AddTags привязывает теги к фото.
func (h *TagHandler) AddTags(w http.ResponseWriter, r *http.Request) {
	photoID, err := int64Param(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	var req addTagsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Некорректное тело запроса", h.logger)
		return
	}

	tags, err := h.tagUseCase.AddTags(r.Context(), UserFromContext(r.Context()), photoID, req.Tags)
	if err != nil {
		respondWithUseCaseError(w, err, "AddTags", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"message": "Теги добавлены.", "tags": tags}, h.logger)
}

// RemoveTag отвязывает тег от фото.
func (h *TagHandler) RemoveTag(w http.ResponseWriter, r *http.Request) {
	photoID, err := int64Param(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}
	tagID, err := int64Param(r, "tagID")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	removed, err := h.tagUseCase.RemoveTag(r.Context(), UserFromContext(r.Context()), photoID, tagID)
	if err != nil {
		respondWithUseCaseError(w, err, "RemoveTag", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"message": "Тег удален.", "tag_removed": removed}, h.logger)
}
