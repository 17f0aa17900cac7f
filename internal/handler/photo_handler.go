package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/GoArmGo/Albumy/internal/domain"
	"github.com/GoArmGo/Albumy/internal/usecase"
	"github.com/go-chi/chi/v5"
)

// maxUploadSize предельный размер multipart-запроса с изображением
const maxUploadSize = 10 << 20

// PhotoHandler обработчик HTTP-запросов для работы с фотографиями.
type PhotoHandler struct {
	photoUseCase usecase.PhotoUseCase
	pageSize     PageSize
	logger       *slog.Logger
}

// NewPhotoHandler создаёт новый экземпляр PhotoHandler.
func NewPhotoHandler(uc usecase.PhotoUseCase, pageSize PageSize, logger *slog.Logger) *PhotoHandler {
	return &PhotoHandler{
		photoUseCase: uc,
		pageSize:     pageSize,
		logger:       logger,
	}
}

// UploadPhoto принимает multipart-поле file и необязательное description.
func (h *PhotoHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		h.logger.Warn("invalid multipart form", "error", err)
		respondWithError(w, http.StatusBadRequest, "Некорректная форма загрузки", h.logger)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.logger.Warn("missing required parameter", "param", "file", "error", err)
		respondWithError(w, http.StatusBadRequest, "Не передан файл", h.logger)
		return
	}
	defer file.Close()

	user := UserFromContext(r.Context())
	h.logger.Info("processing request",
		"endpoint", "UploadPhoto",
		"filename", header.Filename,
		"size", header.Size,
	)

	photo, err := h.photoUseCase.UploadPhoto(r.Context(), user, usecase.UploadInput{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
		Description: r.FormValue("description"),
	})
	if err != nil {
		respondWithUseCaseError(w, err, "UploadPhoto", h.logger)
		return
	}

	h.logger.Info("photo uploaded successfully", "photo_id", photo.ID)
	respondWithJSON(w, http.StatusCreated, photo, h.logger)
}

// GetPhoto получает фото с тегами и числом коллекционеров.
func (h *PhotoHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	photoID, err := int64Param(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	details, err := h.photoUseCase.GetPhotoDetails(r.Context(), photoID, UserFromContext(r.Context()))
	if err != nil {
		respondWithUseCaseError(w, err, "GetPhoto", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, details, h.logger)
}

// NextPhoto следующее фото того же автора.
func (h *PhotoHandler) NextPhoto(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, "NextPhoto", h.photoUseCase.NextPhoto)
}

// PreviousPhoto предыдущее фото того же автора.
func (h *PhotoHandler) PreviousPhoto(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, "PreviousPhoto", h.photoUseCase.PreviousPhoto)
}

func (h *PhotoHandler) navigate(
	w http.ResponseWriter,
	r *http.Request,
	op string,
	move func(ctx context.Context, photoID int64) (*domain.NavigationResult, error),
) {
	photoID, err := int64Param(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	result, err := move(r.Context(), photoID)
	if err != nil {
		respondWithUseCaseError(w, err, op, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, result, h.logger)
}

// DeletePhoto удаляет фото автора.
func (h *PhotoHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	photoID, err := int64Param(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	result, err := h.photoUseCase.DeletePhoto(r.Context(), UserFromContext(r.Context()), photoID)
	if err != nil {
		respondWithUseCaseError(w, err, "DeletePhoto", h.logger)
		return
	}

	h.logger.Info("photo deleted", "photo_id", photoID)
	respondWithJSON(w, http.StatusOK, result, h.logger)
}

// ReportPhoto жалоба на фото.
func (h *PhotoHandler) ReportPhoto(w http.ResponseWriter, r *http.Request) {
	photoID, err := int64Param(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	flag, err := h.photoUseCase.ReportPhoto(r.Context(), UserFromContext(r.Context()), photoID)
	if err != nil {
		respondWithUseCaseError(w, err, "ReportPhoto", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"message": "Жалоба отправлена.", "flag": flag}, h.logger)
}

type descriptionRequest struct {
	Description string `json:"description"`
}

// EditDescription меняет описание фото.
func (h *PhotoHandler) EditDescription(w http.ResponseWriter, r *http.Request) {
	photoID, err := int64Param(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	var req descriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Некорректное тело запроса", h.logger)
		return
	}

	if err := h.photoUseCase.EditDescription(r.Context(), UserFromContext(r.Context()), photoID, req.Description); err != nil {
		respondWithUseCaseError(w, err, "EditDescription", h.logger)
		return
	}
	respondWithMessage(w, http.StatusOK, "Описание обновлено.", h.logger)
}

// GetFeed лента фото авторов, на которых подписан пользователь.
func (h *PhotoHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	page, perPage, err := pagination(r, h.pageSize)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	feed, err := h.photoUseCase.GetFeed(r.Context(), UserFromContext(r.Context()), page, perPage)
	if err != nil {
		respondWithUseCaseError(w, err, "GetFeed", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, feed, h.logger)
}

// Explore случайная подборка фото.
func (h *PhotoHandler) Explore(w http.ResponseWriter, r *http.Request) {
	photos, err := h.photoUseCase.Explore(r.Context())
	if err != nil {
		respondWithUseCaseError(w, err, "Explore", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"items": photos}, h.logger)
}

// ListTagPhotos фото тега, order=by_time|by_collects.
func (h *PhotoHandler) ListTagPhotos(w http.ResponseWriter, r *http.Request) {
	tagID, err := int64Param(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}
	page, perPage, err := pagination(r, h.pageSize)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}
	order := domain.ParseTagOrder(r.URL.Query().Get("order"))

	tag, photos, err := h.photoUseCase.ListTagPhotos(r.Context(), tagID, order, page, perPage)
	if err != nil {
		respondWithUseCaseError(w, err, "ListTagPhotos", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"tag":    tag,
		"order":  order,
		"photos": photos,
	}, h.logger)
}

// ListUserPhotos фото пользователя для профиля.
func (h *PhotoHandler) ListUserPhotos(w http.ResponseWriter, r *http.Request) {
	page, perPage, err := pagination(r, h.pageSize)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	photos, err := h.photoUseCase.ListAuthorPhotos(r.Context(), chi.URLParam(r, "username"), page, perPage)
	if err != nil {
		respondWithUseCaseError(w, err, "ListUserPhotos", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, photos, h.logger)
}
