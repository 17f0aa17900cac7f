package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// FileReader читает загруженные файлы из хранилища
type FileReader interface {
	GetFile(ctx context.Context, key string) (io.ReadCloser, string, error)
}

// ImageHandler отдает загруженные изображения по ключу объекта
type ImageHandler struct {
	files  FileReader
	logger *slog.Logger
}

func NewImageHandler(files FileReader, logger *slog.Logger) *ImageHandler {
	return &ImageHandler{files: files, logger: logger}
}

// GetImage отдает объект по ключу из GET /uploads/*
func (h *ImageHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if key == "" || strings.Contains(key, "..") {
		respondWithError(w, http.StatusBadRequest, "Некорректное имя файла", h.logger)
		return
	}

	body, contentType, err := h.files.GetFile(r.Context(), key)
	if err != nil {
		respondWithUseCaseError(w, err, "GetImage", h.logger)
		return
	}
	defer body.Close()

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		h.logger.Warn("failed to stream image", "key", key, "error", err)
	}
}
