package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/GoArmGo/Albumy/internal/domain"
	"github.com/go-chi/chi/v5"
)

// respondWithJSON отправляет JSON-ответ клиенту.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		logger.Error("failed to marshal JSON response", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(response); err != nil {
		logger.Error("failed to write HTTP response", "error", err)
	}
}

// respondWithError отправляет JSON-ответ с ошибкой.
func respondWithError(w http.ResponseWriter, code int, message string, logger *slog.Logger) {
	respondWithJSON(w, code, map[string]string{"error": message}, logger)
}

// respondWithMessage отправляет JSON-ответ с сообщением для пользователя.
func respondWithMessage(w http.ResponseWriter, code int, message string, logger *slog.Logger) {
	respondWithJSON(w, code, map[string]string{"message": message}, logger)
}

// errorStatus сопоставляет доменную ошибку HTTP-статусу
func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrTagNotAttached):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrAlreadyCollected),
		errors.Is(err, domain.ErrNotCollected),
		errors.Is(err, domain.ErrAlreadyFollowing),
		errors.Is(err, domain.ErrNotFollowing):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondWithUseCaseError пишет ответ по ошибке бизнес-логики.
// Внутренние ошибки логируются, клиенту уходит общий текст
func respondWithUseCaseError(w http.ResponseWriter, err error, op string, logger *slog.Logger) {
	code := errorStatus(err)
	if code == http.StatusInternalServerError {
		logger.Error("request failed", "op", op, "error", err)
		respondWithError(w, code, "Внутренняя ошибка сервера", logger)
		return
	}
	logger.Info("request rejected", "op", op, "status", code, "reason", err)
	respondWithError(w, code, err.Error(), logger)
}

// int64Param достает числовой параметр пути
func int64Param(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("некорректный параметр %s: %q", name, raw)
	}
	return id, nil
}

// PageSize размер страницы по умолчанию и наибольший per_page, который можно запросить
type PageSize struct {
	Default int
	Max     int
}

// pagination читает page и per_page. Отсутствующие значения заменяются значениями
// по умолчанию, проверку положительности выполняет бизнес-логика
func pagination(r *http.Request, size PageSize) (page, perPage int, err error) {
	page, perPage = 1, size.Default

	if raw := r.URL.Query().Get("page"); raw != "" {
		if page, err = strconv.Atoi(raw); err != nil {
			return 0, 0, fmt.Errorf("некорректный page: %q", raw)
		}
	}
	if raw := r.URL.Query().Get("per_page"); raw != "" {
		if perPage, err = strconv.Atoi(raw); err != nil {
			return 0, 0, fmt.Errorf("некорректный per_page: %q", raw)
		}
		if perPage > size.Max {
			return 0, 0, fmt.Errorf("per_page не может быть больше %d", size.Max)
		}
	}
	return page, perPage, nil
}

// Health отвечает на проверку живости
func Health(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"}, logger)
	}
}
