package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/GoArmGo/Albumy/internal/auth"
	"github.com/GoArmGo/Albumy/internal/core/ports"
	"github.com/GoArmGo/Albumy/internal/domain"
)

// RequestLogger middleware для логирования HTTP-запросов.
func RequestLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Оборачиваем ResponseWriter, чтобы знать статус
			ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(ww, r)

			duration := time.Since(start)
			logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.statusCode,
				"duration_ms", duration.Milliseconds(),
			)
		})
	}
}

// responseWriter нужен, чтобы перехватывать код ответа
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

type ctxKey struct{}

// UserFromContext возвращает пользователя запроса или nil для анонимного
func UserFromContext(ctx context.Context) *domain.User {
	user, _ := ctx.Value(ctxKey{}).(*domain.User)
	return user
}

// WithUser кладет пользователя в контекст
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, user)
}

// Authenticator проверяет Bearer-токен и загружает пользователя
type Authenticator struct {
	verifier *auth.Verifier
	users    ports.UserStorage
	logger   *slog.Logger
}

func NewAuthenticator(verifier *auth.Verifier, users ports.UserStorage, logger *slog.Logger) *Authenticator {
	return &Authenticator{verifier: verifier, users: users, logger: logger}
}

var errNoToken = errors.New("no bearer token")

func (a *Authenticator) authenticate(r *http.Request) (*domain.User, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, errNoToken
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return nil, auth.ErrInvalidToken
	}

	userID, err := a.verifier.VerifyToken(token)
	if err != nil {
		return nil, err
	}
	return a.users.GetUserByID(r.Context(), userID)
}

// RequireUser пропускает только аутентифицированные запросы
func (a *Authenticator) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := a.authenticate(r)
		if err != nil {
			a.reject(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// OptionalUser загружает пользователя, если токен передан
func (a *Authenticator) OptionalUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := a.authenticate(r)
		switch {
		case errors.Is(err, errNoToken):
			next.ServeHTTP(w, r)
		case err != nil:
			a.reject(w, err)
		default:
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		}
	})
}

func (a *Authenticator) reject(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errNoToken), errors.Is(err, auth.ErrInvalidToken), errors.Is(err, domain.ErrNotFound):
		a.logger.Info("authentication failed", "reason", err)
		respondWithError(w, http.StatusUnauthorized, "Требуется авторизация", a.logger)
	default:
		a.logger.Error("failed to authenticate request", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Внутренняя ошибка сервера", a.logger)
	}
}

// UploadLimiter ограничивает число одновременных загрузок размером канала limiter
func UploadLimiter(limiter chan struct{}, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case limiter <- struct{}{}:
				defer func() { <-limiter }()
				next.ServeHTTP(w, r)
			case <-r.Context().Done():
				logger.Warn("upload slot wait cancelled", "error", r.Context().Err())
				respondWithError(w, http.StatusServiceUnavailable, "Сервер перегружен, попробуйте позже", logger)
			}
		})
	}
}
