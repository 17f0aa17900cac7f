package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handlers набор обработчиков, из которых собирается роутер
type Handlers struct {
	Photos        *PhotoHandler
	Tags          *TagHandler
	Collects      *CollectHandler
	Notifications *NotificationHandler
	Follows       *FollowHandler
	Images        *ImageHandler
	Auth          *Authenticator
	UploadLimiter chan struct{}
}

// NewRouter регистрирует все маршруты HTTP API
func NewRouter(h Handlers, requestTimeout time.Duration, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/health", Health(logger))

	// публичные маршруты
	r.Get("/explore", h.Photos.Explore)
	r.Get("/uploads/*", h.Images.GetImage)
	r.Get("/photos/{id}/next", h.Photos.NextPhoto)
	r.Get("/photos/{id}/previous", h.Photos.PreviousPhoto)
	r.Get("/photos/{id}/collectors", h.Collects.ListCollectors)
	r.Get("/tags/{id}/photos", h.Photos.ListTagPhotos)
	r.Get("/users/{username}/photos", h.Photos.ListUserPhotos)

	r.With(h.Auth.OptionalUser).Get("/photos/{id}", h.Photos.GetPhoto)

	r.Group(func(r chi.Router) {
		r.Use(h.Auth.RequireUser)

		r.Get("/feed", h.Photos.GetFeed)

		r.With(UploadLimiter(h.UploadLimiter, logger)).Post("/photos", h.Photos.UploadPhoto)
		r.Delete("/photos/{id}", h.Photos.DeletePhoto)
		r.Post("/photos/{id}/report", h.Photos.ReportPhoto)
		r.Put("/photos/{id}/description", h.Photos.EditDescription)

		r.Post("/photos/{id}/tags", h.Tags.AddTags)
		r.Delete("/photos/{id}/tags/{tagID}", h.Tags.RemoveTag)

		r.Post("/photos/{id}/collect", h.Collects.Collect)
		r.Delete("/photos/{id}/collect", h.Collects.Uncollect)

		r.Get("/notifications", h.Notifications.ListNotifications)
		r.Post("/notifications/read-all", h.Notifications.MarkAllRead)
		r.Post("/notifications/{id}/read", h.Notifications.MarkRead)

		r.Post("/users/{userID}/follow", h.Follows.Follow)
		r.Delete("/users/{userID}/follow", h.Follows.Unfollow)
	})

	return r
}
