// Package resetvalidate реализует HTTP-обработчик проверки пригодности токена
// сброса пароля. Клиент вызывает его перед показом формы нового пароля.
package resetvalidate

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/account-auth/internal/http/response"
)

// Service описывает интерфейс проверки токена сброса.
type Service interface {
	ValidatePasswordResetToken(ctx context.Context, token string) bool
}

type Handler struct {
	log         *slog.Logger
	authService Service
}

func New(log *slog.Logger, authService Service) *Handler {
	return &Handler{
		log:         log,
		authService: authService,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.resetvalidate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	token := r.URL.Query().Get("token")

	if !h.authService.ValidatePasswordResetToken(r.Context(), token) {
		log.Info("reset token invalid")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("Invalid or expired token"))
		return
	}

	log.Info("reset token valid")
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "Token is valid",
	}))
}
