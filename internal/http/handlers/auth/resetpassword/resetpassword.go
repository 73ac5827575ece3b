// Package resetpassword реализует HTTP-обработчик запроса сброса пароля.
// Обработчик возвращает 404 при неизвестном пользователе, сохраняя
// наблюдаемую асимметрию с обезличенным ответом входа.
package resetpassword

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/account-auth/internal/http/response"
	"github.com/magabrotheeeer/account-auth/internal/lib/sl"
	services "github.com/magabrotheeeer/account-auth/internal/services/auth"
)

// Request — входные данные: имя пользователя или почта.
type Request struct {
	Username string `json:"username"`
}

// Service описывает интерфейс бизнес-логики запроса сброса пароля.
type Service interface {
	InitiatePasswordReset(ctx context.Context, usernameOrEmail string) error
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
	const op = "handlers.auth.resetpassword"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.authService.InitiatePasswordReset(r.Context(), req.Username); err != nil {
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			log.Info("reset request rejected", slog.String("reason", ve.Reason))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(ve.Reason))
			return
		}
		log.Error("reset request failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to initiate password reset"))
		return
	}

	log.Info("password reset initiated", slog.String("username", req.Username))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "Password reset link sent to your email",
	}))
}
