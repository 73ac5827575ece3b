// Package resetconfirm реализует HTTP-обработчик установки нового пароля
// по действующему токену сброса.
package resetconfirm

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

// Request — токен сброса и новый пароль.
type Request struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// Service описывает интерфейс бизнес-логики подтверждения сброса пароля.
type Service interface {
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) (*services.Result, error)
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

// ServeHTTP godoc
// @Summary Подтверждение сброса пароля
// @Description Устанавливает новый пароль по одноразовому токену сброса.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Токен сброса и новый пароль"
// @Success 200 {object} map[string]any "Пароль обновлен"
// @Failure 400 {object} response.ErrorResponse "Недействительный или истекший токен"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth/reset-password/confirm [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.resetconfirm"

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

	result, err := h.authService.ConfirmPasswordReset(r.Context(), req.Token, req.NewPassword)
	if err != nil {
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			log.Info("reset confirmation rejected", slog.String("reason", ve.Reason))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(ve.Reason))
			return
		}
		log.Error("reset confirmation failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to reset password"))
		return
	}

	log.Info("password reset confirmed", slog.String("username", result.Username))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user_id":  result.UserID,
		"username": result.Username,
		"message":  result.Message,
	}))
}
