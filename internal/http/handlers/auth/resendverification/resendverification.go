// Package resendverification реализует HTTP-обработчик повторной отправки
// письма подтверждения почты.
package resendverification

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

// Service описывает интерфейс бизнес-логики повторной отправки письма.
type Service interface {
	ResendVerificationEmail(ctx context.Context, usernameOrEmail string) error
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
	const op = "handlers.auth.resendverification"

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

	if err := h.authService.ResendVerificationEmail(r.Context(), req.Username); err != nil {
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			log.Info("resend rejected", slog.String("reason", ve.Reason))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(ve.Reason))
			return
		}
		log.Error("resend failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to resend verification email"))
		return
	}

	log.Info("verification email resent", slog.String("username", req.Username))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "Verification email resent successfully",
	}))
}
