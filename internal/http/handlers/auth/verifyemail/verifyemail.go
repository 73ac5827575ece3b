// Package verifyemail реализует HTTP-обработчик подтверждения почты по токену
// из ссылки в письме.
package verifyemail

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/account-auth/internal/http/response"
	"github.com/magabrotheeeer/account-auth/internal/lib/sl"
	services "github.com/magabrotheeeer/account-auth/internal/services/auth"
)

// Service описывает интерфейс бизнес-логики подтверждения почты.
type Service interface {
	VerifyEmail(ctx context.Context, token string) (*services.Result, error)
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
	const op = "handlers.auth.verifyemail"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	token := r.URL.Query().Get("token")

	result, err := h.authService.VerifyEmail(r.Context(), token)
	if err != nil {
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			log.Info("verification rejected", slog.String("reason", ve.Reason))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(ve.Reason))
			return
		}
		log.Error("verification failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to verify email"))
		return
	}

	log.Info("email verified", slog.String("username", result.Username))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user_id":  result.UserID,
		"username": result.Username,
		"message":  result.Message,
	}))
}
