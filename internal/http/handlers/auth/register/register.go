package register

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

// Request — входные данные для регистрации
type Request struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Register(ctx context.Context, username, password, email string) (*services.Result, error)
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
	const op = "handlers.auth.register"

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
	log.Info("request body decoded", slog.String("username", req.Username))

	result, err := h.authService.Register(r.Context(), req.Username, req.Password, req.Email)
	if err != nil {
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			log.Info("registration rejected", slog.String("reason", ve.Reason))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(ve.Reason))
			return
		}
		log.Error("registration failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to register user"))
		return
	}

	log.Info("user registered", slog.String("username", result.Username))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user_id":  result.UserID,
		"username": result.Username,
		"message":  result.Message,
	}))
}
