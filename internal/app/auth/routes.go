package auth

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/account-auth/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/account-auth/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/account-auth/internal/http/handlers/auth/resendverification"
	"github.com/magabrotheeeer/account-auth/internal/http/handlers/auth/resetconfirm"
	"github.com/magabrotheeeer/account-auth/internal/http/handlers/auth/resetpassword"
	"github.com/magabrotheeeer/account-auth/internal/http/handlers/auth/resetvalidate"
	"github.com/magabrotheeeer/account-auth/internal/http/handlers/auth/verifyemail"
	authservices "github.com/magabrotheeeer/account-auth/internal/services/auth"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, authService *authservices.AuthService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Get("/verify-email", verifyemail.New(logger, authService).ServeHTTP)
		r.Post("/resend-verification", resendverification.New(logger, authService).ServeHTTP)
		r.Post("/reset-password", resetpassword.New(logger, authService).ServeHTTP)
		r.Post("/reset-password/confirm", resetconfirm.New(logger, authService).ServeHTTP)
		r.Get("/validate-reset-token", resetvalidate.New(logger, authService).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
