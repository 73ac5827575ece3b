// Package services реализует отправку писем со ссылками подтверждения почты
// и сброса пароля через SMTP-транспорт.
package services

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/account-auth/internal/config"
	"github.com/magabrotheeeer/account-auth/internal/lib/sl"
	"github.com/magabrotheeeer/account-auth/internal/lib/smtp"
)

// SenderService формирует и отправляет служебные письма.
// Реализует интерфейс Notifier сервиса аутентификации.
type SenderService struct {
	transport smtp.TransportInterface
	baseURL   string
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(cfg *config.Config, log *slog.Logger, transport smtp.TransportInterface) *SenderService {
	return &SenderService{
		transport: transport,
		baseURL:   cfg.BaseURL,
		log:       log,
	}
}

// SendVerificationLink отправляет письмо со ссылкой подтверждения почты.
func (s *SenderService) SendVerificationLink(toEmail, username, token string) error {
	verificationURL := s.baseURL + "/api/auth/verify-email?token=" + token

	subject := "Verify Your Email Address"
	bodyText := fmt.Sprintf("Welcome, %s!\n\n"+
		"Thank you for registering. Please verify your email address to activate your account:\n\n"+
		"%s\n\n"+
		"If you didn't create an account, please ignore this email.",
		username, verificationURL)

	if err := s.sendEmail([]string{toEmail}, subject, bodyText); err != nil {
		return err
	}
	s.log.Info("verification email sent", slog.String("to", toEmail))
	return nil
}

// SendPasswordResetLink отправляет письмо со ссылкой сброса пароля.
func (s *SenderService) SendPasswordResetLink(toEmail, username, token string) error {
	resetURL := s.baseURL + "/api/auth/reset-password?token=" + token

	subject := "Password Reset Request"
	bodyText := fmt.Sprintf("Hello, %s!\n\n"+
		"We received a request to reset your password. Follow the link below to create a new password:\n\n"+
		"%s\n\n"+
		"This link will expire in 24 hours.\n\n"+
		"If you didn't request a password reset, please ignore this email and your password will remain unchanged.",
		username, resetURL)

	if err := s.sendEmail([]string{toEmail}, subject, bodyText); err != nil {
		return err
	}
	s.log.Info("password reset email sent", slog.String("to", toEmail))
	return nil
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), "error", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", "recipient", addr, "error", sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", "error", sl.Err(err))
		return err
	}

	_, err = wc.Write([]byte(msg))
	if err != nil {
		s.log.Error("failed to write email body", "error", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", "error", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", "error", sl.Err(err))
		return err
	}

	return nil
}
