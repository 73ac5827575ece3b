package services

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/account-auth/internal/config"
	"github.com/magabrotheeeer/account-auth/internal/lib/smtp"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Connect() (smtp.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(smtp.Client), args.Error(1)
}

func (m *MockTransport) GetSMTPUser() string {
	args := m.Called()
	return args.String(0)
}

type MockSMTPClient struct {
	mock.Mock
}

func (m *MockSMTPClient) Mail(from string) error {
	args := m.Called(from)
	return args.Error(0)
}

func (m *MockSMTPClient) Rcpt(to string) error {
	args := m.Called(to)
	return args.Error(0)
}

func (m *MockSMTPClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

func (m *MockSMTPClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockSMTPClient) Quit() error {
	args := m.Called()
	return args.Error(0)
}

type MockSMTPWriter struct {
	mock.Mock
	written []byte
}

func (m *MockSMTPWriter) Write(p []byte) (n int, err error) {
	args := m.Called(p)
	m.written = append(m.written, p...)
	return args.Int(0), args.Error(1)
}

func (m *MockSMTPWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newTestSender(transport smtp.TransportInterface) *SenderService {
	cfg := &config.Config{BaseURL: "http://localhost:8080"}
	return NewSenderService(cfg, newNoopLogger(), transport)
}

func setupHappySMTP(transport *MockTransport) *MockSMTPWriter {
	mockClient := new(MockSMTPClient)
	mockWriter := new(MockSMTPWriter)

	transport.On("GetSMTPUser").Return("sender@example.com")
	transport.On("Connect").Return(mockClient, nil).Once()
	mockClient.On("Mail", "sender@example.com").Return(nil).Once()
	mockClient.On("Rcpt", "test@example.com").Return(nil).Once()
	mockClient.On("Data").Return(mockWriter, nil).Once()
	mockWriter.On("Write", mock.AnythingOfType("[]uint8")).Return(100, nil).Once()
	mockWriter.On("Close").Return(nil).Once()
	mockClient.On("Quit").Return(nil).Once()
	mockClient.On("Close").Return(nil).Once()
	return mockWriter
}

func TestSenderService_SendVerificationLink(t *testing.T) {
	mockTransport := new(MockTransport)
	mockWriter := setupHappySMTP(mockTransport)
	sender := newTestSender(mockTransport)

	err := sender.SendVerificationLink("test@example.com", "testuser", "tok-123")

	assert.NoError(t, err)
	body := string(mockWriter.written)
	assert.Contains(t, body, "Subject: Verify Your Email Address")
	assert.Contains(t, body, "Welcome, testuser!")
	assert.Contains(t, body, "http://localhost:8080/api/auth/verify-email?token=tok-123")
	mockTransport.AssertExpectations(t)
}

func TestSenderService_SendPasswordResetLink(t *testing.T) {
	mockTransport := new(MockTransport)
	mockWriter := setupHappySMTP(mockTransport)
	sender := newTestSender(mockTransport)

	err := sender.SendPasswordResetLink("test@example.com", "testuser", "reset-tok")

	assert.NoError(t, err)
	body := string(mockWriter.written)
	assert.Contains(t, body, "Subject: Password Reset Request")
	assert.Contains(t, body, "Hello, testuser!")
	assert.Contains(t, body, "http://localhost:8080/api/auth/reset-password?token=reset-tok")
	assert.Contains(t, body, "This link will expire in 24 hours.")
	mockTransport.AssertExpectations(t)
}

func TestSenderService_ConnectError(t *testing.T) {
	mockTransport := new(MockTransport)
	mockTransport.On("GetSMTPUser").Return("sender@example.com")
	mockTransport.On("Connect").Return(nil, errors.New("connection refused")).Once()
	sender := newTestSender(mockTransport)

	err := sender.SendVerificationLink("test@example.com", "testuser", "tok-123")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	mockTransport.AssertExpectations(t)
}

func TestSenderService_RcptError(t *testing.T) {
	mockTransport := new(MockTransport)
	mockClient := new(MockSMTPClient)

	mockTransport.On("GetSMTPUser").Return("sender@example.com")
	mockTransport.On("Connect").Return(mockClient, nil).Once()
	mockClient.On("Mail", "sender@example.com").Return(nil).Once()
	mockClient.On("Rcpt", "test@example.com").Return(errors.New("recipient rejected")).Once()
	mockClient.On("Close").Return(nil).Once()
	sender := newTestSender(mockTransport)

	err := sender.SendPasswordResetLink("test@example.com", "testuser", "reset-tok")

	assert.Error(t, err)
	mockTransport.AssertExpectations(t)
	mockClient.AssertExpectations(t)
}
