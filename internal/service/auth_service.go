package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/authgate/internal/config"
	"github.com/spec-kit/authgate/internal/domain"
	"github.com/spec-kit/authgate/internal/events"
	"github.com/spec-kit/authgate/internal/observability"
	"github.com/spec-kit/authgate/internal/repository"
	"github.com/spec-kit/authgate/internal/validation"
)

const (
	operationRegister = "register"
	operationLogin    = "login"
	outcomeSuccess    = "success"
)

// AuthService coordinates registration and login flows.
// Every call returns a domain.AuthResult; failures never surface as errors or panics.
type AuthService struct {
	store      *CredentialStore
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
	now        func() time.Time
}

// AuthDependencies encapsulates collaborators of the auth service.
type AuthDependencies struct {
	Store      *CredentialStore
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Metrics    *observability.Metrics
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		store:      deps.Store,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		metrics:    deps.Metrics,
		now:        time.Now,
	}
}

// Register validates the email shape, then password strength, then stores the user.
func (s *AuthService) Register(ctx context.Context, email, password string) (result domain.AuthResult) {
	defer func() { s.record(ctx, operationRegister, email, result) }()
	defer s.recoverServerError(operationRegister, &result)

	if !validation.IsValidEmail(email) {
		return domain.Failure(domain.ReasonInvalidEmailFormat)
	}
	if !validation.IsStrongPassword(password) {
		return domain.Failure(domain.ReasonWeakPassword)
	}
	if !validation.FitsPasswordHash(password) {
		res := domain.Failure(domain.ReasonWeakPassword)
		res.Message = domain.MessagePasswordTooLong
		return res
	}

	user, err := s.store.Register(ctx, email, password)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return domain.Failure(domain.ReasonDuplicateUser)
		}
		s.logger.Error("register failed", zap.String("email", email), zap.Error(err))
		return domain.Failure(domain.ReasonServerError)
	}
	return domain.Success(user)
}

// Login checks both fields are present, then verifies the credentials. Unknown
// email and wrong password yield the same InvalidCredentials failure.
func (s *AuthService) Login(ctx context.Context, email, password string) (result domain.AuthResult) {
	defer func() { s.record(ctx, operationLogin, email, result) }()
	defer s.recoverServerError(operationLogin, &result)

	if missing := validation.MissingCredentials(email, password); len(missing) > 0 {
		res := domain.Failure(domain.ReasonMissingField)
		res.Fields = missing
		return res
	}

	user, err := s.store.FindByCredentials(ctx, email, password)
	if err != nil {
		s.logger.Error("login failed", zap.String("email", email), zap.Error(err))
		return domain.Failure(domain.ReasonServerError)
	}
	if user == nil {
		return domain.Failure(domain.ReasonInvalidCredentials)
	}
	return domain.Success(*user)
}

// Bootstrap registers seed accounts. Accounts that already exist are skipped.
func (s *AuthService) Bootstrap(ctx context.Context, seeds []config.SeedUser) error {
	for _, seed := range seeds {
		result := s.Register(ctx, seed.Email, seed.Password)
		switch {
		case result.OK():
			s.logger.Info("seed user created", zap.String("email", result.User.Email))
		case result.Reason == domain.ReasonDuplicateUser:
			s.logger.Debug("seed user exists", zap.String("email", seed.Email))
		default:
			return fmt.Errorf("seed user %s: %s", seed.Email, result.Message)
		}
	}
	return nil
}

func (s *AuthService) record(ctx context.Context, operation, email string, result domain.AuthResult) {
	outcome := outcomeSuccess
	if !result.OK() {
		outcome = string(result.Reason)
	}
	s.metrics.RecordAuth(operation, outcome)

	if s.dispatcher == nil {
		return
	}
	var event events.Event
	switch {
	case operation == operationRegister && result.OK():
		event = events.NewEvent(events.EventUserRegistered, result.User.Email, result.User.ID, s.now(), nil)
	case operation == operationRegister:
		event = events.NewEvent(events.EventRegistrationRejected, email, "", s.now(), events.RejectionPayload{Reason: outcome})
	case result.OK():
		event = events.NewEvent(events.EventLoginSucceeded, result.User.Email, result.User.ID, s.now(), nil)
	default:
		event = events.NewEvent(events.EventLoginFailed, email, "", s.now(), events.RejectionPayload{Reason: outcome})
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func (s *AuthService) recoverServerError(operation string, result *domain.AuthResult) {
	if r := recover(); r != nil {
		s.logger.Error("panic during auth operation",
			zap.String("operation", operation),
			zap.Any("panic", r),
			zap.Stack("stack"),
		)
		*result = domain.Failure(domain.ReasonServerError)
	}
}
