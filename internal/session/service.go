package session

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"courtdesk/internal/config"
	"courtdesk/internal/domain"
	"courtdesk/internal/metrics"
	"courtdesk/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Service is the session/role guard. The facility runs on fixed credential
// pairs from config; a real identity provider would slot in behind Login.
type Service struct {
	users  map[string]config.UserConfig // keyed by lowercase email
	repo   domain.SessionRepository
	clock  domain.Clock
	logger *zerolog.Logger
}

func NewService(users []config.UserConfig, repo domain.SessionRepository, clock domain.Clock, logger *zerolog.Logger) *Service {
	byEmail := make(map[string]config.UserConfig, len(users))
	for _, u := range users {
		byEmail[strings.ToLower(u.Email)] = u
	}
	return &Service{
		users:  byEmail,
		repo:   repo,
		clock:  clock,
		logger: logger,
	}
}

// Login checks the credential pair and opens a session. Attempts are rate
// limited per email so the fixed passwords cannot be brute-forced quietly.
func (s *Service) Login(ctx context.Context, email, password string) (models.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	allowed, err := s.repo.CheckRateLimit(ctx, "login:"+email, models.LoginRateLimit, models.LoginRateWindow*time.Second)
	if err != nil {
		s.logger.Error().Err(err).Msg("login rate limit check failed")
	} else if !allowed {
		metrics.IncLogin("rate_limited")
		return models.Session{}, ErrTooManyAttempts
	}

	user, ok := s.users[email]
	if !ok || subtle.ConstantTimeCompare([]byte(user.Password), []byte(password)) != 1 {
		metrics.IncLogin("failure")
		return models.Session{}, ErrInvalidCredential
	}

	session := models.Session{
		Token: uuid.NewString(),
		User: models.User{
			Name:  user.Name,
			Email: user.Email,
			Role:  user.Role,
		},
		CreatedAt: s.clock.Now(),
	}

	if err := s.repo.SetSession(ctx, &session); err != nil {
		return models.Session{}, err
	}

	metrics.IncLogin("success")
	s.logger.Info().Str("email", user.Email).Str("role", user.Role).Msg("user logged in")
	return session, nil
}

// Authenticate resolves a token to its live session.
func (s *Service) Authenticate(ctx context.Context, token string) (models.Session, error) {
	if token == "" {
		return models.Session{}, ErrNoSession
	}

	session, err := s.repo.GetSession(ctx, token)
	if err != nil {
		return models.Session{}, err
	}
	if session == nil {
		return models.Session{}, ErrNoSession
	}
	return *session, nil
}

// Logout destroys the session. Unknown tokens are already logged out.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.repo.ClearSession(ctx, token)
}
