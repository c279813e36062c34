package domain

import (
	"context"
	"time"

	"courtdesk/internal/models"
)

// Clock abstracts wall-clock time so views and audit stamps can be tested
// against a fixed instant.
type Clock interface {
	Now() time.Time
}

// SessionRepository stores live sessions keyed by token and tracks login
// attempt rates per email.
type SessionRepository interface {
	GetSession(ctx context.Context, token string) (*models.Session, error)
	SetSession(ctx context.Context, session *models.Session) error
	ClearSession(ctx context.Context, token string) error
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}
