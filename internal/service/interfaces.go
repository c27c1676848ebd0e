package service

import (
	"context"

	"github.com/synaptrix4/skillatics-io/internal/gamification"
	"github.com/synaptrix4/skillatics-io/internal/models"
	"github.com/synaptrix4/skillatics-io/internal/selection"
)

type QuestionStore interface {
	FindByID(ctx context.Context, id string) (*models.Question, error)
	// FindOne returns nil, nil when nothing matches.
	FindOne(ctx context.Context, topic string, difficulty int, excludeIDs []string) (*models.Question, error)
	Insert(ctx context.Context, q *models.Question) (string, error)
}

// SessionStore persists in-flight sessions. Get and Delete treat another
// user's session as missing; Update fails with a conflict unless the stored
// session is still at expectedVersion.
type SessionStore interface {
	Create(ctx context.Context, s *models.TestSession) error
	Get(ctx context.Context, id, userID string) (*models.TestSession, error)
	Update(ctx context.Context, s *models.TestSession, expectedVersion int64) error
	Delete(ctx context.Context, id, userID string) error
}

type ResultStore interface {
	Insert(ctx context.Context, r *models.TestResult) (string, error)
	FindByUser(ctx context.Context, userID string) ([]models.TestResult, error)
	FindByID(ctx context.Context, id, userID string) (*models.TestResult, error)
}

type PoolBuilder interface {
	BuildPool(ctx context.Context, userID, topic string) (*selection.PoolResult, error)
}

type AwardEngine interface {
	Award(ctx context.Context, userID string, xp int) (*gamification.Award, error)
}

type Publisher interface {
	Publish(eventType string, payload interface{}) error
}
