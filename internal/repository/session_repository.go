package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/synaptrix4/skillatics-io/internal/apperr"
	"github.com/synaptrix4/skillatics-io/internal/models"
)

// SessionRepository stores in-flight sessions. Every write after Create is
// conditioned on the version the caller read.
type SessionRepository struct {
	Col *mongo.Collection
}

func NewSessionRepository(db *mongo.Database) *SessionRepository {
	return &SessionRepository{Col: db.Collection("test_sessions")}
}

func (r *SessionRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.Col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}},
	})
	return err
}

func (r *SessionRepository) Create(ctx context.Context, session *models.TestSession) error {
	if _, err := r.Col.InsertOne(ctx, session); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Conflict("session %s already exists", session.ID)
		}
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// Get returns the user's session. Sessions owned by someone else and
// sessions already claimed for conclusion read as missing.
func (r *SessionRepository) Get(ctx context.Context, id, userID string) (*models.TestSession, error) {
	var session models.TestSession
	filter := bson.M{"_id": id, "user_id": userID, "concluding": bson.M{"$ne": true}}
	err := r.Col.FindOne(ctx, filter).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("session %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Update replaces the stored session if it is still at expectedVersion and
// bumps the version. On success session.Version holds the new version.
func (r *SessionRepository) Update(ctx context.Context, session *models.TestSession, expectedVersion int64) error {
	filter := bson.M{"_id": session.ID, "user_id": session.UserID, "version": expectedVersion}

	next := *session
	next.Version = expectedVersion + 1
	res, err := r.Col.ReplaceOne(ctx, filter, &next)
	if err != nil {
		return fmt.Errorf("replace session: %w", err)
	}
	if res.MatchedCount == 0 {
		n, err := r.Col.CountDocuments(ctx, bson.M{"_id": session.ID, "user_id": session.UserID})
		if err != nil {
			return fmt.Errorf("check session: %w", err)
		}
		if n == 0 {
			return apperr.NotFound("session %s", session.ID)
		}
		return apperr.Conflict("session %s changed since version %d", session.ID, expectedVersion)
	}
	session.Version = next.Version
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, id, userID string) error {
	res, err := r.Col.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("session %s", id)
	}
	return nil
}
