package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/synaptrix4/skillatics-io/internal/apperr"
	"github.com/synaptrix4/skillatics-io/internal/gamification"
	"github.com/synaptrix4/skillatics-io/internal/models"
)

type ResultRepository struct {
	Col         *mongo.Collection
	Submissions *mongo.Collection
}

func NewResultRepository(db *mongo.Database) *ResultRepository {
	return &ResultRepository{
		Col:         db.Collection("test_results"),
		Submissions: db.Collection("code_submissions"),
	}
}

func (r *ResultRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.Col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "completed_at", Value: -1}}},
		{Keys: bson.D{{Key: "session_id", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	return err
}

func (r *ResultRepository) Insert(ctx context.Context, result *models.TestResult) (string, error) {
	if result.ID == "" {
		result.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.Col.InsertOne(ctx, result); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperr.Conflict("result for session %s already stored", result.SessionID)
		}
		return "", fmt.Errorf("insert result: %w", err)
	}
	return result.ID, nil
}

func (r *ResultRepository) SeenQuestionIDs(ctx context.Context, userID string) ([]string, error) {
	values, err := r.Col.Distinct(ctx, "history.question_id", bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(values))
	for _, v := range values {
		if id, ok := v.(string); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *ResultRepository) FindByUser(ctx context.Context, userID string) ([]models.TestResult, error) {
	opts := options.Find().SetSort(bson.D{{Key: "completed_at", Value: -1}})
	cur, err := r.Col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var results []models.TestResult
	for cur.Next(ctx) {
		var res models.TestResult
		if err := cur.Decode(&res); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, cur.Err()
}

func (r *ResultRepository) FindByID(ctx context.Context, id, userID string) (*models.TestResult, error) {
	var result models.TestResult
	err := r.Col.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&result)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("result %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// UserActivity aggregates the achievement inputs from stored results.
func (r *ResultRepository) UserActivity(ctx context.Context, userID string, since time.Time) (*gamification.Activity, error) {
	activity := &gamification.Activity{TopicHighScores: make(map[string]int)}
	byUser := bson.M{"user_id": userID}

	total, err := r.Col.CountDocuments(ctx, byUser)
	if err != nil {
		return nil, fmt.Errorf("count results: %w", err)
	}
	activity.TestsCompleted = int(total)

	perfect, err := r.Col.CountDocuments(ctx, bson.M{"user_id": userID, "score": 100})
	if err != nil {
		return nil, fmt.Errorf("count perfect results: %w", err)
	}
	activity.PerfectScores = int(perfect)

	if r.Submissions != nil {
		solved, err := r.Submissions.CountDocuments(ctx, bson.M{"student_id": userID, "all_passed": true})
		if err != nil {
			return nil, fmt.Errorf("count code submissions: %w", err)
		}
		activity.CodingSolved = int(solved)
	}

	days, err := r.Col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID, "completed_at": bson.M{"$gte": since}}}},
		{{Key: "$group", Value: bson.M{"_id": bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$completed_at"}}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("aggregate active days: %w", err)
	}
	var dayDocs []bson.M
	if err := days.All(ctx, &dayDocs); err != nil {
		return nil, err
	}
	activity.ActiveDays = len(dayDocs)

	early, err := r.Col.CountDocuments(ctx, bson.M{"user_id": userID, "$expr": bson.M{"$lt": bson.A{bson.M{"$hour": "$completed_at"}, gamification.EarlyHourCutoff}}})
	if err != nil {
		return nil, fmt.Errorf("count early results: %w", err)
	}
	activity.HasEarlyTest = early > 0

	late, err := r.Col.CountDocuments(ctx, bson.M{"user_id": userID, "$expr": bson.M{"$gte": bson.A{bson.M{"$hour": "$completed_at"}, gamification.LateHourCutoff}}})
	if err != nil {
		return nil, fmt.Errorf("count late results: %w", err)
	}
	activity.HasLateTest = late > 0

	var fastest models.TestResult
	err = r.Col.FindOne(ctx,
		bson.M{"user_id": userID, "elapsed_seconds": bson.M{"$gt": 0}},
		options.FindOne().SetSort(bson.D{{Key: "elapsed_seconds", Value: 1}}),
	).Decode(&fastest)
	switch {
	case err == nil:
		activity.FastestTestSeconds = fastest.ElapsedSeconds
	case !errors.Is(err, mongo.ErrNoDocuments):
		return nil, fmt.Errorf("find fastest result: %w", err)
	}

	topics, err := r.Col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"user_id": userID,
			"topic":   bson.M{"$nin": bson.A{"", nil}},
			"score":   bson.M{"$gte": gamification.HighScoreThreshold},
		}}},
		{{Key: "$group", Value: bson.M{"_id": "$topic", "high_scores": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("aggregate topic scores: %w", err)
	}
	var topicDocs []struct {
		Topic      string `bson:"_id"`
		HighScores int    `bson:"high_scores"`
	}
	if err := topics.All(ctx, &topicDocs); err != nil {
		return nil, err
	}
	for _, d := range topicDocs {
		activity.TopicHighScores[d.Topic] = d.HighScores
	}

	return activity, nil
}
