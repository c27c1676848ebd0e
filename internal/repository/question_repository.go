package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/synaptrix4/skillatics-io/internal/apperr"
	"github.com/synaptrix4/skillatics-io/internal/models"
)

type QuestionRepository struct {
	Col *mongo.Collection
}

func NewQuestionRepository(db *mongo.Database) *QuestionRepository {
	return &QuestionRepository{Col: db.Collection("questions")}
}

func (r *QuestionRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.Col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "topic", Value: 1}, {Key: "difficulty", Value: 1}},
	})
	return err
}

func questionFilter(topic string, difficulty int, excludeIDs []string) bson.M {
	filter := bson.M{"difficulty": difficulty}
	if topic != "" {
		filter["topic"] = topic
	}
	if len(excludeIDs) > 0 {
		filter["_id"] = bson.M{"$nin": excludeIDs}
	}
	return filter
}

// Sample draws up to limit random questions matching topic and difficulty.
func (r *QuestionRepository) Sample(ctx context.Context, topic string, difficulty int, excludeIDs []string, limit int) ([]models.Question, error) {
	if limit <= 0 {
		return nil, nil
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: questionFilter(topic, difficulty, excludeIDs)}},
		{{Key: "$sample", Value: bson.M{"size": limit}}},
	}
	cur, err := r.Col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var questions []models.Question
	if err := cur.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// FindOne returns any question matching the filter, or nil when none does.
func (r *QuestionRepository) FindOne(ctx context.Context, topic string, difficulty int, excludeIDs []string) (*models.Question, error) {
	var question models.Question
	err := r.Col.FindOne(ctx, questionFilter(topic, difficulty, excludeIDs)).Decode(&question)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *QuestionRepository) FindByID(ctx context.Context, id string) (*models.Question, error) {
	var question models.Question
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&question)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("question %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *QuestionRepository) Insert(ctx context.Context, question *models.Question) (string, error) {
	if question.ID == "" {
		question.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.Col.InsertOne(ctx, question); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperr.Conflict("question %s already exists", question.ID)
		}
		return "", fmt.Errorf("insert question: %w", err)
	}
	return question.ID, nil
}
