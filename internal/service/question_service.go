package service

import (
	"context"
	"time"

	"github.com/synaptrix4/skillatics-io/internal/apperr"
	"github.com/synaptrix4/skillatics-io/internal/models"
)

type QuestionService struct {
	questions QuestionStore
}

func NewQuestionService(questions QuestionStore) *QuestionService {
	return &QuestionService{questions: questions}
}

// CreateQuestion validates and stores a hand-written question.
func (s *QuestionService) CreateQuestion(ctx context.Context, q *models.Question) (*models.Question, error) {
	q.ID = ""
	q.Topic = models.NormalizeTopic(q.Topic)
	if err := q.Validate(); err != nil {
		return nil, apperr.Validation("%v", err)
	}
	if q.Source == "" {
		q.Source = "manual"
	}
	q.CreatedAt = time.Now().UTC()
	if _, err := s.questions.Insert(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) GetQuestion(ctx context.Context, id string) (*models.Question, error) {
	return s.questions.FindByID(ctx, id)
}
