package service

import (
	"context"

	"github.com/synaptrix4/skillatics-io/internal/apperr"
	"github.com/synaptrix4/skillatics-io/internal/models"
)

type ResultService struct {
	results ResultStore
}

func NewResultService(results ResultStore) *ResultService {
	return &ResultService{results: results}
}

// ListResults returns the user's results, newest first.
func (s *ResultService) ListResults(ctx context.Context, userID string) ([]models.TestResult, error) {
	if userID == "" {
		return nil, apperr.Validation("user id is required")
	}
	results, err := s.results.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []models.TestResult{}
	}
	return results, nil
}

func (s *ResultService) GetResult(ctx context.Context, id, userID string) (*models.TestResult, error) {
	return s.results.FindByID(ctx, id, userID)
}
