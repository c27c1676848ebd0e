package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synaptrix4/skillatics-io/internal/apperr"
	"github.com/synaptrix4/skillatics-io/internal/models"
	"github.com/synaptrix4/skillatics-io/internal/repository"
)

func TestResultService(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryResultStore(
		models.TestResult{ID: "r1", UserID: "u1", Score: 50, CompletedAt: time.Unix(100, 0)},
		models.TestResult{ID: "r2", UserID: "u1", Score: 70, CompletedAt: time.Unix(200, 0)},
		models.TestResult{ID: "r3", UserID: "u2", Score: 90, CompletedAt: time.Unix(300, 0)},
	)
	svc := NewResultService(store)

	results, err := svc.ListResults(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "r2", results[0].ID)

	empty, err := svc.ListResults(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = svc.ListResults(ctx, "")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	r, err := svc.GetResult(ctx, "r3", "u2")
	require.NoError(t, err)
	assert.Equal(t, 90.0, r.Score)

	_, err = svc.GetResult(ctx, "r3", "u1")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestQuestionService(t *testing.T) {
	ctx := context.Background()
	svc := NewQuestionService(repository.NewMemoryQuestionRepository())

	q, err := svc.CreateQuestion(ctx, &models.Question{
		ID:         "ignored",
		Topic:      " Technical ",
		Difficulty: 3,
		Prompt:     "What does TCP stand for?",
		Options:    []string{"Transmission Control Protocol", "Text Copy Protocol"},
		Answer:     "Transmission Control Protocol",
	})
	require.NoError(t, err)
	assert.NotEqual(t, "ignored", q.ID)
	assert.Equal(t, "Technical Aptitude", q.Topic)
	assert.Equal(t, "manual", q.Source)

	got, err := svc.GetQuestion(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, q.Prompt, got.Prompt)

	_, err = svc.CreateQuestion(ctx, &models.Question{Prompt: "x", Difficulty: 9})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.CreateQuestion(ctx, &models.Question{Prompt: "x", Difficulty: 2, Options: []string{"a", "b"}, Answer: "c"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
