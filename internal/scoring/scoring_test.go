package scoring

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synaptrix4/skillatics-io/internal/models"
)

func answers(difficulty int, results ...bool) []models.Answer {
	out := make([]models.Answer, len(results))
	for i, ok := range results {
		out[i] = models.Answer{QuestionID: fmt.Sprintf("q%d", i), IsCorrect: ok, Difficulty: difficulty}
	}
	return out
}

func TestScore(t *testing.T) {
	testCases := []struct {
		correct, total int
		expected       float64
	}{
		{0, 0, 0},
		{2, 3, 66.67},
		{1, 3, 33.33},
		{10, 10, 100},
		{0, 5, 0},
		{7, 9, 77.78},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%d_of_%d", tc.correct, tc.total), func(t *testing.T) {
			got := Score(tc.correct, tc.total)
			assert.Equal(t, tc.expected, got)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 100.0)
		})
	}
}

func TestSummarize(t *testing.T) {
	history := []models.Answer{
		{QuestionID: "a", IsCorrect: true, Difficulty: 1},
		{QuestionID: "b", IsCorrect: true, Difficulty: 2},
		{QuestionID: "c", IsCorrect: false, Difficulty: 3},
	}
	s := Summarize(history)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.Correct)
	assert.Equal(t, 66.67, s.Score)
	assert.InDelta(t, 2.0, s.AvgDifficulty, 1e-9)

	empty := Summarize(nil)
	assert.Equal(t, Summary{}, empty)
}

func TestReward(t *testing.T) {
	testCases := []struct {
		name          string
		score         float64
		total         int
		avgDifficulty float64
		elapsed       int
		expected      int
	}{
		// 100 * 2.0 * 1.5 + 50 + 100
		{"perfect hard fast", 100, 10, 5, 300, 450},
		// 100 * 2.0 * 1.0 + 100, no speed bonus at 600s
		{"perfect easy slow", 100, 10, 1, 600, 300},
		// 30 * (0.5+0.6667*1.5=1.5) * 1.125 = 50.6 -> 50, +50 speed
		{"two thirds medium", 66.67, 3, 2, 120, 100},
		// 0 answers: 0 + 50 speed
		{"empty fast", 0, 0, 0, 5, 50},
		// floor to minimum
		{"empty slow", 0, 0, 0, 0, 10},
		// 10 * 0.5 * 1.0 = 5 -> minimum 10
		{"one wrong", 0, 1, 1, 900, 10},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Reward(tc.score, tc.total, tc.avgDifficulty, tc.elapsed))
		})
	}
}

type finderFunc func(ctx context.Context, id string) (*models.Question, error)

func (f finderFunc) FindByID(ctx context.Context, id string) (*models.Question, error) {
	return f(ctx, id)
}

func TestBuildReviewSkipsMissingQuestions(t *testing.T) {
	questions := map[string]*models.Question{
		"q0": {ID: "q0", Prompt: "1+1?", Options: []string{"1", "2"}, Answer: "2"},
		"q2": {ID: "q2", Prompt: "2+2?", Options: []string{"4", "5"}, Answer: "4"},
	}
	finder := finderFunc(func(_ context.Context, id string) (*models.Question, error) {
		q, ok := questions[id]
		if !ok {
			return nil, fmt.Errorf("question %s not found", id)
		}
		return q, nil
	})

	history := answers(1, true, false, true)
	history[0].SelectedOption = models.LiteralOption("2")
	history[2].SelectedOption = models.IndexOption(0)

	review := BuildReview(context.Background(), finder, history)
	require.Len(t, review, 2)
	assert.Equal(t, "1+1?", review[0].Prompt)
	assert.Equal(t, "2", review[0].CorrectAnswer)
	assert.Equal(t, models.LiteralOption("2"), review[0].SelectedAnswer)
	assert.True(t, review[0].IsCorrect)
	assert.Equal(t, "q2", review[1].QuestionID)
	assert.Equal(t, models.IndexOption(0), review[1].SelectedAnswer)
}
