package scoring

import (
	"context"
	"math"

	"github.com/synaptrix4/skillatics-io/internal/models"
)

const (
	xpPerQuestion     = 10
	speedBonusXP      = 50
	speedBonusSeconds = 600
	perfectBonusXP    = 100
	minimumXP         = 10
)

// Summary is the tally of a finished history.
type Summary struct {
	Total         int
	Correct       int
	Score         float64
	AvgDifficulty float64
}

// Summarize tallies history and computes its score.
func Summarize(history []models.Answer) Summary {
	s := Summary{Total: len(history)}
	sumDifficulty := 0
	for _, a := range history {
		if a.IsCorrect {
			s.Correct++
		}
		sumDifficulty += a.Difficulty
	}
	s.Score = Score(s.Correct, s.Total)
	if s.Total > 0 {
		s.AvgDifficulty = float64(sumDifficulty) / float64(s.Total)
	}
	return s
}

// Score is the percentage of correct answers rounded to two decimals. An
// empty history scores 0.
func Score(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return round2(100 * float64(correct) / float64(total))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Reward converts a finished test into XP.
func Reward(score float64, total int, avgDifficulty float64, elapsedSeconds int) int {
	base := float64(total * xpPerQuestion)
	accuracy := 0.5 + (score/100)*1.5
	difficulty := 1 + (avgDifficulty-1)/8

	xp := int(math.Floor(base * accuracy * difficulty))
	if elapsedSeconds > 0 && elapsedSeconds < speedBonusSeconds {
		xp += speedBonusXP
	}
	if score == 100 {
		xp += perfectBonusXP
	}
	if xp < minimumXP {
		return minimumXP
	}
	return xp
}

// QuestionFinder resolves question ids for the review.
type QuestionFinder interface {
	FindByID(ctx context.Context, id string) (*models.Question, error)
}

// BuildReview rebuilds the per-question review from history. Questions
// that no longer resolve are left out.
func BuildReview(ctx context.Context, finder QuestionFinder, history []models.Answer) []models.ReviewItem {
	review := make([]models.ReviewItem, 0, len(history))
	for _, a := range history {
		q, err := finder.FindByID(ctx, a.QuestionID)
		if err != nil || q == nil {
			continue
		}
		review = append(review, models.ReviewItem{
			QuestionID:     q.ID,
			Prompt:         q.Prompt,
			Options:        q.Options,
			CorrectAnswer:  q.Answer,
			SelectedAnswer: a.SelectedOption,
			IsCorrect:      a.IsCorrect,
			Explanation:    q.Explanation,
		})
	}
	return review
}
