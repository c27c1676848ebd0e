package selection

import (
	"context"

	"github.com/synaptrix4/skillatics-io/internal/models"
)

// QuestionSource is the part of the question repository the builder needs.
type QuestionSource interface {
	Sample(ctx context.Context, topic string, difficulty int, excludeIDs []string, limit int) ([]models.Question, error)
	Insert(ctx context.Context, q *models.Question) (string, error)
}

// SeenSource lists every question id a user has already answered.
type SeenSource interface {
	SeenQuestionIDs(ctx context.Context, userID string) ([]string, error)
}

// Supplier generates fresh questions when the repository runs short.
type Supplier interface {
	Generate(ctx context.Context, topic string, difficulty, count int) ([]models.Question, error)
}

// TierReport describes how one difficulty tier was filled.
type TierReport struct {
	Difficulty int    `json:"difficulty"`
	Target     int    `json:"target"`
	Sampled    int    `json:"sampled"`
	Supplied   int    `json:"supplied"`
	SupplyErr  string `json:"supply_error,omitempty"`
}

// PoolResult is an assembled pool plus how it was built.
type PoolResult struct {
	Questions []models.Question `json:"questions"`
	Tiers     []TierReport      `json:"tiers"`
}

// Distribution counts pool questions per difficulty.
func (r *PoolResult) Distribution() map[int]int {
	counts := make(map[int]int)
	for _, q := range r.Questions {
		counts[q.Difficulty]++
	}
	return counts
}

// Items reduces the pool to what the session keeps.
func (r *PoolResult) Items() []models.PoolItem {
	items := make([]models.PoolItem, len(r.Questions))
	for i, q := range r.Questions {
		items[i] = models.PoolItem{QuestionID: q.ID, Difficulty: q.Difficulty}
	}
	return items
}
