package adaptive

import "github.com/synaptrix4/skillatics-io/internal/models"

// FallbackTier records which selection strategy produced the next question.
type FallbackTier int

const (
	TierNone FallbackTier = iota
	TierExact
	TierAdjacent
	TierAnyInPool
	TierGlobal
)

func (t FallbackTier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierAdjacent:
		return "adjacent"
	case TierAnyInPool:
		return "any_in_pool"
	case TierGlobal:
		return "global"
	default:
		return "none"
	}
}

// TierTarget is how many questions of one difficulty the pool should hold.
type TierTarget struct {
	Difficulty int `json:"difficulty"`
	Count      int `json:"count"`
}

// Config holds the tunables of an adaptive test.
type Config struct {
	MaxQuestions  int          `json:"max_questions"`
	MinDifficulty int          `json:"min_difficulty"`
	MaxDifficulty int          `json:"max_difficulty"`
	PoolTiers     []TierTarget `json:"pool_tiers"`
}

// DefaultConfig front-loads easy questions since a test starts at the
// lowest difficulty in its pool.
func DefaultConfig() *Config {
	return &Config{
		MaxQuestions:  10,
		MinDifficulty: models.MinDifficulty,
		MaxDifficulty: models.MaxDifficulty,
		PoolTiers: []TierTarget{
			{Difficulty: 1, Count: 4},
			{Difficulty: 2, Count: 2},
			{Difficulty: 3, Count: 3},
			{Difficulty: 4, Count: 2},
			{Difficulty: 5, Count: 2},
		},
	}
}

// PoolSize is the number of questions a full pool holds.
func (c *Config) PoolSize() int {
	total := 0
	for _, t := range c.PoolTiers {
		total += t.Count
	}
	return total
}

// Selection is the outcome of a pool lookup.
type Selection struct {
	Item   models.PoolItem
	Tier   FallbackTier
	Target int
}
