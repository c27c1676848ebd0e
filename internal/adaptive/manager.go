package adaptive

import (
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/synaptrix4/skillatics-io/internal/models"
)

// Manager applies the difficulty ladder and the in-pool fallback chain.
// The global repository search (the last fallback) lives with the caller
// since it needs storage.
type Manager struct {
	config *Config

	mu   sync.Mutex
	rand *rand.Rand
}

// NewManager creates a new adaptive manager
func NewManager(config *Config) *Manager {
	if config == nil {
		config = DefaultConfig()
	}
	return &Manager{
		config: config,
		rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewManagerWithSeed makes tie-breaking between equal candidates repeatable.
func NewManagerWithSeed(config *Config, seed int64) *Manager {
	m := NewManager(config)
	m.rand = rand.New(rand.NewSource(seed))
	return m
}

func (m *Manager) Config() *Config {
	return m.config
}

// Clamp bounds a difficulty to the configured range.
func (m *Manager) Clamp(difficulty int) int {
	if difficulty < m.config.MinDifficulty {
		return m.config.MinDifficulty
	}
	if difficulty > m.config.MaxDifficulty {
		return m.config.MaxDifficulty
	}
	return difficulty
}

// NextDifficulty moves one step up on a correct answer and one step down
// otherwise.
func (m *Manager) NextDifficulty(current int, isCorrect bool) int {
	if isCorrect {
		return m.Clamp(current + 1)
	}
	return m.Clamp(current - 1)
}

// IsFinished reports whether answered has reached the question limit.
func (m *Manager) IsFinished(answered int) bool {
	return answered >= m.config.MaxQuestions
}

// FirstQuestion picks the lowest-difficulty item of a freshly built pool.
func (m *Manager) FirstQuestion(pool []models.PoolItem) (models.PoolItem, bool) {
	if len(pool) == 0 {
		return models.PoolItem{}, false
	}
	sorted := append([]models.PoolItem(nil), pool...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Difficulty < sorted[j].Difficulty
	})
	return sorted[0], true
}

// SelectFromPool runs the in-pool part of the fallback chain: exact
// difficulty, then one step either side, then whatever is left. Items whose
// id is in exclude are never returned.
func (m *Manager) SelectFromPool(pool []models.PoolItem, target int, exclude map[string]struct{}) (Selection, bool) {
	var unused []models.PoolItem
	for _, item := range pool {
		if _, skip := exclude[item.QuestionID]; skip {
			continue
		}
		unused = append(unused, item)
	}
	if len(unused) == 0 {
		return Selection{Target: target}, false
	}

	if exact := filterDifficulty(unused, target); len(exact) > 0 {
		return Selection{Item: m.pick(exact), Tier: TierExact, Target: target}, true
	}
	if adjacent := filterDifficulty(unused, target-1, target+1); len(adjacent) > 0 {
		return Selection{Item: m.pick(adjacent), Tier: TierAdjacent, Target: target}, true
	}
	return Selection{Item: m.pick(closest(unused, target)), Tier: TierAnyInPool, Target: target}, true
}

func (m *Manager) pick(items []models.PoolItem) models.PoolItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return items[m.rand.Intn(len(items))]
}

func filterDifficulty(items []models.PoolItem, difficulties ...int) []models.PoolItem {
	var out []models.PoolItem
	for _, item := range items {
		for _, d := range difficulties {
			if item.Difficulty == d {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// closest keeps the items nearest to target so the last in-pool fallback
// still moves as little as possible.
func closest(items []models.PoolItem, target int) []models.PoolItem {
	best := -1
	var out []models.PoolItem
	for _, item := range items {
		dist := item.Difficulty - target
		if dist < 0 {
			dist = -dist
		}
		switch {
		case best == -1 || dist < best:
			best = dist
			out = []models.PoolItem{item}
		case dist == best:
			out = append(out, item)
		}
	}
	return out
}
