package selection

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/synaptrix4/skillatics-io/internal/adaptive"
	"github.com/synaptrix4/skillatics-io/internal/apperr"
	"github.com/synaptrix4/skillatics-io/internal/metrics"
	"github.com/synaptrix4/skillatics-io/internal/models"
)

const DefaultSupplyTimeout = 20 * time.Second

// PoolManager assembles the candidate pool for a new test.
type PoolManager struct {
	questions     QuestionSource
	seen          SeenSource
	supplier      Supplier
	config        *adaptive.Config
	supplyTimeout time.Duration
}

// NewPoolManager creates a new pool manager. supplier may be nil, in which
// case short tiers simply stay short.
func NewPoolManager(questions QuestionSource, seen SeenSource, supplier Supplier, config *adaptive.Config, supplyTimeout time.Duration) *PoolManager {
	if config == nil {
		config = adaptive.DefaultConfig()
	}
	if supplyTimeout <= 0 {
		supplyTimeout = DefaultSupplyTimeout
	}
	return &PoolManager{
		questions:     questions,
		seen:          seen,
		supplier:      supplier,
		config:        config,
		supplyTimeout: supplyTimeout,
	}
}

// BuildPool samples unseen questions per difficulty tier and tops up short
// tiers from the supplier. It fails only when nothing at all was found.
func (pm *PoolManager) BuildPool(ctx context.Context, userID, topic string) (*PoolResult, error) {
	start := time.Now()
	defer func() { metrics.PoolBuildDuration.Observe(time.Since(start).Seconds()) }()

	seenIDs, err := pm.seen.SeenQuestionIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load answered questions: %w", err)
	}

	exclude := make(map[string]struct{}, len(seenIDs)+pm.config.PoolSize())
	for _, id := range seenIDs {
		exclude[id] = struct{}{}
	}

	result := &PoolResult{}
	for _, tier := range pm.config.PoolTiers {
		report := pm.fillTier(ctx, topic, tier, exclude, result)
		result.Tiers = append(result.Tiers, report)
	}

	metrics.PoolSize.Observe(float64(len(result.Questions)))
	log.Printf("[POOL] user=%s topic=%q size=%d distribution=%v", userID, topic, len(result.Questions), result.Distribution())

	if len(result.Questions) == 0 {
		return nil, apperr.Exhausted("failed to build test for topic %q", topic)
	}
	return result, nil
}

func (pm *PoolManager) fillTier(ctx context.Context, topic string, tier adaptive.TierTarget, exclude map[string]struct{}, result *PoolResult) TierReport {
	report := TierReport{Difficulty: tier.Difficulty, Target: tier.Count}

	sampled, err := pm.questions.Sample(ctx, topic, tier.Difficulty, keys(exclude), tier.Count)
	if err != nil {
		log.Printf("[POOL] sampling difficulty %d failed: %v", tier.Difficulty, err)
	}
	for i := range sampled {
		if report.Sampled >= tier.Count {
			break
		}
		if add(&sampled[i], exclude, result) {
			report.Sampled++
		}
	}

	short := tier.Count - report.Sampled
	if short <= 0 || pm.supplier == nil {
		return report
	}

	supplied, err := pm.supply(ctx, topic, tier.Difficulty, short)
	if err != nil {
		metrics.SupplyRequests.WithLabelValues("failure").Inc()
		report.SupplyErr = err.Error()
		log.Printf("[POOL] supply for difficulty %d short by %d failed: %v", tier.Difficulty, short, err)
		return report
	}
	metrics.SupplyRequests.WithLabelValues("success").Inc()

	for i := range supplied {
		if report.Supplied >= short {
			break
		}
		q := supplied[i]
		q.ID = ""
		q.Topic = topic
		q.Difficulty = tier.Difficulty
		if q.CreatedAt.IsZero() {
			q.CreatedAt = time.Now().UTC()
		}
		id, err := pm.questions.Insert(ctx, &q)
		if err != nil {
			log.Printf("[POOL] failed to store supplied question: %v", err)
			continue
		}
		q.ID = id
		if add(&q, exclude, result) {
			report.Supplied++
		}
	}
	return report
}

func (pm *PoolManager) supply(ctx context.Context, topic string, difficulty, count int) ([]models.Question, error) {
	ctx, cancel := context.WithTimeout(ctx, pm.supplyTimeout)
	defer cancel()
	return pm.supplier.Generate(ctx, topic, difficulty, count)
}

// add appends q unless its id is excluded, then excludes it.
func add(q *models.Question, exclude map[string]struct{}, result *PoolResult) bool {
	if q.ID == "" {
		return false
	}
	if _, dup := exclude[q.ID]; dup {
		return false
	}
	exclude[q.ID] = struct{}{}
	result.Questions = append(result.Questions, *q)
	return true
}

func keys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
