package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/synaptrix4/skillatics-io/internal/models"
)

const DefaultQuestionCacheTTL = time.Hour

// QuestionStore is the full question repository contract.
type QuestionStore interface {
	Sample(ctx context.Context, topic string, difficulty int, excludeIDs []string, limit int) ([]models.Question, error)
	FindOne(ctx context.Context, topic string, difficulty int, excludeIDs []string) (*models.Question, error)
	FindByID(ctx context.Context, id string) (*models.Question, error)
	Insert(ctx context.Context, q *models.Question) (string, error)
}

// CachedQuestionRepository serves FindByID from Redis. Questions never
// change after insert, so entries are only ever written, not invalidated.
// Cache failures fall through to the wrapped store.
type CachedQuestionRepository struct {
	QuestionStore
	rdb *redis.Client
	ttl time.Duration
}

func NewCachedQuestionRepository(store QuestionStore, rdb *redis.Client, ttl time.Duration) *CachedQuestionRepository {
	if ttl <= 0 {
		ttl = DefaultQuestionCacheTTL
	}
	return &CachedQuestionRepository{QuestionStore: store, rdb: rdb, ttl: ttl}
}

func questionKey(id string) string {
	return "assessment:question:" + id
}

func (r *CachedQuestionRepository) FindByID(ctx context.Context, id string) (*models.Question, error) {
	data, err := r.rdb.Get(ctx, questionKey(id)).Bytes()
	if err == nil {
		var q models.Question
		if err := json.Unmarshal(data, &q); err == nil {
			return &q, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		log.Printf("[CACHE] get question %s: %v", id, err)
	}

	q, err := r.QuestionStore.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.store(ctx, q)
	return q, nil
}

func (r *CachedQuestionRepository) Insert(ctx context.Context, q *models.Question) (string, error) {
	id, err := r.QuestionStore.Insert(ctx, q)
	if err != nil {
		return "", err
	}
	r.store(ctx, q)
	return id, nil
}

func (r *CachedQuestionRepository) store(ctx context.Context, q *models.Question) {
	data, err := json.Marshal(q)
	if err != nil {
		return
	}
	if err := r.rdb.Set(ctx, questionKey(q.ID), data, r.ttl).Err(); err != nil {
		log.Printf("[CACHE] set question %s: %v", q.ID, err)
	}
}
