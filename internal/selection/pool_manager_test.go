package selection

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synaptrix4/skillatics-io/internal/adaptive"
	"github.com/synaptrix4/skillatics-io/internal/apperr"
	"github.com/synaptrix4/skillatics-io/internal/models"
	"github.com/synaptrix4/skillatics-io/internal/repository"
)

type fakeSupplier struct {
	mu    sync.Mutex
	calls []int
	err   error
	block bool
}

func (f *fakeSupplier) Generate(ctx context.Context, topic string, difficulty, count int) ([]models.Question, error) {
	f.mu.Lock()
	f.calls = append(f.calls, difficulty)
	f.mu.Unlock()
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Question, count)
	for i := range out {
		out[i] = models.Question{
			Prompt:     fmt.Sprintf("generated %d/%d", difficulty, i),
			Options:    []string{"a", "b"},
			Answer:     "a",
			Difficulty: 99,
			Topic:      "ignored",
		}
	}
	return out, nil
}

func seedQuestions(topic string, perDifficulty map[int]int) []models.Question {
	var out []models.Question
	for d := 1; d <= 5; d++ {
		for i := 0; i < perDifficulty[d]; i++ {
			out = append(out, models.Question{
				ID:         fmt.Sprintf("%s-d%d-%d", topic, d, i),
				Topic:      topic,
				Difficulty: d,
				Prompt:     "q",
				Options:    []string{"x", "y"},
				Answer:     "x",
			})
		}
	}
	return out
}

func assertUnique(t *testing.T, qs []models.Question) {
	t.Helper()
	ids := make(map[string]struct{})
	for _, q := range qs {
		_, dup := ids[q.ID]
		assert.False(t, dup, "duplicate id %s", q.ID)
		ids[q.ID] = struct{}{}
	}
}

func TestBuildPool_FullRepository(t *testing.T) {
	questions := repository.NewMemoryQuestionRepository(seedQuestions("Math", map[int]int{1: 6, 2: 6, 3: 6, 4: 6, 5: 6})...)
	supplier := &fakeSupplier{}
	pm := NewPoolManager(questions, repository.NewMemoryResultStore(), supplier, adaptive.DefaultConfig(), time.Second)

	result, err := pm.BuildPool(context.Background(), "u1", "Math")
	require.NoError(t, err)

	assert.Len(t, result.Questions, 13)
	assert.Equal(t, map[int]int{1: 4, 2: 2, 3: 3, 4: 2, 5: 2}, result.Distribution())
	assert.Empty(t, supplier.calls)
	assertUnique(t, result.Questions)
	for _, q := range result.Questions {
		assert.Equal(t, "Math", q.Topic)
	}
}

func TestBuildPool_ExcludesSeenQuestions(t *testing.T) {
	questions := repository.NewMemoryQuestionRepository(seedQuestions("Math", map[int]int{1: 5})...)
	results := repository.NewMemoryResultStore(models.TestResult{
		ID:     "r1",
		UserID: "u1",
		History: []models.Answer{
			{QuestionID: "Math-d1-0"},
			{QuestionID: "Math-d1-1"},
		},
	})
	pm := NewPoolManager(questions, results, nil, adaptive.DefaultConfig(), time.Second)

	result, err := pm.BuildPool(context.Background(), "u1", "Math")
	require.NoError(t, err)

	assert.Len(t, result.Questions, 3)
	for _, q := range result.Questions {
		assert.NotContains(t, []string{"Math-d1-0", "Math-d1-1"}, q.ID)
	}

	// another user has seen nothing
	other, err := pm.BuildPool(context.Background(), "u2", "Math")
	require.NoError(t, err)
	assert.Len(t, other.Questions, 4)
}

func TestBuildPool_SupplyTopsUpShortTiers(t *testing.T) {
	questions := repository.NewMemoryQuestionRepository(seedQuestions("Math", map[int]int{1: 4, 3: 1})...)
	supplier := &fakeSupplier{}
	pm := NewPoolManager(questions, repository.NewMemoryResultStore(), supplier, adaptive.DefaultConfig(), time.Second)

	result, err := pm.BuildPool(context.Background(), "u1", "Math")
	require.NoError(t, err)

	assert.Len(t, result.Questions, 13)
	assert.Equal(t, []int{2, 3, 4, 5}, supplier.calls)
	assertUnique(t, result.Questions)

	for _, q := range result.Questions {
		assert.NotEmpty(t, q.ID)
		assert.Equal(t, "Math", q.Topic)
		stored, err := questions.FindByID(context.Background(), q.ID)
		require.NoError(t, err)
		assert.Equal(t, q.Difficulty, stored.Difficulty, "supplied question stored with the tier difficulty")
	}

	tier3 := result.Tiers[2]
	assert.Equal(t, 1, tier3.Sampled)
	assert.Equal(t, 2, tier3.Supplied)
}

func TestBuildPool_SupplyFailureIsNotFatal(t *testing.T) {
	questions := repository.NewMemoryQuestionRepository(seedQuestions("Math", map[int]int{3: 5})...)
	supplier := &fakeSupplier{err: errors.New("quota exceeded")}
	pm := NewPoolManager(questions, repository.NewMemoryResultStore(), supplier, adaptive.DefaultConfig(), time.Second)

	result, err := pm.BuildPool(context.Background(), "u1", "Math")
	require.NoError(t, err)

	assert.Len(t, result.Questions, 3)
	assert.Equal(t, map[int]int{3: 3}, result.Distribution())
	assert.Contains(t, result.Tiers[0].SupplyErr, "quota exceeded")
}

func TestBuildPool_SupplyTimeout(t *testing.T) {
	questions := repository.NewMemoryQuestionRepository(seedQuestions("Math", map[int]int{1: 1})...)
	supplier := &fakeSupplier{block: true}
	pm := NewPoolManager(questions, repository.NewMemoryResultStore(), supplier, adaptive.DefaultConfig(), 10*time.Millisecond)

	start := time.Now()
	result, err := pm.BuildPool(context.Background(), "u1", "Math")
	require.NoError(t, err)

	assert.Len(t, result.Questions, 1)
	assert.Less(t, time.Since(start), 2*time.Second)
	for _, tier := range result.Tiers {
		assert.NotEmpty(t, tier.SupplyErr)
	}
}

func TestBuildPool_EmptyIsExhausted(t *testing.T) {
	questions := repository.NewMemoryQuestionRepository(seedQuestions("Physics", map[int]int{1: 5})...)
	pm := NewPoolManager(questions, repository.NewMemoryResultStore(), &fakeSupplier{err: errors.New("down")}, adaptive.DefaultConfig(), time.Second)

	_, err := pm.BuildPool(context.Background(), "u1", "Math")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrExhausted)
}

func TestPoolResultItems(t *testing.T) {
	r := &PoolResult{Questions: []models.Question{{ID: "a", Difficulty: 2}, {ID: "b", Difficulty: 5}}}
	assert.Equal(t, []models.PoolItem{{QuestionID: "a", Difficulty: 2}, {QuestionID: "b", Difficulty: 5}}, r.Items())
}
