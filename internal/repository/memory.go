package repository

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/synaptrix4/skillatics-io/internal/apperr"
	"github.com/synaptrix4/skillatics-io/internal/gamification"
	"github.com/synaptrix4/skillatics-io/internal/models"
)

// The memory repositories back local runs without MongoDB and the tests.
// They follow the same contracts as the Mongo repositories, including the
// version check on session writes.

type MemoryQuestionRepository struct {
	mu    sync.RWMutex
	byID  map[string]models.Question
	order []string
	rand  *rand.Rand
}

func NewMemoryQuestionRepository(questions ...models.Question) *MemoryQuestionRepository {
	r := &MemoryQuestionRepository{
		byID: make(map[string]models.Question),
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for i := range questions {
		_, _ = r.Insert(context.Background(), &questions[i])
	}
	return r
}

func (r *MemoryQuestionRepository) FindByID(_ context.Context, id string) (*models.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	q, ok := r.byID[id]
	if !ok {
		return nil, apperr.NotFound("question %s", id)
	}
	return &q, nil
}

func (r *MemoryQuestionRepository) Insert(_ context.Context, q *models.Question) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	if _, exists := r.byID[q.ID]; !exists {
		r.order = append(r.order, q.ID)
	}
	stored := *q
	stored.Options = append([]string(nil), q.Options...)
	r.byID[q.ID] = stored
	return q.ID, nil
}

func (r *MemoryQuestionRepository) Sample(_ context.Context, topic string, difficulty int, excludeIDs []string, limit int) ([]models.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matches := r.match(topic, difficulty, excludeIDs)
	r.rand.Shuffle(len(matches), func(i, j int) { matches[i], matches[j] = matches[j], matches[i] })
	if limit >= 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (r *MemoryQuestionRepository) FindOne(_ context.Context, topic string, difficulty int, excludeIDs []string) (*models.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := r.match(topic, difficulty, excludeIDs)
	if len(matches) == 0 {
		return nil, nil
	}
	return &matches[0], nil
}

func (r *MemoryQuestionRepository) match(topic string, difficulty int, excludeIDs []string) []models.Question {
	excluded := make(map[string]struct{}, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = struct{}{}
	}
	var out []models.Question
	for _, id := range r.order {
		q := r.byID[id]
		if _, skip := excluded[id]; skip {
			continue
		}
		if topic != "" && q.Topic != topic {
			continue
		}
		if q.Difficulty != difficulty {
			continue
		}
		out = append(out, q)
	}
	return out
}

type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]*models.TestSession
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]*models.TestSession)}
}

func (s *MemorySessionStore) Create(_ context.Context, session *models.TestSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if _, exists := s.sessions[session.ID]; exists {
		return apperr.Conflict("session %s already exists", session.ID)
	}
	s.sessions[session.ID] = session.Clone()
	return nil
}

func (s *MemorySessionStore) Get(_ context.Context, id, userID string) (*models.TestSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.sessions[id]
	if !ok || stored.UserID != userID || stored.Concluding {
		return nil, apperr.NotFound("session %s", id)
	}
	return stored.Clone(), nil
}

func (s *MemorySessionStore) Update(_ context.Context, session *models.TestSession, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.sessions[session.ID]
	if !ok || stored.UserID != session.UserID {
		return apperr.NotFound("session %s", session.ID)
	}
	if stored.Version != expectedVersion {
		return apperr.Conflict("session %s is at version %d, expected %d", session.ID, stored.Version, expectedVersion)
	}
	session.Version = expectedVersion + 1
	s.sessions[session.ID] = session.Clone()
	return nil
}

func (s *MemorySessionStore) Delete(_ context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.sessions[id]
	if !ok || stored.UserID != userID {
		return apperr.NotFound("session %s", id)
	}
	delete(s.sessions, id)
	return nil
}

// Len counts stored sessions, concluding ones included.
func (s *MemorySessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

type MemoryResultStore struct {
	mu      sync.RWMutex
	results []models.TestResult
}

func NewMemoryResultStore(results ...models.TestResult) *MemoryResultStore {
	return &MemoryResultStore{results: results}
}

func (s *MemoryResultStore) Insert(_ context.Context, result *models.TestResult) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	s.results = append(s.results, *result)
	return result.ID, nil
}

func (s *MemoryResultStore) SeenQuestionIDs(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := make(map[string]struct{})
	var ids []string
	for _, r := range s.results {
		if r.UserID != userID {
			continue
		}
		for _, a := range r.History {
			if _, dup := set[a.QuestionID]; dup {
				continue
			}
			set[a.QuestionID] = struct{}{}
			ids = append(ids, a.QuestionID)
		}
	}
	return ids, nil
}

func (s *MemoryResultStore) FindByUser(_ context.Context, userID string) ([]models.TestResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.TestResult
	for _, r := range s.results {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CompletedAt.After(out[j].CompletedAt) })
	return out, nil
}

func (s *MemoryResultStore) FindByID(_ context.Context, id, userID string) (*models.TestResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.results {
		if r.ID == id && r.UserID == userID {
			res := r
			return &res, nil
		}
	}
	return nil, apperr.NotFound("result %s", id)
}

func (s *MemoryResultStore) UserActivity(_ context.Context, userID string, since time.Time) (*gamification.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	activity := &gamification.Activity{TopicHighScores: make(map[string]int)}
	days := make(map[string]struct{})
	for _, r := range s.results {
		if r.UserID != userID {
			continue
		}
		activity.TestsCompleted++
		if r.Score == 100 {
			activity.PerfectScores++
		}
		if !r.CompletedAt.Before(since) {
			days[r.CompletedAt.UTC().Format("2006-01-02")] = struct{}{}
		}
		hour := r.CompletedAt.UTC().Hour()
		if hour < gamification.EarlyHourCutoff {
			activity.HasEarlyTest = true
		}
		if hour >= gamification.LateHourCutoff {
			activity.HasLateTest = true
		}
		if r.ElapsedSeconds > 0 && (activity.FastestTestSeconds == 0 || r.ElapsedSeconds < activity.FastestTestSeconds) {
			activity.FastestTestSeconds = r.ElapsedSeconds
		}
		if r.Topic != "" && r.Score >= gamification.HighScoreThreshold {
			activity.TopicHighScores[r.Topic]++
		}
	}
	activity.ActiveDays = len(days)
	return activity, nil
}

type MemoryUserStore struct {
	mu       sync.Mutex
	profiles map[string]*models.UserProfile
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{profiles: make(map[string]*models.UserProfile)}
}

func (s *MemoryUserStore) profile(userID string) *models.UserProfile {
	p, ok := s.profiles[userID]
	if !ok {
		p = &models.UserProfile{ID: userID, Level: 1}
		s.profiles[userID] = p
	}
	return p
}

func (s *MemoryUserStore) AddXP(_ context.Context, userID string, delta int) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.profile(userID)
	p.XP += delta
	out := *p
	out.Badges = append([]string(nil), p.Badges...)
	return &out, nil
}

func (s *MemoryUserStore) SetLevel(_ context.Context, userID string, level int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile(userID).Level = level
	return nil
}

func (s *MemoryUserStore) GrantBadge(_ context.Context, userID, badgeID string, bonus int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.profile(userID)
	for _, b := range p.Badges {
		if b == badgeID {
			return false, nil
		}
	}
	p.Badges = append(p.Badges, badgeID)
	p.XP += bonus
	return true, nil
}

func (s *MemoryUserStore) FindByID(_ context.Context, userID string) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, apperr.NotFound("user %s", userID)
	}
	out := *p
	out.Badges = append([]string(nil), p.Badges...)
	return &out, nil
}
