package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/synaptrix4/skillatics-io/internal/adaptive"
	"github.com/synaptrix4/skillatics-io/internal/apperr"
	"github.com/synaptrix4/skillatics-io/internal/gamification"
	"github.com/synaptrix4/skillatics-io/internal/metrics"
	"github.com/synaptrix4/skillatics-io/internal/models"
	"github.com/synaptrix4/skillatics-io/internal/scoring"
)

// SessionService runs the adaptive test state machine. A session is active
// while it is stored; concluding it stores a TestResult and deletes it.
type SessionService struct {
	sessions  SessionStore
	questions QuestionStore
	results   ResultStore
	pool      PoolBuilder
	manager   *adaptive.Manager
	awards    AwardEngine
	events    Publisher
	now       func() time.Time
}

// NewSessionService wires the state machine. awards and events may be nil.
func NewSessionService(
	sessions SessionStore,
	questions QuestionStore,
	results ResultStore,
	pool PoolBuilder,
	manager *adaptive.Manager,
	awards AwardEngine,
	events Publisher,
) *SessionService {
	if manager == nil {
		manager = adaptive.NewManager(nil)
	}
	return &SessionService{
		sessions:  sessions,
		questions: questions,
		results:   results,
		pool:      pool,
		manager:   manager,
		awards:    awards,
		events:    events,
		now:       time.Now,
	}
}

// Start builds a pool for the user and opens a session on its easiest
// question.
func (s *SessionService) Start(ctx context.Context, userID, topic string) (*StartResponse, error) {
	if userID == "" {
		return nil, apperr.Validation("user id is required")
	}
	topic = models.NormalizeTopic(topic)

	pool, err := s.pool.BuildPool(ctx, userID, topic)
	if err != nil {
		return nil, err
	}
	items := pool.Items()
	first, ok := s.manager.FirstQuestion(items)
	if !ok {
		return nil, apperr.Exhausted("failed to build test for topic %q", topic)
	}
	var question *models.Question
	for i := range pool.Questions {
		if pool.Questions[i].ID == first.QuestionID {
			question = &pool.Questions[i]
			break
		}
	}

	session := &models.TestSession{
		ID:                uuid.NewString(),
		UserID:            userID,
		Topic:             topic,
		CurrentDifficulty: first.Difficulty,
		History:           []models.Answer{},
		AdaptivePath:      []int{first.Difficulty},
		QuestionPool:      items,
		UsedQuestionIDs:   []string{first.QuestionID},
		CurrentQuestionID: first.QuestionID,
		MaxQuestions:      s.manager.Config().MaxQuestions,
		StartedAt:         s.now().UTC(),
		Version:           1,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	metrics.SessionsStarted.Inc()
	log.Printf("[SESSION] started %s user=%s topic=%q pool=%d first=%s(d%d)",
		session.ID, userID, topic, len(items), first.QuestionID, first.Difficulty)
	s.publish(EventSessionStarted, map[string]interface{}{
		"session_id": session.ID,
		"user_id":    userID,
		"topic":      topic,
		"pool_size":  len(items),
	})

	return &StartResponse{
		SessionID: session.ID,
		Question:  question.View(),
		Progress:  0,
		Total:     session.MaxQuestions,
	}, nil
}

// SubmitAnswer records an answer to the current question and either
// presents the next one or concludes the session. The write is rejected
// with a conflict when the session changed since it was read.
func (s *SessionService) SubmitAnswer(ctx context.Context, req SubmitRequest) (*StepResponse, error) {
	if err := validateSubmit(req); err != nil {
		return nil, err
	}

	snapshot, err := s.sessions.Get(ctx, req.SessionID, req.UserID)
	if err != nil {
		return nil, err
	}
	if req.QuestionID != snapshot.CurrentQuestionID {
		return nil, apperr.Validation("question mismatch: %s is not the current question", req.QuestionID)
	}

	question, err := s.questions.FindByID(ctx, req.QuestionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load question: %w", err)
	}
	selected, err := req.SelectedOption.Resolve(question)
	if err != nil {
		return nil, apperr.Validation("%v", err)
	}
	isCorrect := isCorrectAnswer(selected, question.Answer)

	working := snapshot.Clone()
	working.History = append(working.History, models.Answer{
		QuestionID:     question.ID,
		IsCorrect:      isCorrect,
		Difficulty:     question.Difficulty,
		SelectedOption: req.SelectedOption,
	})
	metrics.AnswersSubmitted.WithLabelValues(resultLabel(isCorrect)).Inc()

	if s.manager.IsFinished(len(working.History)) {
		return s.conclude(ctx, working, snapshot, models.CompletionMaxQuestions)
	}

	target := s.manager.NextDifficulty(working.CurrentDifficulty, isCorrect)
	exclude := make(map[string]struct{}, len(working.UsedQuestionIDs)+1)
	for _, id := range working.UsedQuestionIDs {
		exclude[id] = struct{}{}
	}
	exclude[question.ID] = struct{}{}

	next, tier, err := s.nextQuestion(ctx, working, question.Topic, target, exclude)
	if err != nil {
		return nil, err
	}
	if next == nil {
		log.Printf("[SESSION] %s ran out of questions at target d%d", working.ID, target)
		return s.conclude(ctx, working, snapshot, models.CompletionExhausted)
	}
	metrics.FallbackSelections.WithLabelValues(tier.String()).Inc()

	working.CurrentDifficulty = next.Difficulty
	working.CurrentQuestionID = next.ID
	working.AdaptivePath = append(working.AdaptivePath, next.Difficulty)
	working.UsedQuestionIDs = append(working.UsedQuestionIDs, next.ID)

	if err := s.sessions.Update(ctx, working, snapshot.Version); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			metrics.SessionConflicts.Inc()
		}
		return nil, err
	}

	s.publish(EventAnswerSubmitted, map[string]interface{}{
		"session_id":  working.ID,
		"user_id":     working.UserID,
		"question_id": question.ID,
		"is_correct":  isCorrect,
		"difficulty":  question.Difficulty,
		"next":        next.Difficulty,
	})

	return &StepResponse{
		Status:   StatusContinue,
		Question: next.View(),
		Progress: len(working.History),
		Total:    working.MaxQuestions,
	}, nil
}

// FinishEarly concludes the session with whatever has been answered.
func (s *SessionService) FinishEarly(ctx context.Context, sessionID, userID string) (*StepResponse, error) {
	if sessionID == "" || userID == "" {
		return nil, apperr.Validation("session id and user id are required")
	}
	snapshot, err := s.sessions.Get(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	return s.conclude(ctx, snapshot.Clone(), snapshot, models.CompletionEarly)
}

// GetSession reports the current state of an active session without
// changing it.
func (s *SessionService) GetSession(ctx context.Context, sessionID, userID string) (*SessionView, error) {
	session, err := s.sessions.Get(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	question, err := s.questions.FindByID(ctx, session.CurrentQuestionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load current question: %w", err)
	}
	return &SessionView{
		SessionID:         session.ID,
		Topic:             session.Topic,
		Question:          question.View(),
		CurrentDifficulty: session.CurrentDifficulty,
		AdaptivePath:      session.AdaptivePath,
		Progress:          len(session.History),
		Total:             session.MaxQuestions,
		StartedAt:         session.StartedAt,
	}, nil
}

// nextQuestion walks the fallback tiers. A nil question means every tier
// came up empty.
func (s *SessionService) nextQuestion(ctx context.Context, session *models.TestSession, topic string, target int, exclude map[string]struct{}) (*models.Question, adaptive.FallbackTier, error) {
	if sel, ok := s.manager.SelectFromPool(session.QuestionPool, target, exclude); ok {
		q, err := s.questions.FindByID(ctx, sel.Item.QuestionID)
		if err != nil {
			return nil, adaptive.TierNone, fmt.Errorf("failed to load pool question: %w", err)
		}
		return q, sel.Tier, nil
	}

	excluded := make([]string, 0, len(exclude))
	for id := range exclude {
		excluded = append(excluded, id)
	}
	q, err := s.questions.FindOne(ctx, topic, target, excluded)
	if err != nil {
		return nil, adaptive.TierNone, fmt.Errorf("failed to search questions: %w", err)
	}
	if q == nil {
		return nil, adaptive.TierNone, nil
	}
	return q, adaptive.TierGlobal, nil
}

// conclude claims the session, stores the result, deletes the session and
// credits XP. The claim is a versioned write, so of two racing conclusions
// only one stores a result. If the result cannot be stored the session is
// put back as it was read, without the answer being concluded on.
func (s *SessionService) conclude(ctx context.Context, working, snapshot *models.TestSession, reason models.CompletionReason) (*StepResponse, error) {
	claim := working.Clone()
	claim.Concluding = true
	if err := s.sessions.Update(ctx, claim, snapshot.Version); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			metrics.SessionConflicts.Inc()
		}
		return nil, err
	}

	now := s.now().UTC()
	summary := scoring.Summarize(working.History)
	review := scoring.BuildReview(ctx, s.questions, working.History)
	elapsed := int(now.Sub(working.StartedAt).Seconds())
	xp := scoring.Reward(summary.Score, summary.Total, summary.AvgDifficulty, elapsed)

	result := &models.TestResult{
		SessionID:        working.ID,
		UserID:           working.UserID,
		Topic:            working.Topic,
		Score:            summary.Score,
		TotalQuestions:   summary.Total,
		CorrectQuestions: summary.Correct,
		AdaptivePath:     working.AdaptivePath,
		History:          working.History,
		Review:           review,
		CompletedAt:      now,
		ElapsedSeconds:   elapsed,
		XPEarned:         xp,
		CompletionReason: reason,
	}
	resultID, err := s.results.Insert(ctx, result)
	if err != nil {
		release := snapshot.Clone()
		release.Concluding = false
		if rerr := s.sessions.Update(ctx, release, claim.Version); rerr != nil {
			log.Printf("[SESSION] failed to release %s after result error: %v", working.ID, rerr)
		}
		return nil, fmt.Errorf("failed to store result: %w", err)
	}

	if err := s.sessions.Delete(ctx, working.ID, working.UserID); err != nil {
		log.Printf("[SESSION] result %s stored but session %s not deleted: %v", resultID, working.ID, err)
	}

	award := &gamification.Award{XPEarned: xp, NewAchievements: []gamification.Achievement{}}
	if s.awards != nil {
		granted, err := s.awards.Award(ctx, working.UserID, xp)
		if err != nil {
			metrics.AchievementFailures.Inc()
			log.Printf("[SESSION] failed to award xp for %s: %v", resultID, err)
		} else {
			award = granted
		}
	}

	metrics.SessionsConcluded.WithLabelValues(string(reason)).Inc()
	log.Printf("[SESSION] concluded %s reason=%s score=%.2f (%d/%d) xp=%d",
		working.ID, reason, summary.Score, summary.Correct, summary.Total, xp)
	s.publish(EventSessionCompleted, map[string]interface{}{
		"session_id": working.ID,
		"result_id":  resultID,
		"user_id":    working.UserID,
		"topic":      working.Topic,
		"score":      summary.Score,
		"xp_earned":  xp,
		"reason":     reason,
	})

	return &StepResponse{
		Status:   StatusComplete,
		Progress: summary.Total,
		Total:    working.MaxQuestions,
		Completion: &Completion{
			ResultID:         resultID,
			Score:            summary.Score,
			TotalQuestions:   summary.Total,
			CorrectQuestions: summary.Correct,
			AdaptivePath:     working.AdaptivePath,
			Review:           review,
			Reason:           reason,
			XPEarned:         xp,
			Reward:           award,
		},
	}, nil
}

func (s *SessionService) publish(eventType string, payload interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(eventType, payload); err != nil {
		log.Printf("[EVENT] failed to publish %s: %v", eventType, err)
	}
}

func validateSubmit(req SubmitRequest) error {
	var missing []string
	if req.SessionID == "" {
		missing = append(missing, "sessionId")
	}
	if req.UserID == "" {
		missing = append(missing, "userId")
	}
	if req.QuestionID == "" {
		missing = append(missing, "questionId")
	}
	if !req.SelectedOption.IsSet() {
		missing = append(missing, "selectedOption")
	}
	if len(missing) > 0 {
		return apperr.Validation("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Questions without a stored answer can never be answered correctly.
func isCorrectAnswer(selected, answer string) bool {
	answer = strings.TrimSpace(answer)
	return answer != "" && strings.TrimSpace(selected) == answer
}

func resultLabel(correct bool) string {
	if correct {
		return "correct"
	}
	return "incorrect"
}
