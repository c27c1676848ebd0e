package service

import (
	"time"

	"github.com/synaptrix4/skillatics-io/internal/gamification"
	"github.com/synaptrix4/skillatics-io/internal/models"
)

const (
	StatusContinue = "continue"
	StatusComplete = "complete"
)

// Event routing keys.
const (
	EventSessionStarted   = "assessment.session.started"
	EventAnswerSubmitted  = "assessment.answer.submitted"
	EventSessionCompleted = "assessment.session.completed"
)

type StartResponse struct {
	SessionID string               `json:"sessionId"`
	Question  *models.QuestionView `json:"question"`
	Progress  int                  `json:"progress"`
	Total     int                  `json:"total"`
}

type SubmitRequest struct {
	SessionID      string                `json:"sessionId"`
	UserID         string                `json:"-"`
	QuestionID     string                `json:"questionId"`
	SelectedOption models.SelectedOption `json:"selectedOption"`
}

// Completion is the terminal payload of a session.
type Completion struct {
	ResultID         string                  `json:"resultId"`
	Score            float64                 `json:"score"`
	TotalQuestions   int                     `json:"totalQuestions"`
	CorrectQuestions int                     `json:"correctQuestions"`
	AdaptivePath     []int                   `json:"adaptivePath"`
	Review           []models.ReviewItem     `json:"review"`
	Reason           models.CompletionReason `json:"reason"`
	XPEarned         int                     `json:"xpEarned"`
	Reward           *gamification.Award     `json:"reward"`
}

// StepResponse answers a submission: either the next question or, once
// the session is over, the flattened Completion.
type StepResponse struct {
	Status   string               `json:"status"`
	Question *models.QuestionView `json:"question,omitempty"`
	Progress int                  `json:"progress"`
	Total    int                  `json:"total"`
	*Completion
}

type SessionView struct {
	SessionID         string               `json:"sessionId"`
	Topic             string               `json:"topic,omitempty"`
	Question          *models.QuestionView `json:"question"`
	CurrentDifficulty int                  `json:"currentDifficulty"`
	AdaptivePath      []int                `json:"adaptivePath"`
	Progress          int                  `json:"progress"`
	Total             int                  `json:"total"`
	StartedAt         time.Time            `json:"startedAt"`
}
