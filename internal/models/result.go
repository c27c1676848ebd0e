package models

import "time"

type CompletionReason string

const (
	CompletionMaxQuestions CompletionReason = "max_questions"
	CompletionExhausted    CompletionReason = "exhausted"
	CompletionEarly        CompletionReason = "finished_early"
)

type ReviewItem struct {
	QuestionID     string         `bson:"question_id" json:"questionId"`
	Prompt         string         `bson:"prompt" json:"prompt"`
	Options        []string       `bson:"options" json:"options"`
	CorrectAnswer  string         `bson:"correct_answer" json:"correctAnswer"`
	SelectedAnswer SelectedOption `bson:"selected_answer" json:"selectedAnswer"`
	IsCorrect      bool           `bson:"is_correct" json:"isCorrect"`
	Explanation    string         `bson:"explanation,omitempty" json:"explanation,omitempty"`
}

type TestResult struct {
	ID               string           `bson:"_id,omitempty" json:"id"`
	SessionID        string           `bson:"session_id" json:"sessionId"`
	UserID           string           `bson:"user_id" json:"userId"`
	Topic            string           `bson:"topic,omitempty" json:"topic,omitempty"`
	Score            float64          `bson:"score" json:"score"`
	TotalQuestions   int              `bson:"total_questions" json:"totalQuestions"`
	CorrectQuestions int              `bson:"correct_questions" json:"correctQuestions"`
	AdaptivePath     []int            `bson:"adaptive_path" json:"adaptivePath"`
	History          []Answer         `bson:"history" json:"history"`
	Review           []ReviewItem     `bson:"review" json:"review"`
	CompletedAt      time.Time        `bson:"completed_at" json:"completedAt"`
	ElapsedSeconds   int              `bson:"elapsed_seconds" json:"elapsedSeconds"`
	XPEarned         int              `bson:"xp_earned" json:"xpEarned"`
	CompletionReason CompletionReason `bson:"completion_reason" json:"completionReason"`
}

// UserProfile carries the gamification state stored per user.
type UserProfile struct {
	ID     string   `bson:"_id" json:"id"`
	XP     int      `bson:"xp" json:"xp"`
	Level  int      `bson:"level" json:"level"`
	Badges []string `bson:"badges" json:"badges"`
}
