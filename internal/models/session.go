package models

import "time"

// Answer is one entry of a session's history.
type Answer struct {
	QuestionID     string         `bson:"question_id" json:"questionId"`
	IsCorrect      bool           `bson:"is_correct" json:"isCorrect"`
	Difficulty     int            `bson:"difficulty" json:"difficulty"`
	SelectedOption SelectedOption `bson:"selected_option" json:"selectedOption"`
}

// PoolItem is a pool member; only the fields selection needs are copied.
type PoolItem struct {
	QuestionID string `bson:"question_id" json:"questionId"`
	Difficulty int    `bson:"difficulty" json:"difficulty"`
}

type TestSession struct {
	ID                string     `bson:"_id" json:"id"`
	UserID            string     `bson:"user_id" json:"userId"`
	Topic             string     `bson:"topic,omitempty" json:"topic,omitempty"`
	CurrentDifficulty int        `bson:"current_difficulty" json:"currentDifficulty"`
	History           []Answer   `bson:"history" json:"history"`
	AdaptivePath      []int      `bson:"adaptive_path" json:"adaptivePath"`
	QuestionPool      []PoolItem `bson:"question_pool" json:"questionPool"`
	UsedQuestionIDs   []string   `bson:"used_question_ids" json:"usedQuestionIds"`
	CurrentQuestionID string     `bson:"current_question_id" json:"currentQuestionId"`
	MaxQuestions      int        `bson:"max_questions" json:"maxQuestions"`
	StartedAt         time.Time  `bson:"started_at" json:"startedAt"`
	Version           int64      `bson:"version" json:"version"`
	// Concluding is set by the write that claims the session for
	// conclusion; such sessions are invisible to readers.
	Concluding bool `bson:"concluding,omitempty" json:"-"`
}

// Clone returns a deep copy so a working state can be built without
// touching the snapshot that was read.
func (s *TestSession) Clone() *TestSession {
	c := *s
	c.History = append([]Answer(nil), s.History...)
	c.AdaptivePath = append([]int(nil), s.AdaptivePath...)
	c.QuestionPool = append([]PoolItem(nil), s.QuestionPool...)
	c.UsedQuestionIDs = append([]string(nil), s.UsedQuestionIDs...)
	return &c
}

// IsUsed reports whether id was ever presented in this session.
func (s *TestSession) IsUsed(id string) bool {
	for _, used := range s.UsedQuestionIDs {
		if used == id {
			return true
		}
	}
	return false
}
