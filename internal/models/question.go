package models

import (
	"fmt"
	"strings"
	"time"
)

const (
	MinDifficulty = 1
	MaxDifficulty = 5
)

type Question struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Topic       string    `bson:"topic" json:"topic"`
	Difficulty  int       `bson:"difficulty" json:"difficulty"`
	Prompt      string    `bson:"prompt" json:"prompt"`
	Options     []string  `bson:"options" json:"options"`
	Answer      string    `bson:"answer,omitempty" json:"answer,omitempty"`
	Explanation string    `bson:"explanation,omitempty" json:"explanation,omitempty"`
	Source      string    `bson:"source,omitempty" json:"source,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

// QuestionView is what a test-taker sees: everything but the answer.
type QuestionView struct {
	ID         string   `json:"id"`
	Topic      string   `json:"topic"`
	Difficulty int      `json:"difficulty"`
	Prompt     string   `json:"prompt"`
	Options    []string `json:"options"`
}

func (q *Question) View() *QuestionView {
	return &QuestionView{
		ID:         q.ID,
		Topic:      q.Topic,
		Difficulty: q.Difficulty,
		Prompt:     q.Prompt,
		Options:    q.Options,
	}
}

// Validate checks the structural rules every stored question must satisfy.
func (q *Question) Validate() error {
	if strings.TrimSpace(q.Prompt) == "" {
		return fmt.Errorf("prompt is required")
	}
	if q.Difficulty < MinDifficulty || q.Difficulty > MaxDifficulty {
		return fmt.Errorf("difficulty %d out of range %d-%d", q.Difficulty, MinDifficulty, MaxDifficulty)
	}
	if len(q.Options) == 0 {
		// Non-choice question.
		return nil
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("at least 2 options required, got %d", len(q.Options))
	}
	seen := make(map[string]struct{}, len(q.Options))
	for _, opt := range q.Options {
		if _, dup := seen[opt]; dup {
			return fmt.Errorf("duplicate option %q", opt)
		}
		seen[opt] = struct{}{}
	}
	if q.Answer != "" {
		if _, ok := seen[q.Answer]; !ok {
			return fmt.Errorf("answer %q is not one of the options", q.Answer)
		}
	}
	return nil
}

var legacyTopics = map[string]string{
	"Aptitude":  "General Aptitude",
	"Technical": "Technical Aptitude",
}

// NormalizeTopic trims the topic filter and maps legacy labels to their
// current names.
func NormalizeTopic(topic string) string {
	topic = strings.TrimSpace(topic)
	if mapped, ok := legacyTopics[topic]; ok {
		return mapped
	}
	return topic
}
