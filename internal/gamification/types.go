package gamification

import (
	"context"
	"time"

	"github.com/synaptrix4/skillatics-io/internal/models"
)

// Activity is what stored results say about a user.
type Activity struct {
	TestsCompleted     int
	PerfectScores      int
	CodingSolved       int
	ActiveDays         int // distinct days with a finished test in the streak window
	HasEarlyTest       bool
	HasLateTest        bool
	FastestTestSeconds int // 0 when unknown
	TopicHighScores    map[string]int
}

// ActivitySource derives Activity from the result history.
type ActivitySource interface {
	UserActivity(ctx context.Context, userID string, since time.Time) (*Activity, error)
}

// ProfileStore persists XP, level and badges.
type ProfileStore interface {
	// AddXP increments the user's XP, creating the profile when missing, and
	// returns the profile after the increment.
	AddXP(ctx context.Context, userID string, delta int) (*models.UserProfile, error)
	SetLevel(ctx context.Context, userID string, level int) error
	// GrantBadge adds badgeID and its bonus XP once; it reports false when
	// the badge was already held.
	GrantBadge(ctx context.Context, userID, badgeID string, bonus int) (bool, error)
}

// Award is the outcome of crediting XP for a finished test.
type Award struct {
	XPEarned        int           `json:"xpEarned"`
	NewXP           int           `json:"newXp"`
	NewLevel        int           `json:"newLevel"`
	LeveledUp       bool          `json:"leveledUp"`
	XPForNextLevel  int           `json:"xpForNextLevel"`
	NewAchievements []Achievement `json:"newAchievements"`
}
