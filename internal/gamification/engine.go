package gamification

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Engine credits XP and hands out achievements after a test is stored.
type Engine struct {
	activity ActivitySource
	profiles ProfileStore
	now      func() time.Time
}

func NewEngine(activity ActivitySource, profiles ProfileStore) *Engine {
	return &Engine{
		activity: activity,
		profiles: profiles,
		now:      time.Now,
	}
}

// Award adds xp to the user, re-evaluates the level and grants every
// achievement the user now qualifies for. Badge bonuses count toward the
// returned XP and level.
func (e *Engine) Award(ctx context.Context, userID string, xp int) (*Award, error) {
	profile, err := e.profiles.AddXP(ctx, userID, xp)
	if err != nil {
		return nil, fmt.Errorf("failed to add xp: %w", err)
	}
	oldLevel := Level(profile.XP - xp)
	totalXP := profile.XP

	activity, err := e.activity.UserActivity(ctx, userID, e.now().UTC().AddDate(0, 0, -StreakWindowDays))
	if err != nil {
		return nil, fmt.Errorf("failed to load activity: %w", err)
	}

	held := make(map[string]struct{}, len(profile.Badges))
	for _, b := range profile.Badges {
		held[b] = struct{}{}
	}

	award := &Award{XPEarned: xp, NewAchievements: []Achievement{}}
	achievementCtx := NewAchievementContext(activity, totalXP)
	for _, a := range registry {
		if _, ok := held[a.ID]; ok || !a.Earned(achievementCtx) {
			continue
		}
		granted, err := e.profiles.GrantBadge(ctx, userID, a.ID, a.XPBonus)
		if err != nil {
			return nil, fmt.Errorf("failed to grant %s: %w", a.ID, err)
		}
		if !granted {
			continue
		}
		totalXP += a.XPBonus
		achievementCtx.TotalXP = totalXP
		award.NewAchievements = append(award.NewAchievements, a)
		log.Printf("[ACHIEVEMENT] user=%s earned=%s bonus=%d", userID, a.ID, a.XPBonus)
	}

	award.NewXP = totalXP
	award.NewLevel = Level(totalXP)
	award.LeveledUp = award.NewLevel > oldLevel
	award.XPForNextLevel = XPForNextLevel(award.NewLevel)

	if err := e.profiles.SetLevel(ctx, userID, award.NewLevel); err != nil {
		return nil, fmt.Errorf("failed to store level: %w", err)
	}
	return award, nil
}
