package gamification

const (
	StreakWindowDays   = 7
	HighScoreThreshold = 80
	EarlyHourCutoff    = 8
	LateHourCutoff     = 22
	speedDemonSeconds  = 600
)

// AchievementContext is everything the achievement predicates look at.
type AchievementContext struct {
	TestsCompleted     int
	PerfectScores      int
	CodingSolved       int
	CurrentStreak      int
	TotalXP            int
	FastestTestSeconds int
	HasEarlyTest       bool
	HasLateTest        bool
	TopicHighScores    map[string]int
}

// NewAchievementContext combines stored activity with the user's XP.
func NewAchievementContext(a *Activity, totalXP int) AchievementContext {
	return AchievementContext{
		TestsCompleted:     a.TestsCompleted,
		PerfectScores:      a.PerfectScores,
		CodingSolved:       a.CodingSolved,
		CurrentStreak:      a.ActiveDays,
		TotalXP:            totalXP,
		FastestTestSeconds: a.FastestTestSeconds,
		HasEarlyTest:       a.HasEarlyTest,
		HasLateTest:        a.HasLateTest,
		TopicHighScores:    a.TopicHighScores,
	}
}

type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	XPBonus     int    `json:"xpBonus"`

	earned func(AchievementContext) bool
}

// Earned reports whether c satisfies the achievement.
func (a Achievement) Earned(c AchievementContext) bool {
	return a.earned(c)
}

var registry = []Achievement{
	{
		ID: "first_test", Name: "First Steps", Description: "Complete your first test", XPBonus: 50,
		earned: func(c AchievementContext) bool { return c.TestsCompleted >= 1 },
	},
	{
		ID: "perfect_score", Name: "Perfectionist", Description: "Score 100% on any test", XPBonus: 100,
		earned: func(c AchievementContext) bool { return c.PerfectScores >= 1 },
	},
	{
		ID: "week_streak", Name: "Dedicated Learner", Description: "Practice for 7 consecutive days", XPBonus: 200,
		earned: func(c AchievementContext) bool { return c.CurrentStreak >= StreakWindowDays },
	},
	{
		ID: "speed_demon", Name: "Speed Demon", Description: "Complete a test in under 10 minutes", XPBonus: 75,
		earned: func(c AchievementContext) bool {
			return c.FastestTestSeconds > 0 && c.FastestTestSeconds < speedDemonSeconds
		},
	},
	{
		ID: "topic_master", Name: "Topic Master", Description: "Score 80%+ on 3 tests in the same topic", XPBonus: 150,
		earned: func(c AchievementContext) bool {
			for _, n := range c.TopicHighScores {
				if n >= 3 {
					return true
				}
			}
			return false
		},
	},
	{
		ID: "coding_ninja", Name: "Coding Ninja", Description: "Solve 5 coding problems", XPBonus: 250,
		earned: func(c AchievementContext) bool { return c.CodingSolved >= 5 },
	},
	{
		ID: "early_bird", Name: "Early Bird", Description: "Complete a test before 8 AM", XPBonus: 50,
		earned: func(c AchievementContext) bool { return c.HasEarlyTest },
	},
	{
		ID: "night_owl", Name: "Night Owl", Description: "Complete a test after 10 PM", XPBonus: 50,
		earned: func(c AchievementContext) bool { return c.HasLateTest },
	},
	{
		ID: "century_club", Name: "Century Club", Description: "Earn 1000 total XP", XPBonus: 100,
		earned: func(c AchievementContext) bool { return c.TotalXP >= 1000 },
	},
	{
		ID: "consistency_king", Name: "Consistency King", Description: "Complete 10 tests", XPBonus: 300,
		earned: func(c AchievementContext) bool { return c.TestsCompleted >= 10 },
	},
}

// Achievements lists the registry in evaluation order.
func Achievements() []Achievement {
	return append([]Achievement(nil), registry...)
}
