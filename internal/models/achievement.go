package models

import "time"

type Achievement struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Threshold int        `json:"threshold"` // required streak in days
	EarnedAt  *time.Time `json:"earned_at,omitempty"`
}

func (a Achievement) Earned() bool {
	return a.EarnedAt != nil
}

// DefaultAchievements returns a fresh copy of the badge catalog.
func DefaultAchievements() []Achievement {
	return []Achievement{
		{ID: "streak_3", Title: "3-day streak", Threshold: 3},
		{ID: "streak_7", Title: "7-day streak", Threshold: 7},
		{ID: "streak_30", Title: "30-day streak", Threshold: 30},
	}
}
