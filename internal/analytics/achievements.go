package analytics

import (
	"time"

	"github.com/julianstephens/steadiness/internal/models"
)

// CheckAchievements stamps EarnedAt=now on every unearned achievement whose
// threshold is within the current streak at ref. Earned achievements are never
// cleared. It returns the achievements earned by this call.
func (e *Engine) CheckAchievements(achievements []models.Achievement, ref, now time.Time) []models.Achievement {
	streak := e.CurrentStreak(ref)
	var earned []models.Achievement
	for i := range achievements {
		a := &achievements[i]
		if a.EarnedAt != nil || a.Threshold > streak {
			continue
		}
		at := now
		a.EarnedAt = &at
		earned = append(earned, *a)
	}
	return earned
}
