package store

import "github.com/julianstephens/steadiness/internal/models"

// SampleHabits are offered by `init --seed` so a new user sees a populated list.
func SampleHabits() []models.Habit {
	return []models.Habit{
		{
			Title:       "Read 10 minutes",
			DurationMin: 10,
			Recurrence:  models.Daily(),
			PeriodType:  models.PeriodMonthly,
			IsActive:    true,
		},
		{
			Title:        "Stretch 3 minutes",
			DurationMin:  3,
			Recurrence:   models.DaysPerWeek(5),
			ScheduleDays: models.NewWeekdaySet(models.Monday, models.Tuesday, models.Wednesday, models.Thursday, models.Friday),
			PeriodType:   models.PeriodQuarter,
			IsActive:     true,
		},
	}
}

// Seed adds the sample habits when the store has none. It reports how many were added.
func (s *Store) Seed() (int, error) {
	if len(s.habits) > 0 {
		return 0, nil
	}
	added := 0
	for _, h := range SampleHabits() {
		if _, err := s.AddHabit(h); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}
