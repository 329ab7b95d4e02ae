package models

import "time"

// CompletionRecord marks one habit done or not done on one day.
// At most one record exists per (HabitID, Day).
type CompletionRecord struct {
	ID        string    `json:"id"`
	HabitID   string    `json:"habit_id"`
	Day       time.Time `json:"day"` // normalized to local midnight
	Completed bool      `json:"completed"`
	Minutes   int       `json:"minutes"`
	Note      *string   `json:"note,omitempty"`
}

// DayNote is free text keyed by day and optional habit. An empty HabitID is a day-level note.
type DayNote struct {
	ID      string    `json:"id"`
	Day     time.Time `json:"day"`
	HabitID string    `json:"habit_id,omitempty"`
	Text    string    `json:"text"`
}
