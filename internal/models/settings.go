package models

// Settings represents application-wide settings
type Settings struct {
	Timezone             string `json:"timezone"`               // IANA timezone name or "Local"
	FirstWeekday         int    `json:"first_weekday"`          // 1=Sunday ... 7=Saturday, used for week-of-year
	MinDaysInFirstWeek   int    `json:"min_days_in_first_week"` // 1 for US-style weeks, 4 for ISO 8601
	NotificationsEnabled bool   `json:"notifications_enabled"`  // whether reminders fire
	DefaultReminderTime  string `json:"default_reminder_time"`  // HH:MM used when a reminder is enabled without a time
}
