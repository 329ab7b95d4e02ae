package models

import (
	"fmt"
	"strconv"

	"github.com/julianstephens/steadiness/internal/constants"
)

// DefaultSettings returns the settings used before anything is persisted.
func DefaultSettings() Settings {
	return Settings{
		Timezone:             constants.DefaultTimezone,
		FirstWeekday:         constants.DefaultFirstWeekday,
		MinDaysInFirstWeek:   constants.DefaultMinDaysInFirstWeek,
		NotificationsEnabled: constants.DefaultNotificationsEnabled,
		DefaultReminderTime:  constants.DefaultReminderTime,
	}
}

// MapToSettings applies key-value pairs on top of base. Unknown keys are rejected.
func MapToSettings(base Settings, data map[string]string) (Settings, error) {
	settings := base

	for key, value := range data {
		switch key {
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingFirstWeekday:
			n, err := strconv.Atoi(value)
			if err != nil || !Weekday(n).Valid() {
				return Settings{}, fmt.Errorf("parsing first_weekday: expected 1-7, got %q", value)
			}
			settings.FirstWeekday = n
		case constants.SettingMinDaysInFirstWeek:
			n, err := strconv.Atoi(value)
			if err != nil || n < 1 || n > 7 {
				return Settings{}, fmt.Errorf("parsing min_days_in_first_week: expected 1-7, got %q", value)
			}
			settings.MinDaysInFirstWeek = n
		case constants.SettingNotificationsEnabled:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing notifications_enabled: %w", err)
			}
			settings.NotificationsEnabled = b
		case constants.SettingDefaultReminderTime:
			settings.DefaultReminderTime = value
		default:
			return Settings{}, fmt.Errorf("unknown setting: %s", key)
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingTimezone:             settings.Timezone,
		constants.SettingFirstWeekday:         strconv.Itoa(settings.FirstWeekday),
		constants.SettingMinDaysInFirstWeek:   strconv.Itoa(settings.MinDaysInFirstWeek),
		constants.SettingNotificationsEnabled: strconv.FormatBool(settings.NotificationsEnabled),
		constants.SettingDefaultReminderTime:  settings.DefaultReminderTime,
	}
}

// SettingKeys lists every recognised setting key.
func SettingKeys() []string {
	return []string{
		constants.SettingTimezone,
		constants.SettingFirstWeekday,
		constants.SettingMinDaysInFirstWeek,
		constants.SettingNotificationsEnabled,
		constants.SettingDefaultReminderTime,
	}
}
