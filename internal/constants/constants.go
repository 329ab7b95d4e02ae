package constants

import "time"

const (
	AppName            = "steadiness"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/steadiness/steadiness.db"
	Version            = "v0.1.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Document keys. Each key is persisted as one whole serialized collection.
	DocHabits       = "habits"
	DocRecords      = "records"
	DocAchievements = "achievements"
	DocNotes        = "notes"
	DocSettings     = "settings"
	DocReminders    = "reminders"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "steadiness-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "steadiness-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.steadiness"
	TrayProcessName        = "steadiness-tray"
	NotifySecretHeader     = "X-Steadiness-Secret"
	NotificationTitle      = "꾸준앱"
	NotificationBodyFormat = "%s 시간이에요"

	// Reminder identifiers are "reminder.<habitID>.<weekday>"
	ReminderIDPrefix = "reminder"

	// Deep link constants
	DeepLinkScheme  = "kkujun"
	DeepLinkWebHost = "kkujune.app"

	// Heatmap levels
	HeatmapLevels = 5

	// Default habit values
	DefaultDurationMin = 5
)

// Setting keys, also used as STEADINESS_* environment overrides.
const (
	SettingTimezone             = "timezone"
	SettingFirstWeekday         = "first_weekday"
	SettingMinDaysInFirstWeek   = "min_days_in_first_week"
	SettingNotificationsEnabled = "notifications_enabled"
	SettingDefaultReminderTime  = "default_reminder_time"

	// Default Settings Values
	DefaultTimezone             = "Local" // Use system local timezone by default
	DefaultFirstWeekday         = 1       // Sunday, 1-based like the Weekday model
	DefaultMinDaysInFirstWeek   = 1
	DefaultNotificationsEnabled = true
	DefaultReminderTime         = "20:00"
)
