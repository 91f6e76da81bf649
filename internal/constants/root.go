package constants

import "time"

const (
	AppName            = "duet"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/duet/duet.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "duet-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifierLockfileName   = "duet-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.duet"
	TrayAppExecutable      = "duet-tray"

	// UnlockWeekday is the weekday on which regular entries become visible.
	UnlockWeekday = time.Sunday

	// RevealWindowDays is how far back a reveal session reaches for entries.
	// It shares a period with the unlock cadence but is configured separately.
	RevealWindowDays = 7

	// RevealHour is the hour shown to users as "reveal time" on unlock day.
	// Display only; entry visibility is decided by calendar date.
	RevealHour = 10

	// StepBudget is the time each reveal step is shown before auto-advancing.
	StepBudget = 15 * time.Second

	// TickInterval drives reveal progress bars.
	TickInterval = 50 * time.Millisecond

	// WeeklyGoalDays is the number of days per week with an entry that
	// counts as meeting the weekly goal.
	WeeklyGoalDays = 5
)

// ThemeUnlock ties a cosmetic theme to the streak length that unlocks it.
type ThemeUnlock struct {
	Streak int
	Theme  string
}

// ThemeUnlocks is ordered by streak length.
var ThemeUnlocks = []ThemeUnlock{
	{Streak: 3, Theme: "blush"},
	{Streak: 7, Theme: "sunset"},
	{Streak: 14, Theme: "lavender"},
	{Streak: 30, Theme: "midnight"},
}
