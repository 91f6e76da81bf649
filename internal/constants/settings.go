package constants

const (
	SettingUserID           = "user_id"
	SettingPartnerID        = "partner_id"
	SettingTimezone         = "timezone"
	SettingStepSeconds      = "step_seconds"
	SettingRevealWindowDays = "reveal_window_days"
	SettingRevealHour       = "reveal_hour"

	DefaultTimezone    = "Local" // Use system local timezone by default
	DefaultStepSeconds = 15
)
