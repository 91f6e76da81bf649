package models

// Settings represents the local pairing identity and reveal tuning
type Settings struct {
	UserID           string `json:"user_id"`            // the local writer
	PartnerID        string `json:"partner_id"`         // the paired writer whose entries are revealed
	Timezone         string `json:"timezone"`           // IANA timezone name (e.g. "America/New_York", or "Local" for system timezone)
	StepSeconds      int    `json:"step_seconds"`       // reveal step budget in seconds
	RevealWindowDays int    `json:"reveal_window_days"` // how many trailing days a reveal covers
	RevealHour       int    `json:"reveal_hour"`        // hour shown as reveal time on unlock day (display only)
}
