package domain

import "time"

// UserProfile holds the display identity collected on first contact.
type UserProfile struct {
	UserID      int64
	DisplayName string
	Tag         string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Complete reports whether the profile has been fully collected.
func (p *UserProfile) Complete() bool {
	return p.DisplayName != "" && p.Tag != ""
}
