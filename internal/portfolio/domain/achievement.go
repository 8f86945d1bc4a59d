package domain

import "time"

// Achievement is an owned record of a certification, award or milestone.
type Achievement struct {
	ID              string
	OwnerID         string
	Title           string
	Description     string
	Date            string // free-form display date, as entered by the owner
	CertificateLink string
	CreatedAt       time.Time
}

// AchievementUpdate carries a partial update. Nil fields are left untouched.
type AchievementUpdate struct {
	Title           *string
	Description     *string
	Date            *string
	CertificateLink *string
}
