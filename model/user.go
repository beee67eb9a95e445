package model

import (
	"time"
)

/*

User is a data model for a fritter user

Id: primary key, use to identify a user
CreatedAt: time when entity is created

Username: display handle, unique regardless of case
CredibilityEnabled: whether the user opted in to show an aggregated credibility
CredibilityScore: mean value of all scored freets authored by the user, nil when
	disabled or when the user has no scored freet

*/

type User struct {
	Id                 string `gorm:"primaryKey"`
	CreatedAt          time.Time
	Username           string `gorm:"index"`
	CredibilityEnabled bool   `gorm:"default:false"`
	CredibilityScore   *float64
}

// HasCredibility reports whether an aggregated credibility is shown for u.
func (u User) HasCredibility() bool {
	return u.CredibilityEnabled && u.CredibilityScore != nil
}
