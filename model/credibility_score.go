package model

import (
	"time"
)

/*

CredibilityScore is the trust value attached to one freet

Id: primary key
ParentId: scored freet, one score per freet
Sources: evidence submitted when the freet was created
Value: starts at min(len(Sources)*4/5, 5) and is moved by contests without clamping,
	so it can leave [0, 5]

*/

type CredibilityScore struct {
	Id        string    `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"<-:create"`
	ParentId  string    `gorm:"uniqueIndex"`
	Sources   StringList
	Value     float64
}
