package model

import (
	"time"
)

/*

Contest is an adversarial adjustment of a CredibilityScore

Id: primary key
ScoreId: contested score
InFavor: true raises the score, false lowers it
Sources: evidence backing the contest
Delta: signed amount added to the score when the contest was filed

Contests are immutable, they are only ever deleted together with their score.

*/

type Contest struct {
	Id        string `gorm:"primaryKey"`
	CreatedAt time.Time
	ScoreId   string `gorm:"index"`
	InFavor   bool
	Sources   StringList
	Delta     float64
}
