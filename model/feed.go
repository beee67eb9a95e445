package model

import (
	"time"
)

/*

Feed is the materialized feed of one viewer

Id: primary key
ViewerId: owner, one feed per user
FilterId: CredibilityFilter applied when materializing
FreetIds: visible root freet ids, newest first, fully rebuilt on every refresh
RefreshedAt: time of the last materialization, zero if never materialized

*/

type Feed struct {
	Id          string `gorm:"primaryKey"`
	ViewerId    string `gorm:"uniqueIndex"`
	FilterId    string
	FreetIds    StringList
	RefreshedAt time.Time
}
