package model

import (
	"time"
)

/*

Thread is an ordered series of root freets posted together by one author

Id: primary key
CreatedAt: time when entity is created
AuthorId: user who posted the thread
FreetIds: member freets in posting order, each member carries ThreadId

A member deleted on its own is dropped from FreetIds, the thread goes away
with its last member.

*/

type Thread struct {
	Id        string    `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"<-:create;index"`
	AuthorId  string    `gorm:"index"`
	FreetIds  StringList
}
