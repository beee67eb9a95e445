package model

import "time"

/*

Refreet is a user re-sharing a root freet

Id: primary key
UserId: user who re-shared
ParentId: re-shared root freet
CreatedAt: time when relation is created

*/

type Refreet struct {
	Id        string `gorm:"primaryKey"`
	UserId    string `gorm:"index"`
	ParentId  string `gorm:"index"`
	CreatedAt time.Time
}
