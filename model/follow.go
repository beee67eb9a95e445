package model

import "time"

/*

Follow is a directed edge of the follow graph

Id: primary key
SrcUserId: follower
DstUserId: followed user
CreatedAt: time when relation is created

At most one edge exists per (SrcUserId, DstUserId) pair and SrcUserId never equals
DstUserId. Both rules are enforced by callers, not by the table.

*/

type Follow struct {
	Id        string `gorm:"primaryKey"`
	SrcUserId string `gorm:"index"`
	DstUserId string `gorm:"index"`
	CreatedAt time.Time
}
