package model

import "time"

/*

Like is a user's like on a freet or a comment

Id: primary key
UserId: user who liked
ParentId: liked freet or comment
CreatedAt: time when relation is created

*/

type Like struct {
	Id        string `gorm:"primaryKey"`
	UserId    string `gorm:"index"`
	ParentId  string `gorm:"index"`
	CreatedAt time.Time
}
