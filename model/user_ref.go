package model

import (
	"time"
)

type UserRefKind string

const (
	UserRefKindFreet     UserRefKind = "FREET"
	UserRefKindLike      UserRefKind = "LIKE"
	UserRefKindComment   UserRefKind = "COMMENT"
	UserRefKindFollower  UserRefKind = "FOLLOWER"
	UserRefKindFollowing UserRefKind = "FOLLOWING"
)

func (k UserRefKind) String() string { return string(k) }

/*

UserRef is a "one-to-many" index row from a user to a record that user owns or
takes part in.

UserId: user id
Kind: FREET, LIKE and COMMENT point at records the user authored; FOLLOWER and
	FOLLOWING point at Follow edges where the user is the destination or the source
RefId: freet, like, comment or follow id
CreatedAt: time when relation is created

*/

type UserRef struct {
	UserId    string      `gorm:"primaryKey"`
	Kind      UserRefKind `gorm:"primaryKey"`
	RefId     string      `gorm:"primaryKey"`
	CreatedAt time.Time
}
