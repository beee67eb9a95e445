package model

import (
	"time"
)

type ChildKind string

const (
	ChildKindLike    ChildKind = "LIKE"
	ChildKindComment ChildKind = "COMMENT"
	ChildKindRefreet ChildKind = "REFREET"
)

func (k ChildKind) IsValid() bool {
	switch k {
	case ChildKindLike, ChildKindComment, ChildKindRefreet:
		return true
	}
	return false
}

func (k ChildKind) String() string { return string(k) }

/*

ChildRef is a "one-to-many" index row from a freet (root or comment) to a record
that exists because of it.

ParentId: freet id
ChildId: like id, comment (freet) id or refreet id
Kind: which of the three the child is
CreatedAt: time when relation is created, children are listed in this order

The composite primary key makes attaching the same child twice a no-op.

*/

type ChildRef struct {
	ParentId  string    `gorm:"primaryKey"`
	Kind      ChildKind `gorm:"primaryKey"`
	ChildId   string    `gorm:"primaryKey"`
	CreatedAt time.Time
}
