package model

import (
	"time"
)

/*

Freet is a data model for a piece of content, either a root post or a comment.

Id: primary key, use to identify a freet
CreatedAt: time when entity is created
AuthorId: user who wrote it
ParentId: empty for a root post, otherwise the freet (root or comment) this
	comment replies to
Content: body text
CredibilityScoreId: id of the CredibilityScore attached to this freet, empty when
	the freet was never scored
ThreadId: Thread this root freet was posted in, empty otherwise

Likes, comments and refreets pointing at a freet are not stored on the row, they
live in the ChildRef index keyed by the freet id.

*/

type Freet struct {
	Id                 string    `gorm:"primaryKey"`
	CreatedAt          time.Time `gorm:"<-:create;index"`
	AuthorId           string    `gorm:"index"`
	ParentId           string    `gorm:"index"`
	Content            string
	CredibilityScoreId string
	ThreadId           string `gorm:"index"`
}

func (f Freet) IsComment() bool { return f.ParentId != "" }

func (f Freet) IsScored() bool { return f.CredibilityScoreId != "" }
