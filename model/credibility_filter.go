package model

/*

CredibilityFilter is the per-feed policy selecting which score buckets are visible

Id: primary key
FeedId: owning feed, one filter per feed
UnscoredFreets: show freets without a score
HighScoredFreets: show freets whose score value is >= 3.5
LowScoredFreets: show freets whose score value is < 3.5

*/

type CredibilityFilter struct {
	Id               string `gorm:"primaryKey"`
	FeedId           string `gorm:"uniqueIndex"`
	UnscoredFreets   bool
	HighScoredFreets bool
	LowScoredFreets  bool
}
