package filtering

import "github.com/rnr-capital/fritter-backend/model"

// HighScoreThreshold is the lowest value classified as High.
const HighScoreThreshold = 3.5

type Bucket int

const (
	Unscored Bucket = iota
	High
	Low
)

func (b Bucket) String() string {
	switch b {
	case Unscored:
		return "unscored"
	case High:
		return "high"
	case Low:
		return "low"
	}
	return "unknown"
}

// Classify maps a score to its bucket. A nil score is Unscored. Values that
// drifted below zero are Low, values above 5 are High.
func Classify(score *model.CredibilityScore) Bucket {
	if score == nil {
		return Unscored
	}
	if score.Value >= HighScoreThreshold {
		return High
	}
	return Low
}

func IsVisible(filter *model.CredibilityFilter, bucket Bucket) bool {
	switch bucket {
	case Unscored:
		return filter.UnscoredFreets
	case High:
		return filter.HighScoredFreets
	case Low:
		return filter.LowScoredFreets
	}
	return false
}
