package credibility

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rnr-capital/fritter-backend/model"
	"github.com/rnr-capital/fritter-backend/store"
	Logger "github.com/rnr-capital/fritter-backend/utils/log"
	"gonum.org/v1/gonum/stat"
)

// UserAverage returns the mean score value over the scored root freets of
// userId, or nil when none of them is scored. Scores that vanished since the
// freet was read are skipped.
func UserAverage(ctx context.Context, s store.Store, userId string) (*float64, error) {
	freets, err := s.ListRootFreetsByAuthor(ctx, userId)
	if err != nil {
		return nil, err
	}
	values := []float64{}
	for _, freet := range freets {
		if !freet.IsScored() {
			continue
		}
		score, err := s.GetScore(ctx, freet.CredibilityScoreId)
		if errors.Is(err, model.ErrNotFound) {
			Logger.LogV2.Warnf("freet %s points at missing score %s", freet.Id, freet.CredibilityScoreId)
			continue
		}
		if err != nil {
			return nil, err
		}
		values = append(values, score.Value)
	}
	if len(values) == 0 {
		return nil, nil
	}
	mean := stat.Mean(values, nil)
	return &mean, nil
}
