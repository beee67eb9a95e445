package credibility

import (
	"context"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rnr-capital/fritter-backend/model"
	"github.com/rnr-capital/fritter-backend/store"
	"github.com/rnr-capital/fritter-backend/utils"
	Logger "github.com/rnr-capital/fritter-backend/utils/log"
	"github.com/sirupsen/logrus"
)

// Delta is the signed adjustment a contest applies: the evidence value of its
// sources, negated when the contest is against the score.
func Delta(inFavor bool, sources []string) float64 {
	delta := InitialValue(sources)
	if !inFavor {
		delta *= -1
	}
	return delta
}

// Ledger records contests. It does not know who authored the contested freet,
// refusing self contests is up to the caller.
type Ledger struct {
	store   store.Store
	metrics statsd.ClientInterface
}

func NewLedger(s store.Store, metrics statsd.ClientInterface) *Ledger {
	if metrics == nil {
		metrics = &statsd.NoOpClient{}
	}
	return &Ledger{store: s, metrics: metrics}
}

// FileContest applies the contest delta to the target score and records the
// contest. The value is not clamped, repeated contests can push it outside
// [0, 5]. A missing score fails before anything is written.
func (l *Ledger) FileContest(ctx context.Context, targetScoreId string, inFavor bool, sources []string) (*model.Contest, error) {
	contest := &model.Contest{
		Id:      uuid.New().String(),
		ScoreId: targetScoreId,
		InFavor: inFavor,
		Sources: model.StringList(append([]string{}, sources...)),
		Delta:   Delta(inFavor, sources),
	}
	err := l.store.Transaction(ctx, func(tx store.Store) error {
		if _, err := tx.GetScore(ctx, targetScoreId); err != nil {
			return err
		}
		if err := tx.AddScoreDelta(ctx, targetScoreId, contest.Delta); err != nil {
			return err
		}
		return tx.CreateContest(ctx, contest)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "fail to contest score %s", targetScoreId)
	}
	l.metrics.Incr(utils.MetricContestFiled, []string{"in_favor:" + boolTag(inFavor)}, 1)
	Logger.LogV2.WithFields(logrus.Fields{
		"score_id":   targetScoreId,
		"contest_id": contest.Id,
		"delta":      contest.Delta,
	}).Debug("contest filed")
	return contest, nil
}

func (l *Ledger) ListByTarget(ctx context.Context, targetScoreId string) ([]*model.Contest, error) {
	return l.store.ListContestsByScore(ctx, targetScoreId)
}

// RetractAll deletes every contest against targetScoreId. The deltas stay
// applied, it is only used when the score itself goes away.
func (l *Ledger) RetractAll(ctx context.Context, targetScoreId string) error {
	contests, err := l.store.ListContestsByScore(ctx, targetScoreId)
	if err != nil {
		return err
	}
	for _, contest := range contests {
		if err := l.store.DeleteContest(ctx, contest.Id); err != nil {
			return err
		}
	}
	return nil
}

func boolTag(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
