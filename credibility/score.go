// Package credibility derives and mutates the trust score of freets: the score
// engine creates scores from evidence, the ledger files contests against them.
package credibility

import (
	"context"
	"math"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rnr-capital/fritter-backend/model"
	"github.com/rnr-capital/fritter-backend/store"
	"github.com/rnr-capital/fritter-backend/utils"
	Logger "github.com/rnr-capital/fritter-backend/utils/log"
	"github.com/sirupsen/logrus"
)

const (
	MaxEvidenceValue = 5.0
)

// InitialValue is the value of a score backed by sources: 0.8 per source,
// capped at 5. No source gives 0, which is still a score.
func InitialValue(sources []string) float64 {
	return math.Min(float64(len(sources))*4/5, MaxEvidenceValue)
}

type Engine struct {
	store   store.Store
	ledger  *Ledger
	metrics statsd.ClientInterface
}

func NewEngine(s store.Store, ledger *Ledger, metrics statsd.ClientInterface) *Engine {
	if metrics == nil {
		metrics = &statsd.NoOpClient{}
	}
	return &Engine{store: s, ledger: ledger, metrics: metrics}
}

func (e *Engine) ComputeInitial(sources []string) float64 {
	return InitialValue(sources)
}

// Attach creates a score for contentId from sources and links it to the
// freet. A freet holds at most one score.
func (e *Engine) Attach(ctx context.Context, contentId string, sources []string) (*model.CredibilityScore, error) {
	score := &model.CredibilityScore{
		Id:       uuid.New().String(),
		ParentId: contentId,
		Sources:  model.StringList(append([]string{}, sources...)),
		Value:    InitialValue(sources),
	}
	err := e.store.Transaction(ctx, func(tx store.Store) error {
		freet, err := tx.GetFreet(ctx, contentId)
		if err != nil {
			return err
		}
		if freet.IsScored() {
			return errors.Wrapf(model.ErrAlreadyScored, "freet %s has score %s", contentId, freet.CredibilityScoreId)
		}
		if err := tx.CreateScore(ctx, score); err != nil {
			return err
		}
		return tx.SetFreetScore(ctx, contentId, score.Id)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "fail to score freet %s", contentId)
	}
	e.metrics.Incr(utils.MetricScoreCreated, nil, 1)
	Logger.LogV2.WithFields(logrus.Fields{
		"freet_id": contentId,
		"score_id": score.Id,
		"value":    score.Value,
	}).Debug("score attached")
	return score, nil
}

func (e *Engine) Get(ctx context.Context, scoreId string) (*model.CredibilityScore, error) {
	return e.store.GetScore(ctx, scoreId)
}

func (e *Engine) GetByContent(ctx context.Context, contentId string) (*model.CredibilityScore, error) {
	return e.store.GetScoreByParent(ctx, contentId)
}

// Delete removes a score together with every contest filed against it.
// Deleting a missing score is a no-op.
func (e *Engine) Delete(ctx context.Context, scoreId string) error {
	if err := e.ledger.RetractAll(ctx, scoreId); err != nil {
		return err
	}
	return e.store.DeleteScore(ctx, scoreId)
}
