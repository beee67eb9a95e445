// Package integrity keeps both sides of every reference in the content graph in
// step: parent to child refs, user to record refs, and the cascades that remove
// a freet or a user with everything that only exists because of it.
package integrity

import (
	"context"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/pkg/errors"
	"github.com/rnr-capital/fritter-backend/credibility"
	"github.com/rnr-capital/fritter-backend/graph"
	"github.com/rnr-capital/fritter-backend/model"
	"github.com/rnr-capital/fritter-backend/store"
)

// FeedCacheInvalidator drops a cached materialized feed.
type FeedCacheInvalidator interface {
	InvalidateFeedContent(ctx context.Context, viewerId string) error
}

type Manager struct {
	store   store.Store
	index   *graph.Index
	engine  *credibility.Engine
	cache   FeedCacheInvalidator
	metrics statsd.ClientInterface
}

// NewManager builds a manager. cache and metrics may be nil.
func NewManager(s store.Store, index *graph.Index, engine *credibility.Engine, cache FeedCacheInvalidator, metrics statsd.ClientInterface) *Manager {
	if metrics == nil {
		metrics = &statsd.NoOpClient{}
	}
	return &Manager{
		store:   s,
		index:   index,
		engine:  engine,
		cache:   cache,
		metrics: metrics,
	}
}

// AttachChild records childId under parentId. The parent may be a root freet
// or a comment and must exist. Attaching twice keeps a single entry.
func (m *Manager) AttachChild(ctx context.Context, parentId, childId string, kind model.ChildKind) error {
	if !kind.IsValid() {
		return errors.Wrapf(model.ErrInvalidKind, "%q", kind)
	}
	if _, err := m.store.GetFreet(ctx, parentId); err != nil {
		return errors.Wrapf(err, "fail to attach %s %s", kind, childId)
	}
	return m.store.AddChildRef(ctx, parentId, childId, kind)
}

// DetachChild removes exactly childId from parentId's kind children. A missing
// entry is not an error.
func (m *Manager) DetachChild(ctx context.Context, parentId, childId string, kind model.ChildKind) error {
	if !kind.IsValid() {
		return errors.Wrapf(model.ErrInvalidKind, "%q", kind)
	}
	return m.store.RemoveChildRef(ctx, parentId, childId, kind)
}

func (m *Manager) AttachUserRef(ctx context.Context, userId, refId string, kind model.UserRefKind) error {
	return m.store.AddUserRef(ctx, userId, refId, kind)
}

func (m *Manager) DetachUserRef(ctx context.Context, userId, refId string, kind model.UserRefKind) error {
	return m.store.RemoveUserRef(ctx, userId, refId, kind)
}

// RegisterFreet indexes a freshly stored freet under its author, and under its
// parent when it is a comment.
func (m *Manager) RegisterFreet(ctx context.Context, freet *model.Freet) error {
	if freet.IsComment() {
		if err := m.AttachChild(ctx, freet.ParentId, freet.Id, model.ChildKindComment); err != nil {
			return err
		}
		return m.AttachUserRef(ctx, freet.AuthorId, freet.Id, model.UserRefKindComment)
	}
	return m.AttachUserRef(ctx, freet.AuthorId, freet.Id, model.UserRefKindFreet)
}

func (m *Manager) RegisterLike(ctx context.Context, like *model.Like) error {
	if err := m.AttachChild(ctx, like.ParentId, like.Id, model.ChildKindLike); err != nil {
		return err
	}
	return m.AttachUserRef(ctx, like.UserId, like.Id, model.UserRefKindLike)
}

func (m *Manager) RegisterRefreet(ctx context.Context, refreet *model.Refreet) error {
	return m.AttachChild(ctx, refreet.ParentId, refreet.Id, model.ChildKindRefreet)
}

func (m *Manager) RegisterFollow(ctx context.Context, follow *model.Follow) error {
	if err := m.AttachUserRef(ctx, follow.SrcUserId, follow.Id, model.UserRefKindFollowing); err != nil {
		return err
	}
	return m.AttachUserRef(ctx, follow.DstUserId, follow.Id, model.UserRefKindFollower)
}

// DeleteLike removes a like and both of its references. Missing likes are a
// no-op.
func (m *Manager) DeleteLike(ctx context.Context, likeId string) error {
	like, err := m.store.GetLike(ctx, likeId)
	if errors.Is(err, model.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := m.store.RemoveChildRef(ctx, like.ParentId, like.Id, model.ChildKindLike); err != nil {
		return err
	}
	if err := m.store.RemoveUserRef(ctx, like.UserId, like.Id, model.UserRefKindLike); err != nil {
		return err
	}
	return m.store.DeleteLike(ctx, like.Id)
}

func (m *Manager) DeleteRefreet(ctx context.Context, refreetId string) error {
	refreet, err := m.store.GetRefreet(ctx, refreetId)
	if errors.Is(err, model.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := m.store.RemoveChildRef(ctx, refreet.ParentId, refreet.Id, model.ChildKindRefreet); err != nil {
		return err
	}
	return m.store.DeleteRefreet(ctx, refreet.Id)
}

func (m *Manager) DeleteFollow(ctx context.Context, followId string) error {
	follow, err := m.store.GetFollow(ctx, followId)
	if errors.Is(err, model.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := m.store.RemoveUserRef(ctx, follow.SrcUserId, follow.Id, model.UserRefKindFollowing); err != nil {
		return err
	}
	if err := m.store.RemoveUserRef(ctx, follow.DstUserId, follow.Id, model.UserRefKindFollower); err != nil {
		return err
	}
	return m.store.DeleteFollow(ctx, follow.Id)
}
