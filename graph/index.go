// Package graph answers read-side questions about the content graph: what a
// user contributed, which children hang off an item, which root freets exist.
package graph

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rnr-capital/fritter-backend/model"
	"github.com/rnr-capital/fritter-backend/store"
)

type Index struct {
	store store.Store
}

func NewIndex(s store.Store) *Index {
	return &Index{store: s}
}

// FollowedUserIds returns the users viewerId follows, in follow order.
func (i *Index) FollowedUserIds(ctx context.Context, viewerId string) ([]string, error) {
	follows, err := i.store.ListFollowing(ctx, viewerId)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(follows))
	for _, follow := range follows {
		ids = append(ids, follow.DstUserId)
	}
	return ids, nil
}

func (i *Index) FollowerUserIds(ctx context.Context, userId string) ([]string, error) {
	follows, err := i.store.ListFollowers(ctx, userId)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(follows))
	for _, follow := range follows {
		ids = append(ids, follow.SrcUserId)
	}
	return ids, nil
}

func (i *Index) RootsByAuthor(ctx context.Context, userId string) ([]string, error) {
	freets, err := i.store.ListRootFreetsByAuthor(ctx, userId)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(freets))
	for _, freet := range freets {
		ids = append(ids, freet.Id)
	}
	return ids, nil
}

// RefreetTargetsByUser returns the ids of the freets userId refreeted, not the
// refreet ids.
func (i *Index) RefreetTargetsByUser(ctx context.Context, userId string) ([]string, error) {
	refreets, err := i.store.ListRefreetsByUser(ctx, userId)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(refreets))
	for _, refreet := range refreets {
		ids = append(ids, refreet.ParentId)
	}
	return ids, nil
}

// CommentTargetsByUser returns the parent ids of every comment userId wrote.
// A reply to a comment yields the comment id.
func (i *Index) CommentTargetsByUser(ctx context.Context, userId string) ([]string, error) {
	comments, err := i.store.ListCommentsByAuthor(ctx, userId)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(comments))
	for _, comment := range comments {
		ids = append(ids, comment.ParentId)
	}
	return ids, nil
}

// Contributions is everything userId brings into a follower's feed: authored
// root freets, then refreet targets, then comment targets. Ids reachable more
// than once are kept at their first position.
func (i *Index) Contributions(ctx context.Context, userId string) ([]string, error) {
	roots, err := i.RootsByAuthor(ctx, userId)
	if err != nil {
		return nil, errors.Wrapf(err, "fail to collect freets of %s", userId)
	}
	refreeted, err := i.RefreetTargetsByUser(ctx, userId)
	if err != nil {
		return nil, errors.Wrapf(err, "fail to collect refreets of %s", userId)
	}
	commented, err := i.CommentTargetsByUser(ctx, userId)
	if err != nil {
		return nil, errors.Wrapf(err, "fail to collect comments of %s", userId)
	}

	seen := map[string]bool{}
	res := []string{}
	for _, ids := range [][]string{roots, refreeted, commented} {
		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			res = append(res, id)
		}
	}
	return res, nil
}

// Children returns the ids attached under parentId for kind, oldest first.
func (i *Index) Children(ctx context.Context, parentId string, kind model.ChildKind) ([]string, error) {
	if !kind.IsValid() {
		return nil, errors.Wrapf(model.ErrInvalidKind, "%q", kind)
	}
	return i.store.ListChildIds(ctx, parentId, kind)
}

func (i *Index) Comments(ctx context.Context, parentId string) ([]string, error) {
	return i.Children(ctx, parentId, model.ChildKindComment)
}

func (i *Index) Likes(ctx context.Context, parentId string) ([]string, error) {
	return i.Children(ctx, parentId, model.ChildKindLike)
}

func (i *Index) Refreets(ctx context.Context, parentId string) ([]string, error) {
	return i.Children(ctx, parentId, model.ChildKindRefreet)
}

// UserRefs is the back-reference set of userId for kind, oldest first.
func (i *Index) UserRefs(ctx context.Context, userId string, kind model.UserRefKind) ([]string, error) {
	return i.store.ListUserRefIds(ctx, userId, kind)
}

// Universe returns every root freet id, newest first. It is the order feeds
// are materialized in.
func (i *Index) Universe(ctx context.Context) ([]string, error) {
	return i.store.ListRootFreetIds(ctx)
}
