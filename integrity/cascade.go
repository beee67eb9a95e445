package integrity

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rnr-capital/fritter-backend/model"
	"github.com/rnr-capital/fritter-backend/utils"
	Logger "github.com/rnr-capital/fritter-backend/utils/log"
	"github.com/sirupsen/logrus"
)

type cascadeFrame struct {
	freetId  string
	expanded bool
}

// CascadeDelete removes freetId and its whole comment tree. Comments are
// deleted before the item they reply to, each node losing its likes,
// refreets, author reference and score before the node itself. The walk uses
// an explicit stack so its depth does not grow the goroutine stack.
//
// Deleting a freet that does not exist is a no-op, so an interrupted cascade
// can be finished by calling it again.
func (m *Manager) CascadeDelete(ctx context.Context, freetId string) error {
	if _, err := m.store.GetFreet(ctx, freetId); errors.Is(err, model.ErrNotFound) {
		return nil
	} else if err != nil {
		return err
	}

	deleted := 0
	stack := []cascadeFrame{{freetId: freetId}}
	for len(stack) > 0 {
		top := len(stack) - 1
		if !stack[top].expanded {
			stack[top].expanded = true
			comments, err := m.index.Comments(ctx, stack[top].freetId)
			if err != nil {
				return errors.Wrapf(err, "fail to expand comments of %s", stack[top].freetId)
			}
			// pushed in reverse so the oldest comment is deleted first
			for i := len(comments) - 1; i >= 0; i-- {
				stack = append(stack, cascadeFrame{freetId: comments[i]})
			}
			continue
		}

		id := stack[top].freetId
		stack = stack[:top]
		ok, err := m.deleteNode(ctx, id)
		if err != nil {
			Logger.LogV2.WithFields(logrus.Fields{
				"root_id":  freetId,
				"freet_id": id,
			}).Errorf("cascade delete aborted: %v", err)
			return err
		}
		if ok {
			deleted++
		}
	}

	m.metrics.Count(utils.MetricCascadeDeleted, int64(deleted), []string{"kind:freet"}, 1)
	Logger.LogV2.WithFields(logrus.Fields{
		"freet_id": freetId,
		"deleted":  deleted,
	}).Debug("cascade delete finished")
	return nil
}

// deleteNode removes one freet whose comments are already gone. It returns
// false when the freet was missing.
func (m *Manager) deleteNode(ctx context.Context, id string) (bool, error) {
	freet, err := m.store.GetFreet(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	// refs to comments that vanished without detaching
	dangling, err := m.index.Comments(ctx, id)
	if err != nil {
		return false, err
	}
	for _, commentId := range dangling {
		if err := m.store.RemoveChildRef(ctx, id, commentId, model.ChildKindComment); err != nil {
			return false, err
		}
	}

	likeIds, err := m.index.Likes(ctx, id)
	if err != nil {
		return false, err
	}
	for _, likeId := range likeIds {
		if err := m.DeleteLike(ctx, likeId); err != nil {
			return false, err
		}
		if err := m.store.RemoveChildRef(ctx, id, likeId, model.ChildKindLike); err != nil {
			return false, err
		}
	}

	refreetIds, err := m.index.Refreets(ctx, id)
	if err != nil {
		return false, err
	}
	for _, refreetId := range refreetIds {
		if err := m.DeleteRefreet(ctx, refreetId); err != nil {
			return false, err
		}
		if err := m.store.RemoveChildRef(ctx, id, refreetId, model.ChildKindRefreet); err != nil {
			return false, err
		}
	}

	authorKind := model.UserRefKindFreet
	if freet.IsComment() {
		authorKind = model.UserRefKindComment
	}
	if err := m.store.RemoveUserRef(ctx, freet.AuthorId, freet.Id, authorKind); err != nil {
		return false, err
	}

	if freet.IsScored() {
		if err := m.engine.Delete(ctx, freet.CredibilityScoreId); err != nil {
			return false, errors.Wrapf(err, "fail to delete score of %s", freet.Id)
		}
	}

	if freet.IsComment() {
		if err := m.store.RemoveChildRef(ctx, freet.ParentId, freet.Id, model.ChildKindComment); err != nil {
			return false, err
		}
	}

	if freet.ThreadId != "" {
		if err := m.leaveThread(ctx, freet.ThreadId, freet.Id); err != nil {
			return false, err
		}
	}

	if err := m.store.DeleteFreet(ctx, freet.Id); err != nil {
		return false, err
	}
	Logger.LogV2.WithFields(logrus.Fields{
		"freet_id":  freet.Id,
		"author_id": freet.AuthorId,
	}).Debug("freet deleted")
	return true, nil
}

// leaveThread drops freetId from its thread, deleting the thread once it has
// no member left.
func (m *Manager) leaveThread(ctx context.Context, threadId, freetId string) error {
	thread, err := m.store.GetThread(ctx, threadId)
	if errors.Is(err, model.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	remaining := make([]string, 0, len(thread.FreetIds))
	for _, id := range thread.FreetIds {
		if id != freetId {
			remaining = append(remaining, id)
		}
	}
	if len(remaining) == 0 {
		return m.store.DeleteThread(ctx, threadId)
	}
	if len(remaining) == len(thread.FreetIds) {
		return nil
	}
	return m.store.SetThreadFreets(ctx, threadId, remaining)
}

// CascadeDeleteUser removes userId and everything it owns: feed, filter and
// search state, follow edges in both directions, likes, comments and their
// trees, refreets, root freets and their trees. A missing user is a no-op.
func (m *Manager) CascadeDeleteUser(ctx context.Context, userId string) error {
	if _, err := m.store.GetUser(ctx, userId); errors.Is(err, model.ErrNotFound) {
		return nil
	} else if err != nil {
		return err
	}
	logger := Logger.LogV2.WithField("user_id", userId)

	if err := m.deleteFeedOf(ctx, userId); err != nil {
		return err
	}
	if search, err := m.store.GetSearchByViewer(ctx, userId); err == nil {
		if err := m.store.DeleteSearch(ctx, search.Id); err != nil {
			return err
		}
	} else if !errors.Is(err, model.ErrNotFound) {
		return err
	}

	following, err := m.store.ListFollowing(ctx, userId)
	if err != nil {
		return err
	}
	followers, err := m.store.ListFollowers(ctx, userId)
	if err != nil {
		return err
	}
	for _, follow := range append(following, followers...) {
		if err := m.DeleteFollow(ctx, follow.Id); err != nil {
			return err
		}
	}

	likes, err := m.store.ListLikesByUser(ctx, userId)
	if err != nil {
		return err
	}
	for _, like := range likes {
		if err := m.DeleteLike(ctx, like.Id); err != nil {
			return err
		}
	}

	comments, err := m.store.ListCommentsByAuthor(ctx, userId)
	if err != nil {
		return err
	}
	for _, comment := range comments {
		if err := m.CascadeDelete(ctx, comment.Id); err != nil {
			return err
		}
	}

	refreets, err := m.store.ListRefreetsByUser(ctx, userId)
	if err != nil {
		return err
	}
	for _, refreet := range refreets {
		if err := m.DeleteRefreet(ctx, refreet.Id); err != nil {
			return err
		}
	}

	freets, err := m.store.ListRootFreetsByAuthor(ctx, userId)
	if err != nil {
		return err
	}
	for _, freet := range freets {
		if err := m.CascadeDelete(ctx, freet.Id); err != nil {
			return err
		}
	}

	if err := m.store.DeleteUserRefs(ctx, userId); err != nil {
		return err
	}
	if err := m.store.DeleteUser(ctx, userId); err != nil {
		return err
	}
	m.metrics.Incr(utils.MetricCascadeDeleted, []string{"kind:user"}, 1)
	logger.Info("user deleted")
	return nil
}

func (m *Manager) deleteFeedOf(ctx context.Context, userId string) error {
	feed, err := m.store.GetFeedByViewer(ctx, userId)
	if errors.Is(err, model.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := m.store.DeleteFilter(ctx, feed.FilterId); err != nil {
		return err
	}
	if err := m.store.DeleteFeed(ctx, feed.Id); err != nil {
		return err
	}
	if m.cache != nil {
		if err := m.cache.InvalidateFeedContent(ctx, userId); err != nil {
			// the cached copy expires on its own
			Logger.LogV2.WithField("user_id", userId).Warnf("fail to drop cached feed: %v", err)
		}
	}
	return nil
}
