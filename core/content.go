package core

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rnr-capital/fritter-backend/events"
	"github.com/rnr-capital/fritter-backend/model"
	Logger "github.com/rnr-capital/fritter-backend/utils/log"
	"github.com/sirupsen/logrus"
)

// CreateFreet posts a root freet. A score is created from sources when sources
// is not nil, an empty non-nil list gives a score of 0.
func (c *Core) CreateFreet(ctx context.Context, authorId, content string, sources []string) (*model.Freet, error) {
	if _, err := c.store.GetUser(ctx, authorId); err != nil {
		return nil, errors.Wrap(err, "fail to create freet")
	}
	freet := &model.Freet{
		Id:       uuid.New().String(),
		AuthorId: authorId,
		Content:  content,
	}
	if err := c.store.CreateFreet(ctx, freet); err != nil {
		return nil, err
	}
	if err := c.integrity.RegisterFreet(ctx, freet); err != nil {
		return nil, err
	}
	if sources != nil {
		score, err := c.engine.Attach(ctx, freet.Id, sources)
		if err != nil {
			return nil, err
		}
		freet.CredibilityScoreId = score.Id
	}
	c.publish(ctx, events.Event{Type: events.EventContentCreated, UserId: authorId, ContentId: freet.Id})
	return freet, nil
}

// CreateComment replies to parentId, which may be a root freet or a comment.
func (c *Core) CreateComment(ctx context.Context, authorId, parentId, content string) (*model.Freet, error) {
	if _, err := c.store.GetUser(ctx, authorId); err != nil {
		return nil, errors.Wrap(err, "fail to create comment")
	}
	if _, err := c.store.GetFreet(ctx, parentId); err != nil {
		return nil, errors.Wrap(err, "fail to create comment")
	}
	comment := &model.Freet{
		Id:       uuid.New().String(),
		AuthorId: authorId,
		ParentId: parentId,
		Content:  content,
	}
	if err := c.store.CreateFreet(ctx, comment); err != nil {
		return nil, err
	}
	if err := c.integrity.RegisterFreet(ctx, comment); err != nil {
		return nil, err
	}
	c.publish(ctx, events.Event{Type: events.EventContentCreated, UserId: authorId, ContentId: comment.Id})
	return comment, nil
}

func (c *Core) GetFreet(ctx context.Context, freetId string) (*model.Freet, error) {
	return c.store.GetFreet(ctx, freetId)
}

// Like records userId liking freetId, a root freet or a comment.
func (c *Core) Like(ctx context.Context, userId, freetId string) (*model.Like, error) {
	if _, err := c.store.GetUser(ctx, userId); err != nil {
		return nil, errors.Wrap(err, "fail to like")
	}
	if _, err := c.store.GetFreet(ctx, freetId); err != nil {
		return nil, errors.Wrap(err, "fail to like")
	}
	if _, err := c.store.FindLike(ctx, userId, freetId); err == nil {
		return nil, errors.Wrapf(model.ErrAlreadyExists, "like of %s on %s", userId, freetId)
	} else if !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}
	like := &model.Like{
		Id:       uuid.New().String(),
		UserId:   userId,
		ParentId: freetId,
	}
	if err := c.store.CreateLike(ctx, like); err != nil {
		return nil, err
	}
	if err := c.integrity.RegisterLike(ctx, like); err != nil {
		return nil, err
	}
	c.publish(ctx, events.Event{Type: events.EventLikeChanged, UserId: userId, ContentId: freetId})
	return like, nil
}

func (c *Core) Unlike(ctx context.Context, userId, freetId string) error {
	like, err := c.store.FindLike(ctx, userId, freetId)
	if err != nil {
		return errors.Wrap(err, "fail to unlike")
	}
	if err := c.integrity.DeleteLike(ctx, like.Id); err != nil {
		return err
	}
	c.publish(ctx, events.Event{Type: events.EventLikeChanged, UserId: userId, ContentId: freetId})
	return nil
}

// Refreet shares a root freet. Comments cannot be refreeted.
func (c *Core) Refreet(ctx context.Context, userId, freetId string) (*model.Refreet, error) {
	if _, err := c.store.GetUser(ctx, userId); err != nil {
		return nil, errors.Wrap(err, "fail to refreet")
	}
	freet, err := c.store.GetFreet(ctx, freetId)
	if err != nil {
		return nil, errors.Wrap(err, "fail to refreet")
	}
	if freet.IsComment() {
		return nil, errors.Wrapf(model.ErrInvalidKind, "%s is a comment", freetId)
	}
	if _, err := c.store.FindRefreet(ctx, userId, freetId); err == nil {
		return nil, errors.Wrapf(model.ErrAlreadyExists, "refreet of %s on %s", userId, freetId)
	} else if !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}
	refreet := &model.Refreet{
		Id:       uuid.New().String(),
		UserId:   userId,
		ParentId: freetId,
	}
	if err := c.store.CreateRefreet(ctx, refreet); err != nil {
		return nil, err
	}
	if err := c.integrity.RegisterRefreet(ctx, refreet); err != nil {
		return nil, err
	}
	c.publish(ctx, events.Event{Type: events.EventContentCreated, UserId: userId, ContentId: freetId})
	return refreet, nil
}

func (c *Core) Unrefreet(ctx context.Context, userId, freetId string) error {
	refreet, err := c.store.FindRefreet(ctx, userId, freetId)
	if err != nil {
		return errors.Wrap(err, "fail to unrefreet")
	}
	if err := c.integrity.DeleteRefreet(ctx, refreet.Id); err != nil {
		return err
	}
	c.publish(ctx, events.Event{Type: events.EventContentRemoved, UserId: userId, ContentId: freetId})
	return nil
}

func (c *Core) Follow(ctx context.Context, srcUserId, dstUserId string) (*model.Follow, error) {
	if srcUserId == dstUserId {
		return nil, errors.Wrapf(model.ErrSelfFollow, "user %s", srcUserId)
	}
	for _, userId := range []string{srcUserId, dstUserId} {
		if _, err := c.store.GetUser(ctx, userId); err != nil {
			return nil, errors.Wrap(err, "fail to follow")
		}
	}
	if _, err := c.store.FindFollow(ctx, srcUserId, dstUserId); err == nil {
		return nil, errors.Wrapf(model.ErrDuplicateFollow, "%s -> %s", srcUserId, dstUserId)
	} else if !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}
	follow := &model.Follow{
		Id:        uuid.New().String(),
		SrcUserId: srcUserId,
		DstUserId: dstUserId,
	}
	if err := c.store.CreateFollow(ctx, follow); err != nil {
		return nil, err
	}
	if err := c.integrity.RegisterFollow(ctx, follow); err != nil {
		return nil, err
	}
	c.publish(ctx, events.Event{Type: events.EventFollowChanged, UserId: srcUserId})
	return follow, nil
}

func (c *Core) Unfollow(ctx context.Context, srcUserId, dstUserId string) error {
	follow, err := c.store.FindFollow(ctx, srcUserId, dstUserId)
	if err != nil {
		return errors.Wrap(err, "fail to unfollow")
	}
	if err := c.integrity.DeleteFollow(ctx, follow.Id); err != nil {
		return err
	}
	c.publish(ctx, events.Event{Type: events.EventFollowChanged, UserId: srcUserId})
	return nil
}

func (c *Core) AttachChild(ctx context.Context, parentId, childId string, kind model.ChildKind) error {
	return c.integrity.AttachChild(ctx, parentId, childId, kind)
}

func (c *Core) DetachChild(ctx context.Context, parentId, childId string, kind model.ChildKind) error {
	return c.integrity.DetachChild(ctx, parentId, childId, kind)
}

// CascadeDeleteContent deletes a freet or comment with its whole subtree. A
// missing id is a no-op.
func (c *Core) CascadeDeleteContent(ctx context.Context, contentId string) error {
	freet, err := c.store.GetFreet(ctx, contentId)
	if errors.Is(err, model.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := c.integrity.CascadeDelete(ctx, contentId); err != nil {
		Logger.LogV2.WithFields(logrus.Fields{
			"freet_id":  contentId,
			"author_id": freet.AuthorId,
		}).Error("cascade delete left a partial tree, retry to finish it")
		return errors.Wrapf(err, "fail to delete freet %s", contentId)
	}
	c.publish(ctx, events.Event{Type: events.EventContentRemoved, UserId: freet.AuthorId, ContentId: contentId})
	return nil
}
