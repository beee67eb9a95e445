// Package store is the persistence boundary of the credibility and feed core.
// Components depend on the narrow interfaces below, GormStore implements all of
// them on top of gorm.
package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rnr-capital/fritter-backend/model"
	"github.com/rnr-capital/fritter-backend/utils"
	"gorm.io/gorm"
)

type ContentStore interface {
	CreateFreet(ctx context.Context, freet *model.Freet) error
	GetFreet(ctx context.Context, id string) (*model.Freet, error)
	SetFreetScore(ctx context.Context, freetId, scoreId string) error
	DeleteFreet(ctx context.Context, id string) error
	ListRootFreetsByAuthor(ctx context.Context, authorId string) ([]*model.Freet, error)
	ListCommentsByAuthor(ctx context.Context, authorId string) ([]*model.Freet, error)
	// ListRootFreetIds returns every root freet id, newest first.
	ListRootFreetIds(ctx context.Context) ([]string, error)
}

type ThreadStore interface {
	CreateThread(ctx context.Context, thread *model.Thread) error
	GetThread(ctx context.Context, id string) (*model.Thread, error)
	// ListThreads returns every thread, newest first.
	ListThreads(ctx context.Context) ([]*model.Thread, error)
	ListThreadsByAuthor(ctx context.Context, authorId string) ([]*model.Thread, error)
	SetThreadFreets(ctx context.Context, id string, freetIds []string) error
	SetFreetThread(ctx context.Context, freetIds []string, threadId string) error
	DeleteThread(ctx context.Context, id string) error
}

type LikeStore interface {
	CreateLike(ctx context.Context, like *model.Like) error
	GetLike(ctx context.Context, id string) (*model.Like, error)
	FindLike(ctx context.Context, userId, parentId string) (*model.Like, error)
	DeleteLike(ctx context.Context, id string) error
	ListLikesByUser(ctx context.Context, userId string) ([]*model.Like, error)
}

type RefreetStore interface {
	CreateRefreet(ctx context.Context, refreet *model.Refreet) error
	GetRefreet(ctx context.Context, id string) (*model.Refreet, error)
	FindRefreet(ctx context.Context, userId, parentId string) (*model.Refreet, error)
	DeleteRefreet(ctx context.Context, id string) error
	ListRefreetsByUser(ctx context.Context, userId string) ([]*model.Refreet, error)
}

type FollowStore interface {
	CreateFollow(ctx context.Context, follow *model.Follow) error
	GetFollow(ctx context.Context, id string) (*model.Follow, error)
	FindFollow(ctx context.Context, srcUserId, dstUserId string) (*model.Follow, error)
	DeleteFollow(ctx context.Context, id string) error
	ListFollowing(ctx context.Context, srcUserId string) ([]*model.Follow, error)
	ListFollowers(ctx context.Context, dstUserId string) ([]*model.Follow, error)
}

type ScoreStore interface {
	CreateScore(ctx context.Context, score *model.CredibilityScore) error
	GetScore(ctx context.Context, id string) (*model.CredibilityScore, error)
	GetScoreByParent(ctx context.Context, parentId string) (*model.CredibilityScore, error)
	// AddScoreDelta adds delta to the stored value in place, without clamping.
	AddScoreDelta(ctx context.Context, id string, delta float64) error
	DeleteScore(ctx context.Context, id string) error
}

type ContestStore interface {
	CreateContest(ctx context.Context, contest *model.Contest) error
	GetContest(ctx context.Context, id string) (*model.Contest, error)
	ListContestsByScore(ctx context.Context, scoreId string) ([]*model.Contest, error)
	DeleteContest(ctx context.Context, id string) error
}

type FilterStore interface {
	CreateFilter(ctx context.Context, filter *model.CredibilityFilter) error
	GetFilter(ctx context.Context, id string) (*model.CredibilityFilter, error)
	GetFilterByFeed(ctx context.Context, feedId string) (*model.CredibilityFilter, error)
	UpdateFilter(ctx context.Context, id string, unscored, highScored, lowScored bool) error
	DeleteFilter(ctx context.Context, id string) error
}

type FeedStore interface {
	CreateFeed(ctx context.Context, feed *model.Feed) error
	GetFeed(ctx context.Context, id string) (*model.Feed, error)
	GetFeedByViewer(ctx context.Context, viewerId string) (*model.Feed, error)
	ListFeeds(ctx context.Context) ([]*model.Feed, error)
	SetFeedFreets(ctx context.Context, id string, freetIds []string, refreshedAt time.Time) error
	DeleteFeed(ctx context.Context, id string) error
}

type SearchStore interface {
	CreateSearch(ctx context.Context, search *model.Search) error
	GetSearchByViewer(ctx context.Context, viewerId string) (*model.Search, error)
	UpdateSearch(ctx context.Context, id string, content string, userIds []string) error
	DeleteSearch(ctx context.Context, id string) error
}

type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	// ListUsers returns every user, newest account first.
	ListUsers(ctx context.Context) ([]*model.User, error)
	SetUserCredibility(ctx context.Context, id string, enabled bool, score *float64) error
	DeleteUser(ctx context.Context, id string) error
}

// IndexStore keeps the parent -> children and user -> records indexes that
// replace back-reference arrays. Adding an existing row or removing a missing
// one is a no-op.
type IndexStore interface {
	AddChildRef(ctx context.Context, parentId, childId string, kind model.ChildKind) error
	RemoveChildRef(ctx context.Context, parentId, childId string, kind model.ChildKind) error
	ListChildIds(ctx context.Context, parentId string, kind model.ChildKind) ([]string, error)
	AddUserRef(ctx context.Context, userId, refId string, kind model.UserRefKind) error
	RemoveUserRef(ctx context.Context, userId, refId string, kind model.UserRefKind) error
	ListUserRefIds(ctx context.Context, userId string, kind model.UserRefKind) ([]string, error)
	DeleteUserRefs(ctx context.Context, userId string) error
}

type Store interface {
	ContentStore
	ThreadStore
	LikeStore
	RefreetStore
	FollowStore
	ScoreStore
	ContestStore
	FilterStore
	FeedStore
	SearchStore
	UserStore
	IndexStore

	// Transaction runs fn against a Store bound to one database transaction.
	// Returning an error from fn rolls everything back. fn must only use the
	// Store it is given.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) DB() *gorm.DB {
	return s.db
}

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	var txn utils.GormTransaction = func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	}
	return s.db.WithContext(ctx).Transaction(txn)
}

func (s *GormStore) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// lookupError turns gorm's record-not-found into model.ErrNotFound so callers
// never depend on gorm.
func lookupError(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Wrapf(model.ErrNotFound, format, args...)
	}
	return errors.Wrapf(err, format, args...)
}
