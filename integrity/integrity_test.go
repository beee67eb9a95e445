package integrity

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rnr-capital/fritter-backend/credibility"
	"github.com/rnr-capital/fritter-backend/graph"
	"github.com/rnr-capital/fritter-backend/model"
	"github.com/rnr-capital/fritter-backend/store"
	"github.com/rnr-capital/fritter-backend/utils/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	t       *testing.T
	ctx     context.Context
	store   *store.GormStore
	index   *graph.Index
	engine  *credibility.Engine
	ledger  *credibility.Ledger
	manager *Manager
}

func newFixture(t *testing.T) *fixture {
	db, _ := dbtest.CreateTempDB(t)
	s := store.NewGormStore(db)
	index := graph.NewIndex(s)
	ledger := credibility.NewLedger(s, nil)
	engine := credibility.NewEngine(s, ledger, nil)
	return &fixture{
		t:       t,
		ctx:     context.Background(),
		store:   s,
		index:   index,
		engine:  engine,
		ledger:  ledger,
		manager: NewManager(s, index, engine, nil, nil),
	}
}

func (f *fixture) user(name string) string {
	user := &model.User{Id: uuid.New().String(), Username: name}
	require.Nil(f.t, f.store.CreateUser(f.ctx, user))
	return user.Id
}

func (f *fixture) freet(authorId, parentId string) string {
	freet := &model.Freet{
		Id:       uuid.New().String(),
		AuthorId: authorId,
		ParentId: parentId,
		Content:  "content",
	}
	require.Nil(f.t, f.store.CreateFreet(f.ctx, freet))
	require.Nil(f.t, f.manager.RegisterFreet(f.ctx, freet))
	return freet.Id
}

func (f *fixture) like(userId, parentId string) string {
	like := &model.Like{Id: uuid.New().String(), UserId: userId, ParentId: parentId}
	require.Nil(f.t, f.store.CreateLike(f.ctx, like))
	require.Nil(f.t, f.manager.RegisterLike(f.ctx, like))
	return like.Id
}

func (f *fixture) refreet(userId, parentId string) string {
	refreet := &model.Refreet{Id: uuid.New().String(), UserId: userId, ParentId: parentId}
	require.Nil(f.t, f.store.CreateRefreet(f.ctx, refreet))
	require.Nil(f.t, f.manager.RegisterRefreet(f.ctx, refreet))
	return refreet.Id
}

func (f *fixture) follow(srcId, dstId string) string {
	follow := &model.Follow{Id: uuid.New().String(), SrcUserId: srcId, DstUserId: dstId}
	require.Nil(f.t, f.store.CreateFollow(f.ctx, follow))
	require.Nil(f.t, f.manager.RegisterFollow(f.ctx, follow))
	return follow.Id
}

func (f *fixture) count(m interface{}) int64 {
	var n int64
	require.Nil(f.t, f.store.DB().Model(m).Count(&n).Error)
	return n
}

func TestAttachDetachRoundTrip(t *testing.T) {
	f := newFixture(t)
	author := f.user("author")
	post := f.freet(author, "")
	f.like(author, post)

	before, err := f.index.Likes(f.ctx, post)
	require.Nil(t, err)

	require.Nil(t, f.manager.AttachChild(f.ctx, post, "extra", model.ChildKindLike))
	require.Nil(t, f.manager.AttachChild(f.ctx, post, "extra", model.ChildKindLike))
	during, err := f.index.Likes(f.ctx, post)
	require.Nil(t, err)
	assert.Len(t, during, len(before)+1)

	require.Nil(t, f.manager.DetachChild(f.ctx, post, "extra", model.ChildKindLike))
	after, err := f.index.Likes(f.ctx, post)
	require.Nil(t, err)
	assert.ElementsMatch(t, before, after)

	// detaching again is harmless
	require.Nil(t, f.manager.DetachChild(f.ctx, post, "extra", model.ChildKindLike))
}

func TestAttachChildValidation(t *testing.T) {
	f := newFixture(t)

	err := f.manager.AttachChild(f.ctx, "missing", "child", model.ChildKindComment)
	assert.True(t, errors.Is(err, model.ErrNotFound))

	author := f.user("author")
	post := f.freet(author, "")
	err = f.manager.AttachChild(f.ctx, post, "child", model.ChildKind("SHARE"))
	assert.True(t, errors.Is(err, model.ErrInvalidKind))
	err = f.manager.DetachChild(f.ctx, post, "child", model.ChildKind(""))
	assert.True(t, errors.Is(err, model.ErrInvalidKind))
}

func TestCascadeDeletePostWithLikedComments(t *testing.T) {
	f := newFixture(t)
	author := f.user("author")
	other := f.user("other")
	post := f.freet(author, "")
	keep := f.freet(author, "")
	c1 := f.freet(other, post)
	c2 := f.freet(author, post)
	f.like(author, c1)
	f.like(other, c2)

	require.Nil(t, f.manager.CascadeDelete(f.ctx, post))

	var comments int64
	require.Nil(t, f.store.DB().Model(&model.Freet{}).Where("parent_id <> ?", "").Count(&comments).Error)
	assert.Equal(t, int64(0), comments)
	assert.Equal(t, int64(0), f.count(&model.Like{}))
	assert.Equal(t, int64(0), f.count(&model.ChildRef{}))

	freets, err := f.index.UserRefs(f.ctx, author, model.UserRefKindFreet)
	require.Nil(t, err)
	assert.Equal(t, []string{keep}, freets)
	for _, user := range []string{author, other} {
		refs, err := f.index.UserRefs(f.ctx, user, model.UserRefKindComment)
		require.Nil(t, err)
		assert.Empty(t, refs)
		refs, err = f.index.UserRefs(f.ctx, user, model.UserRefKindLike)
		require.Nil(t, err)
		assert.Empty(t, refs)
	}
}

func TestCascadeDeleteRemovesScoresAndContests(t *testing.T) {
	f := newFixture(t)
	author := f.user("author")
	post := f.freet(author, "")
	comment := f.freet(author, post)
	f.refreet(author, post)

	postScore, err := f.engine.Attach(f.ctx, post, []string{"s1"})
	require.Nil(t, err)
	commentScore, err := f.engine.Attach(f.ctx, comment, []string{"s1", "s2"})
	require.Nil(t, err)
	_, err = f.ledger.FileContest(f.ctx, postScore.Id, false, []string{"c1"})
	require.Nil(t, err)
	_, err = f.ledger.FileContest(f.ctx, commentScore.Id, true, []string{"c1"})
	require.Nil(t, err)

	require.Nil(t, f.manager.CascadeDelete(f.ctx, post))

	assert.Equal(t, int64(0), f.count(&model.Freet{}))
	assert.Equal(t, int64(0), f.count(&model.CredibilityScore{}))
	assert.Equal(t, int64(0), f.count(&model.Contest{}))
	assert.Equal(t, int64(0), f.count(&model.Refreet{}))
	assert.Equal(t, int64(0), f.count(&model.ChildRef{}))
}

func TestCascadeDeleteDeepCommentChain(t *testing.T) {
	f := newFixture(t)
	author := f.user("author")
	post := f.freet(author, "")
	parent := post
	for i := 0; i < 200; i++ {
		parent = f.freet(author, parent)
	}

	require.Nil(t, f.manager.CascadeDelete(f.ctx, post))
	assert.Equal(t, int64(0), f.count(&model.Freet{}))
	assert.Equal(t, int64(0), f.count(&model.UserRef{}))
}

func TestCascadeDeleteCommentKeepsParent(t *testing.T) {
	f := newFixture(t)
	author := f.user("author")
	post := f.freet(author, "")
	c1 := f.freet(author, post)
	c2 := f.freet(author, post)
	f.freet(author, c1)

	require.Nil(t, f.manager.CascadeDelete(f.ctx, c1))

	comments, err := f.index.Comments(f.ctx, post)
	require.Nil(t, err)
	assert.Equal(t, []string{c2}, comments)
	assert.Equal(t, int64(2), f.count(&model.Freet{}))
}

func TestCascadeDeleteIsIdempotent(t *testing.T) {
	f := newFixture(t)
	author := f.user("author")
	post := f.freet(author, "")
	comment := f.freet(author, post)

	// simulate an interrupted cascade: the comment row is gone, its ref is not
	require.Nil(t, f.store.DeleteFreet(f.ctx, comment))

	require.Nil(t, f.manager.CascadeDelete(f.ctx, post))
	require.Nil(t, f.manager.CascadeDelete(f.ctx, post))
	require.Nil(t, f.manager.CascadeDelete(f.ctx, "never-existed"))
	assert.Equal(t, int64(0), f.count(&model.Freet{}))
	assert.Equal(t, int64(0), f.count(&model.ChildRef{}))
}

func TestDeleteFollowRemovesBothRefs(t *testing.T) {
	f := newFixture(t)
	a := f.user("a")
	b := f.user("b")
	follow := f.follow(a, b)

	following, err := f.index.UserRefs(f.ctx, a, model.UserRefKindFollowing)
	require.Nil(t, err)
	assert.Equal(t, []string{follow}, following)

	require.Nil(t, f.manager.DeleteFollow(f.ctx, follow))
	require.Nil(t, f.manager.DeleteFollow(f.ctx, follow))
	assert.Equal(t, int64(0), f.count(&model.UserRef{}))
	assert.Equal(t, int64(0), f.count(&model.Follow{}))
}

func TestCascadeDeleteUser(t *testing.T) {
	f := newFixture(t)
	gone := f.user("gone")
	stay := f.user("stay")

	feed := &model.Feed{Id: "feed", ViewerId: gone, FilterId: "filter"}
	require.Nil(t, f.store.CreateFeed(f.ctx, feed))
	require.Nil(t, f.store.CreateFilter(f.ctx, &model.CredibilityFilter{Id: "filter", FeedId: "feed"}))
	require.Nil(t, f.store.CreateSearch(f.ctx, &model.Search{Id: "search", ViewerId: gone}))

	f.follow(gone, stay)
	f.follow(stay, gone)

	stayPost := f.freet(stay, "")
	goneComment := f.freet(gone, stayPost)
	f.freet(stay, goneComment)
	f.like(gone, stayPost)
	f.refreet(gone, stayPost)

	gonePost := f.freet(gone, "")
	f.freet(stay, gonePost)
	f.like(stay, gonePost)
	_, err := f.engine.Attach(f.ctx, gonePost, []string{"s"})
	require.Nil(t, err)

	require.Nil(t, f.manager.CascadeDeleteUser(f.ctx, gone))

	_, err = f.store.GetUser(f.ctx, gone)
	assert.True(t, errors.Is(err, model.ErrNotFound))
	assert.Equal(t, int64(0), f.count(&model.Feed{}))
	assert.Equal(t, int64(0), f.count(&model.CredibilityFilter{}))
	assert.Equal(t, int64(0), f.count(&model.Search{}))
	assert.Equal(t, int64(0), f.count(&model.Follow{}))
	assert.Equal(t, int64(0), f.count(&model.Like{}))
	assert.Equal(t, int64(0), f.count(&model.Refreet{}))
	assert.Equal(t, int64(0), f.count(&model.CredibilityScore{}))

	remaining, err := f.store.ListRootFreetsByAuthor(f.ctx, stay)
	require.Nil(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, stayPost, remaining[0].Id)
	assert.Equal(t, int64(1), f.count(&model.Freet{}))

	var refs []model.UserRef
	require.Nil(t, f.store.DB().Find(&refs).Error)
	assert.Equal(t, []model.UserRef{}, nonFreetRefs(refs), fmt.Sprintf("%+v", refs))

	require.Nil(t, f.manager.CascadeDeleteUser(f.ctx, gone))
}

func nonFreetRefs(refs []model.UserRef) []model.UserRef {
	res := []model.UserRef{}
	for _, ref := range refs {
		if ref.Kind != model.UserRefKindFreet {
			res = append(res, ref)
		}
	}
	return res
}
