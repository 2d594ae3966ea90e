package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/campusboard/server/internal/services"
	"github.com/campusboard/server/internal/store"
	"github.com/campusboard/server/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBoardService_Create_Validation(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		content string
	}{
		{name: "empty title", title: "  ", content: "body"},
		{name: "empty content", title: "title", content: "\n\t"},
		{name: "title too long", title: strings.Repeat("가", types.MaxTitleLength+1), content: "body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			_, err := f.boardService().Create(context.Background(), types.BoardPersonal, 1, tt.title, tt.content)

			assert.ErrorIs(t, err, services.ErrValidation)
			f.posts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestBoardService_Create_Success(t *testing.T) {
	f := newFixture()
	created := time.Now()
	f.posts.On("Create", mock.Anything, types.Post{
		Board:   types.BoardBulletin,
		Title:   "Lost keys",
		Content: "Found near the library.",
		UserID:  4,
	}).Return(types.Post{ID: 10, Board: types.BoardBulletin, Title: "Lost keys", UserID: 4, CreatedAt: created}, nil).Once()
	f.events.On("Publish", mock.Anything, services.Event{
		Type:   services.EventPostCreated,
		UserID: 4,
		Board:  "bulletin",
		PostID: 10,
	}).Once()

	post, err := f.boardService().Create(context.Background(), types.BoardBulletin, 4, " Lost keys ", "Found near the library.\n")

	require.NoError(t, err)
	assert.Equal(t, int64(10), post.ID)
	f.assertExpectations(t)
}

func TestBoardService_Recent(t *testing.T) {
	f := newFixture()
	recent := []types.Post{{ID: 3}, {ID: 2}, {ID: 1}}
	f.posts.On("List", mock.Anything, types.BoardBulletin, services.RecentBulletinLimit).Return(recent, nil).Once()

	posts, err := f.boardService().Recent(context.Background(), types.BoardBulletin, services.RecentBulletinLimit)

	require.NoError(t, err)
	assert.Equal(t, recent, posts)
	f.assertExpectations(t)
}

func TestBoardService_List_UnknownBoard(t *testing.T) {
	f := newFixture()

	_, err := f.boardService().List(context.Background(), types.Board("secret"))

	assert.ErrorIs(t, err, services.ErrNotFound)
	f.posts.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
}

func TestBoardService_Get(t *testing.T) {
	f := newFixture()
	post := types.Post{ID: 2, Board: types.BoardPersonal, Title: "t", Content: "c", UserID: 1, AuthorName: "alice"}
	comments := []types.Comment{
		{ID: 1, Target: types.TargetFor(types.BoardPersonal, 2), Content: "first", AuthorName: "bob"},
		{ID: 2, Target: types.TargetFor(types.BoardPersonal, 2), Content: "second", AuthorName: "alice"},
	}
	f.posts.On("Get", mock.Anything, types.BoardPersonal, int64(2)).Return(post, nil).Once()
	f.comments.On("ListByTarget", mock.Anything, types.TargetFor(types.BoardPersonal, 2)).Return(comments, nil).Once()

	view, err := f.boardService().Get(context.Background(), types.BoardPersonal, 2)

	require.NoError(t, err)
	assert.Equal(t, post, view.Post)
	assert.Equal(t, comments, view.Comments)
	f.assertExpectations(t)
}

func TestBoardService_Get_NotFound(t *testing.T) {
	f := newFixture()
	f.posts.On("Get", mock.Anything, types.BoardBulletin, int64(404)).Return(types.Post{}, store.ErrNotFound).Once()

	_, err := f.boardService().Get(context.Background(), types.BoardBulletin, 404)

	assert.ErrorIs(t, err, services.ErrNotFound)
	f.comments.AssertNotCalled(t, "ListByTarget", mock.Anything, mock.Anything)
}

func TestBoardService_Update_NonOwner(t *testing.T) {
	f := newFixture()
	f.posts.On("Get", mock.Anything, types.BoardPersonal, int64(5)).
		Return(types.Post{ID: 5, Board: types.BoardPersonal, Title: "mine", Content: "c", UserID: 1}, nil).Once()

	_, err := f.boardService().Update(context.Background(), types.BoardPersonal, 5, 2, "hijacked", "c")

	assert.ErrorIs(t, err, services.ErrAuthorization)
	assert.Equal(t, 1, f.tx.Rollbacks)
	f.posts.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	f.events.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestBoardService_Update_KeepsOwnerAndTimestamp(t *testing.T) {
	f := newFixture()
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	current := types.Post{ID: 5, Board: types.BoardPersonal, Title: "old", Content: "old", UserID: 1, CreatedAt: created}
	f.posts.On("Get", mock.Anything, types.BoardPersonal, int64(5)).Return(current, nil).Once()
	f.posts.On("Update", mock.Anything, types.Post{
		ID:        5,
		Board:     types.BoardPersonal,
		Title:     "new",
		Content:   "new body",
		UserID:    1,
		CreatedAt: created,
	}).Return(nil).Once()
	f.events.On("Publish", mock.Anything, mock.AnythingOfType("services.Event")).Once()

	post, err := f.boardService().Update(context.Background(), types.BoardPersonal, 5, 1, "new", "new body")

	require.NoError(t, err)
	assert.Equal(t, created, post.CreatedAt)
	assert.Equal(t, int64(1), post.UserID)
	assert.Equal(t, 1, f.tx.Commits)
	f.assertExpectations(t)
}

func TestBoardService_Delete_NonOwner(t *testing.T) {
	f := newFixture()
	f.posts.On("Get", mock.Anything, types.BoardBulletin, int64(5)).
		Return(types.Post{ID: 5, Board: types.BoardBulletin, UserID: 1}, nil).Once()

	err := f.boardService().Delete(context.Background(), types.BoardBulletin, 5, 2)

	assert.ErrorIs(t, err, services.ErrAuthorization)
	f.comments.AssertNotCalled(t, "DeleteByTarget", mock.Anything, mock.Anything)
	f.posts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestBoardService_Delete_RemovesCommentsThenPost(t *testing.T) {
	for _, board := range []types.Board{types.BoardPersonal, types.BoardBulletin} {
		t.Run(board.String(), func(t *testing.T) {
			f := newFixture()
			var order []string
			f.posts.On("Get", mock.Anything, board, int64(5)).
				Return(types.Post{ID: 5, Board: board, UserID: 1}, nil).Once()
			f.comments.On("DeleteByTarget", mock.Anything, types.TargetFor(board, 5)).
				Run(func(mock.Arguments) { order = append(order, "comments") }).
				Return(int64(3), nil).Once()
			f.posts.On("Delete", mock.Anything, board, int64(5)).
				Run(func(mock.Arguments) { order = append(order, "post") }).
				Return(nil).Once()
			f.events.On("Publish", mock.Anything, mock.MatchedBy(func(e services.Event) bool {
				return e.Type == services.EventPostDeleted && e.PostID == 5
			})).Once()

			err := f.boardService().Delete(context.Background(), board, 5, 1)

			require.NoError(t, err)
			assert.Equal(t, []string{"comments", "post"}, order)
			assert.Equal(t, 1, f.tx.Commits)
			f.assertExpectations(t)
		})
	}
}

func TestBoardService_AddComment_EmptyIsNoop(t *testing.T) {
	f := newFixture()
	f.posts.On("Get", mock.Anything, types.BoardPersonal, int64(3)).Return(types.Post{ID: 3}, nil).Once()

	_, created, err := f.boardService().AddComment(context.Background(), types.TargetFor(types.BoardPersonal, 3), 1, "   ")

	require.NoError(t, err)
	assert.False(t, created)
	f.comments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.events.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestBoardService_AddComment_MissingTarget(t *testing.T) {
	f := newFixture()
	f.posts.On("Get", mock.Anything, types.BoardBulletin, int64(99)).Return(types.Post{}, store.ErrNotFound).Once()

	_, created, err := f.boardService().AddComment(context.Background(), types.TargetFor(types.BoardBulletin, 99), 1, "hello")

	assert.ErrorIs(t, err, services.ErrNotFound)
	assert.False(t, created)
	f.comments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBoardService_AddComment_InvalidTarget(t *testing.T) {
	f := newFixture()

	_, _, err := f.boardService().AddComment(context.Background(), types.CommentTarget{}, 1, "hello")

	assert.ErrorIs(t, err, services.ErrNotFound)
	assert.ErrorIs(t, err, types.ErrInvalidCommentTarget)
	f.posts.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
}

func TestBoardService_AddComment_SetsTarget(t *testing.T) {
	f := newFixture()
	target := types.TargetFor(types.BoardBulletin, 7)
	f.posts.On("Get", mock.Anything, types.BoardBulletin, int64(7)).Return(types.Post{ID: 7}, nil).Once()
	f.comments.On("Create", mock.Anything, types.Comment{Target: target, UserID: 2, Content: "nice"}).
		Return(types.Comment{ID: 11, Target: target, UserID: 2, Content: "nice"}, nil).Once()
	f.events.On("Publish", mock.Anything, services.Event{
		Type:      services.EventCommentCreated,
		UserID:    2,
		Board:     "bulletin",
		PostID:    7,
		CommentID: 11,
	}).Once()

	comment, created, err := f.boardService().AddComment(context.Background(), target, 2, " nice ")

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, types.BoardBulletin, comment.Target.Board())
	f.assertExpectations(t)
}

func TestBoardService_GetForEdit(t *testing.T) {
	f := newFixture()
	f.posts.On("Get", mock.Anything, types.BoardPersonal, int64(1)).Return(types.Post{ID: 1, UserID: 3}, nil)

	_, err := f.boardService().GetForEdit(context.Background(), types.BoardPersonal, 1, 4)
	assert.ErrorIs(t, err, services.ErrAuthorization)

	post, err := f.boardService().GetForEdit(context.Background(), types.BoardPersonal, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), post.ID)
}
