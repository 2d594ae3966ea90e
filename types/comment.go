package types

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidCommentTarget is returned when a comment does not point at
// exactly one existing kind of post.
var ErrInvalidCommentTarget = errors.New("invalid comment target")

// CommentTarget is the post a comment is attached to: either a personal
// post or a bulletin post, never both.
type CommentTarget struct {
	board  Board
	postID int64
}

// TargetFor targets the post with the given id on board.
func TargetFor(board Board, id int64) CommentTarget {
	return CommentTarget{board: board, postID: id}
}

func (t CommentTarget) Board() Board {
	return t.board
}

func (t CommentTarget) PostID() int64 {
	return t.postID
}

// Validate rejects the zero target and targets with an unknown board or
// a non-positive post id.
func (t CommentTarget) Validate() error {
	if !t.board.Valid() {
		return fmt.Errorf("%w: unknown board %q", ErrInvalidCommentTarget, t.board)
	}
	if t.postID < 1 {
		return fmt.Errorf("%w: post id %d", ErrInvalidCommentTarget, t.postID)
	}
	return nil
}

func (t CommentTarget) String() string {
	return fmt.Sprintf("%s/%d", t.board, t.postID)
}

// Comment represents a reply attached to a post.
type Comment struct {
	// ID is the unique identifier of the comment.
	ID int64 `json:"id" db:"id"`

	// Target is the post the comment belongs to.
	Target CommentTarget `json:"-" db:"-"`

	// UserID is the ID of the commenting user.
	UserID int64 `json:"user_id" db:"user_id"`

	// AuthorName is the commenter's username, filled in by read queries.
	AuthorName string `json:"author" db:"-"`

	// Content is the text of the comment.
	Content string `json:"content" db:"content"`

	// CreatedAt is the timestamp when the comment was posted.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
