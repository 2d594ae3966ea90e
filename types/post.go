package types

import "time"

// Board identifies which collection a post belongs to.
type Board string

const (
	// BoardPersonal is the members-only blog-style board.
	BoardPersonal Board = "personal"

	// BoardBulletin is the public bulletin board.
	BoardBulletin Board = "bulletin"
)

// MaxTitleLength is the longest title, in characters, a post may carry.
const MaxTitleLength = 100

// Valid reports whether b names a known board.
func (b Board) Valid() bool {
	return b == BoardPersonal || b == BoardBulletin
}

func (b Board) String() string {
	return string(b)
}

// Post represents an entry on either board. Personal posts and bulletin
// posts share this shape and are told apart by Board.
type Post struct {
	// ID is the unique identifier of the post within its board.
	ID int64 `json:"id" db:"id"`

	// Board is the collection the post lives in.
	Board Board `json:"board" db:"-"`

	// Title is the headline of the post.
	Title string `json:"title" db:"title"`

	// Content is the body of the post.
	Content string `json:"content" db:"content"`

	// CreatedAt is the timestamp when the post was created.
	// It is never changed by edits.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UserID is the ID of the user who owns the post.
	UserID int64 `json:"user_id" db:"user_id"`

	// AuthorName is the owner's username, filled in by read queries.
	AuthorName string `json:"author" db:"-"`
}

// PostView is a post together with its comments, oldest first.
type PostView struct {
	Post     Post      `json:"post"`
	Comments []Comment `json:"comments"`
}
