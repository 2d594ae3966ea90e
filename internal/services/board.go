package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/campusboard/server/types"
	"github.com/sirupsen/logrus"
)

// RecentBulletinLimit is how many bulletin posts the home page shows.
const RecentBulletinLimit = 5

const postNotFoundMessage = "Post not found."

// BoardService encapsulates post and comment use-cases for both boards.
type BoardService struct {
	repos  Repositories
	tx     Transactor
	events EventPublisher
	log    logrus.FieldLogger
}

func NewBoardService(repos Repositories, tx Transactor, events EventPublisher, log logrus.FieldLogger) *BoardService {
	if events == nil {
		events = NopPublisher{}
	}
	return &BoardService{repos: repos, tx: tx, events: events, log: log}
}

// List returns every post on board, newest first.
func (s *BoardService) List(ctx context.Context, board types.Board) ([]types.Post, error) {
	if !board.Valid() {
		return nil, newError(ErrNotFound, "Board not found.")
	}
	posts, err := s.repos.Posts.List(ctx, board, 0)
	if err != nil {
		return nil, mapRepoError(err, postNotFoundMessage)
	}
	return posts, nil
}

// Recent returns at most limit of the newest posts on board.
func (s *BoardService) Recent(ctx context.Context, board types.Board, limit int) ([]types.Post, error) {
	if !board.Valid() {
		return nil, newError(ErrNotFound, "Board not found.")
	}
	if limit < 1 {
		limit = RecentBulletinLimit
	}
	posts, err := s.repos.Posts.List(ctx, board, limit)
	if err != nil {
		return nil, mapRepoError(err, postNotFoundMessage)
	}
	return posts, nil
}

// Get returns a post with its comments, oldest comment first.
func (s *BoardService) Get(ctx context.Context, board types.Board, id int64) (types.PostView, error) {
	post, err := s.repos.Posts.Get(ctx, board, id)
	if err != nil {
		return types.PostView{}, mapRepoError(err, postNotFoundMessage)
	}
	comments, err := s.repos.Comments.ListByTarget(ctx, types.TargetFor(board, id))
	if err != nil {
		return types.PostView{}, mapRepoError(err, postNotFoundMessage)
	}
	return types.PostView{Post: post, Comments: comments}, nil
}

// GetForEdit returns a post only when userID owns it.
func (s *BoardService) GetForEdit(ctx context.Context, board types.Board, id, userID int64) (types.Post, error) {
	post, err := s.repos.Posts.Get(ctx, board, id)
	if err != nil {
		return types.Post{}, mapRepoError(err, postNotFoundMessage)
	}
	if post.UserID != userID {
		return types.Post{}, newError(ErrAuthorization, "You can only change your own posts.")
	}
	return post, nil
}

func (s *BoardService) Create(ctx context.Context, board types.Board, userID int64, title, content string) (types.Post, error) {
	if !board.Valid() {
		return types.Post{}, newError(ErrNotFound, "Board not found.")
	}
	title, content, err := validatePost(title, content)
	if err != nil {
		return types.Post{}, err
	}

	post, err := s.repos.Posts.Create(ctx, types.Post{
		Board:   board,
		Title:   title,
		Content: content,
		UserID:  userID,
	})
	if err != nil {
		return types.Post{}, mapRepoError(err, postNotFoundMessage)
	}

	s.log.WithFields(logrus.Fields{"board": board, "post_id": post.ID, "user_id": userID}).Info("post created")
	s.events.Publish(ctx, Event{Type: EventPostCreated, UserID: userID, Board: board.String(), PostID: post.ID})
	return post, nil
}

// Update changes the title and content of a post owned by userID.
func (s *BoardService) Update(ctx context.Context, board types.Board, id, userID int64, title, content string) (types.Post, error) {
	title, content, err := validatePost(title, content)
	if err != nil {
		return types.Post{}, err
	}

	var post types.Post
	err = s.tx.WithinTx(ctx, func(repos Repositories) error {
		current, err := repos.Posts.Get(ctx, board, id)
		if err != nil {
			return err
		}
		if current.UserID != userID {
			return newError(ErrAuthorization, "You can only change your own posts.")
		}
		current.Title = title
		current.Content = content
		if err := repos.Posts.Update(ctx, current); err != nil {
			return err
		}
		post = current
		return nil
	})
	if err != nil {
		return types.Post{}, mapRepoError(err, postNotFoundMessage)
	}

	s.log.WithFields(logrus.Fields{"board": board, "post_id": id, "user_id": userID}).Info("post updated")
	s.events.Publish(ctx, Event{Type: EventPostUpdated, UserID: userID, Board: board.String(), PostID: id})
	return post, nil
}

// Delete removes a post owned by userID together with its comments.
func (s *BoardService) Delete(ctx context.Context, board types.Board, id, userID int64) error {
	err := s.tx.WithinTx(ctx, func(repos Repositories) error {
		current, err := repos.Posts.Get(ctx, board, id)
		if err != nil {
			return err
		}
		if current.UserID != userID {
			return newError(ErrAuthorization, "You can only delete your own posts.")
		}
		if _, err := repos.Comments.DeleteByTarget(ctx, types.TargetFor(board, id)); err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}
		return repos.Posts.Delete(ctx, board, id)
	})
	if err != nil {
		return mapRepoError(err, postNotFoundMessage)
	}

	s.log.WithFields(logrus.Fields{"board": board, "post_id": id, "user_id": userID}).Info("post deleted")
	s.events.Publish(ctx, Event{Type: EventPostDeleted, UserID: userID, Board: board.String(), PostID: id})
	return nil
}

// AddComment attaches a comment to target. Blank content is ignored and
// reported with created == false.
func (s *BoardService) AddComment(ctx context.Context, target types.CommentTarget, userID int64, content string) (comment types.Comment, created bool, err error) {
	if err := target.Validate(); err != nil {
		return types.Comment{}, false, wrapError(ErrNotFound, postNotFoundMessage, err)
	}
	if _, err := s.repos.Posts.Get(ctx, target.Board(), target.PostID()); err != nil {
		return types.Comment{}, false, mapRepoError(err, postNotFoundMessage)
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return types.Comment{}, false, nil
	}

	comment, err = s.repos.Comments.Create(ctx, types.Comment{
		Target:  target,
		UserID:  userID,
		Content: content,
	})
	if err != nil {
		if errors.Is(err, types.ErrInvalidCommentTarget) {
			return types.Comment{}, false, wrapError(ErrValidation, "Invalid comment target.", err)
		}
		return types.Comment{}, false, mapRepoError(err, postNotFoundMessage)
	}

	s.log.WithFields(logrus.Fields{"target": target.String(), "comment_id": comment.ID, "user_id": userID}).Info("comment created")
	s.events.Publish(ctx, Event{
		Type:      EventCommentCreated,
		UserID:    userID,
		Board:     target.Board().String(),
		PostID:    target.PostID(),
		CommentID: comment.ID,
	})
	return comment, true, nil
}

func validatePost(title, content string) (string, string, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" {
		return "", "", newError(ErrValidation, "Title and content are required.")
	}
	if len([]rune(title)) > types.MaxTitleLength {
		return "", "", newError(ErrValidation, fmt.Sprintf("Title must be at most %d characters.", types.MaxTitleLength))
	}
	return title, content, nil
}

