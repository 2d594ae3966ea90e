package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/campusboard/server/types"
)

// PostRepository handles persistence for both boards. Personal posts live
// in the posts table and bulletin posts in bulletin_posts.
type PostRepository struct {
	db DBTX
}

func NewPostRepository(db DBTX) *PostRepository {
	return &PostRepository{db: db}
}

func postTable(board types.Board) (string, error) {
	switch board {
	case types.BoardPersonal:
		return "posts", nil
	case types.BoardBulletin:
		return "bulletin_posts", nil
	default:
		return "", fmt.Errorf("unknown board %q", board)
	}
}

// List returns posts on board, newest first. A limit below 1 returns every post.
func (r *PostRepository) List(ctx context.Context, board types.Board, limit int) ([]types.Post, error) {
	table, err := postTable(board)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT p.id, p.title, p.content, p.created_at, p.user_id, u.username
		FROM %s p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.created_at DESC, p.id DESC`, table)
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []types.Post
	for rows.Next() {
		post := types.Post{Board: board}
		if err := rows.Scan(
			&post.ID,
			&post.Title,
			&post.Content,
			&post.CreatedAt,
			&post.UserID,
			&post.AuthorName,
		); err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *PostRepository) Get(ctx context.Context, board types.Board, id int64) (types.Post, error) {
	table, err := postTable(board)
	if err != nil {
		return types.Post{}, err
	}

	query := fmt.Sprintf(`
		SELECT p.id, p.title, p.content, p.created_at, p.user_id, u.username
		FROM %s p
		JOIN users u ON u.id = p.user_id
		WHERE p.id = $1`, table)

	post := types.Post{Board: board}
	err = r.db.QueryRowContext(ctx, query, id).Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.CreatedAt,
		&post.UserID,
		&post.AuthorName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Post{}, ErrNotFound
		}
		return types.Post{}, err
	}
	return post, nil
}

// Create inserts post on post.Board and fills in its id and timestamp.
func (r *PostRepository) Create(ctx context.Context, post types.Post) (types.Post, error) {
	table, err := postTable(post.Board)
	if err != nil {
		return types.Post{}, err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (title, content, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`, table)
	if err := r.db.QueryRowContext(ctx, query, post.Title, post.Content, post.UserID).
		Scan(&post.ID, &post.CreatedAt); err != nil {
		return types.Post{}, err
	}
	return post, nil
}

// Update rewrites the title and content only; owner and timestamp are immutable.
func (r *PostRepository) Update(ctx context.Context, post types.Post) error {
	table, err := postTable(post.Board)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`UPDATE %s SET title = $1, content = $2 WHERE id = $3`, table)
	result, err := r.db.ExecContext(ctx, query, post.Title, post.Content, post.ID)
	if err != nil {
		return err
	}
	return expectAffected(result)
}

func (r *PostRepository) Delete(ctx context.Context, board types.Board, id int64) error {
	table, err := postTable(board)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table)
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return expectAffected(result)
}

// DeleteByUser removes every post userID owns on board and returns how many were removed.
func (r *PostRepository) DeleteByUser(ctx context.Context, board types.Board, userID int64) (int64, error) {
	table, err := postTable(board)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1`, table)
	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
