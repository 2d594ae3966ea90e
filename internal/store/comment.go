package store

import (
	"context"
	"fmt"

	"github.com/campusboard/server/types"
)

// CommentRepository handles persistence for comments on either board.
type CommentRepository struct {
	db DBTX
}

func NewCommentRepository(db DBTX) *CommentRepository {
	return &CommentRepository{db: db}
}

// targetColumn returns the foreign key column that holds target's post id.
func targetColumn(target types.CommentTarget) (string, error) {
	if err := target.Validate(); err != nil {
		return "", err
	}
	return boardColumn(target.Board()), nil
}

func boardColumn(board types.Board) string {
	if board == types.BoardBulletin {
		return "bulletin_post_id"
	}
	return "post_id"
}

// ListByTarget returns the comments on target, oldest first.
func (r *CommentRepository) ListByTarget(ctx context.Context, target types.CommentTarget) ([]types.Comment, error) {
	column, err := targetColumn(target)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT c.id, c.content, c.created_at, c.user_id, u.username
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.%s = $1
		ORDER BY c.created_at ASC, c.id ASC`, column)

	rows, err := r.db.QueryContext(ctx, query, target.PostID())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []types.Comment
	for rows.Next() {
		comment := types.Comment{Target: target}
		if err := rows.Scan(
			&comment.ID,
			&comment.Content,
			&comment.CreatedAt,
			&comment.UserID,
			&comment.AuthorName,
		); err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return comments, nil
}

// Create inserts comment, setting exactly the foreign key that matches its target.
func (r *CommentRepository) Create(ctx context.Context, comment types.Comment) (types.Comment, error) {
	column, err := targetColumn(comment.Target)
	if err != nil {
		return types.Comment{}, err
	}

	query := fmt.Sprintf(`
		INSERT INTO comments (content, user_id, %s)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`, column)
	if err := r.db.QueryRowContext(ctx, query, comment.Content, comment.UserID, comment.Target.PostID()).
		Scan(&comment.ID, &comment.CreatedAt); err != nil {
		return types.Comment{}, err
	}
	return comment, nil
}

// DeleteByTarget removes every comment on target.
func (r *CommentRepository) DeleteByTarget(ctx context.Context, target types.CommentTarget) (int64, error) {
	column, err := targetColumn(target)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf(`DELETE FROM comments WHERE %s = $1`, column)
	result, err := r.db.ExecContext(ctx, query, target.PostID())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// DeleteByUser removes every comment authored by userID.
func (r *CommentRepository) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	const query = `DELETE FROM comments WHERE user_id = $1`
	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// DeleteOnPostsOwnedBy removes every comment attached to a post userID owns on board.
func (r *CommentRepository) DeleteOnPostsOwnedBy(ctx context.Context, board types.Board, userID int64) (int64, error) {
	table, err := postTable(board)
	if err != nil {
		return 0, err
	}
	column := boardColumn(board)

	query := fmt.Sprintf(`
		DELETE FROM comments
		WHERE %s IN (SELECT id FROM %s WHERE user_id = $1)`, column, table)
	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
