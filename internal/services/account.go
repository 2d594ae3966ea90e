package services

import (
	"context"
	"fmt"

	"github.com/campusboard/server/types"
	"github.com/sirupsen/logrus"
)

// AccountService performs administrative account operations.
type AccountService struct {
	tx  Transactor
	log logrus.FieldLogger
}

func NewAccountService(tx Transactor, log logrus.FieldLogger) *AccountService {
	return &AccountService{tx: tx, log: log}
}

// DeleteSummary counts the rows removed by Delete.
type DeleteSummary struct {
	Comments      int64
	Posts         int64
	BulletinPosts int64
}

// Delete removes a user and everything the user owns in one transaction.
func (s *AccountService) Delete(ctx context.Context, userID int64) (DeleteSummary, error) {
	var summary DeleteSummary
	err := s.tx.WithinTx(ctx, func(repos Repositories) error {
		if _, err := repos.Users.GetByID(ctx, userID); err != nil {
			return err
		}

		n, err := repos.Comments.DeleteByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("delete authored comments: %w", err)
		}
		summary.Comments += n

		for _, board := range []types.Board{types.BoardPersonal, types.BoardBulletin} {
			n, err := repos.Comments.DeleteOnPostsOwnedBy(ctx, board, userID)
			if err != nil {
				return fmt.Errorf("delete comments on %s posts: %w", board, err)
			}
			summary.Comments += n

			n, err = repos.Posts.DeleteByUser(ctx, board, userID)
			if err != nil {
				return fmt.Errorf("delete %s posts: %w", board, err)
			}
			if board == types.BoardPersonal {
				summary.Posts = n
			} else {
				summary.BulletinPosts = n
			}
		}

		return repos.Users.Delete(ctx, userID)
	})
	if err != nil {
		return DeleteSummary{}, mapRepoError(err, "User not found.")
	}

	s.log.WithFields(logrus.Fields{
		"user_id":        userID,
		"comments":       summary.Comments,
		"posts":          summary.Posts,
		"bulletin_posts": summary.BulletinPosts,
	}).Info("user deleted")
	return summary, nil
}
