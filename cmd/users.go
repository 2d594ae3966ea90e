/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"strconv"

	"github.com/campusboard/server/internal/db"
	"github.com/campusboard/server/internal/services"
	"github.com/campusboard/server/internal/store"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage user accounts",
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a user and everything the user owns",
	Long: `Delete a user together with the user's posts, bulletin posts and
comments, and every comment left on those posts. Usage:

	campusboard users delete 42
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || userID < 1 {
			return fmt.Errorf("invalid user id %q", args[0])
		}

		cfg, log := loadConfig()
		conn, err := db.Open(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer conn.Close()

		accounts := services.NewAccountService(services.NewStoreTransactor(store.NewTransactor(conn)), log)
		summary, err := accounts.Delete(cmd.Context(), userID)
		if err != nil {
			log.WithError(err).WithField("user_id", userID).Error("delete user failed")
			return err
		}

		log.WithFields(logrus.Fields{
			"user_id":        userID,
			"comments":       summary.Comments,
			"posts":          summary.Posts,
			"bulletin_posts": summary.BulletinPosts,
		}).Info("user deleted")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersDeleteCmd)
}
