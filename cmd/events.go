/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/campusboard/server/internal/mq"
	"github.com/campusboard/server/internal/services"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect content events",
}

var eventsTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Print content events as they are published",
	Long: `Subscribe to the content event channel and log every event until
interrupted. Usage:

	MQ_BACKEND=rabbitmq campusboard events tail
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log := loadConfig()
		broker, err := mq.Open(cmd.Context(), cfg.MQ)
		if err != nil {
			return err
		}
		if broker == nil {
			return errors.New("MQ_BACKEND is not set")
		}
		defer broker.Close()

		log.WithFields(logrus.Fields{"backend": cfg.MQ.Backend, "channel": cfg.MQ.Channel}).Info("tailing content events")
		err = broker.Subscribe(cmd.Context(), cfg.MQ.Channel, func(ctx context.Context, msg mq.Message) error {
			var event services.Event
			if err := json.Unmarshal(msg.Data, &event); err != nil {
				// Undecodable messages are logged and acknowledged.
				log.WithError(err).WithField("message_id", msg.ID).Warn("malformed event")
				return nil
			}
			log.WithFields(logrus.Fields{
				"event_id":   event.ID,
				"type":       event.Type,
				"user_id":    event.UserID,
				"board":      event.Board,
				"post_id":    event.PostID,
				"comment_id": event.CommentID,
				"at":         event.OccurredAt,
			}).Info("event")
			return nil
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsTailCmd)
}
