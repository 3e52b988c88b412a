/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/folioweb/siteserver/config"
	"github.com/folioweb/siteserver/internal/logging"
	"github.com/folioweb/siteserver/internal/mq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// notifyCmd represents the notify command
var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Consumes contact-form notifications and logs them",
	Long: `Consumes contact.received events from the configured broker and logs
each one. Requires MQ_BACKEND=rabbitmq or MQ_BACKEND=pubsub. Usage:

	siteserver notify
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.LoadConfig()

		log, err := logging.New(cfg.Env)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
			os.Exit(1)
		}
		defer log.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		bus, err := mq.Connect(ctx, cfg.MQ)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to connect broker: %v\n", err)
			os.Exit(1)
		}
		if bus == nil {
			fmt.Fprintln(os.Stderr, "notify requires MQ_BACKEND=rabbitmq or MQ_BACKEND=pubsub")
			os.Exit(1)
		}
		defer bus.Close()

		log.Info("consuming contact notifications",
			zap.String("backend", cfg.MQ.Backend),
			zap.String("channel", mq.ChannelContactReceived))

		err = bus.Subscribe(ctx, mq.ChannelContactReceived, logContactReceived(log))
		if err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "consumer error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(notifyCmd)
}

// logContactReceived logs each contact.received event. A payload that
// does not decode is dropped rather than redelivered forever.
func logContactReceived(log *zap.Logger) mq.Handler {
	return func(ctx context.Context, msg mq.Message) error {
		var event mq.ContactReceived
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			log.Warn("malformed contact notification",
				zap.String("id", msg.ID), zap.Error(err))
			return nil
		}
		log.Info("contact message received",
			zap.String("email", event.Email),
			zap.String("phone", event.Phone),
			zap.String("message", event.Message),
			zap.Time("submitted_at", event.SubmittedAt))
		return nil
	}
}
