package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/alfredjeanlab/confighelper/internal/events"
	"github.com/alfredjeanlab/confighelper/internal/ui"
	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
)

func newWatchCmd(opts *rootOptions) *cobra.Command {
	var natsURL string
	cmd := &cobra.Command{
		Use:     "watch",
		Short:   "Stream conversion events published by the service",
		GroupID: "service",
		RunE: func(cmd *cobra.Command, args []string) error {
			if natsURL == "" {
				return errors.New("no NATS URL: set --nats or NATS_URL")
			}

			sub, err := events.NewNATSSubscriber(natsURL,
				nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
					slog.Warn("nats: disconnected", "err", err)
				}),
				nats.ReconnectHandler(func(_ *nats.Conn) {
					slog.Info("nats: reconnected")
				}),
			)
			if err != nil {
				return fmt.Errorf("connecting to NATS: %w", err)
			}
			defer sub.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			ch, err := sub.Subscribe(ctx, events.SubjectAll)
			if err != nil {
				return fmt.Errorf("subscribing to events: %w", err)
			}

			out := cmd.OutOrStdout()
			for msg := range ch {
				if err := printEvent(out, msg, opts.jsonOutput); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&natsURL, "nats", os.Getenv("NATS_URL"), "NATS server URL")
	return cmd
}

// printEvent writes one conversion event, as a single line or as JSON.
func printEvent(w io.Writer, msg events.Message, asJSON bool) error {
	if asJSON {
		return printJSON(w, msg)
	}

	ts := ui.RenderMuted(time.Now().Format(time.TimeOnly))
	if msg.Topic == events.TopicConfigRejected || msg.Reason != "" {
		_, err := fmt.Fprintf(w, "%s %s %s rejected: %s\n", ts, msg.RequestID, msg.Operation, msg.Reason)
		return err
	}
	_, err := fmt.Fprintf(w, "%s %s %s actions=%d entities=%d dashboards=%d bytes=%d\n",
		ts, msg.RequestID, ui.RenderAccent(msg.Operation), msg.Actions, msg.Entities, msg.Dashboards, msg.Bytes)
	return err
}
