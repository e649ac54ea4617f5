package main

import (
	"encoding/json"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/LavaJover/shvark-acquiring-service/internal/infrastructure/kafka"
	"github.com/spf13/cobra"
)

func eventsCmd(load configLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect the order events topic",
	}

	var groupID string
	tail := &cobra.Command{
		Use:   "tail",
		Short: "Print finalized order events as JSON lines until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if groupID == "" {
				groupID = cfg.KafkaService.GroupID
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			msgs, err := kafka.NewDefaultKafkaSubscriber(cfg.KafkaService.Brokers()).Subscribe(ctx, cfg.KafkaService.Topic, groupID)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			for msg := range msgs {
				event, err := kafka.DecodeOrderEvent(msg)
				if err != nil {
					slog.Warn("skipping undecodable event", "key", string(msg.Key), "error", err.Error())
					continue
				}
				if err := enc.Encode(event); err != nil {
					return err
				}
			}
			return nil
		},
	}
	tail.Flags().StringVar(&groupID, "group", "", "consumer group id (defaults to kafka-service.group_id)")
	cmd.AddCommand(tail)

	return cmd
}
