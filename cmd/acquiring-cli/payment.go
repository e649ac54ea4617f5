package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/LavaJover/shvark-acquiring-service/internal/domain"
	"github.com/LavaJover/shvark-acquiring-service/internal/infrastructure/tinkoff"
	"github.com/spf13/cobra"
)

type gatewayCall func(c *tinkoff.Client, ctx context.Context, paymentID int64) (*domain.PaymentState, error)

func paymentCmd(load configLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payment",
		Short: "Query or act on a gateway payment",
	}

	cmd.AddCommand(paymentSubCmd(load, "state", "Show the gateway status of a payment", (*tinkoff.Client).GetState))
	cmd.AddCommand(paymentSubCmd(load, "confirm", "Confirm a two-stage payment", (*tinkoff.Client).Confirm))
	cmd.AddCommand(paymentSubCmd(load, "cancel", "Cancel or refund a payment", (*tinkoff.Client).Cancel))
	return cmd
}

func paymentSubCmd(load configLoader, use, short string, call gatewayCall) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [payment-id]",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paymentID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || paymentID <= 0 {
				return fmt.Errorf("invalid payment id %q", args[0])
			}
			cfg, err := load()
			if err != nil {
				return err
			}

			client := tinkoff.NewClient(tinkoff.Config{
				BaseURL:     cfg.Gateway.BaseURL,
				TerminalKey: cfg.Gateway.TerminalKey,
				Secret:      cfg.Gateway.Secret,
				Timeout:     cfg.Gateway.Timeout,
			})
			state, err := call(client, cmd.Context(), paymentID)
			if err != nil {
				return fmt.Errorf("%s failed (%s): %w", use, domain.ErrorKind(err), err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(state)
		},
	}
}
