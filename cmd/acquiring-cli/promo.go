package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/LavaJover/shvark-acquiring-service/internal/catalog"
	"github.com/LavaJover/shvark-acquiring-service/internal/infrastructure/filestore"
	"github.com/LavaJover/shvark-acquiring-service/internal/usecase/promo"
	"github.com/spf13/cobra"
)

func promoCmd(load configLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "promo",
		Short: "Manage one-time promo codes",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "generate [conference-id] [count]",
		Short: "Generate promo codes granting a whole conference",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid count %q: %w", args[1], err)
			}
			cfg, err := load()
			if err != nil {
				return err
			}
			c, err := catalog.Load(cfg.CatalogPath)
			if err != nil {
				return err
			}

			uc := promo.NewDefaultPromoUsecase(filestore.NewPromoCodeStore(cfg.PromoPath), nil, c, nil)
			codes, err := uc.Generate(cmd.Context(), args[0], n)
			if err != nil {
				return err
			}
			for _, code := range codes {
				fmt.Fprintln(cmd.OutOrStdout(), code)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "count",
		Short: "Show unredeemed codes per conference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			counts, err := filestore.NewPromoCodeStore(cfg.PromoPath).Count(cmd.Context())
			if err != nil {
				return err
			}
			confs := make([]string, 0, len(counts))
			for conf := range counts {
				confs = append(confs, conf)
			}
			sort.Strings(confs)
			for _, conf := range confs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", conf, counts[conf])
			}
			return nil
		},
	})

	return cmd
}
