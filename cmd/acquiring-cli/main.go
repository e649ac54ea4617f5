package main

import (
	"fmt"
	"os"

	"github.com/LavaJover/shvark-acquiring-service/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "acquiring-cli",
		Short:         "Operator tooling for the acquiring service",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("PAY_CONFIG_PATH"), "path to the service config file")

	load := func() (*config.PayConfig, error) {
		if configPath == "" {
			return nil, fmt.Errorf("config path is empty: pass --config or set PAY_CONFIG_PATH")
		}
		return config.Load(configPath)
	}

	rootCmd.AddCommand(migrateCmd(load))
	rootCmd.AddCommand(promoCmd(load))
	rootCmd.AddCommand(paymentCmd(load))
	rootCmd.AddCommand(eventsCmd(load))
	return rootCmd
}

type configLoader func() (*config.PayConfig, error)
