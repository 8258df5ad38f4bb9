package main

import (
	"os"

	"github.com/spf13/cobra"

	"rebill/internal/interfaces/cli/migrate"
	"rebill/internal/interfaces/cli/worker"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rebill",
		Short: "Rebill - recurring billing engine",
		Long:  `Rebill runs subscription plans, renewal charges and one-time payments against an external value-transfer ledger.`,
	}

	rootCmd.AddCommand(
		worker.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
