package main

import (
	"os"

	"github.com/spf13/cobra"

	"skillswap/internal/interfaces/cli/migrate"
	"skillswap/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "skillswap",
		Short: "SkillSwap - community membership service",
		Long:  `SkillSwap community membership service: HTTP API, database migration tools, and the membership reconciliation worker.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
