package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"taskboard/internal/config"
)

var Version = "dev"

func main() {
	if err := rootCmd(config.Load()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "boardctl",
		Short:         "Command line client for the task board API",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("api", cfg.APIURL, "Base URL of the board API")
	root.PersistentFlags().String("token", os.Getenv("BOARD_TOKEN"), "Bearer token")

	root.AddCommand(boardCmd())
	root.AddCommand(createCmd())
	root.AddCommand(moveCmd())
	root.AddCommand(labelsCmd())
	root.AddCommand(assigneesCmd())
	root.AddCommand(tokenCmd(cfg))
	return root
}
