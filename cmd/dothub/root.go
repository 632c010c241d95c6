package main

import (
	"github.com/spf13/cobra"
)

var version = "dev" // set via ldflags at build time

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "dothub",
		Short: "Hunch's hub for jobs, WIP and budgets",
		Long: `dothub serves the hub API, exposes Dot to MCP clients, and answers
quick questions about jobs and budgets from the terminal.

Configuration comes from the YAML file named by DOTHUB_CONFIG_PATH and
DOTHUB_* environment variables.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newMCPCmd())
	root.AddCommand(newAskCmd())
	root.AddCommand(newWipCmd())
	root.AddCommand(newTrackerCmd())
	return root
}
