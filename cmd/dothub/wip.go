package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/MGhunch/dot-hub/internal/domain/dates"
	"github.com/MGhunch/dot-hub/internal/domain/wip"
)

func newWipCmd() *cobra.Command {
	var client, mode string
	cmd := &cobra.Command{
		Use:   "wip",
		Short: "Print the WIP board",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(os.Stderr)
			if err != nil {
				return err
			}
			defer a.Close()

			jobs := a.hub.Jobs()
			jobs.Load(cmd.Context())
			now := time.Now()
			board := wip.Build(wip.Mode(mode), jobs.Jobs(), client, now)
			printBoard(cmd.OutOrStdout(), board, now)
			return nil
		},
	}
	cmd.Flags().StringVar(&client, "client", wip.AllClients, "client code, or all")
	cmd.Flags().StringVar(&mode, "mode", string(wip.ModeTodo), "todo or wip")
	return cmd
}

func printBoard(w io.Writer, board wip.Board, now time.Time) {
	fmt.Fprintf(w, "%s board, %s (%d jobs)\n", board.Mode, board.Client, board.Count())
	for _, s := range board.Sections {
		fmt.Fprintf(w, "\n%s (%d)\n", s.Title, len(s.Jobs))
		for _, j := range s.Jobs {
			due := dates.DueDateLabel(j.Due(now.Location()), now)
			if s.Compact {
				fmt.Fprintf(w, "  %-8s  %s\n", j.JobNumber, j.JobName)
				continue
			}
			fmt.Fprintf(w, "  %-8s  %-40s  %s\n", j.JobNumber, j.JobName, due)
		}
	}
}
