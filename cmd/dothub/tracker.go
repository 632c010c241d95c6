package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/MGhunch/dot-hub/internal/domain/session"
	"github.com/MGhunch/dot-hub/internal/domain/tracker"
)

func newTrackerCmd() *cobra.Command {
	var (
		client  string
		month   string
		quarter bool
		export  string
	)
	cmd := &cobra.Command{
		Use:   "tracker",
		Short: "Print a client's budget tracker",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(os.Stderr)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			svc := a.hub.Tracker()
			if client == "" {
				client = svc.DefaultClient(ctx, "", svc.Clients(ctx))
			}
			dash, err := svc.Dashboard(ctx, client, tracker.View{Month: month, Quarter: quarter})
			if err != nil {
				return fmt.Errorf("loading tracker for %s: %w", client, err)
			}
			printDashboard(cmd.OutOrStdout(), dash)

			if export == "" {
				return nil
			}
			f, err := os.Create(export)
			if err != nil {
				return fmt.Errorf("creating %s: %w", export, err)
			}
			defer f.Close()
			if err := tracker.Export(f, dash); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", export)
			return nil
		},
	}
	cmd.Flags().StringVar(&client, "client", "", "client code (defaults to the first on the roster)")
	cmd.Flags().StringVar(&month, "month", session.CurrentMonth, "month name, or current")
	cmd.Flags().BoolVar(&quarter, "quarter", false, "show the whole quarter")
	cmd.Flags().StringVar(&export, "export", "", "also write the tracker to this .xlsx file")
	return cmd
}

func printDashboard(w io.Writer, d tracker.Dashboard) {
	s := d.Summary
	fmt.Fprintf(w, "%s, %s\n", s.ClientName, s.Period)
	fmt.Fprintf(w, "  Budget     %s\n", tracker.FormatMoney(s.Budget))
	fmt.Fprintf(w, "  Spent      %s (%d%%)\n", tracker.FormatMoney(s.Spend), s.PercentUsed)
	fmt.Fprintf(w, "  Remaining  %s\n", tracker.FormatMoney(s.Remaining))
	if s.ShowRollover {
		fmt.Fprintf(w, "  Rollover   %s\n", tracker.FormatMoney(s.Rollover))
	}
	if len(d.Rows) == 0 {
		return
	}
	fmt.Fprintln(w)
	for _, r := range d.Rows {
		fmt.Fprintf(w, "  %-8s  %-32s  %10s  %s\n", r.JobNumber, r.ProjectName, tracker.FormatMoney(r.Spend), r.Month)
	}
}
