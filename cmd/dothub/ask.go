package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/MGhunch/dot-hub/internal/domain/conversation"
	"github.com/MGhunch/dot-hub/internal/domain/session"
)

func newAskCmd() *cobra.Command {
	var pin string
	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask Dot one question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(os.Stderr)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			if pin == "" {
				pin, err = promptPIN(cmd.InOrStdin(), cmd.ErrOrStderr())
				if err != nil {
					return err
				}
			}

			sess, err := signIn(ctx, clockwork.NewRealClock(), pin, func(ctx context.Context, pin string) (*session.Session, error) {
				e, err := a.hub.Login(ctx, pin, nil)
				return e.Session, err
			})
			if err != nil {
				return err
			}
			defer func() { _ = a.hub.Logout(context.Background(), sess.ID) }()

			turn, err := a.hub.Ask(ctx, sess.ID, strings.Join(args, " "))
			if err != nil {
				return err
			}
			printTurn(cmd.OutOrStdout(), turn)
			return nil
		},
	}
	cmd.Flags().StringVar(&pin, "pin", "", "four-digit PIN (prompted for when omitted)")
	return cmd
}

func promptPIN(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "PIN: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading PIN: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// signIn types pin into a keypad the way the hub's sign-in screen does; the
// keypad calls login once all four digits are in.
func signIn(ctx context.Context, clk clockwork.Clock, pin string, login func(context.Context, string) (*session.Session, error)) (*session.Session, error) {
	type outcome struct {
		sess *session.Session
		err  error
	}
	done := make(chan outcome, 1)
	k := session.NewKeypad(clk, func(p string) bool {
		sess, err := login(ctx, p)
		done <- outcome{sess: sess, err: err}
		return err == nil
	})
	for _, r := range pin {
		k.Press(r)
	}
	if len(pin) != session.PINLength || k.Buffer() != pin {
		return nil, session.ErrInvalidPIN
	}

	select {
	case o := <-done:
		return o.sess, o.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func printTurn(w io.Writer, turn conversation.Turn) {
	fmt.Fprintln(w, turn.Message)
	for _, j := range turn.Jobs {
		line := fmt.Sprintf("  %s | %s", j.JobNumber, j.JobName)
		if j.UpdateDue != "" {
			line += fmt.Sprintf("  (due %s)", j.UpdateDue)
		}
		fmt.Fprintln(w, line)
	}
	for _, c := range turn.Clients {
		fmt.Fprintf(w, "  %s  %d\n", c.Name, c.Count)
	}
	if turn.Redirect != nil {
		target := turn.Redirect.To
		if turn.Redirect.Client != "" {
			target += " for " + turn.Redirect.Client
		}
		fmt.Fprintf(w, "-> open %s\n", target)
	}
	if turn.Handoff != nil {
		fmt.Fprintf(w, "Email a human: %s\n", turn.Handoff.MailTo)
	}
	if turn.NextPrompt != "" {
		fmt.Fprintf(w, "Try: %s\n", turn.NextPrompt)
	}
}
