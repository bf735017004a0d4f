package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

var focusClear bool

var focusCmd = &cobra.Command{
	Use:   "focus [document-id]",
	Short: "Scope the session to one document",
	Long: `Sets the session focus document. While a focus is set, ask, chat and
suggest draw only from that document unless overridden per command.
'focus --clear' reverts to collection-wide scope.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFocus,
}

func init() {
	focusCmd.Flags().BoolVar(&focusClear, "clear", false, "clear the focus")
	rootCmd.AddCommand(focusCmd)
}

func runFocus(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if focusClear {
		if len(args) > 0 {
			return errors.New("--clear takes no document id")
		}
		state.ClearFocus()
		if err := sessionStore.Save(state); err != nil {
			return err
		}
		successColor.Fprintln(out, "Focus cleared; queries cover the whole collection again.")
		return nil
	}

	if len(args) == 0 {
		if state.Focus == "" {
			faintColor.Fprintln(out, "No focus set.")
		} else {
			faintColor.Fprintf(out, "Focused on %q.\n", state.Focus)
		}
		return nil
	}

	svc, closer, err := newService()
	if err != nil {
		return err
	}
	defer closer()

	if err := svc.SetFocus(context.Background(), state, args[0]); err != nil {
		return err
	}
	if err := sessionStore.Save(state); err != nil {
		return err
	}
	successColor.Fprintf(out, "Focused on %q.\n", args[0])
	return nil
}
