package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset <collection>",
	Short: "Drop a collection and everything in it",
	Long: `Deletes the vector collection. If the session focus points into the
dropped collection, the focus is cleared too. Asks for confirmation unless
--yes is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runReset,
}

func init() {
	resetCmd.Flags().BoolVar(&resetYes, "yes", false, "skip the confirmation prompt")
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	collection := args[0]
	out := cmd.OutOrStdout()

	if !resetYes {
		fmt.Fprintf(out, "Drop collection %q and all its documents? [y/N] ", collection)
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil {
			return fmt.Errorf("read confirmation: %w", err)
		}
		if answer := strings.ToLower(strings.TrimSpace(line)); answer != "y" && answer != "yes" {
			faintColor.Fprintln(out, "Aborted.")
			return nil
		}
	}

	svc, closer, err := newService()
	if err != nil {
		return err
	}
	defer closer()

	if err := svc.ResetCollection(context.Background(), state, collection); err != nil {
		return err
	}
	if err := sessionStore.Save(state); err != nil {
		return err
	}
	successColor.Fprintf(out, "Collection %q dropped.\n", collection)
	return nil
}
