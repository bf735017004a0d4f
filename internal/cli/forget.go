package cli

import (
	"github.com/spf13/cobra"
)

var forgetCmd = &cobra.Command{
	Use:   "forget",
	Short: "Clear the conversation memory",
	Long: `Drops the stored question-and-answer turn. The next ask or chat turn
starts without prior context.`,
	Args: cobra.NoArgs,
	RunE: runForget,
}

func init() {
	rootCmd.AddCommand(forgetCmd)
}

func runForget(cmd *cobra.Command, args []string) error {
	state.ClearMemory()
	if err := sessionStore.Save(state); err != nil {
		return err
	}
	successColor.Fprintln(cmd.OutOrStdout(), "Conversation memory cleared.")
	return nil
}
