package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the session and collection state",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	svc, closer, err := newService()
	if err != nil {
		return err
	}
	defer closer()

	out := cmd.OutOrStdout()
	collection := state.Config.Collection

	fmt.Fprintf(out, "collection: %s\n", collection)
	if state.Focus != "" {
		fmt.Fprintf(out, "focus:      %s\n", state.Focus)
	} else {
		fmt.Fprintln(out, "focus:      (whole collection)")
	}
	if state.Memory != nil {
		fmt.Fprintf(out, "memory:     last question %q\n", state.Memory.Question)
	} else {
		fmt.Fprintln(out, "memory:     (empty)")
	}

	ctx := context.Background()
	docs, err := svc.ListDocuments(ctx, collection)
	if err != nil {
		return err
	}
	count, err := svc.ChunkCount(ctx, collection)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "documents:  %d (%d chunks)\n", len(docs), count)
	if len(docs) > 0 {
		faintColor.Fprintf(out, "            %s\n", strings.Join(docs, ", "))
	}
	return nil
}
