package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var documentsCollection string

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "List loaded documents",
	Args:  cobra.NoArgs,
	RunE:  runDocuments,
}

func init() {
	documentsCmd.Flags().StringVar(&documentsCollection, "collection", "", "collection to list (default: session collection)")
	rootCmd.AddCommand(documentsCmd)
}

func runDocuments(cmd *cobra.Command, args []string) error {
	svc, closer, err := newService()
	if err != nil {
		return err
	}
	defer closer()

	collection := documentsCollection
	if collection == "" {
		collection = state.Config.Collection
	}

	docs, err := svc.ListDocuments(context.Background(), collection)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(docs) == 0 {
		faintColor.Fprintf(out, "No documents in collection %q. Use 'doclens load <path>' first.\n", collection)
		return nil
	}
	faintColor.Fprintf(out, "Documents in collection %q:\n", collection)
	for _, id := range docs {
		marker := "  "
		if id == state.Focus {
			marker = "* "
		}
		fmt.Fprintf(out, "%s%s\n", marker, id)
	}
	if state.Focus != "" {
		faintColor.Fprintln(out, "(* = session focus)")
	}
	return nil
}
