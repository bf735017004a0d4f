package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var loadCollection string

var loadCmd = &cobra.Command{
	Use:   "load <path>",
	Short: "Load a document into the collection",
	Long: `Extracts text from the file, splits it into overlapping chunks, embeds
them and upserts the vectors. Reloading the same file replaces its chunks
instead of duplicating them.`,
	Args: cobra.ExactArgs(1),
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().StringVar(&loadCollection, "collection", "", "target collection (default: session collection)")
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	svc, closer, err := newService()
	if err != nil {
		return err
	}
	defer closer()

	collection := loadCollection
	if collection == "" {
		collection = state.Config.Collection
	}

	doc, err := svc.LoadDocument(context.Background(), args[0], collection, state.Config.ChunkSize, state.Config.Overlap)
	if err != nil {
		return err
	}

	successColor.Fprintf(cmd.OutOrStdout(), "Loaded %q: %d chunks into collection %q\n", doc.ID, doc.Chunks, collection)
	return nil
}
