package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	suggestDocument   string
	suggestNum        int
	suggestCollection string
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest questions to ask about the loaded documents",
	Long: `Samples chunks spread evenly across the scope and asks the model for
interesting questions the documents can answer. The model may return fewer
than requested; whatever it produces is shown.`,
	Args: cobra.NoArgs,
	RunE: runSuggest,
}

func init() {
	suggestCmd.Flags().StringVar(&suggestDocument, "document", "", "suggest questions about one document id")
	suggestCmd.Flags().IntVar(&suggestNum, "num", 3, "number of questions to request")
	suggestCmd.Flags().StringVar(&suggestCollection, "collection", "", "collection to sample (default: session collection)")
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	svc, closer, err := newService()
	if err != nil {
		return err
	}
	defer closer()

	scope := resolveScope(suggestCollection, suggestDocument)
	questions, err := svc.SuggestQuestions(context.Background(), scope, suggestNum)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	faintColor.Fprintf(out, "Questions for %s:\n", scope)
	for i, q := range questions {
		fmt.Fprintf(out, "  %d. %s\n", i+1, q)
	}
	return nil
}
