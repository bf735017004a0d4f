package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	askDocument   string
	askPersona    string
	askTopK       int
	askCollection string
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question about the loaded documents",
	Long: `Retrieves the most relevant chunks for the question and generates a
grounded answer. The session focus narrows retrieval to one document unless
--document overrides it. The answer and question become the session memory,
so one follow-up question can refer back to them.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askDocument, "document", "", "restrict retrieval to one document id")
	askCmd.Flags().StringVar(&askPersona, "persona", "", "answer from this perspective (default: session persona)")
	askCmd.Flags().IntVar(&askTopK, "top-k", 0, "number of chunks to retrieve (default: session top_k)")
	askCmd.Flags().StringVar(&askCollection, "collection", "", "collection to search (default: session collection)")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	svc, closer, err := newService()
	if err != nil {
		return err
	}
	defer closer()

	// --top-k applies to this invocation only; the session value is
	// restored before saving.
	savedTopK := state.Config.TopK
	if askTopK > 0 {
		state.Config.TopK = askTopK
	}
	scope := resolveScope(askCollection, askDocument)

	answer, rc, err := svc.Ask(context.Background(), args[0], scope, askPersona, state)
	state.Config.TopK = savedTopK
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	answerColor.Fprintln(out, answer)
	fmt.Fprintln(out)
	for _, r := range rc.Results {
		faintColor.Fprintf(out, "  source: %s #%d (score %.3f)\n", r.Chunk.DocumentID, r.Chunk.Index, r.Score)
	}

	return sessionStore.Save(state)
}
