package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"doclens/internal/rag"
)

var (
	summarizeMaxChunks int
	summarizeGroupSize int
	summarizeOutput    string
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize <document-id>",
	Short: "Summarize a whole document",
	Long: `Builds one coherent summary of the document with hierarchical map-reduce:
groups of chunks are summarized independently, then the group summaries are
reduced level by level until a single summary remains. --max-chunks limits
the run to the document's first N chunks.`,
	Args: cobra.ExactArgs(1),
	RunE: runSummarize,
}

func init() {
	summarizeCmd.Flags().IntVar(&summarizeMaxChunks, "max-chunks", 0, "summarize only the first N chunks (0 = whole document)")
	summarizeCmd.Flags().IntVar(&summarizeGroupSize, "group-size", 0, "chunks per generation call (default: session group_size)")
	summarizeCmd.Flags().StringVar(&summarizeOutput, "output", "", "also write the summary to this file")
	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, args []string) error {
	svc, closer, err := newService()
	if err != nil {
		return err
	}
	defer closer()

	summary, err := svc.Summarize(context.Background(), args[0], state, rag.SummarizeOptions{
		MaxChunks: summarizeMaxChunks,
		GroupSize: summarizeGroupSize,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	answerColor.Fprintln(out, summary)

	if summarizeOutput != "" {
		if err := os.WriteFile(summarizeOutput, []byte(summary+"\n"), 0o644); err != nil {
			return fmt.Errorf("write summary file: %w", err)
		}
		fmt.Fprintln(out)
		successColor.Fprintf(out, "Summary written to %s\n", summarizeOutput)
	}
	return nil
}
