package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"doclens/internal/domain"
	"doclens/internal/session"
)

var (
	confChunkSize  int
	confOverlap    int
	confTopK       int
	confGroupSize  int
	confCollection string
	confPersona    string
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Show or change session settings",
	Long: `Updates the persisted session configuration. With no flags, prints the
current values. Changes apply to subsequent commands; documents already
loaded keep the chunking they were loaded with.`,
	Args: cobra.NoArgs,
	RunE: runConfigure,
}

func init() {
	configureCmd.Flags().IntVar(&confChunkSize, "chunk-size", 0, "chunk size in characters")
	configureCmd.Flags().IntVar(&confOverlap, "overlap", -1, "overlap between consecutive chunks in characters")
	configureCmd.Flags().IntVar(&confTopK, "top-k", 0, "chunks retrieved per question")
	configureCmd.Flags().IntVar(&confGroupSize, "group-size", 0, "chunks per summarization group")
	configureCmd.Flags().StringVar(&confCollection, "collection", "", "default collection name")
	configureCmd.Flags().StringVar(&confPersona, "persona", "", "default answer persona (use 'none' to unset)")
	rootCmd.AddCommand(configureCmd)
}

func runConfigure(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	changed := false

	next := state.Config
	if cmd.Flags().Changed("chunk-size") {
		next.ChunkSize = confChunkSize
		changed = true
	}
	if cmd.Flags().Changed("overlap") {
		next.Overlap = confOverlap
		changed = true
	}
	if cmd.Flags().Changed("top-k") {
		next.TopK = confTopK
		changed = true
	}
	if cmd.Flags().Changed("group-size") {
		next.GroupSize = confGroupSize
		changed = true
	}
	if cmd.Flags().Changed("collection") {
		next.Collection = confCollection
		changed = true
	}
	if cmd.Flags().Changed("persona") {
		if confPersona == "none" {
			next.Persona = ""
		} else {
			next.Persona = confPersona
		}
		changed = true
	}

	if changed {
		if err := validateSessionConfig(next); err != nil {
			return err
		}
		state.Config = next
		if err := sessionStore.Save(state); err != nil {
			return err
		}
		successColor.Fprintln(out, "Configuration updated.")
	}

	fmt.Fprintf(out, "chunk_size:  %d\n", state.Config.ChunkSize)
	fmt.Fprintf(out, "overlap:     %d\n", state.Config.Overlap)
	fmt.Fprintf(out, "top_k:       %d\n", state.Config.TopK)
	fmt.Fprintf(out, "group_size:  %d\n", state.Config.GroupSize)
	fmt.Fprintf(out, "collection:  %s\n", state.Config.Collection)
	persona := state.Config.Persona
	if persona == "" {
		persona = "(none)"
	}
	fmt.Fprintf(out, "persona:     %s\n", persona)
	return nil
}

// validateSessionConfig rejects values the pipeline cannot work with before
// they reach the session file.
func validateSessionConfig(c session.Config) error {
	if c.ChunkSize < 1 {
		return &domain.ConfigError{Param: "chunk size", Reason: "must be at least 1"}
	}
	if c.Overlap < 1 || c.Overlap >= c.ChunkSize {
		return &domain.ConfigError{Param: "overlap", Reason: "must be positive and smaller than chunk size"}
	}
	if c.TopK < 1 {
		return &domain.ConfigError{Param: "top-k", Reason: "must be at least 1"}
	}
	if c.GroupSize < 2 {
		return &domain.ConfigError{Param: "group size", Reason: "must be at least 2"}
	}
	if c.Collection == "" {
		return &domain.ConfigError{Param: "collection", Reason: "must not be empty"}
	}
	return nil
}
