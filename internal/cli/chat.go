package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"doclens/internal/domain"
	"doclens/internal/rag"
	"doclens/internal/session"
	"doclens/internal/tui"
)

var (
	chatDocument   string
	chatPersona    string
	chatCollection string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive question-and-answer session",
	Long: `Opens a terminal chat over the same retrieval pipeline as ask. Each
answered turn is persisted as the session memory, so the conversation
survives quitting and resuming.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatDocument, "document", "", "restrict retrieval to one document id")
	chatCmd.Flags().StringVar(&chatPersona, "persona", "", "answer from this perspective (default: session persona)")
	chatCmd.Flags().StringVar(&chatCollection, "collection", "", "collection to search (default: session collection)")
	rootCmd.AddCommand(chatCmd)
}

// chatAsker adapts the ask pipeline to the TUI, saving the session after
// every answered turn.
type chatAsker struct {
	svc     *rag.Service
	store   *session.Store
	state   *session.State
	scope   domain.Scope
	persona string
}

func (a *chatAsker) Ask(question string) (string, []string, error) {
	answer, rc, err := a.svc.Ask(context.Background(), question, a.scope, a.persona, a.state)
	if err != nil {
		return "", nil, err
	}
	var sources []string
	seen := map[string]struct{}{}
	for _, r := range rc.Results {
		if _, dup := seen[r.Chunk.DocumentID]; dup {
			continue
		}
		seen[r.Chunk.DocumentID] = struct{}{}
		sources = append(sources, r.Chunk.DocumentID)
	}
	if err := a.store.Save(a.state); err != nil {
		return "", nil, err
	}
	return answer, sources, nil
}

func runChat(cmd *cobra.Command, args []string) error {
	svc, closer, err := newService()
	if err != nil {
		return err
	}
	defer closer()

	scope := resolveScope(chatCollection, chatDocument)
	asker := &chatAsker{
		svc:     svc,
		store:   sessionStore,
		state:   state,
		scope:   scope,
		persona: chatPersona,
	}

	p := tea.NewProgram(tui.New(asker, scope.String()), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
