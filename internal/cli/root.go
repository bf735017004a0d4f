package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"doclens/internal/config"
	"doclens/internal/domain"
	"doclens/internal/embedding"
	"doclens/internal/extract"
	"doclens/internal/generation"
	"doclens/internal/rag"
	"doclens/internal/retry"
	"doclens/internal/session"
	"doclens/internal/vectorstore/memory"
	"doclens/internal/vectorstore/qdrant"
)

var (
	cfgPath     string
	sessionPath string

	appCfg       *config.AppConfig
	sessionStore *session.Store
	state        *session.State
)

var rootCmd = &cobra.Command{
	Use:   "doclens",
	Short: "Converse with your documents",
	Long: `doclens loads plain-text documents into a vector collection and answers
questions about them with retrieval-augmented generation: ask one-off
questions, chat interactively, summarize whole documents, or get suggested
questions to explore.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfgPath == "" {
			appCfg, _, err = config.LoadDefault()
		} else {
			appCfg, err = config.Load(cfgPath)
		}
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if sessionPath == "" {
			sessionPath, err = session.DefaultPath()
			if err != nil {
				return fmt.Errorf("resolve session path: %w", err)
			}
		}
		sessionStore = session.NewStore(sessionPath)
		state, err = sessionStore.Load()
		if err != nil {
			return fmt.Errorf("load session: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to the config file (default ./doclens.yaml, then ~/.config/doclens/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&sessionPath, "session", "", "path to the session file (default ~/.config/doclens/session.yaml)")
}

// Execute runs the root command, rendering any error for the terminal.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("Error: %s", renderErr(err))
		os.Exit(1)
	}
}

// newService assembles the collaborators the config selects. The returned
// closer releases the vector store connection; callers defer it.
func newService() (*rag.Service, func(), error) {
	policy := retryPolicy()

	var embedder domain.Embedder
	var err error
	switch appCfg.Embedder.Type {
	case "ollama", "":
		embedder, err = embedding.NewOllama(embedding.OllamaConfig{
			Host:    appCfg.Ollama.Host,
			Model:   appCfg.Ollama.EmbedModel,
			Timeout: time.Duration(appCfg.Ollama.TimeoutSecs) * time.Second,
		}, policy)
	case "openai":
		if appCfg.Embedder.OpenAI == nil {
			return nil, nil, errors.New("openai embedder selected but not configured")
		}
		embedder, err = embedding.NewOpenAI(embedding.OpenAIConfig{
			BaseURL:   appCfg.Embedder.OpenAI.BaseURL,
			APIKeyEnv: appCfg.Embedder.OpenAI.APIKeyEnv,
			Model:     appCfg.Embedder.OpenAI.Model,
			Timeout:   time.Duration(appCfg.Embedder.OpenAI.TimeoutSecs) * time.Second,
			BatchSize: appCfg.Embedder.OpenAI.BatchSize,
		}, policy)
	default:
		return nil, nil, fmt.Errorf("unknown embedder type %q", appCfg.Embedder.Type)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("init embedder: %w", err)
	}

	generator, err := generation.New(generation.Config{
		Host:    appCfg.Ollama.Host,
		Model:   appCfg.Ollama.GenerateModel,
		Timeout: time.Duration(appCfg.Ollama.TimeoutSecs) * time.Second,
	}, policy)
	if err != nil {
		return nil, nil, fmt.Errorf("init generator: %w", err)
	}

	closer := func() {}
	var index domain.VectorIndex
	switch appCfg.VectorStore.Type {
	case "qdrant", "":
		qcfg := qdrant.Config{}
		if q := appCfg.VectorStore.Qdrant; q != nil {
			qcfg = qdrant.Config{Host: q.Host, Port: q.Port, APIKey: q.APIKey, UseTLS: q.UseTLS}
		}
		qx, err := qdrant.New(qcfg)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to qdrant: %w", err)
		}
		index = qx
		closer = func() { _ = qx.Close() }
	case "memory":
		index = memory.New()
	default:
		return nil, nil, fmt.Errorf("unknown vector store type %q", appCfg.VectorStore.Type)
	}

	return rag.New(extract.New(), embedder, generator, index), closer, nil
}

func retryPolicy() retry.Policy {
	p := retry.Default()
	if appCfg.Retry.MaxAttempts > 0 {
		p.MaxAttempts = appCfg.Retry.MaxAttempts
	}
	if appCfg.Retry.BaseDelayMS > 0 {
		p.BaseDelay = time.Duration(appCfg.Retry.BaseDelayMS) * time.Millisecond
	}
	if appCfg.Retry.MaxDelaySecs > 0 {
		p.MaxDelay = time.Duration(appCfg.Retry.MaxDelaySecs) * time.Second
	}
	return p
}

// resolveScope decides the retrieval scope for one command invocation:
// an explicit --document flag wins, then the session focus, then the whole
// collection.
func resolveScope(collectionFlag, documentFlag string) domain.Scope {
	scope := domain.Scope{Collection: state.Config.Collection}
	if collectionFlag != "" {
		scope.Collection = collectionFlag
	}
	switch {
	case documentFlag != "":
		scope.DocumentID = documentFlag
	case collectionFlag == "" && state.Focus != "":
		scope.DocumentID = state.Focus
	}
	return scope
}

// renderErr maps the error taxonomy to actionable terminal messages.
func renderErr(err error) string {
	var nf *domain.NotFoundError
	if errors.As(err, &nf) {
		return nf.Error()
	}
	if errors.Is(err, domain.ErrEmptyScope) {
		return "no documents loaded yet. Use 'doclens load <path>' first."
	}
	var se *domain.ServiceError
	if errors.As(err, &se) {
		if se.Retryable {
			return fmt.Sprintf("%s (transient; retries exhausted, try again)", se.Error())
		}
		return se.Error()
	}
	return err.Error()
}

var (
	successColor = color.New(color.FgGreen)
	faintColor   = color.New(color.Faint)
	answerColor  = color.New(color.FgCyan)
)
