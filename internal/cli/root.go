package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"docchat/config"
	"docchat/internal/adapter/analyzer"
	"docchat/internal/adapter/cache"
	"docchat/internal/adapter/chunker"
	"docchat/internal/adapter/scorer"
	"docchat/internal/adapter/store"
	"docchat/internal/logger"
	"docchat/internal/usecase"
)

var (
	cfgFile string
	cfg     *config.Config
	rootDir string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "docchat",
	Short: "Chat with your documents using lexical retrieval",
	Long: `docchat ingests plain-text documents, chunks and indexes them locally,
and answers questions grounded in the most relevant chunks via an
OpenAI-compatible chat endpoint.

Example usage:
  docchat add ./docs               # Ingest documents
  docchat query -q "refund policy" # Inspect retrieval directly
  docchat chat                     # Interactive grounded chat`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger.SetVerbose(verbose || cfg.Logging.Verbose)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./docchat.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "data directory (default is current directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose diagnostic output")
}

// openIndex opens the bolt-backed store and returns a ready index. The
// caller owns the store and must Close it.
func openIndex() (*usecase.Index, *store.BoltStore, error) {
	if err := config.EnsureDataDir(rootDir); err != nil {
		return nil, nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	st, err := store.NewBoltStore(config.DataDBPath(rootDir))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open document store: %w", err)
	}

	tok := analyzer.NewTokenizer()
	ix := usecase.NewIndex(
		st,
		tok,
		chunker.NewLineChunker(tok),
		scorer.NewTFIDF(),
		cache.NewQueryCache(128, 5*time.Minute),
		cfg.Chunking.Size,
		cfg.Chunking.Overlap,
	)

	if err := ix.LoadFromCache(); err != nil {
		st.Close()
		return nil, nil, fmt.Errorf("failed to load index: %w", err)
	}
	return ix, st, nil
}
