package cli

import (
	"fmt"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"docchat/internal/adapter/fs"
	"docchat/internal/domain"
	"docchat/internal/logger"
)

var addConversation string

var addCmd = &cobra.Command{
	Use:   "add [path]",
	Short: "Ingest documents into the index",
	Long: `Ingest a file or directory of documents. Directories are walked with
the configured include/exclude globs; each file is chunked and persisted
before the next one starts.

Examples:
  docchat add ./docs
  docchat add notes.txt --conversation conv-42`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVar(&addConversation, "conversation", "", "scope documents to a single conversation")
}

func runAdd(cmd *cobra.Command, args []string) error {
	path := rootDir
	if len(args) > 0 {
		var err error
		path, err = filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("invalid path: %w", err)
		}
	}

	walker := fs.NewWalker(cfg.Ingest.Includes, cfg.Ingest.Excludes)
	files, err := walker.Walk(path)
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", path, err)
	}
	if len(files) == 0 {
		fmt.Println("No matching files found.")
		return nil
	}

	ix, st, err := openIndex()
	if err != nil {
		return err
	}
	defer st.Close()

	scope := domain.GlobalScope()
	if addConversation != "" {
		scope = domain.ConversationScope(addConversation)
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("[cyan]Ingesting[reset]"),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)

	var ingested, chunks int
	var failures []string

	for _, f := range files {
		content, err := fs.ReadText(f.Path)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", f.Name, err))
			bar.Add(1)
			continue
		}

		res, err := ix.AddDocument(f.Name, content, scope)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", f.Name, err))
			bar.Add(1)
			continue
		}

		logger.Debug("ingested %s: doc %s, %d chunks", f.Name, res.DocID, res.ChunkCount)
		ingested++
		chunks += res.ChunkCount
		bar.Add(1)
	}

	fmt.Printf("\nIngest complete:\n")
	fmt.Printf("  Files ingested: %d\n", ingested)
	fmt.Printf("  Chunks created: %d\n", chunks)
	if len(failures) > 0 {
		fmt.Printf("  Failed:         %d\n\n", len(failures))
		for _, f := range failures {
			fmt.Printf("  - %s\n", f)
		}
	}
	return nil
}
