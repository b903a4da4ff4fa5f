package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index statistics and documents",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	ix, st, err := openIndex()
	if err != nil {
		return err
	}
	defer st.Close()

	stats, err := ix.Stats()
	if err != nil {
		return fmt.Errorf("failed to read stats: %w", err)
	}

	fmt.Printf("Documents:   %d\n", stats.DocumentCount)
	fmt.Printf("Chunks:      %d\n", stats.ChunkCount)
	fmt.Printf("Total chars: %d\n", stats.TotalChars)

	docs, err := ix.ListDocuments()
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}
	if len(docs) == 0 {
		return nil
	}

	fmt.Println()
	for _, d := range docs {
		fmt.Printf("  %s  %s (%d chunks, scope %s)\n", d.ID, d.Name, d.ChunkCount, d.Scope)
	}
	return nil
}
