package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	queryText string
	queryTopK int
	queryConv string
	queryJSON bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Search indexed documents",
	Long: `Rank indexed chunks against a query and print the top matches. This is
the raw retrieval surface the chat command builds on.

Examples:
  docchat query -q "refund policy"
  docchat query -q "shipping times" --top-k 10 --json`,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "search query (required)")
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of results (default from config)")
	queryCmd.Flags().StringVar(&queryConv, "conversation", "", "include documents scoped to this conversation")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output as JSON")
	queryCmd.MarkFlagRequired("query")
}

func runQuery(cmd *cobra.Command, args []string) error {
	ix, st, err := openIndex()
	if err != nil {
		return err
	}
	defer st.Close()

	topK := cfg.Retrieve.TopK
	if queryTopK > 0 {
		topK = queryTopK
	}

	results, err := ix.RetrieveRelevantChunks(queryText, topK, queryConv)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if queryJSON {
		output, _ := json.MarshalIndent(results, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Printf("Found %d results for: %s\n\n", len(results), queryText)
	for i, r := range results {
		fmt.Printf("--- [%d] %s (score: %.3f) ---\n", i+1, r.DocName, r.Score)
		text := r.Content
		if len(text) > 500 {
			text = text[:500] + "..."
		}
		fmt.Println(text)
		fmt.Println()
	}
	return nil
}
