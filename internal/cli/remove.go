package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove <doc-id>",
	Short: "Remove a document and its chunks",
	Long: `Remove a document from the index by id. Removing an unknown id is a
no-op. Use 'docchat stats' to list document ids.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	ix, st, err := openIndex()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := ix.RemoveDocument(args[0]); err != nil {
		return fmt.Errorf("failed to remove document: %w", err)
	}

	fmt.Printf("Removed %s\n", args[0])
	return nil
}
