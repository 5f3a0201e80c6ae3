package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/caselib/internal/core/domain"
)

var putCmd = &cobra.Command{
	Use:   "put [document.json...]",
	Short: "Add or replace documents in the index",
	Long: `Reads documents from JSON files and stores them in the index,
keyed by library and path. An existing document at the same location
is replaced.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPut,
}

func init() {
	rootCmd.AddCommand(putCmd)
}

func runPut(cmd *cobra.Command, args []string) error {
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		var doc domain.Document
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
		if doc.LibraryID == "" || doc.Path == "" {
			return fmt.Errorf("%s: document must set libraryId and path", path)
		}
		if err := index.Save(cmd.Context(), &doc); err != nil {
			return fmt.Errorf("saving %s: %w", path, err)
		}
		cmd.Printf("Stored %s/%s (%s)\n", doc.LibraryID, doc.Path, doc.ID)
	}
	return nil
}
