package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var librariesCmd = &cobra.Command{
	Use:   "libraries",
	Short: "List the configured libraries",
	RunE:  runLibraries,
}

func init() {
	rootCmd.AddCommand(librariesCmd)
}

func runLibraries(cmd *cobra.Command, _ []string) error {
	libs, err := libraryStore.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing libraries: %w", err)
	}
	if len(libs) == 0 {
		cmd.Println("No libraries configured.")
		return nil
	}
	for _, lib := range libs {
		mode := "closed"
		if lib.IsOpen() {
			mode = "open"
		}
		cmd.Printf("  %s\t%s\t(%s)\n", lib.ID, lib.Title, mode)
	}
	return nil
}
