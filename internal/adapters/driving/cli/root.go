// Package cli implements the caselib command-line interface with cobra.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/caselib/internal/adapters/driven/config/file"
	"github.com/custodia-labs/caselib/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/caselib/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/caselib/internal/core/ports/driven"
	"github.com/custodia-labs/caselib/internal/core/ports/driving"
	"github.com/custodia-labs/caselib/internal/core/services"
	"github.com/custodia-labs/caselib/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services wired by initServices and shared by the commands.
var (
	cfg          *configfile.Config
	index        driven.Index
	libraryStore *memory.LibraryStore
	policy       driving.PolicyService
	queryService driving.QueryService

	// closeIndex releases the SQLite store after a command finishes.
	closeIndex func() error
)

var (
	verboseFlag bool
	configFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "caselib",
	Short: "Federated document-library query endpoint",
	Long: `caselib hosts document libraries and answers structured queries
from remote aggregators, enforcing per-document access policy and
returning ordered, paginated, redacted result envelopes.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verboseFlag)
		return initServices()
	},
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		if closeIndex != nil {
			return closeIndex()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file path (default ~/.caselib/config.toml)")
}

// initServices loads the configuration and wires the core services.
// It is idempotent so tests can pre-wire fakes without being overridden.
func initServices() error {
	if queryService != nil {
		return nil
	}

	var err error
	cfg, err = configfile.Load(configFlag)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("opening index: %w", err)
	}
	index = store
	closeIndex = store.Close

	libraryStore = memory.NewLibraryStore(cfg.DomainLibraries()...)
	policy = services.NewPolicyService()
	queryService = services.NewQueryService(index, libraryStore, policy, cfg.BaseAddress)
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
