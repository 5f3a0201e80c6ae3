package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/caselib/internal/adapters/driven/config/file"
	"github.com/custodia-labs/caselib/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/caselib/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the query endpoint",
	Long: `Starts the HTTP query endpoint and serves the configured libraries
until interrupted. The config file is watched; library changes are
picked up without a restart.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Hot-reload the library registry on config changes. Listen address
	// and base address changes still require a restart.
	go func() {
		err := configfile.Watch(ctx, configFlag, func(updated *configfile.Config) {
			libraryStore.Replace(updated.DomainLibraries())
		})
		if err != nil && ctx.Err() == nil {
			logger.Warn("Config watcher stopped: %v", err)
		}
	}()

	server := httpapi.NewServer(cfg.Listen, queryService, policy, index, libraryStore)
	return server.Serve(ctx)
}
