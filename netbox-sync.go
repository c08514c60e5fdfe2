package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cimnine/netbox-sync/configuration"
)

var version = "0.0.0"

func main() {
	fmt.Fprintf(os.Stderr, "netbox-sync v%s\n", version)

	ctx, cancel := context.WithCancel(context.Background())
	setupShutdownHandler(cancel)

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "netbox-sync",
		Short: "Export a NetBox instance to CSV/JSON and import it back",
		Long: "netbox-sync mirrors every NetBox collection it knows into a timestamped\n" +
			"directory (one CSV per resource type, an aggregate JSON file and a manifest)\n" +
			"and replays such a directory into a NetBox instance in dependency order.",
		Version:      version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.importDir != "" {
				return runImport(cmd, opts, opts.importDir)
			}
			return runExport(cmd, opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", configuration.DefaultPath, "where to load the config from")
	flags.StringVarP(&opts.url, "url", "u", "", "NetBox URL, e.g. https://netbox.example.com (env: "+configuration.EnvURL+")")
	flags.StringVarP(&opts.token, "token", "t", "", "NetBox API token (env: "+configuration.EnvToken+")")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug|info|warn|error")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile after the run")
	flags.IntVar(&opts.retryAttempts, "retry-attempts", -1, "attempts per page before giving up, 0 retries forever")
	flags.StringVar(&opts.redisHost, "redis-host", "", "keep resolved references in this Redis server")
	flags.IntVar(&opts.redisPort, "redis-port", 0, "port of the Redis server")

	addExportFlags(rootCmd, opts)
	rootCmd.Flags().StringVarP(&opts.importDir, "import-dir", "i", "", "import from this export directory instead of exporting")

	rootCmd.AddCommand(newExportCmd(opts))
	rootCmd.AddCommand(newImportCmd(opts))

	return rootCmd
}

func setupShutdownHandler(shutdown context.CancelFunc) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		log.Println("Shutting down.")

		shutdown()

		<-c
		log.Println("Bye 👋")
		os.Exit(130)
	}()
}
