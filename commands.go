package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cimnine/netbox-sync/catalog"
	"github.com/cimnine/netbox-sync/exporter"
	"github.com/cimnine/netbox-sync/fetcher"
	"github.com/cimnine/netbox-sync/importer"
	"github.com/cimnine/netbox-sync/metrics"
	"github.com/cimnine/netbox-sync/netbox/models"
	"github.com/cimnine/netbox-sync/reducer"
	"github.com/cimnine/netbox-sync/util"
)

func addExportFlags(cmd *cobra.Command, opts *options) {
	flags := cmd.Flags()
	flags.IntVarP(&opts.limit, "limit", "l", 0, "API page limit")
	flags.StringVarP(&opts.resource, "resource", "r", "", "export a single collection, e.g. dcim/devices")
	flags.StringVarP(&opts.output, "output", "o", "", "directory the export directory is created in")
}

func newExportCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every NetBox collection into a timestamped directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd, opts)
		},
	}
	addExportFlags(cmd, opts)
	return cmd
}

func newImportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import <dir>",
		Short: "Replay an export directory into NetBox",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, opts, args[0])
		},
	}
}

func runExport(cmd *cobra.Command, opts *options) error {
	ctx := cmd.Context()

	env, err := setup(cmd, opts)
	if err != nil {
		return err
	}
	defer env.Close()

	var descriptors []models.Descriptor
	if opts.resource != "" {
		d, ok := catalog.Parse(opts.resource)
		if !ok {
			return fmt.Errorf("unknown resource %q", opts.resource)
		}
		descriptors = []models.Descriptor{d}
	}

	f := fetcher.New(env.client, env.references())
	f.PageSize = env.conf.Sync.PageSize
	f.Policy = env.conf.RetryPolicy()
	f.Throttle = fetcher.NewThrottle(env.conf.Sync.Throttle)
	f.Log = env.log

	red := reducer.Reducer{}
	if env.conf.Sync.ResolveReferences {
		red.Resolver = f
	}

	e := &exporter.Exporter{
		Source:      f,
		Reducer:     red,
		NetboxURL:   env.conf.Netbox.API.URL,
		OutputDir:   env.conf.Sync.OutputDir,
		Descriptors: descriptors,
		RunID:       env.runID,
		Log:         env.log,
	}

	manifest, err := e.Run(ctx)
	if err != nil {
		return err
	}

	metrics.LastRunTimestamp.WithLabelValues("export").Set(float64(time.Now().Unix()))
	env.writeMetrics(opts.metricsFile)

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d objects to %s\n", manifest.TotalObjects, manifest.Dir)
	return nil
}

func runImport(cmd *cobra.Command, opts *options, dir string) error {
	ctx := cmd.Context()

	env, err := setup(cmd, opts)
	if err != nil {
		return err
	}
	defer env.Close()

	i := &importer.Importer{
		Target:   env.client,
		Throttle: fetcher.NewThrottle(env.conf.Sync.Throttle),
		Log:      env.log,
	}

	summary, err := i.Run(ctx, util.FirstNonEmpty(dir, opts.importDir))
	if err != nil {
		return err
	}

	metrics.LastRunTimestamp.WithLabelValues("import").Set(float64(time.Now().Unix()))
	env.writeMetrics(opts.metricsFile)

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d rows, %d failed, %d skipped\n",
		summary.Succeeded, summary.Failed, summary.Skipped)
	return nil
}
