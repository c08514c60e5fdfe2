// Package exporter mirrors every cataloged NetBox collection into a
// timestamped directory: one CSV per resource type, one aggregate JSON file
// and a manifest.
package exporter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	uuid "github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"

	"github.com/cimnine/netbox-sync/catalog"
	"github.com/cimnine/netbox-sync/metrics"
	"github.com/cimnine/netbox-sync/netbox/models"
	"github.com/cimnine/netbox-sync/reducer"
	"github.com/cimnine/netbox-sync/tabular"
)

// Source delivers all objects of one collection. *fetcher.Fetcher
// implements it.
type Source interface {
	FetchCollection(ctx context.Context, d models.Descriptor) ([]models.Object, error)
}

type Exporter struct {
	Source    Source
	Reducer   reducer.Reducer
	NetboxURL string

	// OutputDir is the parent of the timestamped export directory.
	OutputDir string

	// Descriptors to export; defaults to the whole catalog.
	Descriptors []models.Descriptor

	RunID string
	Now   func() time.Time
	Log   *logrus.Logger
}

// Run exports every descriptor in catalog order. A descriptor that fails to
// fetch is logged and exported as empty; the run carries on. Only failing to
// create the export directory or to write the manifest aborts the run.
func (e *Exporter) Run(ctx context.Context) (*Manifest, error) {
	log := e.logger()

	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	timestamp := now().Format(TimestampFormat)

	runID := e.RunID
	if runID == "" {
		runID = uuid.NewV4().String()
	}

	dir := filepath.Join(e.OutputDir, DirPrefix+timestamp)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}

	descriptors := e.Descriptors
	if len(descriptors) == 0 {
		descriptors = catalog.All()
	}

	manifest := &Manifest{
		ExportedAt: timestamp,
		NetboxURL:  e.NetboxURL,
		Files:      []string{},
		RunID:      runID,
		Dir:        dir,
	}
	full := make(map[string]map[string]Collection)

	for _, d := range descriptors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if _, ok := full[d.Category]; !ok {
			log.Infof("=== %s ===", d.Category)
			full[d.Category] = make(map[string]Collection)
		}

		collection, ok := e.export(ctx, d)
		if !ok {
			continue
		}

		full[d.Category][d.Type] = collection
		manifest.TotalObjects += collection.Count
		metrics.ObjectsExported.WithLabelValues(collection.Endpoint).Add(float64(collection.Count))

		if err := e.save(dir, d, collection); err != nil {
			log.WithError(err).Errorf("Can't save %s", d.FileName())
			continue
		}
		manifest.Files = append(manifest.Files, d.FileName())
	}

	if err := writeJSON(filepath.Join(dir, AggregateFile), full); err != nil {
		log.WithError(err).Errorf("Can't write %s", AggregateFile)
	}

	if err := writeJSON(filepath.Join(dir, ManifestFile), manifest); err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}

	log.WithFields(logrus.Fields{
		"total_objects": manifest.TotalObjects,
		"files":         len(manifest.Files),
		"dir":           dir,
	}).Info("Export complete")

	return manifest, nil
}

func (e *Exporter) export(ctx context.Context, d models.Descriptor) (Collection, bool) {
	log := e.logger().WithField("endpoint", d.Endpoint())
	log.Info("Exporting")

	results, err := e.Source.FetchCollection(ctx, d)
	if err != nil {
		log.WithError(err).Error("Can't fetch collection, treating it as empty")
		return Collection{}, false
	}

	if len(results) == 0 {
		log.Info("No data found")
		return Collection{}, false
	}

	data := make([]models.Object, 0, len(results))
	for _, raw := range results {
		data = append(data, e.Reducer.Reduce(ctx, raw, 0))
	}

	return Collection{Endpoint: d.Endpoint(), Count: len(data), Data: data}, true
}

func (e *Exporter) save(dir string, d models.Descriptor, collection Collection) error {
	path := filepath.Join(dir, filepath.FromSlash(d.FileName()))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	records := make([]tabular.Record, 0, len(collection.Data))
	for _, obj := range collection.Data {
		records = append(records, tabular.Flatten(obj))
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := tabular.Write(f, records); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	e.logger().Infof("Saved %d records to %s", collection.Count, path)
	return nil
}

func (e *Exporter) logger() *logrus.Logger {
	if e.Log != nil {
		return e.Log
	}
	return logrus.StandardLogger()
}
