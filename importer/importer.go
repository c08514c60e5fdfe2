// Package importer replays an export directory into a NetBox instance, one
// POST per row, in catalog order.
package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/cimnine/netbox-sync/metrics"
	"github.com/cimnine/netbox-sync/netbox"
	"github.com/cimnine/netbox-sync/netbox/models"
	"github.com/cimnine/netbox-sync/tabular"
)

// ErrorLogSuffix replaces ".csv" in the name of a file's error log.
const ErrorLogSuffix = "_errors.json"

// Poster creates one object. *netbox.Client implements it.
type Poster interface {
	Create(ctx context.Context, r netbox.Resolver, obj models.Object) (int, error)
}

type Importer struct {
	Target   Poster
	Throttle *rate.Limiter
	Log      *logrus.Logger
}

// RowError is one entry of an error log. Row is the zero-based data row.
type RowError struct {
	Row    int           `json:"row"`
	Data   models.Object `json:"data"`
	Error  string        `json:"error"`
	Status int           `json:"status,omitempty"`
}

type FileResult struct {
	Path      string
	Endpoint  string
	Rows      int
	Succeeded int
	Failed    int
	Skipped   int
	Errors    []RowError
	ErrorLog  string
}

type Summary struct {
	Files     []FileResult
	Succeeded int
	Failed    int
	Skipped   int
}

func (s *Summary) add(r FileResult) {
	s.Files = append(s.Files, r)
	s.Succeeded += r.Succeeded
	s.Failed += r.Failed
	s.Skipped += r.Skipped
}

// Run imports every file of the export in dir. Row failures end up in the
// summary and the error logs; only a cancelled context stops the run early.
func (i *Importer) Run(ctx context.Context, dir string) (*Summary, error) {
	log := i.logger()

	files, skipped, err := Plan(dir)
	if err != nil {
		return nil, fmt.Errorf("list export files: %w", err)
	}
	for _, name := range skipped {
		log.WithField("file", name).Warn("Not a known NetBox collection, skipping")
	}

	summary := &Summary{}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		result, err := i.ImportFile(ctx, dir, f)
		if err != nil {
			log.WithError(err).WithField("file", f.Path).Warn("Can't import file, skipping")
			continue
		}
		summary.add(result)
	}

	log.WithFields(logrus.Fields{
		"succeeded": summary.Succeeded,
		"failed":    summary.Failed,
		"skipped":   summary.Skipped,
	}).Info("Import complete")

	return summary, nil
}

// ImportFile posts every row of one file. An error is returned only if the
// file could not be read.
func (i *Importer) ImportFile(ctx context.Context, dir string, f File) (FileResult, error) {
	path := filepath.Join(dir, filepath.FromSlash(f.Path))
	endpoint := f.Descriptor.Endpoint()
	log := i.logger().WithField("endpoint", endpoint)

	records, err := readFile(path)
	if err != nil {
		return FileResult{}, err
	}

	log.Infof("Importing %s", path)
	result := FileResult{Path: path, Endpoint: endpoint, Rows: len(records)}

	for n, rec := range records {
		obj := tabular.Unflatten(rec)
		if isPlaceholder(obj) {
			result.Skipped++
			metrics.RowsImported.WithLabelValues(endpoint, "skipped").Inc()
			continue
		}

		if err := i.wait(ctx); err != nil {
			return result, err
		}

		status, err := i.Target.Create(ctx, f.Descriptor, obj)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, RowError{
				Row:    n,
				Data:   obj,
				Error:  errorText(err),
				Status: status,
			})
			metrics.RowsImported.WithLabelValues(endpoint, "failed").Inc()
			log.WithError(err).Warnf("[%d/%d] Failed: %d", n+1, len(records), status)
			continue
		}

		result.Succeeded++
		metrics.RowsImported.WithLabelValues(endpoint, "succeeded").Inc()
		log.Infof("[%d/%d] Created: %s", n+1, len(records), label(obj))
	}

	log.Infof("Summary: %d/%d successful", result.Succeeded, result.Rows)

	if len(result.Errors) > 0 {
		result.ErrorLog = strings.TrimSuffix(path, ".csv") + ErrorLogSuffix
		if err := writeErrors(result.ErrorLog, result.Errors); err != nil {
			log.WithError(err).Errorf("Can't write %s", result.ErrorLog)
		} else {
			log.Infof("Errors saved to %s", result.ErrorLog)
		}
	}

	return result, nil
}

func readFile(path string) ([]tabular.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return tabular.Read(f)
}

// isPlaceholder reports rows that carry nothing NetBox could create: empty
// rows and rows holding only an id.
func isPlaceholder(obj models.Object) bool {
	for key := range obj {
		if key != "id" {
			return false
		}
	}
	return true
}

func label(obj models.Object) string {
	for _, key := range []string{"name", "slug"} {
		if v, ok := obj[key]; ok && v.Primitive() && !v.IsNull() {
			return v.Text()
		}
	}
	return "Unknown"
}

// errorText prefers the response body NetBox sent, which usually names the
// offending fields.
func errorText(err error) string {
	var apiErr *netbox.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Body
	}
	return err.Error()
}

func writeErrors(path string, rows []RowError) error {
	raw, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

func (i *Importer) wait(ctx context.Context) error {
	if i.Throttle == nil {
		return nil
	}
	return i.Throttle.Wait(ctx)
}

func (i *Importer) logger() *logrus.Logger {
	if i.Log != nil {
		return i.Log
	}
	return logrus.StandardLogger()
}
