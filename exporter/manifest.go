package exporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cimnine/netbox-sync/netbox/models"
)

const (
	ManifestFile  = "manifest.json"
	AggregateFile = "full_export.json"

	// TimestampFormat names export directories and stamps manifests.
	TimestampFormat = "20060102_150405"
	DirPrefix       = "netbox_export_"
)

// Manifest describes what an export run wrote. Files lists the tabular
// files relative to the export directory, in catalog order; an importer
// replays them in that order.
type Manifest struct {
	ExportedAt   string   `json:"exported_at"`
	NetboxURL    string   `json:"netbox_url"`
	TotalObjects int      `json:"total_objects"`
	Files        []string `json:"files"`
	RunID        string   `json:"run_id,omitempty"`

	// Dir is where the export was written. It is not serialized.
	Dir string `json:"-"`
}

// Collection is one resource type inside the aggregate file.
type Collection struct {
	Endpoint string          `json:"endpoint"`
	Count    int             `json:"count"`
	Data     []models.Object `json:"data"`
}

// ReadManifest loads the manifest of the export in dir.
func ReadManifest(dir string) (*Manifest, error) {
	raw, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", ManifestFile, err)
	}
	m.Dir = dir
	return &m, nil
}

func writeJSON(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
