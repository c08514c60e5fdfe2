package importer

import (
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/cimnine/netbox-sync/catalog"
	"github.com/cimnine/netbox-sync/exporter"
	"github.com/cimnine/netbox-sync/netbox/models"
)

// File is one tabular file of an export, resolved against the catalog.
type File struct {
	Path       string
	Descriptor models.Descriptor
}

// Plan lists the files to replay from dir in catalog order. The manifest is
// authoritative when it can be read; otherwise dir is scanned for CSV files.
// Files that are not in the catalog are reported in skipped.
func Plan(dir string) (files []File, skipped []string, err error) {
	names, err := listFiles(dir)
	if err != nil {
		return nil, nil, err
	}

	seen := make(map[models.Descriptor]bool)
	for _, name := range names {
		d, ok := catalog.Parse(name)
		if !ok {
			skipped = append(skipped, name)
			continue
		}
		if seen[d] {
			continue
		}
		seen[d] = true
		files = append(files, File{Path: name, Descriptor: d})
	}

	sort.SliceStable(files, func(i, j int) bool {
		return catalog.Position(files[i].Descriptor) < catalog.Position(files[j].Descriptor)
	})
	return files, skipped, nil
}

func listFiles(dir string) ([]string, error) {
	if m, err := exporter.ReadManifest(dir); err == nil {
		return m.Files, nil
	}

	return doublestar.Glob(os.DirFS(dir), "**/*.csv")
}
