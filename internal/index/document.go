package index

import (
	"github.com/modhub/modhub/pkg/catalog"
)

// Document is the remote index file layout.
type Document struct {
	Name    string `yaml:"name"`
	Modules []Row  `yaml:"modules"`
}

// Row is one module row of the index document.
type Row struct {
	ID          string            `yaml:"id"`
	Name        string            `yaml:"name"`
	Version     string            `yaml:"version"`
	VersionCode int64             `yaml:"versionCode"`
	Author      string            `yaml:"author"`
	Description string            `yaml:"description"`
	Updated     string            `yaml:"updated"`
	ZipURL      string            `yaml:"zipUrl"`
	Size        int64             `yaml:"size"`
	Repo        *catalog.RepoInfo `yaml:"repo"`
}

// Entries converts the document rows into catalog entries, skipping rows
// without an ID.
func (d *Document) Entries() []*catalog.RemoteEntry {
	out := make([]*catalog.RemoteEntry, 0, len(d.Modules))
	for _, row := range d.Modules {
		if row.ID == "" {
			continue
		}
		e := &catalog.RemoteEntry{
			Entry: catalog.Entry{
				ID:          row.ID,
				Name:        row.Name,
				Version:     row.Version,
				VersionCode: row.VersionCode,
				Author:      row.Author,
				Description: row.Description,
				Repo:        row.Repo,
			},
			DownloadURL: row.ZipURL,
			Size:        row.Size,
		}
		if t, err := parseTime(row.Updated); err == nil {
			e.UpdatedAt = t
		}
		out = append(out, e)
	}
	return out
}
