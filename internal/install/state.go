// Package install reads local installation state from a modules directory.
// Each installed module is a subdirectory carrying a module.yaml metadata
// file plus optional marker files: "disable" for a disabled module and
// "update" for one staged to change on next reboot. Either marker means
// the module is locally modified.
package install

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/goccy/go-yaml"

	"github.com/modhub/modhub/pkg/catalog"
	"github.com/modhub/modhub/pkg/errors"
	"github.com/modhub/modhub/pkg/logging"
)

// MetadataFile is the per-module metadata file name.
const MetadataFile = "module.yaml"

// Markers that flag a module as locally modified.
const (
	markerDisable = "disable"
	markerUpdate  = "update"
)

// State implements catalog.InstallState over a modules directory.
type State struct {
	dir string
}

// New creates install state rooted at dir.
func New(dir string) *State {
	return &State{dir: dir}
}

// Installed lists every installed module, by-name sorted for stable output.
// Directories without readable metadata are skipped; a missing modules
// directory yields an empty set rather than an error.
func (s *State) Installed(ctx context.Context) ([]*catalog.InstalledEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dirents, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.WrapIO("reading", s.dir, err)
	}

	var out []*catalog.InstalledEntry
	for _, d := range dirents {
		if !d.IsDir() {
			continue
		}
		entry, err := s.read(d.Name())
		if err != nil {
			logging.Debug().Err(err).Str("module", d.Name()).Msg("Skipping unreadable module")
			continue
		}
		out = append(out, entry)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// read loads one module directory.
func (s *State) read(name string) (*catalog.InstalledEntry, error) {
	dir := filepath.Join(s.dir, name)

	raw, err := os.ReadFile(filepath.Join(dir, MetadataFile))
	if err != nil {
		return nil, errors.WrapIO("reading", filepath.Join(dir, MetadataFile), err)
	}

	var meta catalog.Entry
	if err := yaml.Unmarshal(raw, &meta); err != nil {
		return nil, errors.WrapIO("parsing", filepath.Join(dir, MetadataFile), err)
	}
	if meta.ID == "" {
		meta.ID = name
	}

	return &catalog.InstalledEntry{
		Entry:    meta,
		Modified: exists(filepath.Join(dir, markerDisable)) || exists(filepath.Join(dir, markerUpdate)),
	}, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
