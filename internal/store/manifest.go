package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"
)

const manifestFileName = "manifest.json"

// Manifest is the explicit record of completed gameweeks, written
// atomically alongside the snapshot files. The file set and the manifest
// normally agree; the manifest is authoritative.
type Manifest struct {
	RunID        string `json:"run_id,omitempty"`
	UpdatedAtUTC string `json:"updated_at_utc"`
	Completed    []int  `json:"completed"`
}

func (m *Manifest) Has(gw int) bool {
	for _, c := range m.Completed {
		if c == gw {
			return true
		}
	}
	return false
}

func (m *Manifest) Add(gw int) {
	if m.Has(gw) {
		return
	}
	m.Completed = append(m.Completed, gw)
	sort.Ints(m.Completed)
}

var snapshotNamePattern = regexp.MustCompile(`^gw_data_gw(\d+)\.parquet$`)

// readManifest loads the manifest, falling back to scanning snapshot file
// names when no manifest exists yet (data directories written before the
// manifest was introduced).
func (s *Store) readManifest() (*Manifest, error) {
	path := filepath.Join(s.SnapshotDir, manifestFileName)
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s.manifestFromFiles()
	}
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	sort.Ints(m.Completed)
	return &m, nil
}

func (s *Store) manifestFromFiles() (*Manifest, error) {
	entries, err := os.ReadDir(s.SnapshotDir)
	if err != nil {
		return nil, err
	}
	m := &Manifest{}
	for _, e := range entries {
		match := snapshotNamePattern.FindStringSubmatch(e.Name())
		if match == nil {
			continue
		}
		gw, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		m.Add(gw)
	}
	return m, nil
}

// writeManifest persists the manifest via temp file + rename.
func (s *Store) writeManifest(m *Manifest) error {
	m.UpdatedAtUTC = time.Now().UTC().Format(time.RFC3339)

	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')

	path := filepath.Join(s.SnapshotDir, manifestFileName)
	tmp, err := os.CreateTemp(s.SnapshotDir, ".manifest-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// SetRunID tags the manifest with the current pipeline run.
func (m *Manifest) SetRunID(id string) {
	m.RunID = id
}
