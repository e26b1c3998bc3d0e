package store

import (
	"os"
	"path/filepath"

	parquet "github.com/parquet-go/parquet-go"

	"fpl-draft-pipeline/internal/model"
)

var snapshotSchema = parquet.SchemaOf(new(model.SnapshotRow))

// writeSnapshot writes rows as Snappy-compressed parquet via a temp file
// in the target directory and an atomic rename, so readers never observe
// a partially written snapshot.
func writeSnapshot(path string, rows []model.SnapshotRow) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*.parquet")
	if err != nil {
		return err
	}

	w := parquet.NewWriter(tmp, snapshotSchema, parquet.Compression(&parquet.Snappy))
	for _, r := range rows {
		if err := w.Write(r); err != nil {
			w.Close()
			tmp.Close()
			os.Remove(tmp.Name())
			return err
		}
	}
	if err := w.Close(); err != nil {
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

// readSnapshot loads every row of a snapshot (or master) parquet file.
func readSnapshot(path string) ([]model.SnapshotRow, error) {
	return parquet.ReadFile[model.SnapshotRow](path)
}
