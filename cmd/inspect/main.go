// Command inspect prints a JSON inventory of the artifacts under a data
// directory: reference tables, persisted snapshots, master dataset and
// the latest reconcile report. Debugging aid for a data dir that looks
// off; it never mutates anything.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"fpl-draft-pipeline/internal/ledger"
	"fpl-draft-pipeline/internal/reconcile"
	"fpl-draft-pipeline/internal/refdata"
	"fpl-draft-pipeline/internal/store"
)

type tableInfo struct {
	File string `json:"file"`
	Rows int    `json:"rows"`
	Err  string `json:"error,omitempty"`
}

type snapshotInfo struct {
	Gameweek int    `json:"gameweek"`
	Rows     int    `json:"rows"`
	Err      string `json:"error,omitempty"`
}

type inventory struct {
	GeneratedAtUTC string         `json:"generated_at_utc"`
	DataDir        string         `json:"data_dir"`
	Tables         []tableInfo    `json:"tables"`
	Snapshots      []snapshotInfo `json:"snapshots"`
	MasterRows     int            `json:"master_rows"`
	MasterErr      string         `json:"master_error,omitempty"`
	DraftPicks     int            `json:"draft_picks"`
	Mismatches     int            `json:"reconcile_mismatches"`
}

func main() {
	dataDir := flag.String("data-dir", "data", "root directory for pipeline artifacts")
	flag.Parse()

	inv := inventory{
		GeneratedAtUTC: time.Now().UTC().Format(time.RFC3339),
		DataDir:        *dataDir,
		Tables:         make([]tableInfo, 0, 4),
		Snapshots:      make([]snapshotInfo, 0, 38),
	}

	count := func(file string, load func() (int, error)) {
		info := tableInfo{File: file}
		n, err := load()
		if err != nil {
			info.Err = err.Error()
		}
		info.Rows = n
		inv.Tables = append(inv.Tables, info)
	}
	count(refdata.StandingsCSV, func() (int, error) {
		rows, err := refdata.ReadStandingsCSV(*dataDir)
		return len(rows), err
	})
	count(refdata.GameweeksCSV, func() (int, error) {
		rows, err := refdata.ReadGameweeksCSV(*dataDir)
		return len(rows), err
	})
	count(refdata.FixturesCSV, func() (int, error) {
		rows, err := refdata.ReadFixturesCSV(*dataDir)
		return len(rows), err
	})

	st := store.New(*dataDir, zerolog.Nop())
	completed, err := st.Completed()
	if err != nil {
		fmt.Fprintln(os.Stderr, "read manifest:", err)
		os.Exit(1)
	}
	for _, gw := range completed {
		info := snapshotInfo{Gameweek: gw}
		rows, err := st.LoadSnapshot(gw)
		if err != nil {
			info.Err = err.Error()
		}
		info.Rows = len(rows)
		inv.Snapshots = append(inv.Snapshots, info)
	}

	master, err := st.LoadMaster()
	if err != nil {
		inv.MasterErr = err.Error()
	}
	inv.MasterRows = len(master)

	if l, err := ledger.Read(*dataDir); err == nil {
		inv.DraftPicks = len(l.Picks)
	}
	if b, err := os.ReadFile(filepath.Join(*dataDir, reconcile.ReportFile)); err == nil {
		var report reconcile.Report
		if json.Unmarshal(b, &report) == nil {
			inv.Mismatches = len(report.Mismatches)
		}
	}

	out, err := json.MarshalIndent(inv, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, "marshal inventory:", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
