// Package reconcile cross-checks the merged master dataset against the
// manifest after every pipeline run: every persisted gameweek present,
// no duplicate player rows, no player owned by two managers. Mismatches
// are reported, never repaired.
package reconcile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"fpl-draft-pipeline/internal/model"
)

// ReportFile is the reconcile artifact under the data directory.
const ReportFile = "reconcile_report.json"

type Mismatch struct {
	Gameweek int    `json:"gameweek"`
	PlayerID int    `json:"ID,omitempty"`
	Kind     string `json:"kind"`
	Detail   string `json:"detail"`
}

type Report struct {
	RunID          string     `json:"run_id,omitempty"`
	GeneratedAtUTC string     `json:"generated_at_utc"`
	Gameweeks      []int      `json:"gameweeks"`
	Rows           int        `json:"rows"`
	Mismatches     []Mismatch `json:"mismatches"`
}

func (r *Report) Clean() bool { return len(r.Mismatches) == 0 }

// Check verifies the master dataset against the completed-gameweek set.
func Check(master []model.SnapshotRow, completed []int) *Report {
	report := &Report{
		GeneratedAtUTC: time.Now().UTC().Format(time.RFC3339),
		Gameweeks:      completed,
		Rows:           len(master),
		Mismatches:     []Mismatch{},
	}

	wantGW := make(map[int]bool, len(completed))
	for _, gw := range completed {
		wantGW[gw] = true
	}

	seen := make(map[[2]int]bool, len(master))   // (gw, player)
	ownerBy := make(map[[2]int]int, len(master)) // (gw, player) -> manager
	gotGW := make(map[int]bool, len(completed))

	for _, row := range master {
		gotGW[row.Gameweek] = true

		if !wantGW[row.Gameweek] {
			report.add(Mismatch{
				Gameweek: row.Gameweek, PlayerID: row.ID, Kind: "orphan_gameweek",
				Detail: fmt.Sprintf("gameweek %d not in manifest", row.Gameweek),
			})
		}

		key := [2]int{row.Gameweek, row.ID}
		if seen[key] {
			report.add(Mismatch{
				Gameweek: row.Gameweek, PlayerID: row.ID, Kind: "duplicate_row",
				Detail: fmt.Sprintf("player %d appears twice in gameweek %d", row.ID, row.Gameweek),
			})
		}
		seen[key] = true

		if row.ManagerID != nil {
			if prev, owned := ownerBy[key]; owned && prev != *row.ManagerID {
				report.add(Mismatch{
					Gameweek: row.Gameweek, PlayerID: row.ID, Kind: "double_ownership",
					Detail: fmt.Sprintf("player %d owned by managers %d and %d", row.ID, prev, *row.ManagerID),
				})
			} else {
				ownerBy[key] = *row.ManagerID
			}
		}
	}

	for _, gw := range completed {
		if !gotGW[gw] {
			report.add(Mismatch{
				Gameweek: gw, Kind: "missing_gameweek",
				Detail: fmt.Sprintf("manifest lists gameweek %d but master has no rows for it", gw),
			})
		}
	}

	sort.Slice(report.Mismatches, func(i, j int) bool {
		a, b := report.Mismatches[i], report.Mismatches[j]
		if a.Gameweek != b.Gameweek {
			return a.Gameweek < b.Gameweek
		}
		if a.PlayerID != b.PlayerID {
			return a.PlayerID < b.PlayerID
		}
		return a.Kind < b.Kind
	})
	return report
}

func (r *Report) add(m Mismatch) {
	r.Mismatches = append(r.Mismatches, m)
}

// WriteReport persists the report via temp file + rename.
func WriteReport(dataDir string, report *Report) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')

	tmp, err := os.CreateTemp(dataDir, ".reconcile-*")
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
	return os.Rename(tmp.Name(), filepath.Join(dataDir, ReportFile))
}
