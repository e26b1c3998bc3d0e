// Package ledger records how each manager's squad was originally drafted.
// The draft runs once before gameweek 1, so the ledger is fetched once and
// kept as a JSON artifact next to the reference CSVs.
package ledger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"fpl-draft-pipeline/internal/fetch"
)

// LedgerFile is the draft ledger artifact under the data directory.
const LedgerFile = "draft_ledger.json"

// Pick is one draft selection in overall draft order.
type Pick struct {
	PlayerID   int    `json:"ID"`
	ManagerID  int    `json:"manager_id"`
	Round      int    `json:"round"`
	Pick       int    `json:"pick"`
	Index      int    `json:"index"`
	ChoiceTime string `json:"choice_time"`
	WasAuto    bool   `json:"was_auto"`
}

// Squad is the set of players a manager drafted.
type Squad struct {
	ManagerID int   `json:"manager_id"`
	PlayerIDs []int `json:"IDs"`
}

type Ledger struct {
	LeagueID       int     `json:"league_id"`
	GeneratedAtUTC string  `json:"generated_at_utc"`
	Squads         []Squad `json:"squads"`
	Picks          []Pick  `json:"picks"`
}

// Build assembles the ledger from the raw draft choices, ordered by the
// overall draft index. Squads are listed in manager-ID order.
func Build(leagueID int, choices []fetch.RawChoice) *Ledger {
	ordered := make([]fetch.RawChoice, len(choices))
	copy(ordered, choices)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Index < ordered[j].Index })

	squadBy := make(map[int][]int)
	picks := make([]Pick, 0, len(ordered))
	for _, c := range ordered {
		squadBy[c.Entry] = append(squadBy[c.Entry], c.Element)
		picks = append(picks, Pick{
			PlayerID:   c.Element,
			ManagerID:  c.Entry,
			Round:      c.Round,
			Pick:       c.Pick,
			Index:      c.Index,
			ChoiceTime: c.ChoiceTime,
			WasAuto:    c.WasAuto,
		})
	}

	squads := make([]Squad, 0, len(squadBy))
	for managerID, players := range squadBy {
		squads = append(squads, Squad{ManagerID: managerID, PlayerIDs: players})
	}
	sort.Slice(squads, func(i, j int) bool { return squads[i].ManagerID < squads[j].ManagerID })

	return &Ledger{
		LeagueID:       leagueID,
		GeneratedAtUTC: time.Now().UTC().Format(time.RFC3339),
		Squads:         squads,
		Picks:          picks,
	}
}

// Write persists the ledger via temp file + rename.
func Write(dataDir string, l *Ledger) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')

	tmp, err := os.CreateTemp(dataDir, ".ledger-*")
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
	return os.Rename(tmp.Name(), filepath.Join(dataDir, LedgerFile))
}

// Read loads the ledger artifact.
func Read(dataDir string) (*Ledger, error) {
	b, err := os.ReadFile(filepath.Join(dataDir, LedgerFile))
	if err != nil {
		return nil, err
	}
	var l Ledger
	if err := json.Unmarshal(b, &l); err != nil {
		return nil, err
	}
	return &l, nil
}
