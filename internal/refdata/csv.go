package refdata

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"fpl-draft-pipeline/internal/model"
)

// Reference table artifacts under the data directory, consumed by the
// presentation layer alongside the master dataset.
const (
	PlayersCSV   = "players_data.csv"
	StandingsCSV = "league_standings.csv"
	GameweeksCSV = "gameweeks.csv"
	FixturesCSV  = "fixtures.csv"
)

var playersHeader = []string{
	"ID", "name", "team", "position", "minutes", "goals_scored", "assists",
	"CS", "bonus", "total_points", "xG", "xA", "xGi", "xGc",
}

var standingsHeader = []string{"manager_id", "team_name", "rank"}

var gameweeksHeader = []string{"id", "name", "deadline_time", "finished", "is_current"}

var fixturesHeader = []string{
	"event", "team_h_name", "team_a_name",
	"team_h_difficulty", "team_a_difficulty", "kickoff_time",
}

func writeCSV(path string, header []string, records [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return err
	}
	if err := w.WriteAll(records); err != nil {
		f.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func readCSV(path string, header []string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 || len(rows[0]) != len(header) {
		return nil, fmt.Errorf("%w in %s", ErrBadHeader, filepath.Base(path))
	}
	for i, col := range rows[0] {
		if col != header[i] {
			return nil, fmt.Errorf("%w in %s: column %q", ErrBadHeader, filepath.Base(path), col)
		}
	}
	return rows[1:], nil
}

// WritePlayersCSV persists the player catalog artifact.
func WritePlayersCSV(dataDir string, players []model.Player) error {
	records := make([][]string, 0, len(players))
	for _, p := range players {
		records = append(records, []string{
			strconv.Itoa(p.ID), p.Name, p.Team, p.Position,
			strconv.Itoa(p.Minutes), strconv.Itoa(p.GoalsScored), strconv.Itoa(p.Assists),
			strconv.Itoa(p.CleanSheets), strconv.Itoa(p.Bonus), strconv.Itoa(p.TotalPoints),
			formatFloat(p.XG), formatFloat(p.XA), formatFloat(p.XGI), formatFloat(p.XGC),
		})
	}
	return writeCSV(filepath.Join(dataDir, PlayersCSV), playersHeader, records)
}

// WriteStandingsCSV persists the league standings artifact.
func WriteStandingsCSV(dataDir string, managers []model.Manager) error {
	records := make([][]string, 0, len(managers))
	for _, m := range managers {
		records = append(records, []string{strconv.Itoa(m.ID), m.TeamName, strconv.Itoa(m.Rank)})
	}
	return writeCSV(filepath.Join(dataDir, StandingsCSV), standingsHeader, records)
}

// ReadStandingsCSV loads the standings artifact written by the pipeline.
func ReadStandingsCSV(dataDir string) ([]model.Manager, error) {
	records, err := readCSV(filepath.Join(dataDir, StandingsCSV), standingsHeader)
	if err != nil {
		return nil, err
	}
	managers := make([]model.Manager, 0, len(records))
	for _, rec := range records {
		id, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("standings manager_id %q: %w", rec[0], err)
		}
		rank, err := strconv.Atoi(rec[2])
		if err != nil {
			return nil, fmt.Errorf("standings rank %q: %w", rec[2], err)
		}
		managers = append(managers, model.Manager{ID: id, TeamName: rec[1], Rank: rank})
	}
	return managers, nil
}

// WriteGameweeksCSV persists the gameweek calendar artifact.
func WriteGameweeksCSV(dataDir string, gws []model.Gameweek) error {
	records := make([][]string, 0, len(gws))
	for _, gw := range gws {
		records = append(records, []string{
			strconv.Itoa(gw.ID), gw.Name, gw.DeadlineTime.Format(time.RFC3339),
			strconv.FormatBool(gw.Finished), strconv.FormatBool(gw.IsCurrent),
		})
	}
	return writeCSV(filepath.Join(dataDir, GameweeksCSV), gameweeksHeader, records)
}

// ReadGameweeksCSV loads the gameweek calendar artifact.
func ReadGameweeksCSV(dataDir string) ([]model.Gameweek, error) {
	records, err := readCSV(filepath.Join(dataDir, GameweeksCSV), gameweeksHeader)
	if err != nil {
		return nil, err
	}
	gws := make([]model.Gameweek, 0, len(records))
	for _, rec := range records {
		id, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("gameweek id %q: %w", rec[0], err)
		}
		deadline, err := time.Parse(time.RFC3339, rec[2])
		if err != nil {
			return nil, fmt.Errorf("gameweek deadline %q: %w", rec[2], err)
		}
		finished, _ := strconv.ParseBool(rec[3])
		current, _ := strconv.ParseBool(rec[4])
		gws = append(gws, model.Gameweek{
			ID: id, Name: rec[1], DeadlineTime: deadline.UTC(),
			Finished: finished, IsCurrent: current,
		})
	}
	return gws, nil
}

// WriteFixturesCSV persists the fixtures artifact.
func WriteFixturesCSV(dataDir string, fixtures []model.Fixture) error {
	records := make([][]string, 0, len(fixtures))
	for _, f := range fixtures {
		kickoff := ""
		if !f.KickoffTime.IsZero() {
			kickoff = f.KickoffTime.Format(time.RFC3339)
		}
		records = append(records, []string{
			strconv.Itoa(f.Event), f.HomeTeam, f.AwayTeam,
			strconv.Itoa(f.HomeDifficulty), strconv.Itoa(f.AwayDifficulty), kickoff,
		})
	}
	return writeCSV(filepath.Join(dataDir, FixturesCSV), fixturesHeader, records)
}

// ReadFixturesCSV loads the fixtures artifact.
func ReadFixturesCSV(dataDir string) ([]model.Fixture, error) {
	records, err := readCSV(filepath.Join(dataDir, FixturesCSV), fixturesHeader)
	if err != nil {
		return nil, err
	}
	fixtures := make([]model.Fixture, 0, len(records))
	for _, rec := range records {
		event, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("fixture event %q: %w", rec[0], err)
		}
		homeDiff, _ := strconv.Atoi(rec[3])
		awayDiff, _ := strconv.Atoi(rec[4])
		var kickoff time.Time
		if rec[5] != "" {
			t, err := time.Parse(time.RFC3339, rec[5])
			if err != nil {
				return nil, fmt.Errorf("fixture kickoff %q: %w", rec[5], err)
			}
			kickoff = t.UTC()
		}
		fixtures = append(fixtures, model.Fixture{
			Event: event, HomeTeam: rec[1], AwayTeam: rec[2],
			HomeDifficulty: homeDiff, AwayDifficulty: awayDiff, KickoffTime: kickoff,
		})
	}
	return fixtures, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
