// Package aggregate derives the dashboard tables from the master dataset.
// Every function is pure: no I/O, no mutation of its input, and a
// validly-typed empty result for empty input so consumers never branch on
// shape. Missing team/gameweek combinations are always 0, never an error.
package aggregate

import (
	"sort"

	"fpl-draft-pipeline/internal/model"
)

// TeamPointsRow is one team's row of the gameweek points pivot. Points is
// aligned with the pivot's Gameweeks columns.
type TeamPointsRow struct {
	TeamName string `json:"team_name"`
	Points   []int  `json:"points"`
	Total    int    `json:"total"`
}

// TeamPointsPivot is the team × gameweek points pivot with a trailing
// Total per row, sorted by Total descending.
type TeamPointsPivot struct {
	Gameweeks []int           `json:"gameweeks"`
	Rows      []TeamPointsRow `json:"rows"`
}

type TeamAverage struct {
	TeamName  string  `json:"team_name"`
	AvgPoints float64 `json:"avg_points"`
}

type TeamTotal struct {
	TeamName    string `json:"team_name"`
	TotalPoints int    `json:"total_points"`
}

type PositionPoints struct {
	Position string `json:"position"`
	Points   int    `json:"points"`
}

type TopPerformer struct {
	Gameweek int    `json:"gameweek"`
	Player   string `json:"player"`
	Team     string `json:"team"`
	Points   int    `json:"points"`
	Benched  bool   `json:"benched"`
}

// PlayerProgression is the gameweek × player points pivot, missing
// combinations filled with 0. Points[i][j] is Players[j]'s score in
// Gameweeks[i].
type PlayerProgression struct {
	Gameweeks []int    `json:"gameweeks"`
	Players   []string `json:"players"`
	Points    [][]int  `json:"points"`
}

// StartingLineup filters to rows occupying a starting-XI slot
// (team_position 1-11). Unowned rows carry no slot and never pass.
func StartingLineup(rows []model.SnapshotRow) []model.SnapshotRow {
	out := make([]model.SnapshotRow, 0, len(rows))
	for _, r := range rows {
		if r.InStartingLineup() {
			out = append(out, r)
		}
	}
	return out
}

// ManagerRows filters the dataset to one manager's team by display name.
// An unknown team yields an empty result.
func ManagerRows(rows []model.SnapshotRow, teamName string) []model.SnapshotRow {
	out := make([]model.SnapshotRow, 0, len(rows))
	for _, r := range rows {
		if r.TeamName != nil && *r.TeamName == teamName {
			out = append(out, r)
		}
	}
	return out
}

// TeamGameweekPoints pivots starting-lineup rows to (team × gameweek)
// summed points. Missing combinations fill with 0; each row's Total is
// recomputed from its gameweek cells so a stale Total can never survive.
// Rows sort by Total descending; ties keep alphabetical team order.
func TeamGameweekPoints(rows []model.SnapshotRow) TeamPointsPivot {
	gwSet := make(map[int]bool)
	teamSet := make(map[string]bool)
	cells := make(map[string]map[int]int)

	for _, r := range rows {
		if r.TeamName == nil {
			continue
		}
		team := *r.TeamName
		gwSet[r.Gameweek] = true
		teamSet[team] = true
		if cells[team] == nil {
			cells[team] = make(map[int]int)
		}
		cells[team][r.Gameweek] += r.TotalPoints
	}

	gameweeks := sortedInts(gwSet)
	teams := sortedStrings(teamSet)

	pivot := TeamPointsPivot{
		Gameweeks: gameweeks,
		Rows:      make([]TeamPointsRow, 0, len(teams)),
	}
	for _, team := range teams {
		row := TeamPointsRow{TeamName: team, Points: make([]int, len(gameweeks))}
		for i, gw := range gameweeks {
			row.Points[i] = cells[team][gw]
			row.Total += row.Points[i]
		}
		pivot.Rows = append(pivot.Rows, row)
	}

	sort.SliceStable(pivot.Rows, func(i, j int) bool {
		return pivot.Rows[i].Total > pivot.Rows[j].Total
	})
	return pivot
}

// TeamAveragePoints computes each team's mean over the pivot's gameweek
// columns (Total excluded), sorted descending. Ties keep the pivot's row
// order.
func TeamAveragePoints(pivot TeamPointsPivot) []TeamAverage {
	out := make([]TeamAverage, 0, len(pivot.Rows))
	for _, row := range pivot.Rows {
		avg := 0.0
		if len(row.Points) > 0 {
			avg = float64(row.Total) / float64(len(row.Points))
		}
		out = append(out, TeamAverage{TeamName: row.TeamName, AvgPoints: avg})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AvgPoints > out[j].AvgPoints })
	return out
}

// TeamTotalPoints groups starting-lineup rows by team and sums points,
// sorted descending. Ties keep alphabetical team order.
func TeamTotalPoints(rows []model.SnapshotRow) []TeamTotal {
	totals := make(map[string]int)
	for _, r := range rows {
		if r.TeamName == nil {
			continue
		}
		totals[*r.TeamName] += r.TotalPoints
	}

	out := make([]TeamTotal, 0, len(totals))
	for _, team := range sortedStrings(boolKeys(totals)) {
		out = append(out, TeamTotal{TeamName: team, TotalPoints: totals[team]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalPoints > out[j].TotalPoints })
	return out
}

// PointsByPosition sums starting-lineup points per GK/DEF/MID/FWD. Rows
// whose catalog position is unknown are excluded.
func PointsByPosition(rows []model.SnapshotRow) []PositionPoints {
	totals := make(map[string]int)
	for _, r := range rows {
		if r.Position == nil || *r.Position == "" {
			continue
		}
		totals[*r.Position] += r.TotalPoints
	}

	order := []string{model.PositionGK, model.PositionDEF, model.PositionMID, model.PositionFWD}
	out := make([]PositionPoints, 0, len(totals))
	for _, pos := range order {
		if _, found := totals[pos]; found {
			out = append(out, PositionPoints{Position: pos, Points: totals[pos]})
		}
	}
	return out
}

// TopPerformers groups rows by (gameweek, player, real team), sums points
// and flags players who ever sat on the bench within the group, then
// returns the n highest-scoring groups. Ties keep (gameweek, player)
// order.
func TopPerformers(rows []model.SnapshotRow, n int) []TopPerformer {
	type key struct {
		gw     int
		player string
		team   string
	}
	sums := make(map[key]*TopPerformer)
	for _, r := range rows {
		k := key{gw: r.Gameweek, player: deref(r.Name), team: deref(r.Team)}
		p, found := sums[k]
		if !found {
			p = &TopPerformer{Gameweek: k.gw, Player: k.player, Team: k.team}
			sums[k] = p
		}
		p.Points += r.TotalPoints
		if r.TeamPosition != nil && *r.TeamPosition > 11 {
			p.Benched = true
		}
	}

	out := make([]TopPerformer, 0, len(sums))
	for _, p := range sums {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Gameweek != out[j].Gameweek {
			return out[i].Gameweek < out[j].Gameweek
		}
		return out[i].Player < out[j].Player
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Points > out[j].Points })

	if n >= 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// Progression pivots rows to (gameweek × player) total points, missing
// combinations filled with 0.
func Progression(rows []model.SnapshotRow) PlayerProgression {
	gwSet := make(map[int]bool)
	playerSet := make(map[string]bool)
	cells := make(map[int]map[string]int)

	for _, r := range rows {
		name := deref(r.Name)
		gwSet[r.Gameweek] = true
		playerSet[name] = true
		if cells[r.Gameweek] == nil {
			cells[r.Gameweek] = make(map[string]int)
		}
		cells[r.Gameweek][name] += r.TotalPoints
	}

	prog := PlayerProgression{
		Gameweeks: sortedInts(gwSet),
		Players:   sortedStrings(playerSet),
	}
	prog.Points = make([][]int, len(prog.Gameweeks))
	for i, gw := range prog.Gameweeks {
		prog.Points[i] = make([]int, len(prog.Players))
		for j, name := range prog.Players {
			prog.Points[i][j] = cells[gw][name]
		}
	}
	return prog
}

// CumulativePoints converts the pivot's per-gameweek cells into running
// totals, preserving row order. Each row's Total is unchanged (it already
// equals the final cumulative value).
func CumulativePoints(pivot TeamPointsPivot) TeamPointsPivot {
	out := TeamPointsPivot{
		Gameweeks: append([]int(nil), pivot.Gameweeks...),
		Rows:      make([]TeamPointsRow, 0, len(pivot.Rows)),
	}
	for _, row := range pivot.Rows {
		cum := TeamPointsRow{TeamName: row.TeamName, Points: make([]int, len(row.Points)), Total: row.Total}
		running := 0
		for i, p := range row.Points {
			running += p
			cum.Points[i] = running
		}
		out.Rows = append(out.Rows, cum)
	}
	return out
}

// WaiverTarget is a free agent ranked by accumulated points.
type WaiverTarget struct {
	Player       string `json:"player"`
	Team         string `json:"team"`
	Position     string `json:"position"`
	TotalPoints  int    `json:"total_points"`
	LastGWPoints int    `json:"last_gw_points"`
}

// WaiverTargets ranks players unowned in the latest gameweek by their
// points across the whole dataset, best first. Ties keep alphabetical
// player order. The shortlist for the next waiver window.
func WaiverTargets(rows []model.SnapshotRow, n int) []WaiverTarget {
	latest := 0
	for _, r := range rows {
		if r.Gameweek > latest {
			latest = r.Gameweek
		}
	}

	ownedNow := make(map[int]bool)
	for _, r := range rows {
		if r.Gameweek == latest && r.Owned() {
			ownedNow[r.ID] = true
		}
	}

	byPlayer := make(map[int]*WaiverTarget)
	for _, r := range rows {
		if ownedNow[r.ID] {
			continue
		}
		t, found := byPlayer[r.ID]
		if !found {
			t = &WaiverTarget{}
			byPlayer[r.ID] = t
		}
		t.TotalPoints += r.TotalPoints
		if r.Gameweek == latest {
			t.LastGWPoints = r.TotalPoints
			t.Player = deref(r.Name)
			t.Team = deref(r.Team)
			t.Position = deref(r.Position)
		}
		// Older rows only fill identity when the latest gameweek has none.
		if t.Player == "" {
			t.Player = deref(r.Name)
			t.Team = deref(r.Team)
			t.Position = deref(r.Position)
		}
	}

	out := make([]WaiverTarget, 0, len(byPlayer))
	for _, t := range byPlayer {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Player < out[j].Player })
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalPoints > out[j].TotalPoints })

	if n >= 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

func sortedInts(set map[int]bool) []int {
	out := make([]int, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

func sortedStrings(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func boolKeys(m map[string]int) map[string]bool {
	out := make(map[string]bool, len(m))
	for k := range m {
		out[k] = true
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
