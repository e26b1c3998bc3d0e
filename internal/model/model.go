// Package model holds the typed records flowing through the pipeline.
// Column renames from the raw API vocabulary happen once at the ingestion
// boundary (internal/refdata, internal/extract); nothing downstream ever
// touches a raw field name.
package model

import "time"

// Positional vocabulary for element_type codes from bootstrap-static.
const (
	PositionGK  = "GK"
	PositionDEF = "DEF"
	PositionMID = "MID"
	PositionFWD = "FWD"
)

var positionNames = map[int]string{
	1: PositionGK,
	2: PositionDEF,
	3: PositionMID,
	4: PositionFWD,
}

// PositionName maps an element_type code to GK/DEF/MID/FWD.
// Unknown codes return "".
func PositionName(elementType int) string {
	return positionNames[elementType]
}

// Player is one row of the player catalog (bootstrap-static elements),
// refreshed at pipeline start and immutable within a run.
type Player struct {
	ID          int     `json:"ID"`
	Name        string  `json:"name"`
	Team        string  `json:"team"`
	Position    string  `json:"position"`
	Minutes     int     `json:"minutes"`
	GoalsScored int     `json:"goals_scored"`
	Assists     int     `json:"assists"`
	CleanSheets int     `json:"CS"`
	Bonus       int     `json:"bonus"`
	TotalPoints int     `json:"total_points"`
	XG          float64 `json:"xG"`
	XA          float64 `json:"xA"`
	XGI         float64 `json:"xGi"`
	XGC         float64 `json:"xGc"`
}

// Manager is a league participant (an "entry" in API terms).
type Manager struct {
	ID       int    `json:"manager_id"`
	TeamName string `json:"team_name"`
	Rank     int    `json:"rank"`
}

// Gameweek is one row of the gameweek calendar. DeadlineTime is UTC.
type Gameweek struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	DeadlineTime time.Time `json:"deadline_time"`
	Finished     bool      `json:"finished"`
	IsCurrent    bool      `json:"is_current"`
}

// Fixture is one scheduled match. KickoffTime is UTC.
type Fixture struct {
	Event          int       `json:"event"`
	HomeTeam       string    `json:"team_h_name"`
	AwayTeam       string    `json:"team_a_name"`
	HomeDifficulty int       `json:"team_h_difficulty"`
	AwayDifficulty int       `json:"team_a_difficulty"`
	KickoffTime    time.Time `json:"kickoff_time"`
}

// Pick assigns a player to a manager's roster for one gameweek.
// TeamPosition 1-11 is the starting lineup, 12-15 the bench.
type Pick struct {
	PlayerID     int `json:"ID"`
	ManagerID    int `json:"manager_id"`
	Gameweek     int `json:"gameweek"`
	TeamPosition int `json:"team_position"`
}

// GameweekStat is one player's scoring line for one gameweek, as returned
// by the event live endpoint. Immutable once fetched.
type GameweekStat struct {
	PlayerID    int     `json:"ID"`
	Gameweek    int     `json:"gameweek"`
	Minutes     int     `json:"minutes"`
	GoalsScored int     `json:"goals_scored"`
	Assists     int     `json:"assists"`
	CleanSheets int     `json:"clean_sheets"`
	Bonus       int     `json:"bonus"`
	TotalPoints int     `json:"total_points"`
	XG          float64 `json:"expected_goals"`
	XA          float64 `json:"expected_assists"`
}

// SnapshotRow is one row of a persisted gameweek snapshot and of the merged
// master dataset: a player's stat line annotated with ownership. The
// ownership fields are nil for unowned players — consumers must branch on
// Owned() rather than rely on zero values.
type SnapshotRow struct {
	ID          int     `parquet:"ID" json:"ID"`
	Gameweek    int     `parquet:"gameweek" json:"gameweek"`
	Name        *string `parquet:"name,optional" json:"name"`
	Team        *string `parquet:"team,optional" json:"team"`
	Position    *string `parquet:"position,optional" json:"position"`
	Minutes     int     `parquet:"minutes" json:"minutes"`
	GoalsScored int     `parquet:"goals_scored" json:"goals_scored"`
	Assists     int     `parquet:"assists" json:"assists"`
	CleanSheets int     `parquet:"clean_sheets" json:"clean_sheets"`
	Bonus       int     `parquet:"bonus" json:"bonus"`
	TotalPoints int     `parquet:"total_points" json:"total_points"`
	XG          float64 `parquet:"expected_goals" json:"expected_goals"`
	XA          float64 `parquet:"expected_assists" json:"expected_assists"`

	ManagerID    *int    `parquet:"manager_id,optional" json:"manager_id"`
	TeamPosition *int    `parquet:"team_position,optional" json:"team_position"`
	TeamName     *string `parquet:"team_name,optional" json:"team_name"`
}

// Owned reports whether any manager held this player for this gameweek.
func (r *SnapshotRow) Owned() bool {
	return r.ManagerID != nil
}

// InStartingLineup reports whether the row occupies a starting-XI slot.
// Unowned rows have no slot and are never in the lineup.
func (r *SnapshotRow) InStartingLineup() bool {
	return r.TeamPosition != nil && *r.TeamPosition <= 11
}
