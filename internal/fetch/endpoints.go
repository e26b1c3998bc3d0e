package fetch

import (
	"context"
	"fmt"
)

// GameMeta is the /game payload subset the pipeline needs.
type GameMeta struct {
	CurrentEvent         int  `json:"current_event"`
	CurrentEventFinished bool `json:"current_event_finished"`
	NextEvent            int  `json:"next_event"`
}

// RawElement is one bootstrap-static element before boundary renames.
// Expected-stat fields arrive as decimal strings.
type RawElement struct {
	ID          int    `json:"id"`
	FirstName   string `json:"first_name"`
	SecondName  string `json:"second_name"`
	Team        int    `json:"team"`
	ElementType int    `json:"element_type"`
	Minutes     int    `json:"minutes"`
	GoalsScored int    `json:"goals_scored"`
	Assists     int    `json:"assists"`
	CleanSheets int    `json:"clean_sheets"`
	Bonus       int    `json:"bonus"`
	TotalPoints int    `json:"total_points"`
	XG          string `json:"expected_goals"`
	XA          string `json:"expected_assists"`
	XGI         string `json:"expected_goal_involvements"`
	XGC         string `json:"expected_goals_conceded"`
}

type DraftBootstrap struct {
	Elements []RawElement `json:"elements"`
}

// RawLiveStats is one player's stat block from /event/{gw}/live.
type RawLiveStats struct {
	Minutes     int    `json:"minutes"`
	GoalsScored int    `json:"goals_scored"`
	Assists     int    `json:"assists"`
	CleanSheets int    `json:"clean_sheets"`
	Bonus       int    `json:"bonus"`
	TotalPoints int    `json:"total_points"`
	XG          string `json:"expected_goals"`
	XA          string `json:"expected_assists"`
}

type EventLive struct {
	Elements map[string]struct {
		Stats RawLiveStats `json:"stats"`
	} `json:"elements"`
}

// RawPick is one roster slot from /entry/{id}/event/{gw}.
type RawPick struct {
	Element  int `json:"element"`
	Position int `json:"position"`
}

type EntryEvent struct {
	Picks []RawPick `json:"picks"`
}

type LeagueDetails struct {
	LeagueEntries []struct {
		ID        int    `json:"id"`
		EntryID   int    `json:"entry_id"`
		EntryName string `json:"entry_name"`
	} `json:"league_entries"`
	Standings []struct {
		LeagueEntry int `json:"league_entry"`
		Rank        int `json:"rank"`
		Total       int `json:"total"`
	} `json:"standings"`
}

// RawChoice is one draft pick from /draft/{league}/choices.
type RawChoice struct {
	Entry      int    `json:"entry"`
	EntryName  string `json:"entry_name"`
	Element    int    `json:"element"`
	Round      int    `json:"round"`
	Pick       int    `json:"pick"`
	Index      int    `json:"index"`
	ChoiceTime string `json:"choice_time"`
	WasAuto    bool   `json:"was_auto"`
}

type DraftChoices struct {
	Choices []RawChoice `json:"choices"`
}

// RawEvent is one gameweek row from the public bootstrap-static.
type RawEvent struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	DeadlineTime string `json:"deadline_time"`
	Finished     bool   `json:"finished"`
	IsCurrent    bool   `json:"is_current"`
}

type PublicTeam struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type PublicBootstrap struct {
	Events []RawEvent   `json:"events"`
	Teams  []PublicTeam `json:"teams"`
}

// RawFixture is one match from the public fixtures endpoint.
type RawFixture struct {
	Event           int    `json:"event"`
	TeamH           int    `json:"team_h"`
	TeamA           int    `json:"team_a"`
	TeamHDifficulty int    `json:"team_h_difficulty"`
	TeamADifficulty int    `json:"team_a_difficulty"`
	KickoffTime     string `json:"kickoff_time"`
}

// /game
func (c *Client) Game(ctx context.Context) (GameMeta, bool) {
	var meta GameMeta
	ok := c.GetJSON(ctx, c.DraftBaseURL+"/game", &meta)
	return meta, ok
}

// /bootstrap-static
func (c *Client) BootstrapStatic(ctx context.Context) (DraftBootstrap, bool) {
	var bs DraftBootstrap
	ok := c.GetJSON(ctx, c.DraftBaseURL+"/bootstrap-static", &bs)
	return bs, ok
}

// /event/{gw}/live
func (c *Client) EventLive(ctx context.Context, gw int) (EventLive, bool) {
	var live EventLive
	ok := c.GetJSON(ctx, fmt.Sprintf("%s/event/%d/live", c.DraftBaseURL, gw), &live)
	return live, ok
}

// /entry/{entry_id}/event/{gw}
func (c *Client) EntryEvent(ctx context.Context, entryID int, gw int) (EntryEvent, bool) {
	var ev EntryEvent
	ok := c.GetJSON(ctx, fmt.Sprintf("%s/entry/%d/event/%d", c.DraftBaseURL, entryID, gw), &ev)
	return ev, ok
}

// /league/{league_id}/details
func (c *Client) LeagueDetails(ctx context.Context, leagueID int) (LeagueDetails, bool) {
	var ld LeagueDetails
	ok := c.GetJSON(ctx, fmt.Sprintf("%s/league/%d/details", c.DraftBaseURL, leagueID), &ld)
	return ld, ok
}

// /draft/{league_id}/choices
func (c *Client) LeagueDraftChoices(ctx context.Context, leagueID int) (DraftChoices, bool) {
	var dc DraftChoices
	ok := c.GetJSON(ctx, fmt.Sprintf("%s/draft/%d/choices", c.DraftBaseURL, leagueID), &dc)
	return dc, ok
}

// Public bootstrap-static (deadlines and team names).
func (c *Client) PublicBootstrapStatic(ctx context.Context) (PublicBootstrap, bool) {
	var bs PublicBootstrap
	ok := c.GetJSON(ctx, c.PublicBaseURL+"/bootstrap-static/", &bs)
	return bs, ok
}

// Public fixtures endpoint (kickoff times and difficulty).
func (c *Client) PublicFixtures(ctx context.Context) ([]RawFixture, bool) {
	var fixtures []RawFixture
	ok := c.GetJSON(ctx, c.PublicBaseURL+"/fixtures/", &fixtures)
	return fixtures, ok
}
