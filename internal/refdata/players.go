// Package refdata loads the static reference tables the pipeline needs
// before any gameweek extraction: player catalog, league standings,
// gameweek calendar and fixtures. Unlike gameweek fetches, these are
// prerequisites — any failure here propagates and aborts the run.
package refdata

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fpl-draft-pipeline/internal/fetch"
	"fpl-draft-pipeline/internal/model"
)

var (
	ErrUnavailable = errors.New("reference data unavailable")
	ErrBadHeader   = errors.New("unexpected csv header")
)

// teamNames maps bootstrap team codes to club names for the current
// season. The draft bootstrap carries no teams list, so the catalog uses
// this fixed lookup; fixtures resolve names from the public API instead.
var teamNames = map[int]string{
	1: "Arsenal", 2: "Aston Villa", 3: "Burnley", 4: "Bournemouth",
	5: "Brentford", 6: "Brighton", 7: "Chelsea", 8: "Crystal Palace",
	9: "Everton", 10: "Fulham", 11: "Leeds United", 12: "Liverpool",
	13: "Manchester City", 14: "Manchester United", 15: "Newcastle United",
	16: "Nottingham Forest", 17: "Sunderland", 18: "Tottenham",
	19: "West Ham", 20: "Wolverhampton",
}

// LoadPlayerCatalog fetches bootstrap-static and normalizes every element
// into the stable catalog vocabulary: merged name, club name, GK/DEF/MID/FWD
// position, expected stats parsed from their decimal-string form.
func LoadPlayerCatalog(ctx context.Context, c *fetch.Client) ([]model.Player, error) {
	bs, ok := c.BootstrapStatic(ctx)
	if !ok || len(bs.Elements) == 0 {
		return nil, fmt.Errorf("%w: bootstrap-static elements", ErrUnavailable)
	}

	players := make([]model.Player, 0, len(bs.Elements))
	for _, e := range bs.Elements {
		players = append(players, model.Player{
			ID:          e.ID,
			Name:        strings.TrimSpace(e.FirstName + " " + e.SecondName),
			Team:        teamNames[e.Team],
			Position:    model.PositionName(e.ElementType),
			Minutes:     e.Minutes,
			GoalsScored: e.GoalsScored,
			Assists:     e.Assists,
			CleanSheets: e.CleanSheets,
			Bonus:       e.Bonus,
			TotalPoints: e.TotalPoints,
			XG:          parseFloat(e.XG),
			XA:          parseFloat(e.XA),
			XGI:         parseFloat(e.XGI),
			XGC:         parseFloat(e.XGC),
		})
	}
	return players, nil
}

// parseFloat parses the API's decimal-string stats, returning 0 for
// empty or malformed values.
func parseFloat(s string) float64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
