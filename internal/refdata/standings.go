package refdata

import (
	"context"
	"fmt"
	"sort"

	"fpl-draft-pipeline/internal/fetch"
	"fpl-draft-pipeline/internal/model"
)

// LoadStandings fetches league details and returns one Manager per league
// entry, ranked by the current standings. Standings reference entries by
// league-entry id, not entry id, so the two lists are joined here once.
func LoadStandings(ctx context.Context, c *fetch.Client, leagueID int) ([]model.Manager, error) {
	ld, ok := c.LeagueDetails(ctx, leagueID)
	if !ok || len(ld.LeagueEntries) == 0 {
		return nil, fmt.Errorf("%w: league %d details", ErrUnavailable, leagueID)
	}

	rankByLeagueEntry := make(map[int]int, len(ld.Standings))
	for _, s := range ld.Standings {
		rankByLeagueEntry[s.LeagueEntry] = s.Rank
	}

	managers := make([]model.Manager, 0, len(ld.LeagueEntries))
	for _, e := range ld.LeagueEntries {
		managers = append(managers, model.Manager{
			ID:       e.EntryID,
			TeamName: e.EntryName,
			Rank:     rankByLeagueEntry[e.ID],
		})
	}
	sort.Slice(managers, func(i, j int) bool { return managers[i].ID < managers[j].ID })
	return managers, nil
}
