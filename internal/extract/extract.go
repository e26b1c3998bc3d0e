// Package extract builds per-gameweek snapshots: every player's stat line
// for the gameweek, annotated with which manager (if any) owned the player
// and in which roster slot.
package extract

import (
	"context"
	"sort"
	"strconv"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"fpl-draft-pipeline/internal/fetch"
	"fpl-draft-pipeline/internal/model"
)

// Fetcher is the slice of the API client the extractor needs. Tests
// substitute a fake; production passes *fetch.Client.
type Fetcher interface {
	EventLive(ctx context.Context, gw int) (fetch.EventLive, bool)
	EntryEvent(ctx context.Context, entryID int, gw int) (fetch.EntryEvent, bool)
}

type Extractor struct {
	API         Fetcher
	Concurrency int

	log zerolog.Logger
}

func New(api Fetcher, concurrency int, log zerolog.Logger) *Extractor {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Extractor{API: api, Concurrency: concurrency, log: log}
}

// Extract builds the snapshot for one gameweek. An empty result means the
// gameweek has not been played (or the stats fetch failed) and must not be
// persisted; it is not an error. The result always has exactly one row per
// player-stat row returned by the API: the ownership join can neither drop
// nor duplicate stat rows.
func (e *Extractor) Extract(ctx context.Context, gw int, managers []model.Manager, catalog []model.Player) []model.SnapshotRow {
	live, ok := e.API.EventLive(ctx, gw)
	if !ok || len(live.Elements) == 0 {
		e.log.Warn().Int("gw", gw).Msg("no player stats for gameweek, skipping")
		return nil
	}

	stats := liveToStats(gw, live)

	catalogByID := make(map[int]model.Player, len(catalog))
	for _, p := range catalog {
		catalogByID[p.ID] = p
	}

	picks := e.fetchPicks(ctx, gw, managers)
	ownerByPlayer := dedupePicks(picks, e.log)

	rows := make([]model.SnapshotRow, 0, len(stats))
	for _, s := range stats {
		row := model.SnapshotRow{
			ID:          s.PlayerID,
			Gameweek:    gw,
			Minutes:     s.Minutes,
			GoalsScored: s.GoalsScored,
			Assists:     s.Assists,
			CleanSheets: s.CleanSheets,
			Bonus:       s.Bonus,
			TotalPoints: s.TotalPoints,
			XG:          s.XG,
			XA:          s.XA,
		}
		// Catalog is expected to be a superset; rows without a match
		// keep nil name/team/position rather than being dropped.
		if p, found := catalogByID[s.PlayerID]; found {
			row.Name = &p.Name
			row.Team = &p.Team
			row.Position = &p.Position
		}
		if pick, owned := ownerByPlayer[s.PlayerID]; owned {
			managerID := pick.ManagerID
			teamPos := pick.TeamPosition
			row.ManagerID = &managerID
			row.TeamPosition = &teamPos
		}
		rows = append(rows, row)
	}
	return rows
}

// liveToStats flattens the live elements map into stat rows tagged with
// the gameweek, ordered by player ID so output is deterministic.
func liveToStats(gw int, live fetch.EventLive) []model.GameweekStat {
	stats := make([]model.GameweekStat, 0, len(live.Elements))
	for key, el := range live.Elements {
		id, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		s := el.Stats
		stats = append(stats, model.GameweekStat{
			PlayerID:    id,
			Gameweek:    gw,
			Minutes:     s.Minutes,
			GoalsScored: s.GoalsScored,
			Assists:     s.Assists,
			CleanSheets: s.CleanSheets,
			Bonus:       s.Bonus,
			TotalPoints: s.TotalPoints,
			XG:          parseFloat(s.XG),
			XA:          parseFloat(s.XA),
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].PlayerID < stats[j].PlayerID })
	return stats
}

// fetchPicks collects every manager's roster for the gameweek. Fetches run
// concurrently but results are concatenated in manager-ID order so the
// downstream join is reproducible. A manager with no picks (fetch failed
// or the team never entered this gameweek) contributes nothing.
func (e *Extractor) fetchPicks(ctx context.Context, gw int, managers []model.Manager) []model.Pick {
	ordered := make([]model.Manager, len(managers))
	copy(ordered, managers)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	perManager := make([][]model.Pick, len(ordered))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.Concurrency)

	for i, m := range ordered {
		g.Go(func() error {
			ev, ok := e.API.EntryEvent(gctx, m.ID, gw)
			if !ok || len(ev.Picks) == 0 {
				return nil
			}
			picks := make([]model.Pick, 0, len(ev.Picks))
			for _, p := range ev.Picks {
				picks = append(picks, model.Pick{
					PlayerID:     p.Element,
					ManagerID:    m.ID,
					Gameweek:     gw,
					TeamPosition: p.Position,
				})
			}
			perManager[i] = picks
			return nil
		})
	}
	_ = g.Wait()

	var all []model.Pick
	for _, picks := range perManager {
		all = append(all, picks...)
	}
	return all
}

// dedupePicks reduces the concatenated picks to at most one owner per
// player. Duplicate (player, manager) rows collapse silently; a second
// manager claiming an already-owned player is a league-data anomaly — the
// first owner in manager-ID order wins and the conflict is logged.
func dedupePicks(picks []model.Pick, log zerolog.Logger) map[int]model.Pick {
	owner := make(map[int]model.Pick, len(picks))
	for _, p := range picks {
		prev, seen := owner[p.PlayerID]
		if !seen {
			owner[p.PlayerID] = p
			continue
		}
		if prev.ManagerID != p.ManagerID {
			log.Warn().
				Int("player", p.PlayerID).
				Int("gw", p.Gameweek).
				Int("kept_manager", prev.ManagerID).
				Int("dropped_manager", p.ManagerID).
				Msg("player owned by multiple managers, keeping first")
		}
	}
	return owner
}

// parseFloat parses the API's decimal-string expected stats, 0 on
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
