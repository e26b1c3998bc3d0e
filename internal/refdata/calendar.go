package refdata

import (
	"context"
	"fmt"
	"sort"
	"time"

	"fpl-draft-pipeline/internal/fetch"
	"fpl-draft-pipeline/internal/model"
)

// LoadCalendar fetches the public bootstrap-static and returns the
// gameweek calendar with deadlines parsed to UTC.
func LoadCalendar(ctx context.Context, c *fetch.Client) ([]model.Gameweek, error) {
	bs, ok := c.PublicBootstrapStatic(ctx)
	if !ok || len(bs.Events) == 0 {
		return nil, fmt.Errorf("%w: public bootstrap events", ErrUnavailable)
	}

	gws := make([]model.Gameweek, 0, len(bs.Events))
	for _, e := range bs.Events {
		deadline, err := time.Parse(time.RFC3339, e.DeadlineTime)
		if err != nil {
			return nil, fmt.Errorf("gameweek %d deadline %q: %w", e.ID, e.DeadlineTime, err)
		}
		gws = append(gws, model.Gameweek{
			ID:           e.ID,
			Name:         e.Name,
			DeadlineTime: deadline.UTC(),
			Finished:     e.Finished,
			IsCurrent:    e.IsCurrent,
		})
	}
	sort.Slice(gws, func(i, j int) bool { return gws[i].ID < gws[j].ID })
	return gws, nil
}

// LoadFixtures fetches the public fixtures list, mapping home/away team
// codes to names via the public API's own teams table and parsing kickoff
// times to UTC. Fixtures without a kickoff (unscheduled) are kept with a
// zero time.
func LoadFixtures(ctx context.Context, c *fetch.Client) ([]model.Fixture, error) {
	bs, ok := c.PublicBootstrapStatic(ctx)
	if !ok || len(bs.Teams) == 0 {
		return nil, fmt.Errorf("%w: public bootstrap teams", ErrUnavailable)
	}
	raw, ok := c.PublicFixtures(ctx)
	if !ok {
		return nil, fmt.Errorf("%w: public fixtures", ErrUnavailable)
	}

	names := make(map[int]string, len(bs.Teams))
	for _, t := range bs.Teams {
		names[t.ID] = t.Name
	}

	fixtures := make([]model.Fixture, 0, len(raw))
	for _, f := range raw {
		var kickoff time.Time
		if f.KickoffTime != "" {
			t, err := time.Parse(time.RFC3339, f.KickoffTime)
			if err != nil {
				return nil, fmt.Errorf("fixture kickoff %q: %w", f.KickoffTime, err)
			}
			kickoff = t.UTC()
		}
		fixtures = append(fixtures, model.Fixture{
			Event:          f.Event,
			HomeTeam:       names[f.TeamH],
			AwayTeam:       names[f.TeamA],
			HomeDifficulty: f.TeamHDifficulty,
			AwayDifficulty: f.TeamADifficulty,
			KickoffTime:    kickoff,
		})
	}
	return fixtures, nil
}

// NextGameweek returns the gameweek with the earliest deadline strictly
// after now, or false when the season is over.
func NextGameweek(gws []model.Gameweek, now time.Time) (model.Gameweek, bool) {
	var next model.Gameweek
	found := false
	for _, gw := range gws {
		if !gw.DeadlineTime.After(now) {
			continue
		}
		if !found || gw.DeadlineTime.Before(next.DeadlineTime) {
			next = gw
			found = true
		}
	}
	return next, found
}

// ClubFixture is one club's side of a fixture with the difficulty the
// fixture poses to that club.
type ClubFixture struct {
	Club        string    `json:"club"`
	Opponent    string    `json:"opponent"`
	Home        bool      `json:"home"`
	Difficulty  int       `json:"difficulty"`
	KickoffTime time.Time `json:"kickoff_time"`
}

// DifficultyOutlook expands a gameweek's fixtures into per-club rows,
// easiest fixtures first; ties sort by club name.
func DifficultyOutlook(fixtures []model.Fixture, gwID int) []ClubFixture {
	out := make([]ClubFixture, 0, 20)
	for _, f := range fixtures {
		if f.Event != gwID {
			continue
		}
		out = append(out,
			ClubFixture{Club: f.HomeTeam, Opponent: f.AwayTeam, Home: true,
				Difficulty: f.HomeDifficulty, KickoffTime: f.KickoffTime},
			ClubFixture{Club: f.AwayTeam, Opponent: f.HomeTeam,
				Difficulty: f.AwayDifficulty, KickoffTime: f.KickoffTime},
		)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Difficulty != out[j].Difficulty {
			return out[i].Difficulty < out[j].Difficulty
		}
		return out[i].Club < out[j].Club
	})
	return out
}

// UpcomingFixtures returns the fixtures of the given gameweek sorted by
// kickoff time.
func UpcomingFixtures(fixtures []model.Fixture, gwID int) []model.Fixture {
	out := make([]model.Fixture, 0, 10)
	for _, f := range fixtures {
		if f.Event == gwID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].KickoffTime.Before(out[j].KickoffTime) })
	return out
}
