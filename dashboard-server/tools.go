package main

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"fpl-draft-pipeline/internal/aggregate"
	"fpl-draft-pipeline/internal/ledger"
	"fpl-draft-pipeline/internal/model"
	"fpl-draft-pipeline/internal/refdata"
	"fpl-draft-pipeline/internal/store"
)

// tableSource reads the pipeline artifacts every tool call operates on.
type tableSource struct {
	DataDir string
	Store   *store.Store
}

func (t *tableSource) startingXI() ([]model.SnapshotRow, error) {
	master, err := t.Store.LoadMaster()
	if err != nil {
		return nil, err
	}
	return aggregate.StartingLineup(master), nil
}

// TeamArgs selects an optional manager team by display name.
type TeamArgs struct {
	Team string `json:"team,omitempty" jsonschema:"Manager team name (empty = whole league)"`
}

// TopPerformersArgs controls the top_performers tool.
type TopPerformersArgs struct {
	Team string `json:"team,omitempty" jsonschema:"Manager team name (empty = whole league)"`
	N    int    `json:"n,omitempty" jsonschema:"How many performances to return (default 10)"`
}

// EmptyArgs is the input schema for tools without parameters.
type EmptyArgs struct{}

// GameStatus is the output of the game_status tool.
type GameStatus struct {
	CurrentGW    int    `json:"current_gw"`
	CurrentGWEnd bool   `json:"current_gw_finished"`
	NextGW       int    `json:"next_gw"`
	NextDeadline string `json:"next_deadline,omitempty"`
}

func registerTools(server *mcp.Server, registry *[]toolInfo, tables *tableSource) {
	addTool(server, registry, &mcp.Tool{
		Name:        "team_gw_points",
		Description: "Team points by gameweek (starting XI), with totals, sorted by total",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args EmptyArgs) (*mcp.CallToolResult, any, error) {
		xi, err := tables.startingXI()
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolMarshal(aggregate.TeamGameweekPoints(xi))
	})

	addTool(server, registry, &mcp.Tool{
		Name:        "team_total_points",
		Description: "Total starting-XI points per team, sorted descending",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args EmptyArgs) (*mcp.CallToolResult, any, error) {
		xi, err := tables.startingXI()
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolMarshal(aggregate.TeamTotalPoints(xi))
	})

	addTool(server, registry, &mcp.Tool{
		Name:        "team_average_points",
		Description: "Average starting-XI points per gameweek per team",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args EmptyArgs) (*mcp.CallToolResult, any, error) {
		xi, err := tables.startingXI()
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolMarshal(aggregate.TeamAveragePoints(aggregate.TeamGameweekPoints(xi)))
	})

	addTool(server, registry, &mcp.Tool{
		Name:        "team_progression",
		Description: "Cumulative team points across gameweeks (starting XI)",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args EmptyArgs) (*mcp.CallToolResult, any, error) {
		xi, err := tables.startingXI()
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolMarshal(aggregate.CumulativePoints(aggregate.TeamGameweekPoints(xi)))
	})

	addTool(server, registry, &mcp.Tool{
		Name:        "points_by_position",
		Description: "Starting-XI points summed per position (GK/DEF/MID/FWD)",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args TeamArgs) (*mcp.CallToolResult, any, error) {
		xi, err := tables.startingXI()
		if err != nil {
			return toolError(err), nil, nil
		}
		if args.Team != "" {
			xi = aggregate.ManagerRows(xi, args.Team)
		}
		return toolMarshal(aggregate.PointsByPosition(xi))
	})

	addTool(server, registry, &mcp.Tool{
		Name:        "top_performers",
		Description: "Best single-gameweek player performances, with ever-benched flag",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args TopPerformersArgs) (*mcp.CallToolResult, any, error) {
		master, err := tables.Store.LoadMaster()
		if err != nil {
			return toolError(err), nil, nil
		}
		rows := master
		if args.Team != "" {
			rows = aggregate.ManagerRows(master, args.Team)
		}
		n := args.N
		if n <= 0 {
			n = 10
		}
		return toolMarshal(aggregate.TopPerformers(rows, n))
	})

	addTool(server, registry, &mcp.Tool{
		Name:        "player_progression",
		Description: "Per-player points pivot across gameweeks for one manager team",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args TeamArgs) (*mcp.CallToolResult, any, error) {
		if args.Team == "" {
			return toolError(fmt.Errorf("team is required")), nil, nil
		}
		master, err := tables.Store.LoadMaster()
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolMarshal(aggregate.Progression(aggregate.ManagerRows(master, args.Team)))
	})

	addTool(server, registry, &mcp.Tool{
		Name:        "game_status",
		Description: "Current and next gameweek with the next deadline",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args EmptyArgs) (*mcp.CallToolResult, any, error) {
		gws, err := refdata.ReadGameweeksCSV(tables.DataDir)
		if err != nil {
			return toolError(err), nil, nil
		}
		status := GameStatus{}
		for _, gw := range gws {
			if gw.IsCurrent {
				status.CurrentGW = gw.ID
				status.CurrentGWEnd = gw.Finished
			}
		}
		if next, found := refdata.NextGameweek(gws, time.Now().UTC()); found {
			status.NextGW = next.ID
			status.NextDeadline = next.DeadlineTime.Format(time.RFC3339)
		}
		return toolMarshal(status)
	})

	addTool(server, registry, &mcp.Tool{
		Name:        "upcoming_fixtures",
		Description: "Fixtures of the next gameweek sorted by kickoff, with difficulty",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args EmptyArgs) (*mcp.CallToolResult, any, error) {
		gws, err := refdata.ReadGameweeksCSV(tables.DataDir)
		if err != nil {
			return toolError(err), nil, nil
		}
		next, found := refdata.NextGameweek(gws, time.Now().UTC())
		if !found {
			return toolMarshal([]model.Fixture{})
		}
		fixtures, err := refdata.ReadFixturesCSV(tables.DataDir)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolMarshal(refdata.UpcomingFixtures(fixtures, next.ID))
	})

	addTool(server, registry, &mcp.Tool{
		Name:        "waiver_targets",
		Description: "Best currently-unowned players by accumulated points",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args TopPerformersArgs) (*mcp.CallToolResult, any, error) {
		master, err := tables.Store.LoadMaster()
		if err != nil {
			return toolError(err), nil, nil
		}
		n := args.N
		if n <= 0 {
			n = 10
		}
		return toolMarshal(aggregate.WaiverTargets(master, n))
	})

	addTool(server, registry, &mcp.Tool{
		Name:        "fixture_difficulty",
		Description: "Per-club fixture difficulty for the next gameweek, easiest first",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args EmptyArgs) (*mcp.CallToolResult, any, error) {
		gws, err := refdata.ReadGameweeksCSV(tables.DataDir)
		if err != nil {
			return toolError(err), nil, nil
		}
		next, found := refdata.NextGameweek(gws, time.Now().UTC())
		if !found {
			return toolMarshal([]refdata.ClubFixture{})
		}
		fixtures, err := refdata.ReadFixturesCSV(tables.DataDir)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolMarshal(refdata.DifficultyOutlook(fixtures, next.ID))
	})

	addTool(server, registry, &mcp.Tool{
		Name:        "draft_picks",
		Description: "The league's original draft: picks in draft order and resulting squads",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args EmptyArgs) (*mcp.CallToolResult, any, error) {
		l, err := ledger.Read(tables.DataDir)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolMarshal(l)
	})

	addTool(server, registry, &mcp.Tool{
		Name:        "league_standings",
		Description: "League standings: manager team names and ranks",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args EmptyArgs) (*mcp.CallToolResult, any, error) {
		managers, err := refdata.ReadStandingsCSV(tables.DataDir)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolMarshal(managers)
	})
}
