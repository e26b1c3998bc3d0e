// Command pipeline runs one incremental ETL pass: refresh reference data,
// extract every unpersisted gameweek up to the current one, and rebuild
// the master dataset.
package main

import (
	"context"
	"errors"
	"flag"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"fpl-draft-pipeline/internal/config"
	"fpl-draft-pipeline/internal/extract"
	"fpl-draft-pipeline/internal/fetch"
	"fpl-draft-pipeline/internal/ledger"
	"fpl-draft-pipeline/internal/logging"
	"fpl-draft-pipeline/internal/model"
	"fpl-draft-pipeline/internal/reconcile"
	"fpl-draft-pipeline/internal/refdata"
	"fpl-draft-pipeline/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		lg := logging.New("info")
		lg.Fatal().Err(err).Msg("load config")
	}

	var (
		leagueID = flag.Int("league", cfg.LeagueID, "draft league id")
		dataDir  = flag.String("data-dir", cfg.DataDir, "root directory for pipeline artifacts")
		logLevel = flag.String("log-level", cfg.LogLevel, "log level: debug|info|warn|error")
	)
	flag.Parse()
	cfg.LeagueID = *leagueID
	cfg.DataDir = *dataDir
	cfg.LogLevel = *logLevel

	runID := uuid.NewString()
	log := logging.New(cfg.LogLevel).With().Str("run_id", runID).Logger()

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	log.Info().Int("league", cfg.LeagueID).Str("data_dir", cfg.DataDir).Msg("starting pipeline run")

	ctx := context.Background()
	client := fetch.NewClient(cfg.DraftBaseURL, cfg.PublicBaseURL, cfg.RequestTimeout, log)

	// Current gameweek is the first prerequisite; without it there is
	// nothing to extract.
	game, ok := client.Game(ctx)
	if !ok || game.CurrentEvent == 0 {
		log.Fatal().Msg("could not resolve current gameweek, aborting")
	}
	log.Info().Int("current_gw", game.CurrentEvent).Msg("resolved current gameweek")

	catalog, managers, gameweeks, fixtures := loadReferenceData(ctx, client, cfg, log)

	ex := extract.New(client, cfg.FetchConcurrency, log)
	st := store.New(cfg.DataDir, log)
	st.RunID = runID

	err = st.Run(ctx, game.CurrentEvent, func(ctx context.Context, gw int) []model.SnapshotRow {
		log.Info().Int("gw", gw).Msg("extracting gameweek")
		return ex.Extract(ctx, gw, managers, catalog)
	}, managers)
	if err != nil {
		log.Fatal().Err(err).Msg("pipeline run failed")
	}

	// Draft choices only exist once the draft has run; absence is not an
	// error, the ledger artifact just stays stale (or missing).
	if dc, ok := client.LeagueDraftChoices(ctx, cfg.LeagueID); ok && len(dc.Choices) > 0 {
		if err := ledger.Write(cfg.DataDir, ledger.Build(cfg.LeagueID, dc.Choices)); err != nil {
			log.Fatal().Err(err).Msg("write draft ledger")
		}
		log.Info().Int("picks", len(dc.Choices)).Msg("refreshed draft ledger")
	} else {
		log.Warn().Msg("draft choices unavailable, keeping existing ledger")
	}

	reconcileRun(st, cfg.DataDir, runID, log)

	if next, found := refdata.NextGameweek(gameweeks, time.Now().UTC()); found {
		upcoming := refdata.UpcomingFixtures(fixtures, next.ID)
		log.Info().
			Int("next_gw", next.ID).
			Time("deadline", next.DeadlineTime).
			Int("fixtures", len(upcoming)).
			Msg("next gameweek")
	}

	log.Info().Msg("pipeline run completed")
}

// reconcileRun cross-checks the freshly rebuilt master against the
// manifest and writes the report artifact. Mismatches are reported, not
// fatal: the data is still usable and the report names what is off.
func reconcileRun(st *store.Store, dataDir, runID string, log zerolog.Logger) {
	master, err := st.LoadMaster()
	if errors.Is(err, store.ErrNoSnapshots) {
		return
	}
	if err != nil {
		log.Fatal().Err(err).Msg("load master for reconcile")
	}
	completed, err := st.Completed()
	if err != nil {
		log.Fatal().Err(err).Msg("read manifest for reconcile")
	}

	report := reconcile.Check(master, completed)
	report.RunID = runID
	if err := reconcile.WriteReport(dataDir, report); err != nil {
		log.Fatal().Err(err).Msg("write reconcile report")
	}
	if !report.Clean() {
		log.Warn().Int("mismatches", len(report.Mismatches)).Msg("master dataset failed reconciliation")
		return
	}
	log.Info().Int("rows", report.Rows).Msg("master dataset reconciled")
}

// loadReferenceData fetches and persists the four reference tables. All of
// them are prerequisites: any failure aborts the run before a single
// snapshot is touched.
func loadReferenceData(ctx context.Context, client *fetch.Client, cfg *config.Config, log zerolog.Logger) ([]model.Player, []model.Manager, []model.Gameweek, []model.Fixture) {
	catalog, err := refdata.LoadPlayerCatalog(ctx, client)
	if err != nil {
		log.Fatal().Err(err).Msg("load player catalog")
	}
	if err := refdata.WritePlayersCSV(cfg.DataDir, catalog); err != nil {
		log.Fatal().Err(err).Msg("write player catalog")
	}
	log.Info().Int("players", len(catalog)).Msg("loaded player catalog")

	managers, err := refdata.LoadStandings(ctx, client, cfg.LeagueID)
	if err != nil {
		log.Fatal().Err(err).Msg("load league standings")
	}
	if err := refdata.WriteStandingsCSV(cfg.DataDir, managers); err != nil {
		log.Fatal().Err(err).Msg("write league standings")
	}
	log.Info().Int("managers", len(managers)).Msg("loaded league standings")

	gameweeks, err := refdata.LoadCalendar(ctx, client)
	if err != nil {
		log.Fatal().Err(err).Msg("load gameweek calendar")
	}
	if err := refdata.WriteGameweeksCSV(cfg.DataDir, gameweeks); err != nil {
		log.Fatal().Err(err).Msg("write gameweek calendar")
	}

	fixtures, err := refdata.LoadFixtures(ctx, client)
	if err != nil {
		log.Fatal().Err(err).Msg("load fixtures")
	}
	if err := refdata.WriteFixturesCSV(cfg.DataDir, fixtures); err != nil {
		log.Fatal().Err(err).Msg("write fixtures")
	}

	return catalog, managers, gameweeks, fixtures
}
