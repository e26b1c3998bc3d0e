package store

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"fpl-draft-pipeline/internal/model"
)

func iptr(v int) *int { return &v }

// gwRows fabricates two snapshot rows for a gameweek, one owned by
// manager 100 and one unowned.
func gwRows(gw int) []model.SnapshotRow {
	return []model.SnapshotRow{
		{ID: 1, Gameweek: gw, TotalPoints: 10, ManagerID: iptr(100), TeamPosition: iptr(1)},
		{ID: 2, Gameweek: gw, TotalPoints: 4},
	}
}

func extractAll(t *testing.T, calls *[]int) ExtractFunc {
	t.Helper()
	return func(ctx context.Context, gw int) []model.SnapshotRow {
		if calls != nil {
			*calls = append(*calls, gw)
		}
		return gwRows(gw)
	}
}

func TestRun_PersistsEveryGameweekUpToCurrent(t *testing.T) {
	st := New(t.TempDir(), zerolog.Nop())

	var calls []int
	if err := st.Run(context.Background(), 3, extractAll(t, &calls), nil); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !reflect.DeepEqual(calls, []int{1, 2, 3}) {
		t.Errorf("extract calls = %v, want [1 2 3]", calls)
	}
	for gw := 1; gw <= 3; gw++ {
		rows, err := readSnapshot(st.SnapshotPath(gw))
		if err != nil {
			t.Fatalf("read snapshot gw %d: %v", gw, err)
		}
		if len(rows) != 2 {
			t.Errorf("gw %d: %d rows, want 2", gw, len(rows))
		}
	}
}

func TestRun_SkipsPersistedGameweeks(t *testing.T) {
	st := New(t.TempDir(), zerolog.Nop())
	ctx := context.Background()

	if err := st.Run(ctx, 3, extractAll(t, nil), nil); err != nil {
		t.Fatalf("first run: %v", err)
	}

	var calls []int
	if err := st.Run(ctx, 5, extractAll(t, &calls), nil); err != nil {
		t.Fatalf("second run: %v", err)
	}

	if !reflect.DeepEqual(calls, []int{4, 5}) {
		t.Errorf("second run extracted %v, want [4 5]", calls)
	}
}

func TestRun_EmptyGameweekRetriedNextRun(t *testing.T) {
	st := New(t.TempDir(), zerolog.Nop())
	ctx := context.Background()

	// Gameweek 2 is not ready yet.
	err := st.Run(ctx, 2, func(ctx context.Context, gw int) []model.SnapshotRow {
		if gw == 2 {
			return nil
		}
		return gwRows(gw)
	}, nil)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}

	if _, err := readSnapshot(st.SnapshotPath(2)); err == nil {
		t.Fatal("gw 2 snapshot exists, want none for an empty extraction")
	}

	var calls []int
	if err := st.Run(ctx, 2, extractAll(t, &calls), nil); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !reflect.DeepEqual(calls, []int{2}) {
		t.Errorf("second run extracted %v, want [2]", calls)
	}
}

func TestRun_AttachesManagerTeamNames(t *testing.T) {
	st := New(t.TempDir(), zerolog.Nop())
	managers := []model.Manager{{ID: 100, TeamName: "Team X", Rank: 1}}

	if err := st.Run(context.Background(), 1, extractAll(t, nil), managers); err != nil {
		t.Fatalf("Run: %v", err)
	}

	rows, err := readSnapshot(st.SnapshotPath(1))
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if rows[0].TeamName == nil || *rows[0].TeamName != "Team X" {
		t.Errorf("owned row TeamName = %v, want Team X", rows[0].TeamName)
	}
	if rows[1].TeamName != nil {
		t.Errorf("unowned row TeamName = %v, want nil", rows[1].TeamName)
	}
}

func TestRun_RebuildsMasterInGameweekOrder(t *testing.T) {
	st := New(t.TempDir(), zerolog.Nop())

	if err := st.Run(context.Background(), 3, extractAll(t, nil), nil); err != nil {
		t.Fatalf("Run: %v", err)
	}

	master, err := st.LoadMaster()
	if err != nil {
		t.Fatalf("LoadMaster: %v", err)
	}
	if len(master) != 6 {
		t.Fatalf("master rows = %d, want 6", len(master))
	}
	wantGWs := []int{1, 1, 2, 2, 3, 3}
	for i, r := range master {
		if r.Gameweek != wantGWs[i] {
			t.Errorf("master[%d].Gameweek = %d, want %d", i, r.Gameweek, wantGWs[i])
		}
	}
}

func TestRun_RepeatRunLeavesMasterEquivalent(t *testing.T) {
	st := New(t.TempDir(), zerolog.Nop())
	ctx := context.Background()

	if err := st.Run(ctx, 2, extractAll(t, nil), nil); err != nil {
		t.Fatalf("first run: %v", err)
	}
	first, err := st.LoadMaster()
	if err != nil {
		t.Fatalf("LoadMaster: %v", err)
	}

	if err := st.Run(ctx, 2, extractAll(t, nil), nil); err != nil {
		t.Fatalf("second run: %v", err)
	}
	second, err := st.LoadMaster()
	if err != nil {
		t.Fatalf("LoadMaster: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("master changed across a no-op rerun")
	}
}

func TestLoadMaster_NoSnapshots(t *testing.T) {
	st := New(t.TempDir(), zerolog.Nop())
	if _, err := st.LoadMaster(); !errors.Is(err, ErrNoSnapshots) {
		t.Errorf("err = %v, want ErrNoSnapshots", err)
	}
}

func TestSnapshotPath(t *testing.T) {
	st := New("data", zerolog.Nop())
	want := filepath.Join("data", "gameweeks_parquet", "gw_data_gw7.parquet")
	if got := st.SnapshotPath(7); got != want {
		t.Errorf("SnapshotPath(7) = %q, want %q", got, want)
	}
}

func TestManifest_AddIsSortedAndDeduplicated(t *testing.T) {
	m := &Manifest{}
	m.Add(3)
	m.Add(1)
	m.Add(3)
	m.Add(2)

	if !reflect.DeepEqual(m.Completed, []int{1, 2, 3}) {
		t.Errorf("Completed = %v, want [1 2 3]", m.Completed)
	}
	if !m.Has(2) || m.Has(4) {
		t.Errorf("Has(2) = %v, Has(4) = %v", m.Has(2), m.Has(4))
	}
}

func TestReadManifest_FallsBackToFileScan(t *testing.T) {
	st := New(t.TempDir(), zerolog.Nop())

	// Pre-manifest data dir: snapshot files only.
	for _, gw := range []int{5, 2} {
		if err := writeSnapshot(st.SnapshotPath(gw), gwRows(gw)); err != nil {
			t.Fatalf("write snapshot gw %d: %v", gw, err)
		}
	}

	m, err := st.readManifest()
	if err != nil {
		t.Fatalf("readManifest: %v", err)
	}
	if !reflect.DeepEqual(m.Completed, []int{2, 5}) {
		t.Errorf("Completed = %v, want [2 5]", m.Completed)
	}
}

func TestRun_WritesManifestWithRunID(t *testing.T) {
	st := New(t.TempDir(), zerolog.Nop())
	st.RunID = "run-123"

	if err := st.Run(context.Background(), 1, extractAll(t, nil), nil); err != nil {
		t.Fatalf("Run: %v", err)
	}

	m, err := st.readManifest()
	if err != nil {
		t.Fatalf("readManifest: %v", err)
	}
	if m.RunID != "run-123" {
		t.Errorf("RunID = %q, want run-123", m.RunID)
	}
	if !reflect.DeepEqual(m.Completed, []int{1}) {
		t.Errorf("Completed = %v, want [1]", m.Completed)
	}
	if m.UpdatedAtUTC == "" {
		t.Error("UpdatedAtUTC is empty")
	}
}

func TestWriteSnapshot_RoundTripPreservesNullability(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roundtrip.parquet")

	name := "Bukayo Saka"
	in := []model.SnapshotRow{
		{ID: 1, Gameweek: 1, TotalPoints: 9, Name: &name, ManagerID: iptr(100), TeamPosition: iptr(3)},
		{ID: 2, Gameweek: 1, TotalPoints: 2},
	}

	if err := writeSnapshot(path, in); err != nil {
		t.Fatalf("writeSnapshot: %v", err)
	}
	out, err := readSnapshot(path)
	if err != nil {
		t.Fatalf("readSnapshot: %v", err)
	}

	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip mismatch:\n in: %+v\nout: %+v", in, out)
	}
}
