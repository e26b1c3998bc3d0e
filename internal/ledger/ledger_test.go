package ledger

import (
	"reflect"
	"testing"

	"fpl-draft-pipeline/internal/fetch"
)

func testChoices() []fetch.RawChoice {
	// Deliberately out of draft order.
	return []fetch.RawChoice{
		{Entry: 200, Element: 30, Round: 1, Pick: 2, Index: 2},
		{Entry: 100, Element: 10, Round: 1, Pick: 1, Index: 1},
		{Entry: 100, Element: 40, Round: 2, Pick: 4, Index: 4},
		{Entry: 200, Element: 20, Round: 2, Pick: 3, Index: 3, WasAuto: true},
	}
}

func TestBuild_OrdersPicksByDraftIndex(t *testing.T) {
	l := Build(42, testChoices())

	if l.LeagueID != 42 {
		t.Errorf("LeagueID = %d, want 42", l.LeagueID)
	}
	if len(l.Picks) != 4 {
		t.Fatalf("picks = %d, want 4", len(l.Picks))
	}
	for i, wantPlayer := range []int{10, 30, 20, 40} {
		if l.Picks[i].PlayerID != wantPlayer {
			t.Errorf("picks[%d].PlayerID = %d, want %d", i, l.Picks[i].PlayerID, wantPlayer)
		}
	}
	if !l.Picks[2].WasAuto {
		t.Error("pick index 3 should keep WasAuto")
	}
}

func TestBuild_GroupsSquadsByManager(t *testing.T) {
	l := Build(42, testChoices())

	if len(l.Squads) != 2 {
		t.Fatalf("squads = %d, want 2", len(l.Squads))
	}
	if l.Squads[0].ManagerID != 100 || !reflect.DeepEqual(l.Squads[0].PlayerIDs, []int{10, 40}) {
		t.Errorf("squads[0] = %+v, want manager 100 with [10 40]", l.Squads[0])
	}
	if l.Squads[1].ManagerID != 200 || !reflect.DeepEqual(l.Squads[1].PlayerIDs, []int{30, 20}) {
		t.Errorf("squads[1] = %+v, want manager 200 with [30 20] in draft order", l.Squads[1])
	}
}

func TestWriteRead_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := Build(42, testChoices())

	if err := Write(dir, in); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out, err := Read(dir)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip:\n in: %+v\nout: %+v", in, out)
	}
}

func TestRead_MissingLedger(t *testing.T) {
	if _, err := Read(t.TempDir()); err == nil {
		t.Error("Read = nil error, want failure for missing ledger")
	}
}
