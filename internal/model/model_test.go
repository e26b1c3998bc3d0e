package model

import "testing"

func TestPositionName(t *testing.T) {
	cases := []struct {
		elementType int
		want        string
	}{
		{1, PositionGK},
		{2, PositionDEF},
		{3, PositionMID},
		{4, PositionFWD},
		{0, ""},
		{9, ""},
	}
	for _, tc := range cases {
		if got := PositionName(tc.elementType); got != tc.want {
			t.Errorf("PositionName(%d) = %q, want %q", tc.elementType, got, tc.want)
		}
	}
}

func TestSnapshotRowOwnership(t *testing.T) {
	mgr, pos := 100, 11
	bench := 12

	unowned := SnapshotRow{ID: 1}
	if unowned.Owned() || unowned.InStartingLineup() {
		t.Errorf("unowned row: Owned=%v InStartingLineup=%v, want false/false",
			unowned.Owned(), unowned.InStartingLineup())
	}

	starter := SnapshotRow{ID: 2, ManagerID: &mgr, TeamPosition: &pos}
	if !starter.Owned() || !starter.InStartingLineup() {
		t.Errorf("slot 11: Owned=%v InStartingLineup=%v, want true/true",
			starter.Owned(), starter.InStartingLineup())
	}

	benched := SnapshotRow{ID: 3, ManagerID: &mgr, TeamPosition: &bench}
	if !benched.Owned() || benched.InStartingLineup() {
		t.Errorf("slot 12: Owned=%v InStartingLineup=%v, want true/false",
			benched.Owned(), benched.InStartingLineup())
	}
}
