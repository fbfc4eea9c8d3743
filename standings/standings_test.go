package standings

import (
	"testing"

	"github.com/Dosada05/league-system/models"
)

func intPtr(v int) *int { return &v }

func completed(home, away, homeScore, awayScore int) models.Game {
	return models.Game{
		HomeTeamID: home,
		AwayTeamID: away,
		HomeScore:  intPtr(homeScore),
		AwayScore:  intPtr(awayScore),
		Status:     models.GameStatusCompleted,
	}
}

func TestComputeRecordsAndOrder(t *testing.T) {
	teams := []models.Team{
		{ID: 1, Abbreviation: "AAA"},
		{ID: 2, Abbreviation: "BBB"},
		{ID: 3, Abbreviation: "CCC"},
	}
	games := []models.Game{
		completed(1, 2, 24, 10), // 1 beats 2
		completed(2, 3, 17, 20), // 3 beats 2
		completed(3, 1, 7, 31),  // 1 beats 3
	}

	rows := Compute(teams, games)
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}

	if rows[0].TeamID != 1 || rows[0].Wins != 2 || rows[0].Losses != 0 {
		t.Errorf("first place: got team %d (%d-%d), want team 1 (2-0)", rows[0].TeamID, rows[0].Wins, rows[0].Losses)
	}
	if rows[1].TeamID != 3 || rows[1].Wins != 1 || rows[1].Losses != 1 {
		t.Errorf("second place: got team %d (%d-%d), want team 3 (1-1)", rows[1].TeamID, rows[1].Wins, rows[1].Losses)
	}
	if rows[2].TeamID != 2 || rows[2].Wins != 0 || rows[2].Losses != 2 {
		t.Errorf("third place: got team %d (%d-%d), want team 2 (0-2)", rows[2].TeamID, rows[2].Wins, rows[2].Losses)
	}

	if rows[0].PointsFor != 55 || rows[0].PointsAgainst != 17 {
		t.Errorf("team 1 points: got %d/%d, want 55/17", rows[0].PointsFor, rows[0].PointsAgainst)
	}
}

func TestComputeIgnoresUnfinishedGames(t *testing.T) {
	teams := []models.Team{{ID: 1}, {ID: 2}}
	games := []models.Game{
		{HomeTeamID: 1, AwayTeamID: 2, Status: models.GameStatusScheduled},
		completed(1, 2, 14, 7),
	}

	rows := Compute(teams, games)
	if rows[0].Wins != 1 || rows[1].Losses != 1 {
		t.Errorf("scheduled game leaked into the table: %+v", rows)
	}
	if rows[0].PointsFor != 14 {
		t.Errorf("points_for = %d, want 14", rows[0].PointsFor)
	}
}

func TestComputeCountsTies(t *testing.T) {
	teams := []models.Team{{ID: 1}, {ID: 2}}
	rows := Compute(teams, []models.Game{completed(1, 2, 21, 21)})

	for _, row := range rows {
		if row.Wins != 0 || row.Losses != 0 || row.Ties != 1 {
			t.Errorf("team %d: got %d-%d-%d, want 0-0-1", row.TeamID, row.Wins, row.Losses, row.Ties)
		}
	}
}

func TestLessTieBreakers(t *testing.T) {
	tests := []struct {
		name string
		a, b models.Standing
		want bool
	}{
		{
			"more wins first",
			models.Standing{TeamID: 1, Wins: 3},
			models.Standing{TeamID: 2, Wins: 2},
			true,
		},
		{
			"fewer losses first",
			models.Standing{TeamID: 1, Wins: 2, Losses: 3},
			models.Standing{TeamID: 2, Wins: 2, Losses: 2},
			false,
		},
		{
			"point differential",
			models.Standing{TeamID: 1, Wins: 2, Losses: 2, PointsFor: 100, PointsAgainst: 50},
			models.Standing{TeamID: 2, Wins: 2, Losses: 2, PointsFor: 100, PointsAgainst: 90},
			true,
		},
		{
			"points for",
			models.Standing{TeamID: 1, Wins: 2, PointsFor: 80, PointsAgainst: 40},
			models.Standing{TeamID: 2, Wins: 2, PointsFor: 100, PointsAgainst: 60},
			false,
		},
		{
			"team id as the final tie-break",
			models.Standing{TeamID: 1},
			models.Standing{TeamID: 2},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Less(tt.a, tt.b); got != tt.want {
				t.Errorf("Less(%d, %d) = %v, want %v", tt.a.TeamID, tt.b.TeamID, got, tt.want)
			}
		})
	}
}
