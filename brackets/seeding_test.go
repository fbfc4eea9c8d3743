package brackets

import (
	"errors"
	"testing"

	"github.com/Dosada05/league-system/models"
)

func seedsN(n int) []Seed {
	seeds := make([]Seed, 0, n)
	for i := 1; i <= n; i++ {
		seeds = append(seeds, Seed{Seed: i, TeamID: 100 + i})
	}
	return seeds
}

func TestFieldSize(t *testing.T) {
	if got := FieldSize(false); got != 4 {
		t.Errorf("FieldSize(false) = %d, want 4", got)
	}
	if got := FieldSize(true); got != 8 {
		t.Errorf("FieldSize(true) = %d, want 8", got)
	}
}

func TestPairRoundPowerOfTwo(t *testing.T) {
	matchups, err := PairRound(seedsN(8))
	if err != nil {
		t.Fatalf("PairRound: %v", err)
	}
	if len(matchups) != 4 {
		t.Fatalf("got %d matchups, want 4", len(matchups))
	}

	want := [][2]int{{1, 8}, {2, 7}, {3, 6}, {4, 5}}
	for i, m := range matchups {
		if m.Lower == nil {
			t.Fatalf("matchup %d is a bye in a full field", i)
		}
		if m.Higher.Seed != want[i][0] || m.Lower.Seed != want[i][1] {
			t.Errorf("matchup %d: %d vs %d, want %d vs %d", i, m.Higher.Seed, m.Lower.Seed, want[i][0], want[i][1])
		}
	}
}

func TestPairRoundWithByes(t *testing.T) {
	// 6 участников: посевы 1 и 2 получают bye, остаются 3v6 и 4v5.
	matchups, err := PairRound(seedsN(6))
	if err != nil {
		t.Fatalf("PairRound: %v", err)
	}
	if len(matchups) != 4 {
		t.Fatalf("got %d matchups, want 4", len(matchups))
	}

	for i, wantSeed := range []int{1, 2} {
		if matchups[i].Higher.Seed != wantSeed || matchups[i].Lower != nil {
			t.Errorf("matchup %d: want bye for seed %d, got %+v", i, wantSeed, matchups[i])
		}
	}
	if matchups[2].Higher.Seed != 3 || matchups[2].Lower.Seed != 6 {
		t.Errorf("matchup 2: got %d vs %v", matchups[2].Higher.Seed, matchups[2].Lower)
	}
	if matchups[3].Higher.Seed != 4 || matchups[3].Lower.Seed != 5 {
		t.Errorf("matchup 3: got %d vs %v", matchups[3].Higher.Seed, matchups[3].Lower)
	}
}

func TestPairRoundReseedsByOriginalSeed(t *testing.T) {
	// Победители раунда в произвольном порядке: пересев идёт по номеру посева.
	winners := []Seed{{Seed: 6, TeamID: 106}, {Seed: 1, TeamID: 101}, {Seed: 4, TeamID: 104}, {Seed: 2, TeamID: 102}}
	matchups, err := PairRound(winners)
	if err != nil {
		t.Fatalf("PairRound: %v", err)
	}
	if len(matchups) != 2 {
		t.Fatalf("got %d matchups, want 2", len(matchups))
	}
	if matchups[0].Higher.Seed != 1 || matchups[0].Lower.Seed != 6 {
		t.Errorf("matchup 0: got %d vs %d", matchups[0].Higher.Seed, matchups[0].Lower.Seed)
	}
	if matchups[1].Higher.Seed != 2 || matchups[1].Lower.Seed != 4 {
		t.Errorf("matchup 1: got %d vs %d", matchups[1].Higher.Seed, matchups[1].Lower.Seed)
	}
}

func TestPairRoundNotEnoughSeeds(t *testing.T) {
	if _, err := PairRound(seedsN(1)); !errors.Is(err, ErrNotEnoughSeeds) {
		t.Errorf("got %v, want ErrNotEnoughSeeds", err)
	}
}

func TestRoundLabel(t *testing.T) {
	tests := []struct {
		fieldSize int
		want      models.PlayoffRound
	}{
		{16, models.RoundWildcard},
		{8, models.RoundDivisional},
		{6, models.RoundDivisional},
		{4, models.RoundConference},
		{3, models.RoundConference},
		{2, models.RoundChampionship},
		{1, models.RoundComplete},
	}
	for _, tt := range tests {
		if got := RoundLabel(tt.fieldSize); got != tt.want {
			t.Errorf("RoundLabel(%d) = %s, want %s", tt.fieldSize, got, tt.want)
		}
	}
}
