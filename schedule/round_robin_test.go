package schedule

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func countGames(weeks []WeekPlan) map[int]int {
	games := make(map[int]int)
	for _, week := range weeks {
		for _, p := range week.Pairings {
			games[p.HomeTeamID]++
			games[p.AwayTeamID]++
		}
	}
	return games
}

func TestGenerateDoubleRoundRobin(t *testing.T) {
	tests := []struct {
		name      string
		divisions [][]int
		cross     int
	}{
		{"single division even", [][]int{{1, 2, 3, 4}}, 0},
		{"single division odd", [][]int{{1, 2, 3, 4, 5}}, 0},
		{"two divisions", [][]int{{1, 2, 3, 4}, {5, 6, 7, 8}}, 0},
		{"two divisions with cross weeks", [][]int{{1, 2, 3, 4}, {5, 6, 7, 8}}, 4},
		{"uneven divisions", [][]int{{1, 2, 3}, {4, 5, 6, 7}}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			weeks, err := Generate(Params{Divisions: tt.divisions, CrossDivisionGames: tt.cross})
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if err := Validate(weeks); err != nil {
				t.Fatalf("Validate: %v", err)
			}

			// Внутри дивизиона каждый играет с каждым дома и в гостях.
			type pair struct{ home, away int }
			meetings := make(map[pair]int)
			for _, week := range weeks[:len(weeks)-tt.cross] {
				for _, p := range week.Pairings {
					meetings[pair{p.HomeTeamID, p.AwayTeamID}]++
				}
			}
			for _, div := range tt.divisions {
				for _, a := range div {
					for _, b := range div {
						if a == b {
							continue
						}
						if got := meetings[pair{a, b}]; got != 1 {
							t.Errorf("team %d hosts team %d %d times, want 1", a, b, got)
						}
					}
				}
			}
		})
	}
}

func TestGenerateWeekNumbersAreSequential(t *testing.T) {
	weeks, err := Generate(Params{Divisions: [][]int{{1, 2, 3, 4}, {5, 6, 7, 8}}, CrossDivisionGames: 3})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for i, week := range weeks {
		if week.Number != i+1 {
			t.Fatalf("week at index %d has number %d", i, week.Number)
		}
	}
}

func TestGenerateOddDivisionProducesByes(t *testing.T) {
	weeks, err := Generate(Params{Divisions: [][]int{{10, 20, 30}}})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	byes := make(map[int]int)
	for _, week := range weeks {
		if len(week.ByeTeamIDs) != 1 {
			t.Fatalf("week %d has %d byes, want 1", week.Number, len(week.ByeTeamIDs))
		}
		byes[week.ByeTeamIDs[0]]++
	}
	for _, teamID := range []int{10, 20, 30} {
		if byes[teamID] != 2 {
			t.Errorf("team %d has %d byes, want 2", teamID, byes[teamID])
		}
	}

	games := countGames(weeks)
	for _, teamID := range []int{10, 20, 30} {
		if games[teamID] != 4 {
			t.Errorf("team %d plays %d games, want 4", teamID, games[teamID])
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	params := Params{Divisions: [][]int{{1, 2, 3, 4, 5}, {6, 7, 8, 9}}, CrossDivisionGames: 4}
	first, err := Generate(params)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	second, err := Generate(params)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("two runs over the same input produced different plans")
	}
}

func TestGenerateCrossDivisionWeeksPairAcrossDivisions(t *testing.T) {
	divisions := [][]int{{1, 2, 3, 4}, {5, 6, 7, 8}}
	weeks, err := Generate(Params{Divisions: divisions, CrossDivisionGames: 4})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	divOf := make(map[int]int)
	for i, div := range divisions {
		for _, teamID := range div {
			divOf[teamID] = i
		}
	}

	cross := weeks[len(weeks)-4:]
	for _, week := range cross {
		if len(week.Pairings) == 0 {
			t.Fatalf("cross-division week %d has no games", week.Number)
		}
		for _, p := range week.Pairings {
			if divOf[p.HomeTeamID] == divOf[p.AwayTeamID] {
				t.Errorf("week %d: %d vs %d is an intra-division game", week.Number, p.HomeTeamID, p.AwayTeamID)
			}
		}
	}
}

func TestGenerateErrors(t *testing.T) {
	if _, err := Generate(Params{Divisions: [][]int{{1}}}); !errors.Is(err, ErrNotEnoughTeams) {
		t.Errorf("single team: got %v, want ErrNotEnoughTeams", err)
	}
	if _, err := Generate(Params{Divisions: [][]int{{1, 2}, {}}}); !errors.Is(err, ErrEmptyDivision) {
		t.Errorf("empty division: got %v, want ErrEmptyDivision", err)
	}
}

func TestValidate(t *testing.T) {
	ok := []WeekPlan{{Number: 1, Pairings: []Pairing{{1, 2}, {3, 4}}}}
	if err := Validate(ok); err != nil {
		t.Errorf("valid plan rejected: %v", err)
	}

	self := []WeekPlan{{Number: 1, Pairings: []Pairing{{1, 1}}}}
	if err := Validate(self); err == nil {
		t.Error("self-play not rejected")
	}

	double := []WeekPlan{{Number: 1, Pairings: []Pairing{{1, 2}, {2, 3}}}}
	if err := Validate(double); err == nil {
		t.Error("double booking not rejected")
	}
}

func ExampleGenerate() {
	weeks, _ := Generate(Params{Divisions: [][]int{{1, 2, 3, 4}}})
	fmt.Println(len(weeks))
	// Output: 6
}
