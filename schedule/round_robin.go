package schedule

import (
	"errors"
	"fmt"
)

var (
	ErrNotEnoughTeams = errors.New("at least two teams are required to generate a schedule")
	ErrEmptyDivision  = errors.New("schedule generation requires every division to have at least one team")
)

// Pairing — одна игра плана: хозяева и гости.
type Pairing struct {
	HomeTeamID int
	AwayTeamID int
}

// WeekPlan — неделя расписания. Команды из ByeTeamIDs в эту неделю не играют,
// для них создаются явные записи Bye.
type WeekPlan struct {
	Number     int
	Pairings   []Pairing
	ByeTeamIDs []int
}

// Params описывает вход генератора. Divisions — идентификаторы команд,
// сгруппированные по дивизионам; порядок групп и элементов определяет
// результат, поэтому вызывающая сторона сортирует всё по id. Генератор
// детерминирован: одинаковый вход всегда даёт одинаковый план.
type Params struct {
	Divisions          [][]int
	CrossDivisionGames int
}

// Generate строит полный план регулярного сезона: двойной круговой турнир
// внутри каждого дивизиона (дома и в гостях с каждым соперником) плюс
// настраиваемое число междивизионных недель.
func Generate(params Params) ([]WeekPlan, error) {
	total := 0
	for _, div := range params.Divisions {
		if len(div) == 0 {
			return nil, ErrEmptyDivision
		}
		total += len(div)
	}
	if total < 2 {
		return nil, ErrNotEnoughTeams
	}

	divisionRounds := make([][][]Pairing, len(params.Divisions))
	maxRounds := 0
	for i, div := range params.Divisions {
		rounds := circleRounds(div)
		divisionRounds[i] = rounds
		if len(rounds) > maxRounds {
			maxRounds = len(rounds)
		}
	}

	weeks := make([]WeekPlan, 0, 2*maxRounds+params.CrossDivisionGames)
	weekNumber := 0

	// Два круга внутри дивизионов: во втором хозяева и гости меняются местами.
	for leg := 0; leg < 2; leg++ {
		for r := 0; r < maxRounds; r++ {
			weekNumber++
			week := WeekPlan{Number: weekNumber}
			for i, div := range params.Divisions {
				playing := make(map[int]bool, len(div))
				if r < len(divisionRounds[i]) {
					for _, p := range divisionRounds[i][r] {
						if leg == 1 {
							p.HomeTeamID, p.AwayTeamID = p.AwayTeamID, p.HomeTeamID
						}
						week.Pairings = append(week.Pairings, p)
						playing[p.HomeTeamID] = true
						playing[p.AwayTeamID] = true
					}
				}
				for _, teamID := range div {
					if !playing[teamID] {
						week.ByeTeamIDs = append(week.ByeTeamIDs, teamID)
					}
				}
			}
			weeks = append(weeks, week)
		}
	}

	if len(params.Divisions) >= 2 && params.CrossDivisionGames > 0 {
		cross := crossDivisionWeeks(params.Divisions, params.CrossDivisionGames, weekNumber)
		weeks = append(weeks, cross...)
	}

	return weeks, nil
}

// circleRounds реализует классический «круговой» метод: фиксируем первую
// команду, остальные вращаются. При нечётном числе команд добавляется
// фиктивный слот, и её соперник в этом туре получает bye (пары с фиктивным
// слотом просто не создаются).
func circleRounds(teamIDs []int) [][]Pairing {
	const byeSlot = -1

	teams := make([]int, len(teamIDs))
	copy(teams, teamIDs)
	if len(teams)%2 != 0 {
		teams = append(teams, byeSlot)
	}
	n := len(teams)
	if n < 2 {
		return nil
	}
	half := n / 2

	rotation := make([]int, n-1)
	copy(rotation, teams[1:])

	rounds := make([][]Pairing, 0, n-1)
	for r := 0; r < n-1; r++ {
		left := append([]int{teams[0]}, rotation[:half-1]...)
		right := rotation[half-1:]

		pairings := make([]Pairing, 0, half)
		for i := 0; i < half; i++ {
			home := left[i]
			away := right[len(right)-1-i]
			if home == byeSlot || away == byeSlot {
				continue
			}
			// Чередуем площадки между турами, чтобы распределение дома/в
			// гостях внутри круга было ровнее.
			if r%2 == 1 {
				home, away = away, home
			}
			pairings = append(pairings, Pairing{HomeTeamID: home, AwayTeamID: away})
		}
		rounds = append(rounds, pairings)

		// rotate: последний элемент становится первым
		last := rotation[len(rotation)-1]
		copy(rotation[1:], rotation[:len(rotation)-1])
		rotation[0] = last
	}

	return rounds
}

// crossDivisionWeeks строит междивизионные недели: дивизионы сводятся между
// собой круговым методом, внутри пары дивизионов соперник определяется
// сдвигом индекса на номер недели. Лишние команды и дивизион без пары
// получают bye.
func crossDivisionWeeks(divisions [][]int, count, startWeek int) []WeekPlan {
	divIdx := make([]int, len(divisions))
	for i := range divisions {
		divIdx[i] = i
	}
	divRounds := circleRounds(divIdx)
	if len(divRounds) == 0 {
		return nil
	}

	weeks := make([]WeekPlan, 0, count)
	for c := 0; c < count; c++ {
		week := WeekPlan{Number: startWeek + c + 1}
		playing := make(map[int]bool)

		round := divRounds[c%len(divRounds)]
		for _, divPair := range round {
			a := divisions[divPair.HomeTeamID]
			b := divisions[divPair.AwayTeamID]
			size := len(a)
			if len(b) < size {
				size = len(b)
			}
			for t := 0; t < size; t++ {
				home := a[t]
				away := b[(t+c)%len(b)]
				if c%2 == 1 {
					home, away = away, home
				}
				week.Pairings = append(week.Pairings, Pairing{HomeTeamID: home, AwayTeamID: away})
				playing[home] = true
				playing[away] = true
			}
		}

		for _, div := range divisions {
			for _, teamID := range div {
				if !playing[teamID] {
					week.ByeTeamIDs = append(week.ByeTeamIDs, teamID)
				}
			}
		}
		weeks = append(weeks, week)
	}

	return weeks
}

// Validate проверяет инварианты готового плана: команда не играет сама с
// собой и не выходит на поле дважды за неделю.
func Validate(weeks []WeekPlan) error {
	for _, week := range weeks {
		seen := make(map[int]bool)
		for _, p := range week.Pairings {
			if p.HomeTeamID == p.AwayTeamID {
				return fmt.Errorf("week %d: team %d is paired against itself", week.Number, p.HomeTeamID)
			}
			if seen[p.HomeTeamID] || seen[p.AwayTeamID] {
				return fmt.Errorf("week %d: a team is scheduled twice", week.Number)
			}
			seen[p.HomeTeamID] = true
			seen[p.AwayTeamID] = true
		}
	}
	return nil
}
