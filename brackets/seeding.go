// Package brackets содержит чистую арифметику плей-офф: посев, разбивку на
// пары и метки раундов. Персистентность и транзакции живут в сервисном слое.
package brackets

import (
	"errors"
	"sort"

	"github.com/Dosada05/league-system/models"
)

var ErrNotEnoughSeeds = errors.New("at least two seeds are required to build a bracket")

// Seed — номер посева и команда за ним. Номер посева присваивается один раз
// и не меняется между раундами.
type Seed struct {
	Seed   int
	TeamID int
}

// Matchup — пара раунда. Lower == nil означает bye: верхний посев проходит
// дальше без игры.
type Matchup struct {
	Higher Seed
	Lower  *Seed
}

// FieldSize возвращает число участников плей-офф для конфигурации лиги.
func FieldSize(allowExpansion bool) int {
	if allowExpansion {
		return 8
	}
	return 4
}

// PairRound разбивает участников на пары «лучший против худшего из
// оставшихся»: 1 против K, 2 против K−1 и так далее. Когда K не степень
// двойки, верхние посевы получают bye, чтобы следующий раунд вышел на степень
// двойки. Пересев между раундами выполняется этой же функцией по исходным
// номерам посева.
func PairRound(seeds []Seed) ([]Matchup, error) {
	if len(seeds) < 2 {
		return nil, ErrNotEnoughSeeds
	}

	ordered := make([]Seed, len(seeds))
	copy(ordered, seeds)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Seed < ordered[j].Seed })

	byes := nextPowerOfTwo(len(ordered)) - len(ordered)

	matchups := make([]Matchup, 0, (len(ordered)+byes)/2)
	for i := 0; i < byes; i++ {
		matchups = append(matchups, Matchup{Higher: ordered[i]})
	}

	playing := ordered[byes:]
	left, right := 0, len(playing)-1
	for left < right {
		lower := playing[right]
		matchups = append(matchups, Matchup{Higher: playing[left], Lower: &lower})
		left++
		right--
	}

	return matchups, nil
}

// RoundLabel выводит метку раунда из числа оставшихся участников.
func RoundLabel(fieldSize int) models.PlayoffRound {
	switch {
	case fieldSize > 8:
		return models.RoundWildcard
	case fieldSize > 4:
		return models.RoundDivisional
	case fieldSize > 2:
		return models.RoundConference
	case fieldSize == 2:
		return models.RoundChampionship
	default:
		return models.RoundComplete
	}
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
