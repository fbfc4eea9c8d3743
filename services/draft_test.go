package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRookieSalaryScale(t *testing.T) {
	tests := []struct {
		round int
		want  int64
	}{
		{1, 6_000_000},
		{2, 4_800_000},
		{3, 3_600_000},
		{4, 2_400_000},
		{5, 1_200_000},
		{6, 840_000},  // нижняя граница шкалы
		{10, 840_000}, // глубокие раунды не уходят ниже минимума
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, rookieSalary(tt.round), "round %d", tt.round)
	}
}
