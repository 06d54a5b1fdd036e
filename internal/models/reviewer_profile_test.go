package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFor(t *testing.T) {
	tests := []struct {
		name     string
		approved int
		helpful  int
		want     ReviewerLevel
	}{
		{"no activity", 0, 0, ReviewerLevelBeginner},
		{"few reviews", 4, 200, ReviewerLevelBeginner},
		{"intermediate threshold", 5, 0, ReviewerLevelIntermediate},
		{"advanced needs helpful votes too", 20, 49, ReviewerLevelIntermediate},
		{"advanced needs the review count too", 19, 100, ReviewerLevelIntermediate},
		{"advanced threshold", 20, 50, ReviewerLevelAdvanced},
		{"expert needs both thresholds", 50, 99, ReviewerLevelAdvanced},
		{"expert threshold", 50, 100, ReviewerLevelExpert},
		{"well past expert", 200, 500, ReviewerLevelExpert},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LevelFor(tt.approved, tt.helpful))
		})
	}
}
