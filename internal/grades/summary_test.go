package grades

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classmood/backend/internal/models"
)

func fptr(f float64) *float64 { return &f }

func TestAverage(t *testing.T) {
	tests := []struct {
		name  string
		grade models.Grade
		want  float64
	}{
		{
			name:  "mean of partials",
			grade: models.Grade{Parcial1: 9, Parcial2: 8, Parcial3: 7},
			want:  8,
		},
		{
			name:  "final overrides partials",
			grade: models.Grade{Parcial1: 9, Parcial2: 9, Parcial3: 9, Final: fptr(6.5)},
			want:  6.5,
		},
		{
			name:  "zero grade",
			grade: models.Grade{},
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Average(tt.grade), 0.001)
		})
	}
}

func TestSummarize(t *testing.T) {
	grades := []models.Grade{
		{StudentID: "s1", SubjectID: "math", Parcial1: 9, Parcial2: 9, Parcial3: 9},
		{StudentID: "s1", SubjectID: "hist", Parcial1: 7, Parcial2: 7, Parcial3: 7},
		{StudentID: "s2", SubjectID: "math", Parcial1: 5, Parcial2: 5, Parcial3: 5},
	}

	summaries := Summarize(grades)
	require.Len(t, summaries, 2)

	t.Run("sorted by student id", func(t *testing.T) {
		assert.Equal(t, "s1", summaries[0].StudentID)
		assert.Equal(t, "s2", summaries[1].StudentID)
	})

	t.Run("averages across subjects", func(t *testing.T) {
		assert.Equal(t, 2, summaries[0].Subjects)
		assert.InDelta(t, 8.0, summaries[0].Average, 0.001)
		assert.False(t, summaries[0].AtRisk)
	})

	t.Run("below passing grade is at risk", func(t *testing.T) {
		assert.Equal(t, 1, summaries[1].Subjects)
		assert.InDelta(t, 5.0, summaries[1].Average, 0.001)
		assert.True(t, summaries[1].AtRisk)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, Summarize(nil))
	})
}
