// internal/grades/summary.go
package grades

import (
	"sort"

	"github.com/classmood/backend/internal/models"
)

// Below this average a student gets flagged for follow-up.
const passingGrade = 6.0

// Average is the running average over the three partial terms, unless a
// final grade has been registered, which then stands on its own.
func Average(g models.Grade) float64 {
	if g.Final != nil {
		return *g.Final
	}
	return (g.Parcial1 + g.Parcial2 + g.Parcial3) / 3
}

type StudentSummary struct {
	StudentID string  `json:"student_id"`
	Subjects  int     `json:"subjects"`
	Average   float64 `json:"average"`
	AtRisk    bool    `json:"at_risk"`
}

// Summarize rolls grades up per student across subjects.
func Summarize(all []models.Grade) []StudentSummary {
	totals := make(map[string]float64)
	counts := make(map[string]int)
	for _, g := range all {
		totals[g.StudentID] += Average(g)
		counts[g.StudentID]++
	}

	summaries := make([]StudentSummary, 0, len(totals))
	for studentID, total := range totals {
		avg := total / float64(counts[studentID])
		summaries = append(summaries, StudentSummary{
			StudentID: studentID,
			Subjects:  counts[studentID],
			Average:   avg,
			AtRisk:    avg < passingGrade,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].StudentID < summaries[j].StudentID
	})
	return summaries
}
