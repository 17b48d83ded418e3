package attendance

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/classmood/backend/internal/models"
)

const (
	// Below this many real records the display series gets padded.
	minRealHistory = 5
	// How far back the filler walk goes, in calendar days.
	fillerWindowDays = 25
)

// HistoryEntry is display-only and never persisted.
type HistoryEntry struct {
	Date   string                  `json:"date"`
	Status models.AttendanceStatus `json:"status"`
}

type HistoryStore interface {
	StudentAttendanceHistory(studentID string) ([]models.AttendanceRecord, error)
}

// Reconciler pads sparse per-student history with synthesized weekday
// filler so a freshly onboarded student's analytics panel is not empty.
// The filler is display noise, not a model of real attendance.
type Reconciler struct {
	store HistoryStore
	clock Clock
	rng   *rand.Rand
}

func NewReconciler(store HistoryStore, clock Clock, rng *rand.Rand) *Reconciler {
	if clock == nil {
		clock = SystemClock()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Reconciler{store: store, clock: clock, rng: rng}
}

// History returns the merged series, most recent day first, with at most
// one entry per calendar day. Persisted entries win over synthesized
// ones for the same day.
func (r *Reconciler) History(studentID string) []HistoryEntry {
	saved, err := r.store.StudentAttendanceHistory(studentID)
	if err != nil {
		logger.Error.Printf("Failed to fetch history for student %s: %v", studentID, err)
		saved = nil
	}

	byDay := make(map[string]HistoryEntry)
	if len(saved) < minRealHistory {
		today, err := time.Parse(dayFormat, r.clock.Today())
		if err != nil {
			logger.Error.Printf("Bad clock day %q: %v", r.clock.Today(), err)
		} else {
			for i := 1; i <= fillerWindowDays; i++ {
				d := today.AddDate(0, 0, -i)
				if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
					continue
				}
				status := models.StatusPresent
				switch roll := r.rng.Float64(); {
				case roll > 0.9:
					status = models.StatusAbsent
				case roll > 0.8:
					status = models.StatusLate
				}
				day := d.Format(dayFormat)
				byDay[day] = HistoryEntry{Date: day, Status: status}
			}
		}
	}

	// Inserted after the filler so real records win the day.
	for _, rec := range saved {
		byDay[rec.Date] = HistoryEntry{Date: rec.Date, Status: rec.Status}
	}

	entries := make([]HistoryEntry, 0, len(byDay))
	for _, e := range byDay {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Date > entries[j].Date })
	return entries
}

// PresentRatio is the integer percentage of present days in the series,
// zero for an empty series.
func PresentRatio(entries []HistoryEntry) int {
	if len(entries) == 0 {
		return 0
	}
	present := 0
	for _, e := range entries {
		if e.Status == models.StatusPresent {
			present++
		}
	}
	return int(math.Round(float64(present) / float64(len(entries)) * 100))
}
