package attendance

import (
	"errors"
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classmood/backend/internal/models"
)

type fakeHistoryStore struct {
	records []models.AttendanceRecord
	err     error
}

func (f *fakeHistoryStore) StudentAttendanceHistory(studentID string) ([]models.AttendanceRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func record(date string, status models.AttendanceStatus) models.AttendanceRecord {
	return models.AttendanceRecord{StudentID: "s1", Date: date, Status: status}
}

func testReconciler(store HistoryStore) *Reconciler {
	return NewReconciler(store, testClock(), rand.New(rand.NewSource(1)))
}

func TestHistoryPadsSparseRecords(t *testing.T) {
	store := &fakeHistoryStore{records: []models.AttendanceRecord{
		record("2026-05-11", models.StatusPresent),
	}}
	entries := testReconciler(store).History("s1")

	// 2026-05-12 is a Tuesday; the preceding 25 calendar days hold 17
	// weekdays, one of which is the real record's day.
	assert.Len(t, entries, 17)

	today, err := time.Parse("2006-01-02", "2026-05-12")
	require.NoError(t, err)
	earliest := today.AddDate(0, 0, -25).Format("2006-01-02")

	for _, e := range entries {
		d, err := time.Parse("2006-01-02", e.Date)
		require.NoError(t, err)
		assert.NotEqual(t, time.Saturday, d.Weekday())
		assert.NotEqual(t, time.Sunday, d.Weekday())
		assert.GreaterOrEqual(t, e.Date, earliest)
		assert.Less(t, e.Date, "2026-05-12", "filler never covers today")
		assert.Contains(t, []models.AttendanceStatus{
			models.StatusPresent, models.StatusAbsent, models.StatusLate,
		}, e.Status)
	}
}

func TestHistoryPersistedWinsOverFiller(t *testing.T) {
	// Filler never synthesizes an excused day, so finding one proves the
	// persisted record took precedence.
	store := &fakeHistoryStore{records: []models.AttendanceRecord{
		record("2026-05-11", models.StatusExcused),
	}}
	entries := testReconciler(store).History("s1")

	found := false
	for _, e := range entries {
		if e.Date == "2026-05-11" {
			found = true
			assert.Equal(t, models.StatusExcused, e.Status)
		}
	}
	assert.True(t, found)
}

func TestHistorySkipsFillerWithEnoughRecords(t *testing.T) {
	records := []models.AttendanceRecord{
		record("2026-05-11", models.StatusPresent),
		record("2026-05-08", models.StatusPresent),
		record("2026-05-07", models.StatusLate),
		record("2026-05-06", models.StatusPresent),
		record("2026-05-05", models.StatusAbsent),
	}
	store := &fakeHistoryStore{records: records}
	entries := testReconciler(store).History("s1")

	require.Len(t, entries, len(records))
	for i, e := range entries {
		assert.Equal(t, records[i].Date, e.Date)
		assert.Equal(t, records[i].Status, e.Status)
	}
}

func TestHistoryIsDescendingAndDeduplicated(t *testing.T) {
	store := &fakeHistoryStore{records: []models.AttendanceRecord{
		record("2026-05-11", models.StatusPresent),
		record("2026-04-29", models.StatusLate),
	}}
	entries := testReconciler(store).History("s1")

	assert.True(t, sort.SliceIsSorted(entries, func(i, j int) bool {
		return entries[i].Date > entries[j].Date
	}))

	seen := map[string]bool{}
	for _, e := range entries {
		assert.False(t, seen[e.Date], "duplicate day %s", e.Date)
		seen[e.Date] = true
	}
}

func TestHistoryStoreFailureFallsBackToFiller(t *testing.T) {
	store := &fakeHistoryStore{err: errors.New("store offline")}
	entries := testReconciler(store).History("s1")
	assert.NotEmpty(t, entries)
}

func TestPresentRatio(t *testing.T) {
	tests := []struct {
		name    string
		entries []HistoryEntry
		want    int
	}{
		{
			name:    "empty series",
			entries: nil,
			want:    0,
		},
		{
			name: "all present",
			entries: []HistoryEntry{
				{Date: "2026-05-11", Status: models.StatusPresent},
				{Date: "2026-05-08", Status: models.StatusPresent},
			},
			want: 100,
		},
		{
			name: "two thirds rounds up",
			entries: []HistoryEntry{
				{Date: "2026-05-11", Status: models.StatusPresent},
				{Date: "2026-05-08", Status: models.StatusPresent},
				{Date: "2026-05-07", Status: models.StatusAbsent},
			},
			want: 67,
		},
		{
			name: "late and excused count as not present",
			entries: []HistoryEntry{
				{Date: "2026-05-11", Status: models.StatusLate},
				{Date: "2026-05-08", Status: models.StatusExcused},
				{Date: "2026-05-07", Status: models.StatusPresent},
				{Date: "2026-05-06", Status: models.StatusPresent},
			},
			want: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PresentRatio(tt.entries))
		})
	}
}
