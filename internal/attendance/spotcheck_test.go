package attendance

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classmood/backend/internal/models"
)

func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

func TestSpotCheck(t *testing.T) {
	t.Run("empty roster", func(t *testing.T) {
		_, ok := SpotCheck(nil, testRNG())
		assert.False(t, ok)
	})

	t.Run("picks a roster student", func(t *testing.T) {
		roster := testRoster()
		picked, ok := SpotCheck(roster, testRNG())
		require.True(t, ok)
		assert.Contains(t, roster, picked)
	})
}

func TestSimulateScan(t *testing.T) {
	t.Run("flips one absent student to present", func(t *testing.T) {
		s := NewSession(newFakeRecordStore(), testClock())
		s.SetStatus("s1", models.StatusPresent)

		result := s.SimulateScan(testRoster(), testRNG())
		require.NotNil(t, result.Student)
		assert.Contains(t, []string{"s2", "s3"}, result.Student.ID)
		assert.Equal(t, result.Student.Name+" ha marcado asistencia.", result.Notice)
		assert.Equal(t, models.StatusPresent, s.Draft()[result.Student.ID])
	})

	t.Run("everyone present", func(t *testing.T) {
		s := NewSession(newFakeRecordStore(), testClock())
		for _, student := range testRoster() {
			s.SetStatus(student.ID, models.StatusPresent)
		}

		result := s.SimulateScan(testRoster(), testRNG())
		assert.Nil(t, result.Student)
		assert.Equal(t, "Todos los alumnos presentes.", result.Notice)
	})

	t.Run("locked session is a silent no-op", func(t *testing.T) {
		s := NewSession(newFakeRecordStore(), testClock())
		require.NoError(t, s.Commit(context.Background(), testRoster(), nil))

		result := s.SimulateScan(testRoster(), testRNG())
		assert.Nil(t, result.Student)
		assert.Empty(t, result.Notice)
	})

	t.Run("empty roster is a silent no-op", func(t *testing.T) {
		s := NewSession(newFakeRecordStore(), testClock())
		result := s.SimulateScan(nil, testRNG())
		assert.Nil(t, result.Student)
		assert.Empty(t, result.Notice)
	})
}

func TestNotifierFlash(t *testing.T) {
	var n Notifier

	n.Flash("Ana ha marcado asistencia.", 50*time.Millisecond)
	assert.Equal(t, "Ana ha marcado asistencia.", n.Message())

	t.Run("new flash replaces the old one", func(t *testing.T) {
		n.Flash("Carlos ha marcado asistencia.", 50*time.Millisecond)
		assert.Equal(t, "Carlos ha marcado asistencia.", n.Message())
	})

	t.Run("message clears after the delay", func(t *testing.T) {
		assert.Eventually(t, func() bool {
			return n.Message() == ""
		}, time.Second, 10*time.Millisecond)
	})
}
