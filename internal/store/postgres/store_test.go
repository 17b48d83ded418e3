package postgres

import (
	"context"
	"flag"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/classmood/backend/internal/attendance"
	"github.com/classmood/backend/internal/models"
)

// setupTestDB spins up a disposable Postgres and applies the real migrations,
// seed data included.
func setupTestDB(t *testing.T) (*PostgresStore, func()) {
	ctx := context.Background()

	pg, err := postgres.Run(
		ctx,
		"postgres:16-alpine",
		testcontainers.WithEnv(map[string]string{
			"POSTGRES_DB":       "testdb",
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
		}),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	require.NoError(t, err)

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := NewPostgresStore(dsn)
	require.NoError(t, err, "Failed to create store")

	err = s.ApplyMigrations("../../../migrations")
	require.NoError(t, err, "Failed to apply migrations")

	cleanup := func() {
		s.Close()
		pg.Terminate(ctx)
	}

	return s, cleanup
}

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		log.Println("Skipping Postgres integration tests. Use -short=false to run them.")
		os.Exit(0)
	}
	log.Println("Starting Postgres store tests...")
	code := m.Run()
	log.Println("Finished Postgres store tests")
	os.Exit(code)
}

func TestSeededRoster(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	students, err := s.ListStudents()
	require.NoError(t, err)
	require.NotEmpty(t, students)
	assert.Equal(t, "Ana García López", students[0].Name)
}

func TestSaveAttendanceDay(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Date(2026, 5, 12, 9, 0, 0, 0, time.UTC)
	day := "2026-05-12"

	students, err := s.ListStudents()
	require.NoError(t, err)
	require.NotEmpty(t, students)

	statuses := make(map[string]models.AttendanceStatus)
	for _, student := range students {
		statuses[student.ID] = models.StatusPresent
	}
	statuses[students[0].ID] = models.StatusAbsent

	err = s.SaveAttendanceDay(day, statuses, attendance.Unverified{}, now)
	require.NoError(t, err)

	t.Run("read back", func(t *testing.T) {
		got, err := s.AttendanceByDate(day)
		require.NoError(t, err)
		assert.Equal(t, statuses, got)
	})

	t.Run("summary groups by status", func(t *testing.T) {
		summary, err := s.AttendanceSummaryByDate(day)
		require.NoError(t, err)

		counts := map[string]int{}
		for _, row := range summary {
			counts[row.Status] += row.Count
		}
		assert.Equal(t, 1, counts[string(models.StatusAbsent)])
		assert.Equal(t, len(students)-1, counts[string(models.StatusPresent)])
	})

	t.Run("recommit overwrites", func(t *testing.T) {
		second := map[string]models.AttendanceStatus{
			students[0].ID: models.StatusLate,
		}
		err := s.SaveAttendanceDay(day, second, attendance.Unverified{}, now.Add(time.Hour))
		require.NoError(t, err)

		got, err := s.AttendanceByDate(day)
		require.NoError(t, err)
		assert.Equal(t, second, got)
	})
}

func TestMessageThread(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	students, err := s.ListStudents()
	require.NoError(t, err)
	require.NotEmpty(t, students)

	msg := models.Message{
		ID:        "m-test",
		StudentID: students[0].ID,
		Sender:    models.SenderTeacher,
		Content:   "Recuerda traer tu tarea mañana.",
		SentAt:    time.Date(2026, 5, 12, 10, 0, 0, 0, time.UTC),
		Read:      true,
	}
	require.NoError(t, s.CreateMessage(&msg))

	thread, err := s.MessageThread(students[0].ID)
	require.NoError(t, err)
	require.NotEmpty(t, thread)
	last := thread[len(thread)-1]
	assert.Equal(t, msg.Content, last.Content)
	assert.Equal(t, models.SenderTeacher, last.Sender)
}
