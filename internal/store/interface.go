package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/classmood/backend/internal/attendance"
	"github.com/classmood/backend/internal/models"
)

// Store is the full persistence surface of the dashboard. The attendance
// methods double as the session's and reconciler's record store.
type Store interface {
	Close() error
	ApplyMigrations(dir string) error

	ListStudents() ([]models.Student, error)
	AddStudent(student *models.Student) error
	UpdateStudent(student *models.Student) error

	AttendanceByDate(date string) (map[string]models.AttendanceStatus, error)
	SaveAttendanceDay(date string, statuses map[string]models.AttendanceStatus, proof attendance.Proof, now time.Time) error
	StudentAttendanceHistory(studentID string) ([]models.AttendanceRecord, error)
	AttendanceSummaryByDate(date string) ([]AttendanceSummary, error)
	ListAttendance() ([]models.AttendanceRecord, error)

	ListGrades() ([]models.Grade, error)

	MessageThread(studentID string) ([]models.Message, error)
	CreateMessage(msg *models.Message) error

	ListReminders() ([]models.Reminder, error)
	CreateReminder(reminder *models.Reminder) error
	ToggleReminder(id string) error
	DeleteReminder(id string) error

	CreateLessonPlan(plan *models.LessonPlan) error
	ListLessonPlans() ([]models.LessonPlan, error)

	CreateUser(user *models.User) error
	FindUserByIdentifier(identifier string) (*models.User, error)
}

// BaseStore provides common functionality for different DB implementations
type BaseStore struct {
	DB        *sqlx.DB
	Converter func(string) string
}

func (s *BaseStore) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

// ApplyMigrations applies SQL migrations from a directory, translating dialect if needed
func (s *BaseStore) ApplyMigrations(dir string, translateSQL func(string) string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, file := range files {
		if !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		content, err := os.ReadFile(fmt.Sprintf("%s/%s", dir, file.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file.Name(), err)
		}

		sql := string(content)
		if translateSQL != nil {
			sql = translateSQL(sql)
		}

		if _, err := s.DB.Exec(sql); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file.Name(), err)
		}
	}

	return nil
}

func (s *BaseStore) ListStudents() ([]models.Student, error) {
	var students []models.Student
	err := s.DB.Select(&students, `
		SELECT id, name, matricula, average_grade, attendance_rate
		FROM students
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}

func (s *BaseStore) AddStudent(student *models.Student) error {
	_, err := s.DB.NamedExec(`
		INSERT INTO students (id, name, matricula, average_grade, attendance_rate)
		VALUES (:id, :name, :matricula, :average_grade, :attendance_rate)
	`, student)
	if err != nil {
		return fmt.Errorf("failed to add student: %w", err)
	}
	return nil
}

func (s *BaseStore) UpdateStudent(student *models.Student) error {
	_, err := s.DB.NamedExec(`
		UPDATE students
		SET name = :name,
		    matricula = :matricula,
		    average_grade = :average_grade,
		    attendance_rate = :attendance_rate
		WHERE id = :id
	`, student)
	if err != nil {
		return fmt.Errorf("failed to update student: %w", err)
	}
	return nil
}

// AttendanceByDate returns the committed statuses for one calendar day.
// Reads fail soft: a broken row is skipped and a failed query yields the
// empty mapping, since attendance data must never take the UI down.
func (s *BaseStore) AttendanceByDate(date string) (map[string]models.AttendanceStatus, error) {
	query := s.Converter(`
		SELECT student_id, status
		FROM attendance_records
		WHERE date = ?
	`)

	rows, err := s.DB.Queryx(query, date)
	if err != nil {
		logger.Error.Printf("Failed to query attendance for %s: %v", date, err)
		return map[string]models.AttendanceStatus{}, nil
	}
	defer rows.Close()

	statuses := make(map[string]models.AttendanceStatus)
	for rows.Next() {
		var studentID, raw string
		if err := rows.Scan(&studentID, &raw); err != nil {
			logger.Error.Printf("Skipping unreadable attendance row for %s: %v", date, err)
			continue
		}
		status, err := models.ParseAttendanceStatus(raw)
		if err != nil {
			logger.Error.Printf("Skipping attendance row for %s: %v", date, err)
			continue
		}
		statuses[studentID] = status
	}
	return statuses, nil
}

// SaveAttendanceDay replaces the whole day in one transaction. Students
// absent from statuses lose any previously recorded entry for that day.
func (s *BaseStore) SaveAttendanceDay(date string, statuses map[string]models.AttendanceStatus, proof attendance.Proof, now time.Time) error {
	verified := false
	var lat, lng *float64
	if v, ok := proof.(attendance.Verified); ok {
		verified = true
		lat = &v.Location.Lat
		lng = &v.Location.Lng
	}

	tx, err := s.DB.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin attendance save: %w", err)
	}

	if _, err := tx.Exec(s.Converter(`DELETE FROM attendance_records WHERE date = ?`), date); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to clear attendance for %s: %w", date, err)
	}

	insert := s.Converter(`
		INSERT INTO attendance_records (student_id, date, status, verified, lat, lng, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	for studentID, status := range statuses {
		if _, err := tx.Exec(insert, studentID, date, string(status), verified, lat, lng, now); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to save attendance for %s/%s: %w", date, studentID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit attendance for %s: %w", date, err)
	}
	return nil
}

// StudentAttendanceHistory returns one student's records, newest day
// first. Fail-soft like AttendanceByDate.
func (s *BaseStore) StudentAttendanceHistory(studentID string) ([]models.AttendanceRecord, error) {
	var records []models.AttendanceRecord
	query := s.Converter(`
		SELECT student_id, date, status, verified, lat, lng, recorded_at
		FROM attendance_records
		WHERE student_id = ?
		ORDER BY date DESC
	`)

	if err := s.DB.Select(&records, query, studentID); err != nil {
		logger.Error.Printf("Failed to fetch attendance history for %s: %v", studentID, err)
		return nil, nil
	}
	return records, nil
}

func (s *BaseStore) AttendanceSummaryByDate(date string) ([]AttendanceSummary, error) {
	var summary []AttendanceSummary
	query := s.Converter(`
		SELECT date, status, COUNT(*) AS count, verified
		FROM attendance_records
		WHERE date = ?
		GROUP BY date, status, verified
		ORDER BY status
	`)

	if err := s.DB.Select(&summary, query, date); err != nil {
		return nil, fmt.Errorf("failed to summarize attendance for %s: %w", date, err)
	}
	return summary, nil
}

func (s *BaseStore) ListAttendance() ([]models.AttendanceRecord, error) {
	var records []models.AttendanceRecord
	err := s.DB.Select(&records, `
		SELECT student_id, date, status, verified, lat, lng, recorded_at
		FROM attendance_records
		ORDER BY date DESC, student_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return records, nil
}

func (s *BaseStore) ListGrades() ([]models.Grade, error) {
	var grades []models.Grade
	err := s.DB.Select(&grades, `
		SELECT student_id, subject_id, parcial1, parcial2, parcial3, final
		FROM grades
		ORDER BY student_id, subject_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list grades: %w", err)
	}
	return grades, nil
}

func (s *BaseStore) MessageThread(studentID string) ([]models.Message, error) {
	var messages []models.Message
	query := s.Converter(`
		SELECT id, student_id, sender, content, sent_at, read
		FROM messages
		WHERE student_id = ?
		ORDER BY sent_at ASC
	`)

	if err := s.DB.Select(&messages, query, studentID); err != nil {
		return nil, fmt.Errorf("failed to fetch message thread: %w", err)
	}
	return messages, nil
}

func (s *BaseStore) CreateMessage(msg *models.Message) error {
	_, err := s.DB.NamedExec(`
		INSERT INTO messages (id, student_id, sender, content, sent_at, read)
		VALUES (:id, :student_id, :sender, :content, :sent_at, :read)
	`, msg)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

func (s *BaseStore) ListReminders() ([]models.Reminder, error) {
	var reminders []models.Reminder
	err := s.DB.Select(&reminders, `
		SELECT id, title, date, completed, type
		FROM reminders
		ORDER BY date, title
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	return reminders, nil
}

func (s *BaseStore) CreateReminder(reminder *models.Reminder) error {
	_, err := s.DB.NamedExec(`
		INSERT INTO reminders (id, title, date, completed, type)
		VALUES (:id, :title, :date, :completed, :type)
	`, reminder)
	if err != nil {
		return fmt.Errorf("failed to create reminder: %w", err)
	}
	return nil
}

func (s *BaseStore) ToggleReminder(id string) error {
	res, err := s.DB.Exec(s.Converter(`
		UPDATE reminders SET completed = NOT completed WHERE id = ?
	`), id)
	if err != nil {
		return fmt.Errorf("failed to toggle reminder: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *BaseStore) DeleteReminder(id string) error {
	_, err := s.DB.Exec(s.Converter(`DELETE FROM reminders WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	return nil
}

func (s *BaseStore) CreateLessonPlan(plan *models.LessonPlan) error {
	activities, err := json.Marshal(plan.Activities)
	if err != nil {
		return fmt.Errorf("failed to encode activities: %w", err)
	}
	resources, err := json.Marshal(plan.Resources)
	if err != nil {
		return fmt.Errorf("failed to encode resources: %w", err)
	}

	query := s.Converter(`
		INSERT INTO lesson_plans (id, topic, objective, activities, resources, duration, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	_, err = s.DB.Exec(query, plan.ID, plan.Topic, plan.Objective, string(activities), string(resources), plan.Duration, plan.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create lesson plan: %w", err)
	}
	return nil
}

func (s *BaseStore) ListLessonPlans() ([]models.LessonPlan, error) {
	rows, err := s.DB.Queryx(`
		SELECT id, topic, objective, activities, resources, duration, created_at
		FROM lesson_plans
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list lesson plans: %w", err)
	}
	defer rows.Close()

	var plans []models.LessonPlan
	for rows.Next() {
		var plan models.LessonPlan
		var activities, resources string
		if err := rows.Scan(&plan.ID, &plan.Topic, &plan.Objective, &activities, &resources, &plan.Duration, &plan.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan lesson plan: %w", err)
		}
		if err := json.Unmarshal([]byte(activities), &plan.Activities); err != nil {
			logger.Error.Printf("Bad activities payload in plan %s: %v", plan.ID, err)
		}
		if err := json.Unmarshal([]byte(resources), &plan.Resources); err != nil {
			logger.Error.Printf("Bad resources payload in plan %s: %v", plan.ID, err)
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

func (s *BaseStore) CreateUser(user *models.User) error {
	_, err := s.DB.NamedExec(`
		INSERT INTO users (id, name, email, phone, school, password_hash, created_at)
		VALUES (:id, :name, :email, :phone, :school, :password_hash, :created_at)
	`, user)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindUserByIdentifier looks a user up by either email or phone.
func (s *BaseStore) FindUserByIdentifier(identifier string) (*models.User, error) {
	var user models.User
	query := s.Converter(`
		SELECT id, name, email, phone, school, password_hash, created_at
		FROM users
		WHERE email = ? OR phone = ?
	`)

	err := s.DB.Get(&user, query, identifier, identifier)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}
