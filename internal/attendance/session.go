package attendance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/classmood/backend/internal/models"
)

// RecordStore is the slice of the persistence layer the session needs.
type RecordStore interface {
	AttendanceByDate(date string) (map[string]models.AttendanceStatus, error)
	SaveAttendanceDay(date string, statuses map[string]models.AttendanceStatus, proof Proof, now time.Time) error
}

// Session tracks one day of attendance capture. It starts unlocked with
// an empty draft, or pre-locked over the committed mapping when the day
// was already saved. Once locked it never unlocks: saved attendance is
// immutable for the rest of the day.
type Session struct {
	mu    sync.Mutex
	store RecordStore
	clock Clock

	date             string
	draft            map[string]models.AttendanceStatus
	participation    map[string]int
	locked           bool
	strict           bool
	locationVerified bool
	location         models.Coordinate
	committing       bool
}

// NewSession opens the session for the clock's current day.
func NewSession(store RecordStore, clock Clock) *Session {
	if clock == nil {
		clock = SystemClock()
	}
	s := &Session{
		store:         store,
		clock:         clock,
		date:          clock.Today(),
		draft:         map[string]models.AttendanceStatus{},
		participation: map[string]int{},
	}

	committed, err := store.AttendanceByDate(s.date)
	if err != nil {
		logger.Error.Printf("Failed to load attendance for %s: %v", s.date, err)
		return s
	}
	if len(committed) > 0 {
		s.draft = committed
		s.locked = true
	}
	return s
}

func (s *Session) Date() string {
	return s.date
}

func (s *Session) Locked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locked
}

func (s *Session) Strict() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.strict
}

// SetStrict toggles strict mode. Ignored once the day is locked.
func (s *Session) SetStrict(strict bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locked {
		return
	}
	s.strict = strict
}

// SetStatus overwrites one student's draft status. Ignored once locked.
func (s *Session) SetStatus(studentID string, status models.AttendanceStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locked || studentID == "" {
		return
	}
	s.draft[studentID] = status
}

// RecordParticipation bumps a student's in-class participation counter.
// Gated the same way as status edits: no engagement data changes after
// the day is submitted.
func (s *Session) RecordParticipation(studentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locked || studentID == "" {
		return
	}
	s.participation[studentID]++
}

// Draft returns a copy of the current status mapping.
func (s *Session) Draft() map[string]models.AttendanceStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]models.AttendanceStatus, len(s.draft))
	for id, status := range s.draft {
		out[id] = status
	}
	return out
}

// Participation returns a copy of the participation counters.
func (s *Session) Participation() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.participation))
	for id, n := range s.participation {
		out[id] = n
	}
	return out
}

// Commit finalizes the day: roster students missing from the draft are
// recorded absent, a location fix is obtained when strict mode demands
// one, and the completed mapping replaces the day atomically. A locked
// session commits as a no-op, as does a commit racing an outstanding
// fix request. On a failed fix the session stays unlocked and nothing
// is written.
func (s *Session) Commit(ctx context.Context, roster []models.Student, locator Locator) error {
	s.mu.Lock()
	if s.locked || s.committing {
		s.mu.Unlock()
		return nil
	}
	s.committing = true

	completed := make(map[string]models.AttendanceStatus, len(roster))
	for id, status := range s.draft {
		completed[id] = status
	}
	for _, student := range roster {
		if _, ok := completed[student.ID]; !ok {
			completed[student.ID] = models.StatusAbsent
		}
	}
	strict := s.strict
	needFix := strict && !s.locationVerified
	loc := s.location
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.committing = false
		s.mu.Unlock()
	}()

	if needFix {
		if locator == nil {
			return ErrLocationRequired
		}
		fix, err := locator.CurrentPosition(ctx)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrLocationRequired, err)
		}
		s.mu.Lock()
		s.locationVerified = true
		s.location = fix
		s.mu.Unlock()
		loc = fix
	}

	var proof Proof = Unverified{}
	if strict {
		proof = Verified{Location: loc}
	}

	if err := s.store.SaveAttendanceDay(s.date, completed, proof, s.clock.Now()); err != nil {
		return fmt.Errorf("failed to save attendance for %s: %w", s.date, err)
	}

	s.mu.Lock()
	s.draft = completed
	s.locked = true
	s.mu.Unlock()
	return nil
}
