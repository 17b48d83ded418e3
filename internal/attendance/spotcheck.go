package attendance

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/classmood/backend/internal/models"
)

// SpotCheck picks one roster student for the teacher to confirm
// visually. Pure selection; false for an empty roster.
func SpotCheck(roster []models.Student, rng *rand.Rand) (models.Student, bool) {
	if len(roster) == 0 {
		return models.Student{}, false
	}
	return roster[rng.Intn(len(roster))], true
}

type ScanResult struct {
	Student *models.Student `json:"student,omitempty"`
	Notice  string          `json:"notice"`
}

// SimulateScan stands in for a real self-check-in client: it flips one
// still-absent student in the draft to present. Locked sessions and
// empty rosters are no-ops with no notice.
func (s *Session) SimulateScan(roster []models.Student, rng *rand.Rand) ScanResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locked || len(roster) == 0 {
		return ScanResult{}
	}

	var absent []models.Student
	for _, student := range roster {
		status, ok := s.draft[student.ID]
		if !ok {
			status = models.StatusAbsent
		}
		if status == models.StatusAbsent {
			absent = append(absent, student)
		}
	}
	if len(absent) == 0 {
		return ScanResult{Notice: "Todos los alumnos presentes."}
	}

	pick := absent[rng.Intn(len(absent))]
	s.draft[pick.ID] = models.StatusPresent
	return ScanResult{
		Student: &pick,
		Notice:  fmt.Sprintf("%s ha marcado asistencia.", pick.Name),
	}
}

// Notifier holds one transient message that clears itself after a delay.
type Notifier struct {
	mu    sync.Mutex
	msg   string
	timer *time.Timer
}

func (n *Notifier) Flash(msg string, d time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.timer != nil {
		n.timer.Stop()
	}
	n.msg = msg
	n.timer = time.AfterFunc(d, func() {
		n.mu.Lock()
		n.msg = ""
		n.mu.Unlock()
	})
}

func (n *Notifier) Message() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.msg
}
