package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/classmood/backend/internal/app"
	"github.com/classmood/backend/internal/attendance"
	"github.com/classmood/backend/internal/metrics"
	"github.com/classmood/backend/internal/models"
)

type AttendanceHandler struct {
	service *app.Service
}

func NewAttendanceHandler(service *app.Service) *AttendanceHandler {
	return &AttendanceHandler{
		service: service,
	}
}

// requestLocator satisfies the session's locator seam with the fix the
// browser already obtained and posted along with the commit. A commit
// without a fix reads as denied/unavailable.
type requestLocator struct {
	loc *models.Coordinate
}

func (l requestLocator) CurrentPosition(_ context.Context) (models.Coordinate, error) {
	if l.loc == nil {
		return models.Coordinate{}, fmt.Errorf("location permission denied or unavailable")
	}
	return *l.loc, nil
}

func newRNG() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func (h *AttendanceHandler) HandleToday(w http.ResponseWriter, r *http.Request) {
	if !authorize(h.service, w, r) {
		return
	}

	session := h.service.DaySession()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"date":          session.Date(),
		"locked":        session.Locked(),
		"strict":        session.Strict(),
		"draft":         session.Draft(),
		"participation": session.Participation(),
		"notice":        h.service.Notifier.Message(),
	})
}

func (h *AttendanceHandler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	if !authorize(h.service, w, r) {
		return
	}

	var req struct {
		StudentID string `json:"student_id"`
		Status    string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.StudentID == "" {
		http.Error(w, "Invalid student id specified", http.StatusBadRequest)
		return
	}
	status, err := models.ParseAttendanceStatus(req.Status)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	session := h.service.DaySession()
	if session.Locked() {
		http.Error(w, "La asistencia de hoy ya fue guardada", http.StatusConflict)
		return
	}
	session.SetStatus(req.StudentID, status)
	writeJSON(w, http.StatusOK, map[string]interface{}{"draft": session.Draft()})
}

func (h *AttendanceHandler) HandleParticipation(w http.ResponseWriter, r *http.Request) {
	if !authorize(h.service, w, r) {
		return
	}

	var req struct {
		StudentID string `json:"student_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.StudentID == "" {
		http.Error(w, "Invalid student id specified", http.StatusBadRequest)
		return
	}

	session := h.service.DaySession()
	if session.Locked() {
		http.Error(w, "La asistencia de hoy ya fue guardada", http.StatusConflict)
		return
	}
	session.RecordParticipation(req.StudentID)
	writeJSON(w, http.StatusOK, map[string]interface{}{"participation": session.Participation()})
}

func (h *AttendanceHandler) HandleStrict(w http.ResponseWriter, r *http.Request) {
	if !authorize(h.service, w, r) {
		return
	}

	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	session := h.service.DaySession()
	session.SetStrict(req.Enabled)
	writeJSON(w, http.StatusOK, map[string]interface{}{"strict": session.Strict()})
}

func (h *AttendanceHandler) HandleCommit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := http.StatusOK
	defer func() {
		metrics.APIRequestDuration.WithLabelValues(
			r.URL.Path,
			r.Method,
			strconv.Itoa(status),
		).Observe(time.Since(start).Seconds())
	}()

	if !authorize(h.service, w, r) {
		status = http.StatusUnauthorized
		return
	}

	var req struct {
		Location *models.Coordinate `json:"location"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			status = http.StatusBadRequest
			http.Error(w, "Invalid request body", status)
			return
		}
	}

	roster, err := h.service.Store.ListStudents()
	if err != nil {
		logger.Error.Printf("Failed to load roster: %v", err)
		status = http.StatusInternalServerError
		http.Error(w, "Failed to load roster", status)
		return
	}

	session := h.service.DaySession()
	err = session.Commit(r.Context(), roster, requestLocator{loc: req.Location})
	if errors.Is(err, attendance.ErrLocationRequired) {
		status = http.StatusPreconditionFailed
		http.Error(w, "Se requiere permiso de ubicación para el Modo Estricto. Intente de nuevo o desactive el modo estricto.", status)
		return
	}
	if err != nil {
		logger.Error.Printf("Commit failed: %v", err)
		status = http.StatusInternalServerError
		http.Error(w, "Failed to save attendance", status)
		return
	}

	metrics.AttendanceCommitsTotal.WithLabelValues(strconv.FormatBool(session.Strict())).Inc()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"date":   session.Date(),
		"locked": session.Locked(),
		"draft":  session.Draft(),
	})
}

func (h *AttendanceHandler) HandleSpotCheck(w http.ResponseWriter, r *http.Request) {
	if !authorize(h.service, w, r) {
		return
	}

	roster, err := h.service.Store.ListStudents()
	if err != nil {
		logger.Error.Printf("Failed to load roster: %v", err)
		http.Error(w, "Failed to load roster", http.StatusInternalServerError)
		return
	}

	student, ok := attendance.SpotCheck(roster, newRNG())
	if !ok {
		writeJSON(w, http.StatusOK, map[string]interface{}{})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"student": student})
}

func (h *AttendanceHandler) HandleScan(w http.ResponseWriter, r *http.Request) {
	if !authorize(h.service, w, r) {
		return
	}

	roster, err := h.service.Store.ListStudents()
	if err != nil {
		logger.Error.Printf("Failed to load roster: %v", err)
		http.Error(w, "Failed to load roster", http.StatusInternalServerError)
		return
	}

	session := h.service.DaySession()
	result := session.SimulateScan(roster, newRNG())
	if result.Notice != "" {
		delay := time.Duration(h.service.Config.Attendance.ScanNoticeSeconds) * time.Second
		h.service.Notifier.Flash(result.Notice, delay)
		metrics.ScanEventsTotal.Inc()
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *AttendanceHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if !authorize(h.service, w, r) {
		return
	}

	studentID := r.PathValue("studentID")
	if studentID == "" {
		http.Error(w, "Invalid student id specified", http.StatusBadRequest)
		return
	}

	reconciler := attendance.NewReconciler(h.service.Store, h.service.Clock, newRNG())
	entries := reconciler.History(studentID)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries":       entries,
		"present_ratio": attendance.PresentRatio(entries),
	})
}
