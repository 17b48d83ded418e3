package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/classmood/backend/internal/app"
	"github.com/classmood/backend/internal/grades"
	"github.com/classmood/backend/internal/metrics"
	"github.com/classmood/backend/internal/models"
	"github.com/classmood/backend/internal/planner"
)

type StudentHandler struct {
	service *app.Service
	ai      *planner.Client
}

func NewStudentHandler(service *app.Service, ai *planner.Client) *StudentHandler {
	return &StudentHandler{
		service: service,
		ai:      ai,
	}
}

func (h *StudentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if !authorize(h.service, w, r) {
		return
	}

	students, err := h.service.Store.ListStudents()
	if err != nil {
		logger.Error.Printf("Failed to list students: %v", err)
		http.Error(w, "Failed to list students", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, students)
}

func (h *StudentHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	if !authorize(h.service, w, r) {
		return
	}

	var student models.Student
	if err := json.NewDecoder(r.Body).Decode(&student); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	if err := student.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.Store.AddStudent(&student); err != nil {
		logger.Error.Printf("Failed to add student: %v", err)
		http.Error(w, "Failed to add student", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, student)
}

func (h *StudentHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	if !authorize(h.service, w, r) {
		return
	}

	var student models.Student
	if err := json.NewDecoder(r.Body).Decode(&student); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	student.ID = r.PathValue("studentID")
	if student.ID == "" {
		http.Error(w, "Invalid student id specified", http.StatusBadRequest)
		return
	}
	if err := student.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.Store.UpdateStudent(&student); err != nil {
		logger.Error.Printf("Failed to update student: %v", err)
		http.Error(w, "Failed to update student", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, student)
}

func (h *StudentHandler) HandleGrades(w http.ResponseWriter, r *http.Request) {
	if !authorize(h.service, w, r) {
		return
	}

	all, err := h.service.Store.ListGrades()
	if err != nil {
		logger.Error.Printf("Failed to list grades: %v", err)
		http.Error(w, "Failed to list grades", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, all)
}

func (h *StudentHandler) HandleGradeSummary(w http.ResponseWriter, r *http.Request) {
	if !authorize(h.service, w, r) {
		return
	}

	all, err := h.service.Store.ListGrades()
	if err != nil {
		logger.Error.Printf("Failed to list grades: %v", err)
		http.Error(w, "Failed to list grades", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, grades.Summarize(all))
}

// HandleFeedback asks the generator for a short note on one student,
// falling back to canned text so the panel always renders something.
func (h *StudentHandler) HandleFeedback(w http.ResponseWriter, r *http.Request) {
	if !authorize(h.service, w, r) {
		return
	}

	studentID := r.PathValue("studentID")
	students, err := h.service.Store.ListStudents()
	if err != nil {
		logger.Error.Printf("Failed to list students: %v", err)
		http.Error(w, "Failed to list students", http.StatusInternalServerError)
		return
	}

	var student *models.Student
	for i := range students {
		if students[i].ID == studentID {
			student = &students[i]
			break
		}
	}
	if student == nil {
		http.Error(w, "Student not found", http.StatusNotFound)
		return
	}

	feedback, err := h.ai.StudentFeedback(r.Context(), student.Name, student.AverageGrade, student.AttendanceRate)
	if err != nil {
		logger.Error.Printf("Feedback generation failed: %v", err)
		metrics.AIRequestsTotal.WithLabelValues("feedback", "error").Inc()
		writeJSON(w, http.StatusOK, map[string]string{"feedback": "Sigue esforzándote."})
		return
	}
	metrics.AIRequestsTotal.WithLabelValues("feedback", "ok").Inc()
	writeJSON(w, http.StatusOK, map[string]string{"feedback": feedback})
}
