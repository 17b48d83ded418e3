package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/classmood/backend/internal/app"
	"github.com/classmood/backend/internal/metrics"
	"github.com/classmood/backend/internal/planner"
)

type PlanningHandler struct {
	service *app.Service
	ai      *planner.Client
}

func NewPlanningHandler(service *app.Service, ai *planner.Client) *PlanningHandler {
	return &PlanningHandler{
		service: service,
		ai:      ai,
	}
}

func (h *PlanningHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if !authorize(h.service, w, r) {
		return
	}

	var req struct {
		Subject  string `json:"subject"`
		Topic    string `json:"topic"`
		Duration string `json:"duration"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Topic == "" {
		http.Error(w, "Topic is required", http.StatusBadRequest)
		return
	}
	if req.Subject == "" {
		req.Subject = h.service.Config.AI.Subject
	}
	if req.Duration == "" {
		req.Duration = "90 minutos"
	}

	plan, err := h.ai.GenerateLessonPlan(r.Context(), req.Subject, req.Topic, req.Duration)
	if err != nil {
		logger.Error.Printf("Lesson plan generation failed: %v", err)
		metrics.AIRequestsTotal.WithLabelValues("lesson_plan", "error").Inc()
		http.Error(w, "Failed to generate lesson plan", http.StatusBadGateway)
		return
	}
	metrics.AIRequestsTotal.WithLabelValues("lesson_plan", "ok").Inc()

	plan.ID = uuid.NewString()
	plan.CreatedAt = time.Now().UTC()
	if err := h.service.Store.CreateLessonPlan(plan); err != nil {
		logger.Error.Printf("Failed to save lesson plan: %v", err)
		http.Error(w, "Failed to save lesson plan", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

func (h *PlanningHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if !authorize(h.service, w, r) {
		return
	}

	plans, err := h.service.Store.ListLessonPlans()
	if err != nil {
		logger.Error.Printf("Failed to list lesson plans: %v", err)
		http.Error(w, "Failed to list lesson plans", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

func (h *PlanningHandler) HandleQuiz(w http.ResponseWriter, r *http.Request) {
	if !authorize(h.service, w, r) {
		return
	}

	var req struct {
		Topic string `json:"topic"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Topic == "" {
		http.Error(w, "Topic is required", http.StatusBadRequest)
		return
	}

	question, err := h.ai.QuizQuestion(r.Context(), req.Topic)
	if err != nil {
		logger.Error.Printf("Quiz generation failed: %v", err)
		metrics.AIRequestsTotal.WithLabelValues("quiz", "error").Inc()
		http.Error(w, "Failed to generate question", http.StatusBadGateway)
		return
	}
	metrics.AIRequestsTotal.WithLabelValues("quiz", "ok").Inc()
	writeJSON(w, http.StatusOK, map[string]string{"question": question})
}
