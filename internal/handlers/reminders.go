package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/classmood/backend/internal/app"
	"github.com/classmood/backend/internal/models"
)

type ReminderHandler struct {
	service *app.Service
}

func NewReminderHandler(service *app.Service) *ReminderHandler {
	return &ReminderHandler{
		service: service,
	}
}

func (h *ReminderHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if !authorize(h.service, w, r) {
		return
	}

	reminders, err := h.service.Store.ListReminders()
	if err != nil {
		logger.Error.Printf("Failed to list reminders: %v", err)
		http.Error(w, "Failed to list reminders", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, reminders)
}

func (h *ReminderHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	if !authorize(h.service, w, r) {
		return
	}

	var reminder models.Reminder
	if err := json.NewDecoder(r.Body).Decode(&reminder); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	reminder.ID = uuid.NewString()
	if reminder.Type == "" {
		reminder.Type = "other"
	}
	if err := reminder.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.Store.CreateReminder(&reminder); err != nil {
		logger.Error.Printf("Failed to create reminder: %v", err)
		http.Error(w, "Failed to create reminder", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, reminder)
}

func (h *ReminderHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	if !authorize(h.service, w, r) {
		return
	}

	id := r.PathValue("reminderID")
	err := h.service.Store.ToggleReminder(id)
	if errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "Reminder not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Error.Printf("Failed to toggle reminder: %v", err)
		http.Error(w, "Failed to toggle reminder", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ReminderHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if !authorize(h.service, w, r) {
		return
	}

	if err := h.service.Store.DeleteReminder(r.PathValue("reminderID")); err != nil {
		logger.Error.Printf("Failed to delete reminder: %v", err)
		http.Error(w, "Failed to delete reminder", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
