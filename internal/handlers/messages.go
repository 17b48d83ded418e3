package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/classmood/backend/internal/app"
	"github.com/classmood/backend/internal/models"
)

type MessageHandler struct {
	service *app.Service
}

func NewMessageHandler(service *app.Service) *MessageHandler {
	return &MessageHandler{
		service: service,
	}
}

func (h *MessageHandler) HandleThread(w http.ResponseWriter, r *http.Request) {
	if !authorize(h.service, w, r) {
		return
	}

	studentID := r.PathValue("studentID")
	if studentID == "" {
		http.Error(w, "Invalid student id specified", http.StatusBadRequest)
		return
	}

	messages, err := h.service.Store.MessageThread(studentID)
	if err != nil {
		logger.Error.Printf("Failed to fetch thread: %v", err)
		http.Error(w, "Failed to fetch thread", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

func (h *MessageHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	if !authorize(h.service, w, r) {
		return
	}

	var msg models.Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	msg.ID = uuid.NewString()
	msg.SentAt = time.Now().UTC()
	// Outgoing messages are read by definition.
	msg.Read = true
	if msg.Sender == "" {
		msg.Sender = models.SenderTeacher
	}

	if err := msg.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.Store.CreateMessage(&msg); err != nil {
		logger.Error.Printf("Failed to send message: %v", err)
		http.Error(w, "Failed to send message", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}
