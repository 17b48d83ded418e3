package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/classmood/backend/internal/app"
	"github.com/classmood/backend/internal/models"
)

type AuthHandler struct {
	service *app.Service
}

func NewAuthHandler(service *app.Service) *AuthHandler {
	return &AuthHandler{
		service: service,
	}
}

func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string  `json:"name"`
		Email    *string `json:"email"`
		Phone    *string `json:"phone"`
		School   *string `json:"school"`
		Password string  `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Password == "" || (req.Email == nil && req.Phone == nil) {
		http.Error(w, "Email or phone plus password are required", http.StatusBadRequest)
		return
	}

	for _, identifier := range []*string{req.Email, req.Phone} {
		if identifier == nil {
			continue
		}
		existing, err := h.service.Store.FindUserByIdentifier(*identifier)
		if err != nil {
			logger.Error.Printf("Failed to check existing user: %v", err)
			http.Error(w, "Registration failed", http.StatusInternalServerError)
			return
		}
		if existing != nil {
			http.Error(w, "El usuario ya existe con este correo o teléfono.", http.StatusConflict)
			return
		}
	}

	user := models.User{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		School:    req.School,
		CreatedAt: time.Now().UTC(),
	}
	if err := user.SetPassword(req.Password); err != nil {
		logger.Error.Printf("Failed to hash password: %v", err)
		http.Error(w, "Registration failed", http.StatusInternalServerError)
		return
	}
	if err := user.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.Store.CreateUser(&user); err != nil {
		logger.Error.Printf("Failed to create user: %v", err)
		http.Error(w, "Registration failed", http.StatusInternalServerError)
		return
	}

	// Auto login after register, mirroring the dashboard flow.
	token, err := h.service.Auth.CreateSession(r.Context(), user.ID)
	if err != nil {
		logger.Error.Printf("Failed to create session: %v", err)
		http.Error(w, "Registration succeeded but login failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"user": user, "token": token})
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.service.Store.FindUserByIdentifier(req.Identifier)
	if err != nil {
		logger.Error.Printf("Login lookup failed: %v", err)
		http.Error(w, "Login failed", http.StatusInternalServerError)
		return
	}
	if user == nil || user.CheckPassword(req.Password) != nil {
		http.Error(w, "Credenciales inválidas. Verifica tus datos.", http.StatusUnauthorized)
		return
	}

	token, err := h.service.Auth.CreateSession(r.Context(), user.ID)
	if err != nil {
		logger.Error.Printf("Failed to create session: %v", err)
		http.Error(w, "Login failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user, "token": token})
}

func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get(h.service.Auth.TokenHeader())
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if err := h.service.Auth.DestroySession(r.Context(), token); err != nil {
		logger.Error.Printf("Failed to destroy session: %v", err)
	}
	w.WriteHeader(http.StatusNoContent)
}
