package main

import (
	"flag"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/classmood/backend/internal/app"
	"github.com/classmood/backend/internal/handlers"
	"github.com/classmood/backend/internal/planner"
)

func main() {
	var configPath = flag.String("config", "config.toml", "Path to config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		logger.Debug.Printf("No .env file loaded: %v", err)
	}

	service, err := app.NewService(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}
	defer service.Close()

	if err := service.Store.ApplyMigrations(service.Config.Database.MigrationsDir); err != nil {
		logger.Error.Fatalf("Failed to apply migrations: %v", err)
	}

	ai := planner.NewClient(os.Getenv("GEMINI_API_KEY"), service.Config.AI.Model)

	attendanceHandler := handlers.NewAttendanceHandler(service)
	studentHandler := handlers.NewStudentHandler(service, ai)
	messageHandler := handlers.NewMessageHandler(service)
	reminderHandler := handlers.NewReminderHandler(service)
	planningHandler := handlers.NewPlanningHandler(service, ai)
	authHandler := handlers.NewAuthHandler(service)

	http.HandleFunc("GET /api/v1/attendance/today", attendanceHandler.HandleToday)
	http.HandleFunc("POST /api/v1/attendance/status", attendanceHandler.HandleSetStatus)
	http.HandleFunc("POST /api/v1/attendance/participation", attendanceHandler.HandleParticipation)
	http.HandleFunc("POST /api/v1/attendance/strict", attendanceHandler.HandleStrict)
	http.HandleFunc("POST /api/v1/attendance/commit", attendanceHandler.HandleCommit)
	http.HandleFunc("POST /api/v1/attendance/scan", attendanceHandler.HandleScan)
	http.HandleFunc("GET /api/v1/attendance/spotcheck", attendanceHandler.HandleSpotCheck)
	http.HandleFunc("GET /api/v1/attendance/history/{studentID}", attendanceHandler.HandleHistory)

	http.HandleFunc("GET /api/v1/students", studentHandler.HandleList)
	http.HandleFunc("POST /api/v1/students", studentHandler.HandleAdd)
	http.HandleFunc("PUT /api/v1/students/{studentID}", studentHandler.HandleUpdate)
	http.HandleFunc("GET /api/v1/students/{studentID}/feedback", studentHandler.HandleFeedback)
	http.HandleFunc("GET /api/v1/grades", studentHandler.HandleGrades)
	http.HandleFunc("GET /api/v1/grades/summary", studentHandler.HandleGradeSummary)

	http.HandleFunc("GET /api/v1/messages/{studentID}", messageHandler.HandleThread)
	http.HandleFunc("POST /api/v1/messages", messageHandler.HandleSend)

	http.HandleFunc("GET /api/v1/reminders", reminderHandler.HandleList)
	http.HandleFunc("POST /api/v1/reminders", reminderHandler.HandleAdd)
	http.HandleFunc("POST /api/v1/reminders/{reminderID}/toggle", reminderHandler.HandleToggle)
	http.HandleFunc("DELETE /api/v1/reminders/{reminderID}", reminderHandler.HandleDelete)

	http.HandleFunc("POST /api/v1/planning", planningHandler.HandleGenerate)
	http.HandleFunc("GET /api/v1/planning", planningHandler.HandleList)
	http.HandleFunc("POST /api/v1/planning/quiz", planningHandler.HandleQuiz)

	http.HandleFunc("POST /api/v1/auth/register", authHandler.HandleRegister)
	http.HandleFunc("POST /api/v1/auth/login", authHandler.HandleLogin)
	http.HandleFunc("POST /api/v1/auth/logout", authHandler.HandleLogout)

	http.Handle("/metrics", promhttp.Handler())

	logger.Info.Printf("Starting classmood server on %s", service.Config.Server.Port)
	if err := http.ListenAndServe(service.Config.Server.Port, nil); err != nil {
		logger.Error.Fatalf("Classmood server failed: %v", err)
	}
}
