package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/classmood/backend/internal/models"
)

const (
	guestHelp = `Comandos disponibles:
/help - Mostrar este mensaje`

	teacherHelp = `Comandos disponibles:
/hoy - Resumen de asistencia de hoy
/resumen <fecha> - Resumen de asistencia para una fecha (YYYY-MM-DD)
/recordatorios - Lista de recordatorios
/pendientes - Recordatorios sin completar
/recordatorio <fecha> <título> - Agregar un recordatorio
/help - Mostrar este mensaje

Ejemplos:
/resumen 2026-05-12
/recordatorio 2026-05-20 Examen parcial de Historia`
)

var statusLabels = map[string]string{
	string(models.StatusPresent): "Presentes",
	string(models.StatusAbsent):  "Ausentes",
	string(models.StatusLate):    "Retardos",
	string(models.StatusExcused): "Justificados",
}

type commandHandler func(*tgbotapi.Message) error

func (b *Bot) routeGuestCommands(cmd string) (commandHandler, bool) {
	commands := map[string]commandHandler{
		"start": b.handleStart,
		"help":  b.handleHelp,
	}
	handler, found := commands[cmd]
	return handler, found
}

func (b *Bot) routeTeacherCommands(cmd string) (commandHandler, bool) {
	commands := map[string]commandHandler{
		"hoy":           b.handleToday,
		"resumen":       b.handleSummary,
		"recordatorios": b.handleReminders,
		"pendientes":    b.handlePending,
		"recordatorio":  b.handleReminderAdd,
	}
	handler, found := commands[cmd]
	return handler, found
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	if !msg.IsCommand() {
		b.sendHelp(msg.Chat.ID)
		return
	}

	cmd := msg.Command()

	if handler, ok := b.routeGuestCommands(cmd); ok {
		if err := handler(msg); err != nil {
			logger.Error.Printf("Command error: %v", err)
			b.sendMessage(msg.Chat.ID, fmt.Sprintf("Error: %v", err))
		}
		return
	}

	if b.admins[msg.From.ID] {
		if handler, ok := b.routeTeacherCommands(cmd); ok {
			if err := handler(msg); err != nil {
				logger.Error.Printf("Command error: %v", err)
				b.sendMessage(msg.Chat.ID, fmt.Sprintf("Error: %v", err))
			}
		}
		return
	}

	b.sendHelp(msg.Chat.ID)
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) error {
	var text string
	if b.admins[msg.From.ID] {
		text = teacherHelp
	} else {
		text = guestHelp
	}

	return b.sendMessage(msg.Chat.ID, text)
}

func (b *Bot) sendHelp(chatID int64) error {
	return b.sendMessage(chatID, "Envía /help para ver la lista de comandos.")
}

func (b *Bot) handleStart(msg *tgbotapi.Message) error {
	text := "¡Hola! Soy el asistente de tu grupo.\n\n"
	if b.admins[msg.From.ID] {
		text += "Usa /hoy para ver la asistencia de hoy o /help para la lista de comandos."
	} else {
		text += "Pide a la maestra que agregue tu ID a la lista de administradores."
	}

	return b.sendMessage(msg.Chat.ID, text)
}

func (b *Bot) handleToday(msg *tgbotapi.Message) error {
	return b.sendDigest(msg.Chat.ID, b.clock.Today())
}

func (b *Bot) handleSummary(msg *tgbotapi.Message) error {
	args := strings.Fields(msg.CommandArguments())
	if len(args) < 1 {
		return b.sendMessage(msg.Chat.ID, "Uso: /resumen <fecha>, por ejemplo /resumen 2026-05-12")
	}
	return b.sendDigest(msg.Chat.ID, args[0])
}

func (b *Bot) sendDigest(chatID int64, date string) error {
	summary, err := b.store.AttendanceSummaryByDate(date)
	if err != nil {
		return fmt.Errorf("error al consultar la asistencia de %s: %v", date, err)
	}

	if len(summary) == 0 {
		return b.sendMessage(chatID, fmt.Sprintf("Sin asistencia registrada para %s", date))
	}

	counts := map[string]int{}
	total := 0
	verified := 0
	for _, row := range summary {
		counts[row.Status] += row.Count
		total += row.Count
		if row.Verified {
			verified += row.Count
		}
	}

	var text strings.Builder
	text.WriteString(fmt.Sprintf("Asistencia del %s:\n\n", date))
	for _, status := range []models.AttendanceStatus{
		models.StatusPresent,
		models.StatusAbsent,
		models.StatusLate,
		models.StatusExcused,
	} {
		if n, ok := counts[string(status)]; ok {
			text.WriteString(fmt.Sprintf("%s: %d\n", statusLabels[string(status)], n))
		}
	}
	text.WriteString(fmt.Sprintf("\nTotal: %d alumnos", total))
	if verified > 0 {
		text.WriteString(fmt.Sprintf("\n✅ Registrada con ubicación verificada (%d)", verified))
	}

	return b.sendMessage(chatID, text.String())
}

func (b *Bot) handleReminders(msg *tgbotapi.Message) error {
	return b.sendReminders(msg.Chat.ID, false)
}

func (b *Bot) handlePending(msg *tgbotapi.Message) error {
	return b.sendReminders(msg.Chat.ID, true)
}

func (b *Bot) sendReminders(chatID int64, pendingOnly bool) error {
	reminders, err := b.store.ListReminders()
	if err != nil {
		return fmt.Errorf("error al consultar los recordatorios: %v", err)
	}

	var text strings.Builder
	shown := 0
	for _, r := range reminders {
		if pendingOnly && r.Completed {
			continue
		}
		mark := "⬜️"
		if r.Completed {
			mark = "✅"
		}
		text.WriteString(fmt.Sprintf("%s %s — %s\n", mark, r.Date, r.Title))
		shown++
	}

	if shown == 0 {
		if pendingOnly {
			return b.sendMessage(chatID, "No hay recordatorios pendientes. 🎉")
		}
		return b.sendMessage(chatID, "No hay recordatorios")
	}

	return b.sendMessage(chatID, text.String())
}

func (b *Bot) handleReminderAdd(msg *tgbotapi.Message) error {
	args := strings.Fields(msg.CommandArguments())
	if len(args) < 2 {
		return b.sendMessage(msg.Chat.ID, "Uso: /recordatorio <fecha> <título>, por ejemplo:\n"+
			"/recordatorio 2026-05-20 Examen parcial de Historia")
	}

	reminder := models.Reminder{
		ID:    uuid.NewString(),
		Title: strings.Join(args[1:], " "),
		Date:  args[0],
		Type:  "other",
	}
	if err := reminder.Validate(); err != nil {
		return fmt.Errorf("recordatorio inválido: %v", err)
	}

	if err := b.store.CreateReminder(&reminder); err != nil {
		return fmt.Errorf("error al guardar: %v", err)
	}

	return b.sendMessage(msg.Chat.ID, fmt.Sprintf("📌 Recordatorio agregado para %s:\n%s", reminder.Date, reminder.Title))
}

func (b *Bot) sendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := b.api.Send(msg)
	return err
}
