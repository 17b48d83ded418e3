package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	SenderTeacher = "teacher"
	SenderStudent = "student"
	SenderParent  = "parent"
)

type Message struct {
	ID        string    `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"student_id" validate:"required"`
	Sender    string    `db:"sender" json:"sender" validate:"required,oneof=teacher student parent"`
	Content   string    `db:"content" json:"content" validate:"required"`
	SentAt    time.Time `db:"sent_at" json:"timestamp"`
	Read      bool      `db:"read" json:"read"`
}

func (m *Message) Validate() error {
	validate := validator.New()
	return validate.Struct(m)
}
