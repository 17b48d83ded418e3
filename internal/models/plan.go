package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// LessonPlan is the structured output of the lesson generator.
// Activities and resources are persisted as JSON text columns.
type LessonPlan struct {
	ID         string    `db:"id" json:"id"`
	Topic      string    `db:"topic" json:"topic" validate:"required"`
	Objective  string    `db:"objective" json:"objective"`
	Activities []string  `db:"-" json:"activities"`
	Resources  []string  `db:"-" json:"resources"`
	Duration   string    `db:"duration" json:"duration"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

func (p *LessonPlan) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}
