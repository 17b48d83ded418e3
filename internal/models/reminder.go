package models

import (
	"github.com/go-playground/validator/v10"
)

type Reminder struct {
	ID        string `db:"id" json:"id"`
	Title     string `db:"title" json:"title" validate:"required"`
	Date      string `db:"date" json:"date" validate:"required"`
	Completed bool   `db:"completed" json:"completed"`
	Type      string `db:"type" json:"type" validate:"required,oneof=exam homework meeting other"`
}

func (r *Reminder) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
