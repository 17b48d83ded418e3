package models

import (
	"github.com/go-playground/validator/v10"
)

type Student struct {
	ID             string  `db:"id" json:"id"`
	Name           string  `db:"name" json:"name" validate:"required"`
	Matricula      string  `db:"matricula" json:"matricula" validate:"required"`
	AverageGrade   float64 `db:"average_grade" json:"average_grade"`
	AttendanceRate int     `db:"attendance_rate" json:"attendance_rate" validate:"min=0,max=100"`
}

func (s *Student) Validate() error {
	validate := validator.New()
	return validate.Struct(s)
}

type Grade struct {
	StudentID string   `db:"student_id" json:"student_id" validate:"required"`
	SubjectID string   `db:"subject_id" json:"subject_id" validate:"required"`
	Parcial1  float64  `db:"parcial1" json:"parcial1"`
	Parcial2  float64  `db:"parcial2" json:"parcial2"`
	Parcial3  float64  `db:"parcial3" json:"parcial3"`
	Final     *float64 `db:"final" json:"final,omitempty"`
}

func (g *Grade) Validate() error {
	validate := validator.New()
	return validate.Struct(g)
}
