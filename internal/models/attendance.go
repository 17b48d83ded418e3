package models

import (
	"fmt"
	"time"
)

// AttendanceStatus is categorical; there is no ordering between statuses.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
	StatusLate    AttendanceStatus = "late"
	StatusExcused AttendanceStatus = "excused"
)

func ParseAttendanceStatus(s string) (AttendanceStatus, error) {
	switch AttendanceStatus(s) {
	case StatusPresent, StatusAbsent, StatusLate, StatusExcused:
		return AttendanceStatus(s), nil
	}
	return "", fmt.Errorf("unknown attendance status: %q", s)
}

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// AttendanceRecord is one committed status per (student, calendar day).
// Lat/Lng are set only for records committed in strict mode.
type AttendanceRecord struct {
	StudentID  string           `db:"student_id" json:"student_id"`
	Date       string           `db:"date" json:"date"`
	Status     AttendanceStatus `db:"status" json:"status"`
	Verified   bool             `db:"verified" json:"verified"`
	Lat        *float64         `db:"lat" json:"lat,omitempty"`
	Lng        *float64         `db:"lng" json:"lng,omitempty"`
	RecordedAt time.Time        `db:"recorded_at" json:"timestamp"`
}

func (r *AttendanceRecord) Location() *Coordinate {
	if r.Lat == nil || r.Lng == nil {
		return nil
	}
	return &Coordinate{Lat: *r.Lat, Lng: *r.Lng}
}
