package models

import "time"

const (
	StatusPresent = "present"
	StatusLate    = "late"
	StatusAbsent  = "absent"
)

// One row per student per calendar day, whichever course marked it first.
// The composite unique index is what makes concurrent marking safe: the
// second writer hits a duplicate-key error and retries as an update.
type AttendanceRecord struct {
	RecordID       uint      `json:"record_id" gorm:"primaryKey"`
	StudentID      uint      `json:"student_id" gorm:"not null;uniqueIndex:uq_attendance_student_date"`
	CourseID       uint      `json:"course_id" gorm:"index;not null"`
	AttendanceDate string    `json:"attendance_date" gorm:"size:10;not null;uniqueIndex:uq_attendance_student_date"` // YYYY-MM-DD
	TimeIn         string    `json:"time_in" gorm:"size:8"`  // HH:MM, empty when absent
	TimeOut        string    `json:"time_out" gorm:"size:8"` // HH:MM
	Status         string    `json:"status" gorm:"size:10;not null"` // present/late/absent
	Notes          string    `json:"notes" gorm:"type:text"`
	MarkedBy       uint      `json:"marked_by"` // user_id of the marker
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
