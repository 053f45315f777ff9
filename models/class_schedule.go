package models

import "time"

// Static reference data: when a course meets. Read-only to the
// attendance engine.
type ClassSchedule struct {
	ScheduleID uint      `json:"schedule_id" gorm:"primaryKey"`
	CourseID   uint      `json:"course_id" gorm:"index;not null"`
	DayOfWeek  string    `json:"day_of_week" gorm:"size:10;not null"` // weekday name, e.g. "Monday"
	StartTime  string    `json:"start_time" gorm:"size:8;not null"`   // HH:MM
	EndTime    string    `json:"end_time" gorm:"size:8"`              // HH:MM
	Room       string    `json:"room" gorm:"size:20"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
