package models

import "time"

type Student struct {
	StudentID     uint      `json:"student_id" gorm:"primaryKey"`
	UserID        uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	StudentNumber string    `json:"student_number" gorm:"size:20;uniqueIndex;not null"` // shown in rosters/reports
	CourseID      uint      `json:"course_id" gorm:"index;not null"`                    // enrolled course
	YearLevel     int       `json:"year_level" gorm:"not null"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
