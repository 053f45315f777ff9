package models

import "time"

type Course struct {
	CourseID    uint      `json:"course_id" gorm:"primaryKey"`
	CourseCode  string    `json:"course_code" gorm:"size:20;uniqueIndex;not null"`
	CourseName  string    `json:"course_name" gorm:"size:100;not null"`
	YearLevel   int       `json:"year_level" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedBy   uint      `json:"created_by"` // user_id of the admin who added it
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
