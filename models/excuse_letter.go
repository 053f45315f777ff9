package models

import "time"

const (
	ExcusePending  = "pending"
	ExcuseApproved = "approved"
	ExcuseRejected = "rejected"
)

type ExcuseLetter struct {
	ExcuseID        uint       `json:"excuse_id" gorm:"primaryKey"`
	StudentID       uint       `json:"student_id" gorm:"index;not null"`
	CourseID        *uint      `json:"course_id"`                          // optional: letter may not cite a course
	AbsenceDate     string     `json:"absence_date" gorm:"size:10;not null"` // YYYY-MM-DD
	Reason          string     `json:"reason" gorm:"type:text;not null"`
	AttachmentPath  string     `json:"attachment_path" gorm:"size:255"`
	Status          string     `json:"status" gorm:"size:10;not null;default:pending"` // pending/approved/rejected
	AdminReviewedBy *uint      `json:"admin_reviewed_by"`
	AdminRemarks    string     `json:"admin_remarks" gorm:"type:text"`
	DecidedAt       *time.Time `json:"decided_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
