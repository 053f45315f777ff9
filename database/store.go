package database

import (
	"errors"

	"gorm.io/gorm"

	"github.com/dev1mple/attendance-oop/attendance"
	"github.com/dev1mple/attendance-oop/models"
)

// Store is the Postgres-backed attendance.Store. Every query goes through
// GORM's parameter binding; no values are ever concatenated into SQL.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

func (s *Store) ScheduleFor(courseID uint, dayOfWeek string) (*models.ClassSchedule, error) {
	var sched models.ClassSchedule
	err := s.db.Where("course_id = ? AND day_of_week = ?", courseID, dayOfWeek).First(&sched).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sched, nil
}

func (s *Store) RecordFor(studentID uint, date string) (*models.AttendanceRecord, error) {
	var rec models.AttendanceRecord
	err := s.db.Where("student_id = ? AND attendance_date = ?", studentID, date).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store) InsertRecord(rec *models.AttendanceRecord) error {
	err := s.db.Create(rec).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return attendance.ErrDuplicate
	}
	return err
}

func (s *Store) UpdateRecord(rec *models.AttendanceRecord) error {
	return s.db.Save(rec).Error
}

func (s *Store) StudentByID(id uint) (*models.Student, error) {
	var st models.Student
	err := s.db.First(&st, "student_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *Store) CourseByID(id uint) (*models.Course, error) {
	var course models.Course
	err := s.db.First(&course, "course_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (s *Store) Roster(courseID uint) ([]attendance.RosterStudent, error) {
	var out []attendance.RosterStudent
	err := s.db.Table("students AS s").
		Select("s.student_id, s.student_number, u.first_name, u.last_name").
		Joins("JOIN users u ON u.user_id = s.user_id").
		Where("s.course_id = ?", courseID).
		Order("u.last_name ASC, u.first_name ASC").
		Scan(&out).Error
	return out, err
}

func (s *Store) MarkedStudentIDs(date string) ([]uint, error) {
	var ids []uint
	err := s.db.Model(&models.AttendanceRecord{}).
		Where("attendance_date = ?", date).
		Pluck("student_id", &ids).Error
	return ids, err
}

func (s *Store) ReportRows(f attendance.Filter) ([]attendance.ReportRow, error) {
	tx := s.db.Table("attendance_records AS ar").
		Select(`c.course_id, c.course_code, c.course_name, c.year_level,
			s.student_number, u.first_name, u.last_name,
			ar.attendance_date, ar.time_in, ar.time_out, ar.status, ar.notes`).
		Joins("JOIN students s ON s.student_id = ar.student_id").
		Joins("JOIN users u ON u.user_id = s.user_id").
		Joins("JOIN courses c ON c.course_id = ar.course_id")

	if f.CourseID != 0 {
		tx = tx.Where("ar.course_id = ?", f.CourseID)
	}
	if f.YearLevel != 0 {
		tx = tx.Where("c.year_level = ?", f.YearLevel)
	}
	if f.Status != "" {
		tx = tx.Where("ar.status = ?", f.Status)
	}
	if f.StartDate != "" {
		tx = tx.Where("ar.attendance_date >= ?", f.StartDate)
	}
	if f.EndDate != "" {
		tx = tx.Where("ar.attendance_date <= ?", f.EndDate)
	}

	var rows []attendance.ReportRow
	err := tx.Order("c.year_level ASC, c.course_name ASC, u.last_name ASC, u.first_name ASC, ar.attendance_date ASC").
		Scan(&rows).Error
	return rows, err
}

// InTx wraps fn in one database transaction; a returned error rolls back
// every write made through the transactional store.
func (s *Store) InTx(fn func(attendance.Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}
