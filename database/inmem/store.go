// Package inmem is an in-memory attendance.Store used by tests. It
// mirrors the Postgres store's contract, including the unique index on
// (student_id, attendance_date) and transactional rollback.
package inmem

import (
	"sync"

	"github.com/dev1mple/attendance-oop/attendance"
	"github.com/dev1mple/attendance-oop/models"
)

type Store struct {
	mu sync.RWMutex

	users     map[uint]models.User
	courses   map[uint]models.Course
	students  map[uint]models.Student
	schedules []models.ClassSchedule
	records   map[uint]*models.AttendanceRecord

	nextRecordID uint
}

func NewStore() *Store {
	return &Store{
		users:    make(map[uint]models.User),
		courses:  make(map[uint]models.Course),
		students: make(map[uint]models.Student),
		records:  make(map[uint]*models.AttendanceRecord),
	}
}

// ----- seed helpers -----

func (s *Store) AddUser(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.UserID] = u
}

func (s *Store) AddCourse(c models.Course) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courses[c.CourseID] = c
}

func (s *Store) AddStudent(st models.Student) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.students[st.StudentID] = st
}

func (s *Store) AddSchedule(sched models.ClassSchedule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedules = append(s.schedules, sched)
}

// RecordCount reports how many attendance rows are stored.
func (s *Store) RecordCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// ----- attendance.Store -----

func (s *Store) ScheduleFor(courseID uint, dayOfWeek string) (*models.ClassSchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sched := range s.schedules {
		if sched.CourseID == courseID && sched.DayOfWeek == dayOfWeek {
			cp := sched
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *Store) RecordFor(studentID uint, date string) (*models.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.records {
		if rec.StudentID == studentID && rec.AttendanceDate == date {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *Store) InsertRecord(rec *models.AttendanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.StudentID == rec.StudentID && r.AttendanceDate == rec.AttendanceDate {
			return attendance.ErrDuplicate
		}
	}
	s.nextRecordID++
	rec.RecordID = s.nextRecordID
	cp := *rec
	s.records[rec.RecordID] = &cp
	return nil
}

func (s *Store) UpdateRecord(rec *models.AttendanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[rec.RecordID]; !ok {
		return attendance.ErrNotFound
	}
	cp := *rec
	s.records[rec.RecordID] = &cp
	return nil
}

func (s *Store) StudentByID(id uint) (*models.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st, ok := s.students[id]; ok {
		return &st, nil
	}
	return nil, nil
}

func (s *Store) CourseByID(id uint) (*models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.courses[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (s *Store) Roster(courseID uint) ([]attendance.RosterStudent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []attendance.RosterStudent
	for _, st := range s.students {
		if st.CourseID != courseID {
			continue
		}
		u := s.users[st.UserID]
		out = append(out, attendance.RosterStudent{
			StudentID:     st.StudentID,
			StudentNumber: st.StudentNumber,
			FirstName:     u.FirstName,
			LastName:      u.LastName,
		})
	}
	return out, nil
}

func (s *Store) MarkedStudentIDs(date string) ([]uint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []uint
	for _, rec := range s.records {
		if rec.AttendanceDate == date {
			ids = append(ids, rec.StudentID)
		}
	}
	return ids, nil
}

func (s *Store) ReportRows(f attendance.Filter) ([]attendance.ReportRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var rows []attendance.ReportRow
	for _, rec := range s.records {
		st, ok := s.students[rec.StudentID]
		if !ok {
			continue
		}
		course, ok := s.courses[rec.CourseID]
		if !ok {
			continue
		}
		if f.CourseID != 0 && rec.CourseID != f.CourseID {
			continue
		}
		if f.YearLevel != 0 && course.YearLevel != f.YearLevel {
			continue
		}
		if f.Status != "" && rec.Status != f.Status {
			continue
		}
		if f.StartDate != "" && rec.AttendanceDate < f.StartDate {
			continue
		}
		if f.EndDate != "" && rec.AttendanceDate > f.EndDate {
			continue
		}
		u := s.users[st.UserID]
		rows = append(rows, attendance.ReportRow{
			CourseID:       course.CourseID,
			CourseCode:     course.CourseCode,
			CourseName:     course.CourseName,
			YearLevel:      course.YearLevel,
			StudentNumber:  st.StudentNumber,
			FirstName:      u.FirstName,
			LastName:       u.LastName,
			AttendanceDate: rec.AttendanceDate,
			TimeIn:         rec.TimeIn,
			TimeOut:        rec.TimeOut,
			Status:         rec.Status,
			Notes:          rec.Notes,
		})
	}
	return rows, nil
}

// InTx snapshots the attendance rows, runs fn, and restores the snapshot
// when fn fails. Only attendance rows are written through the engine, so
// reference data needs no snapshot.
func (s *Store) InTx(fn func(attendance.Store) error) error {
	s.mu.Lock()
	snapshot := make(map[uint]*models.AttendanceRecord, len(s.records))
	for id, rec := range s.records {
		cp := *rec
		snapshot[id] = &cp
	}
	snapID := s.nextRecordID
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.records = snapshot
		s.nextRecordID = snapID
		s.mu.Unlock()
		return err
	}
	return nil
}
