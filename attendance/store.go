package attendance

import "github.com/dev1mple/attendance-oop/models"

// RosterStudent is one enrolled student joined to their user row.
type RosterStudent struct {
	StudentID     uint   `json:"student_id"`
	StudentNumber string `json:"student_number"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
}

// Filter narrows report queries. Zero values mean "no filter on this
// dimension". Dates are YYYY-MM-DD and inclusive on both ends.
type Filter struct {
	CourseID  uint
	YearLevel int
	Status    string
	StartDate string
	EndDate   string
}

// ReportRow is one attendance record joined to its student, user and
// course rows. Punctuality is filled in by the engine, not the store.
type ReportRow struct {
	CourseID       uint   `json:"course_id"`
	CourseCode     string `json:"course_code"`
	CourseName     string `json:"course_name"`
	YearLevel      int    `json:"year_level"`
	StudentNumber  string `json:"student_number"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	AttendanceDate string `json:"attendance_date"`
	TimeIn         string `json:"time_in"`
	TimeOut        string `json:"time_out"`
	Status         string `json:"status"`
	Punctuality    string `json:"punctuality_status"`
	Notes          string `json:"notes"`
}

// Store is the persistence boundary of the engine. Implementations issue
// parameterized queries only. Lookup methods return (nil, nil) when no
// row matches; InsertRecord reports a unique-index collision on
// (student_id, attendance_date) as ErrDuplicate.
type Store interface {
	ScheduleFor(courseID uint, dayOfWeek string) (*models.ClassSchedule, error)
	RecordFor(studentID uint, date string) (*models.AttendanceRecord, error)
	InsertRecord(rec *models.AttendanceRecord) error
	UpdateRecord(rec *models.AttendanceRecord) error
	StudentByID(id uint) (*models.Student, error)
	CourseByID(id uint) (*models.Course, error)
	Roster(courseID uint) ([]RosterStudent, error)
	MarkedStudentIDs(date string) ([]uint, error)
	ReportRows(f Filter) ([]ReportRow, error)

	// InTx runs fn against a transactional view of the store. An error
	// from fn rolls back every write made inside it.
	InTx(fn func(Store) error) error
}
