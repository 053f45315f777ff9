package attendance_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev1mple/attendance-oop/attendance"
	"github.com/dev1mple/attendance-oop/database/inmem"
	"github.com/dev1mple/attendance-oop/models"
)

// 2026-01-05 is a Monday; the seeded schedule starts at 08:00 that day.
const (
	monday  = "2026-01-05"
	tuesday = "2026-01-06"
)

func newTestEngine() (*attendance.Engine, *inmem.Store) {
	store := inmem.NewStore()

	store.AddCourse(models.Course{CourseID: 1, CourseCode: "MATH101", CourseName: "Algebra", YearLevel: 1})
	store.AddCourse(models.Course{CourseID: 2, CourseCode: "BIO201", CourseName: "Biology", YearLevel: 2})
	store.AddSchedule(models.ClassSchedule{ScheduleID: 1, CourseID: 1, DayOfWeek: "Monday", StartTime: "08:00", EndTime: "09:30", Room: "101"})

	names := []struct{ first, last string }{
		{"Alice", "Adams"},
		{"Ben", "Brown"},
		{"Carla", "Cruz"},
		{"Dan", "Diaz"},
		{"Eve", "Evans"},
	}
	for i, n := range names {
		uid := uint(11 + i)
		sid := uint(1 + i)
		store.AddUser(models.User{UserID: uid, Role: models.RoleStudent, FirstName: n.first, LastName: n.last})
		store.AddStudent(models.Student{StudentID: sid, UserID: uid, StudentNumber: fmt.Sprintf("S-%03d", sid), CourseID: 1, YearLevel: 1})
	}

	return attendance.NewEngine(store), store
}

func TestDetermineStatusNoSchedule(t *testing.T) {
	engine, _ := newTestEngine()

	// course 2 has no schedule at all
	status, err := engine.DetermineStatus(2, "10:00", monday)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPresent, status)

	// course 1 has no schedule on Tuesdays
	status, err = engine.DetermineStatus(1, "10:00", tuesday)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPresent, status)
}

func TestDetermineStatusThreshold(t *testing.T) {
	engine, _ := newTestEngine()

	cases := []struct {
		clock string
		want  string
	}{
		{"08:00", models.StatusPresent},
		{"08:03", models.StatusPresent},
		{"08:05", models.StatusPresent}, // exactly the threshold is still on time
		{"08:06", models.StatusLate},
		{"09:30", models.StatusLate},
		{"07:50", models.StatusPresent}, // before start: negative delta, never late
	}
	for _, tc := range cases {
		status, err := engine.DetermineStatus(1, tc.clock, monday)
		require.NoError(t, err, tc.clock)
		assert.Equal(t, tc.want, status, "check-in at %s", tc.clock)
	}
}

func TestDetermineStatusBadInput(t *testing.T) {
	engine, _ := newTestEngine()

	_, err := engine.DetermineStatus(1, "08:00", "05-01-2026")
	assert.ErrorIs(t, err, attendance.ErrInvalid)

	_, err = engine.DetermineStatus(1, "eight", monday)
	assert.ErrorIs(t, err, attendance.ErrInvalid)
}

func TestUpsertIsIdempotent(t *testing.T) {
	engine, store := newTestEngine()

	mark := attendance.Mark{StudentID: 1, CourseID: 1, Date: monday, TimeIn: "08:03", Status: models.StatusPresent, MarkedBy: 99}
	require.NoError(t, engine.Upsert(mark))
	require.NoError(t, engine.Upsert(mark))

	assert.Equal(t, 1, store.RecordCount())
}

func TestUpsertAutoClassifies(t *testing.T) {
	engine, store := newTestEngine()

	// 08:03 → present
	require.NoError(t, engine.Upsert(attendance.Mark{StudentID: 1, CourseID: 1, Date: monday, TimeIn: "08:03"}))
	rec, err := store.RecordFor(1, monday)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, models.StatusPresent, rec.Status)

	// re-check-in at 08:07 → the same row flips to late
	require.NoError(t, engine.Upsert(attendance.Mark{StudentID: 1, CourseID: 1, Date: monday, TimeIn: "08:07"}))
	rec, err = store.RecordFor(1, monday)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, models.StatusLate, rec.Status)
	assert.Equal(t, "08:07", rec.TimeIn)
	assert.Equal(t, 1, store.RecordCount())
}

func TestUpsertKeepsOwningCourse(t *testing.T) {
	engine, store := newTestEngine()

	require.NoError(t, engine.Upsert(attendance.Mark{StudentID: 1, CourseID: 1, Date: monday, Status: models.StatusPresent}))
	// a later mark citing another course updates the row but not its course
	require.NoError(t, engine.Upsert(attendance.Mark{StudentID: 1, CourseID: 2, Date: monday, Status: models.StatusLate}))

	rec, err := store.RecordFor(1, monday)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, uint(1), rec.CourseID)
	assert.Equal(t, models.StatusLate, rec.Status)
	assert.Equal(t, 1, store.RecordCount())
}

func TestUpsertUnknownReferences(t *testing.T) {
	engine, _ := newTestEngine()

	err := engine.Upsert(attendance.Mark{StudentID: 42, CourseID: 1, Date: monday, Status: models.StatusAbsent})
	assert.ErrorIs(t, err, attendance.ErrNotFound)

	err = engine.Upsert(attendance.Mark{StudentID: 1, CourseID: 42, Date: monday, Status: models.StatusAbsent})
	assert.ErrorIs(t, err, attendance.ErrNotFound)
}

func TestMarkBulkRollsBackWhole(t *testing.T) {
	engine, store := newTestEngine()

	entries := map[uint]attendance.BulkEntry{
		1:  {Status: models.StatusPresent},
		2:  {Status: models.StatusLate},
		99: {Status: models.StatusAbsent}, // not a student; forces the batch to fail
	}
	err := engine.MarkBulk(1, monday, entries, 99)
	require.Error(t, err)
	assert.ErrorIs(t, err, attendance.ErrNotFound)

	assert.Equal(t, 0, store.RecordCount(), "partial attendance must never be committed")
}

func TestMarkBulkDefaultsToAbsent(t *testing.T) {
	engine, store := newTestEngine()

	entries := map[uint]attendance.BulkEntry{
		1: {TimeIn: "08:03"}, // even with a time, bulk defaults status to absent
		2: {},
	}
	require.NoError(t, engine.MarkBulk(1, monday, entries, 99))

	for _, sid := range []uint{1, 2} {
		rec, err := store.RecordFor(sid, monday)
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, models.StatusAbsent, rec.Status)
	}
}

// racingStore simulates a rival writer landing between the read and the
// insert: the first RecordFor sees nothing, the insert collides, and the
// re-read returns the rival's row.
type racingStore struct {
	reads   int
	rival   models.AttendanceRecord
	updated *models.AttendanceRecord
}

func (s *racingStore) ScheduleFor(courseID uint, dayOfWeek string) (*models.ClassSchedule, error) {
	return nil, nil
}

func (s *racingStore) RecordFor(studentID uint, date string) (*models.AttendanceRecord, error) {
	s.reads++
	if s.reads == 1 {
		return nil, nil
	}
	cp := s.rival
	return &cp, nil
}

func (s *racingStore) InsertRecord(rec *models.AttendanceRecord) error {
	return attendance.ErrDuplicate
}

func (s *racingStore) UpdateRecord(rec *models.AttendanceRecord) error {
	cp := *rec
	s.updated = &cp
	return nil
}

func (s *racingStore) StudentByID(id uint) (*models.Student, error) {
	return &models.Student{StudentID: id, CourseID: 1}, nil
}

func (s *racingStore) CourseByID(id uint) (*models.Course, error) {
	return &models.Course{CourseID: id}, nil
}

func (s *racingStore) Roster(courseID uint) ([]attendance.RosterStudent, error) { return nil, nil }
func (s *racingStore) MarkedStudentIDs(date string) ([]uint, error)             { return nil, nil }
func (s *racingStore) ReportRows(f attendance.Filter) ([]attendance.ReportRow, error) {
	return nil, nil
}
func (s *racingStore) InTx(fn func(attendance.Store) error) error { return fn(s) }

func TestUpsertRetriesLostInsertRace(t *testing.T) {
	store := &racingStore{rival: models.AttendanceRecord{
		RecordID:       7,
		StudentID:      1,
		CourseID:       2,
		AttendanceDate: monday,
		Status:         models.StatusPresent,
	}}
	engine := attendance.NewEngine(store)

	err := engine.Upsert(attendance.Mark{StudentID: 1, CourseID: 1, Date: monday, Status: models.StatusLate, MarkedBy: 99})
	require.NoError(t, err)

	// the losing insert falls back to updating the rival's row in place
	require.NotNil(t, store.updated)
	assert.Equal(t, uint(7), store.updated.RecordID)
	assert.Equal(t, uint(2), store.updated.CourseID, "the rival insert keeps ownership of the row")
	assert.Equal(t, models.StatusLate, store.updated.Status)
	assert.Equal(t, uint(99), store.updated.MarkedBy)
}

func TestStatisticsRosterScenario(t *testing.T) {
	engine, _ := newTestEngine()

	entries := map[uint]attendance.BulkEntry{
		1: {Status: models.StatusPresent, TimeIn: "08:01"},
		2: {Status: models.StatusLate, TimeIn: "08:20"},
		3: {Status: models.StatusAbsent},
	}
	require.NoError(t, engine.MarkBulk(1, monday, entries, 99))

	stats, err := engine.Statistics(attendance.Filter{CourseID: 1})
	require.NoError(t, err)
	require.Len(t, stats, 1)

	st := stats[0]
	assert.Equal(t, 3, st.Total)
	assert.Equal(t, 1, st.PresentCount)
	assert.Equal(t, 1, st.LateCount)
	assert.Equal(t, 1, st.AbsentCount)
	assert.Equal(t, 66.67, st.Percentage)
}

func TestStatisticsOrderingAndStability(t *testing.T) {
	engine, _ := newTestEngine()

	// records in the year-2 course first, year-1 second
	require.NoError(t, engine.Upsert(attendance.Mark{StudentID: 1, CourseID: 2, Date: monday, Status: models.StatusPresent}))
	require.NoError(t, engine.Upsert(attendance.Mark{StudentID: 2, CourseID: 1, Date: monday, Status: models.StatusPresent}))

	first, err := engine.Statistics(attendance.Filter{})
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, 1, first[0].YearLevel)
	assert.Equal(t, "Algebra", first[0].CourseName)
	assert.Equal(t, 2, first[1].YearLevel)
	assert.Equal(t, "Biology", first[1].CourseName)

	second, err := engine.Statistics(attendance.Filter{})
	require.NoError(t, err)
	assert.Equal(t, first, second, "repeated calls on unchanged data must agree")
}

func TestStatisticsEmptyResult(t *testing.T) {
	engine, _ := newTestEngine()

	stats, err := engine.Statistics(attendance.Filter{CourseID: 1})
	require.NoError(t, err)
	assert.Empty(t, stats)
}

func TestUnmarkedStudents(t *testing.T) {
	engine, _ := newTestEngine()

	// two of five already have a record that day; one of those records
	// cites another course, which still counts as marked
	require.NoError(t, engine.Upsert(attendance.Mark{StudentID: 2, CourseID: 1, Date: monday, Status: models.StatusPresent}))
	require.NoError(t, engine.Upsert(attendance.Mark{StudentID: 4, CourseID: 2, Date: monday, Status: models.StatusPresent}))

	unmarked, err := engine.Unmarked(1, monday)
	require.NoError(t, err)
	require.Len(t, unmarked, 3)

	var lastNames []string
	for _, st := range unmarked {
		lastNames = append(lastNames, st.LastName)
	}
	assert.Equal(t, []string{"Adams", "Cruz", "Evans"}, lastNames)
}

func TestCourseSummaryIncludesZeroRecordStudents(t *testing.T) {
	engine, _ := newTestEngine()

	require.NoError(t, engine.Upsert(attendance.Mark{StudentID: 1, CourseID: 1, Date: monday, Status: models.StatusPresent}))
	require.NoError(t, engine.Upsert(attendance.Mark{StudentID: 1, CourseID: 1, Date: tuesday, Status: models.StatusAbsent}))

	summary, err := engine.CourseSummary(1, "", "")
	require.NoError(t, err)
	require.Len(t, summary, 5)

	// Adams first: two records, one attended
	assert.Equal(t, "Adams", summary[0].LastName)
	assert.Equal(t, 2, summary[0].Total)
	assert.Equal(t, 50.0, summary[0].Percentage)

	// everyone else has no records and a well-defined zero percentage
	for _, st := range summary[1:] {
		assert.Equal(t, 0, st.Total)
		assert.Equal(t, 0.0, st.Percentage)
	}
}

func TestTrendsOrderedByDate(t *testing.T) {
	engine, _ := newTestEngine()

	require.NoError(t, engine.Upsert(attendance.Mark{StudentID: 1, CourseID: 1, Date: tuesday, Status: models.StatusLate}))
	require.NoError(t, engine.Upsert(attendance.Mark{StudentID: 2, CourseID: 1, Date: monday, Status: models.StatusPresent}))
	require.NoError(t, engine.Upsert(attendance.Mark{StudentID: 3, CourseID: 1, Date: monday, Status: models.StatusAbsent}))

	trends, err := engine.Trends(1, monday, tuesday)
	require.NoError(t, err)
	require.Len(t, trends, 2)

	assert.Equal(t, monday, trends[0].Date)
	assert.Equal(t, 2, trends[0].Total)
	assert.Equal(t, 50.0, trends[0].Percentage)
	assert.Equal(t, tuesday, trends[1].Date)
	assert.Equal(t, 100.0, trends[1].Percentage)
}

func TestReportFillsPunctuality(t *testing.T) {
	engine, _ := newTestEngine()

	require.NoError(t, engine.Upsert(attendance.Mark{StudentID: 1, CourseID: 1, Date: monday, TimeIn: "08:02", Status: models.StatusPresent}))
	require.NoError(t, engine.Upsert(attendance.Mark{StudentID: 2, CourseID: 1, Date: monday, TimeIn: "08:30", Status: models.StatusLate}))
	require.NoError(t, engine.Upsert(attendance.Mark{StudentID: 3, CourseID: 1, Date: monday, Status: models.StatusAbsent}))

	rows, err := engine.Report(attendance.Filter{CourseID: 1})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// ordered by last name within the course
	assert.Equal(t, "On Time", rows[0].Punctuality)
	assert.Equal(t, "Late", rows[1].Punctuality)
	assert.Equal(t, "Absent", rows[2].Punctuality)
}
