// Package attendance owns punctuality classification, per-day upsert of
// attendance records, roster-wide bulk marking and report aggregation.
// It talks to persistence through the Store interface only.
package attendance

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dev1mple/attendance-oop/models"
)

// LateThresholdSeconds is how far past the scheduled start a check-in may
// be before it counts as late.
const LateThresholdSeconds = 300

const dateLayout = "2006-01-02"

type Engine struct {
	store Store
}

func NewEngine(store Store) *Engine { return &Engine{store: store} }

// Mark is one attendance submission for a single student and day.
// An empty Status together with a non-empty TimeIn asks the engine to
// classify the check-in against the course schedule.
type Mark struct {
	StudentID uint
	CourseID  uint
	Date      string // YYYY-MM-DD
	TimeIn    string // HH:MM, may be empty
	TimeOut   string // HH:MM, may be empty
	Status    string // present/late/absent, may be empty
	Notes     string
	MarkedBy  uint
}

// BulkEntry is the per-student payload of a full-roster submission.
type BulkEntry struct {
	TimeIn  string
	TimeOut string
	Status  string
	Notes   string
}

// DetermineStatus classifies a check-in time against the course schedule
// for the weekday of date. No schedule for that weekday means the student
// cannot be late, so the answer is present; this is policy, not an error.
//
// Times compare as time-of-day only. A check-in that numerically precedes
// start_time yields a negative delta and is always present; schedules that
// cross midnight are not special-cased.
func (e *Engine) DetermineStatus(courseID uint, clockTime, date string) (string, error) {
	return e.determineStatus(e.store, courseID, clockTime, date)
}

func (e *Engine) determineStatus(s Store, courseID uint, clockTime, date string) (string, error) {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return "", fmt.Errorf("%w: bad date %q", ErrInvalid, date)
	}
	sched, err := s.ScheduleFor(courseID, day.Weekday().String())
	if err != nil {
		return "", err
	}
	if sched == nil {
		return models.StatusPresent, nil
	}
	start, err := parseClock(sched.StartTime)
	if err != nil {
		return "", err
	}
	in, err := parseClock(clockTime)
	if err != nil {
		return "", err
	}
	if in.Sub(start) > LateThresholdSeconds*time.Second {
		return models.StatusLate, nil
	}
	return models.StatusPresent, nil
}

// Upsert writes the single attendance row for (student, date): an update
// in place when one exists, an insert otherwise. course_id is fixed at
// insert time; re-marks for the same day never move the row to another
// course. When Status is empty and TimeIn is set, the status is derived
// via DetermineStatus before persisting.
func (e *Engine) Upsert(m Mark) error { return e.upsert(e.store, m) }

func (e *Engine) upsert(s Store, m Mark) error {
	if m.StudentID == 0 || m.CourseID == 0 || m.Date == "" {
		return fmt.Errorf("%w: student_id, course_id and date are required", ErrInvalid)
	}
	if _, err := time.Parse(dateLayout, m.Date); err != nil {
		return fmt.Errorf("%w: bad date %q", ErrInvalid, m.Date)
	}

	student, err := s.StudentByID(m.StudentID)
	if err != nil {
		return err
	}
	if student == nil {
		return fmt.Errorf("%w: student %d", ErrNotFound, m.StudentID)
	}
	course, err := s.CourseByID(m.CourseID)
	if err != nil {
		return err
	}
	if course == nil {
		return fmt.Errorf("%w: course %d", ErrNotFound, m.CourseID)
	}

	status := m.Status
	if status == "" && m.TimeIn != "" {
		status, err = e.determineStatus(s, m.CourseID, m.TimeIn, m.Date)
		if err != nil {
			return err
		}
	}
	if status == "" {
		status = models.StatusAbsent
	}
	switch status {
	case models.StatusPresent, models.StatusLate, models.StatusAbsent:
	default:
		return fmt.Errorf("%w: unknown status %q", ErrInvalid, status)
	}

	existing, err := s.RecordFor(m.StudentID, m.Date)
	if err != nil {
		return err
	}
	if existing != nil {
		return applyMark(s, existing, m, status)
	}

	rec := &models.AttendanceRecord{
		StudentID:      m.StudentID,
		CourseID:       m.CourseID,
		AttendanceDate: m.Date,
		TimeIn:         m.TimeIn,
		TimeOut:        m.TimeOut,
		Status:         status,
		Notes:          m.Notes,
		MarkedBy:       m.MarkedBy,
	}
	err = s.InsertRecord(rec)
	if errors.Is(err, ErrDuplicate) {
		// A concurrent marker won the insert; fall back to updating
		// their row.
		existing, rerr := s.RecordFor(m.StudentID, m.Date)
		if rerr != nil {
			return rerr
		}
		if existing == nil {
			return err
		}
		return applyMark(s, existing, m, status)
	}
	return err
}

// applyMark mutates an existing row in place. course_id is deliberately
// left alone: the first course to mark the day owns the record.
func applyMark(s Store, existing *models.AttendanceRecord, m Mark, status string) error {
	existing.TimeIn = m.TimeIn
	existing.TimeOut = m.TimeOut
	existing.Status = status
	existing.Notes = m.Notes
	existing.MarkedBy = m.MarkedBy
	return s.UpdateRecord(existing)
}

// MarkBulk records a full-roster submission as one unit of work: every
// entry is upserted inside a single transaction, and any failure rolls
// the whole batch back. Missing statuses default to absent, so a roster
// sweep never takes the auto-classification path.
func (e *Engine) MarkBulk(courseID uint, date string, entries map[uint]BulkEntry, markedBy uint) error {
	if courseID == 0 || date == "" {
		return fmt.Errorf("%w: course_id and date are required", ErrInvalid)
	}
	if len(entries) == 0 {
		return fmt.Errorf("%w: empty roster submission", ErrInvalid)
	}

	// Deterministic write order keeps retries and tests reproducible.
	ids := make([]uint, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return e.store.InTx(func(tx Store) error {
		for _, sid := range ids {
			entry := entries[sid]
			m := Mark{
				StudentID: sid,
				CourseID:  courseID,
				Date:      date,
				TimeIn:    entry.TimeIn,
				TimeOut:   entry.TimeOut,
				Status:    entry.Status,
				Notes:     entry.Notes,
				MarkedBy:  markedBy,
			}
			if m.Status == "" {
				m.Status = models.StatusAbsent
			}
			if err := e.upsert(tx, m); err != nil {
				return fmt.Errorf("bulk mark student %d: %w", sid, err)
			}
		}
		return nil
	})
}

// Unmarked returns the course roster minus every student who already has
// an attendance record on date, under any course. Ordered by last name,
// then first name.
func (e *Engine) Unmarked(courseID uint, date string) ([]RosterStudent, error) {
	if courseID == 0 || date == "" {
		return nil, fmt.Errorf("%w: course_id and date are required", ErrInvalid)
	}
	roster, err := e.store.Roster(courseID)
	if err != nil {
		return nil, err
	}
	markedIDs, err := e.store.MarkedStudentIDs(date)
	if err != nil {
		return nil, err
	}
	marked := make(map[uint]bool, len(markedIDs))
	for _, id := range markedIDs {
		marked[id] = true
	}

	out := make([]RosterStudent, 0, len(roster))
	for _, st := range roster {
		if !marked[st.StudentID] {
			out = append(out, st)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].FirstName < out[j].FirstName
	})
	return out, nil
}

func parseClock(s string) (time.Time, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: bad clock time %q", ErrInvalid, s)
}
