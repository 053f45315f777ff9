package attendance

import "errors"

var (
	// ErrInvalid rejects malformed input before any query runs.
	ErrInvalid = errors.New("invalid attendance input")
	// ErrNotFound means a referenced student or course does not exist.
	ErrNotFound = errors.New("referenced record not found")
	// ErrDuplicate is returned by Store.InsertRecord when the
	// (student_id, attendance_date) unique index already holds a row.
	ErrDuplicate = errors.New("attendance record already exists for this student and date")
)
