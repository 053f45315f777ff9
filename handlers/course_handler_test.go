package handlers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicCourseProjection(t *testing.T) {
	b, err := json.Marshal(publicCourse{CourseID: 1, CourseCode: "MATH101", CourseName: "Algebra", YearLevel: 1})
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(b, &fields))

	// anonymous callers get the registration picklist and nothing more
	assert.Len(t, fields, 4)
	assert.NotContains(t, fields, "student_count")
	assert.NotContains(t, fields, "description")
	assert.NotContains(t, fields, "created_by")
}
