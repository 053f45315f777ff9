package models

// Actions checked by the permission middleware.
const (
	ActionMarkAttendance = "attendance.mark"
	ActionViewReports    = "reports.view"
	ActionManageCourses  = "courses.manage"
	ActionManageStudents = "students.manage"
	ActionReviewExcuses  = "excuse_letters.review"
	ActionSelfCheckIn    = "attendance.checkin"
	ActionSubmitExcuse   = "excuse_letters.submit"
)

// Capability table per role. A flat lookup instead of dispatch on a
// user-type hierarchy; unknown roles have no capabilities.
var rolePermissions = map[string]map[string]bool{
	RoleAdmin: {
		ActionMarkAttendance: true,
		ActionViewReports:    true,
		ActionManageCourses:  true,
		ActionManageStudents: true,
		ActionReviewExcuses:  true,
	},
	RoleStudent: {
		ActionSelfCheckIn:  true,
		ActionSubmitExcuse: true,
	},
}

func RoleCan(role, action string) bool {
	return rolePermissions[role][action]
}

func (u User) HasPermission(action string) bool {
	return RoleCan(u.Role, action)
}
