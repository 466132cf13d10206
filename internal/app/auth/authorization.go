package auth

import (
	"github.com/kerems/akademix/internal/app/models"
)

// Capability names one guarded operation class. Handlers ask the gate for a
// decision instead of comparing role strings inline.
type Capability string

const (
	CapManageStudents    Capability = "manage_students"
	CapViewStudents      Capability = "view_students"
	CapManageTeachers    Capability = "manage_teachers"
	CapViewTeachers      Capability = "view_teachers"
	CapManageSubjects    Capability = "manage_subjects"
	CapViewSubjects      Capability = "view_subjects"
	CapSubmitAttendance  Capability = "submit_attendance"
	CapViewAttendance    Capability = "view_attendance"
	CapSubmitResult      Capability = "submit_result"
	CapViewResults       Capability = "view_results"
	CapRequestLeave      Capability = "request_leave"
	CapRequestOwnLeave   Capability = "request_own_leave"
	CapDecideLeave       Capability = "decide_leave"
	CapViewLeaves        Capability = "view_leaves"
	CapSubmitFeedback    Capability = "submit_feedback"
	CapReviewFeedback    Capability = "review_feedback"
	CapViewFeedback      Capability = "view_feedback"
)

// Decision is the result of a capability check
type Decision int

const (
	Deny Decision = iota
	Allow
)

// Allowed reports whether the decision grants the operation.
func (d Decision) Allowed() bool {
	return d == Allow
}

// capabilities is the whole authorization policy: per role, the set of
// capabilities it holds. Listing operations are role scoped at query time by
// the services; this table only gates whether the operation runs at all.
var capabilities = map[models.Role]map[Capability]struct{}{
	models.RoleAdmin: grant(
		CapManageStudents, CapViewStudents,
		CapManageTeachers, CapViewTeachers,
		CapManageSubjects, CapViewSubjects,
		CapSubmitAttendance, CapViewAttendance,
		CapViewResults,
		CapDecideLeave, CapViewLeaves,
		CapReviewFeedback, CapViewFeedback,
	),
	models.RoleTeacher: grant(
		CapViewStudents, CapViewTeachers, CapViewSubjects,
		CapSubmitAttendance, CapViewAttendance,
		CapSubmitResult, CapViewResults,
		CapRequestLeave, CapViewLeaves,
		CapSubmitFeedback, CapViewFeedback,
	),
	models.RoleStudent: grant(
		CapViewStudents, CapViewSubjects, CapViewTeachers,
		CapViewAttendance,
		CapViewResults,
		CapRequestOwnLeave, CapViewLeaves,
	),
}

func grant(caps ...Capability) map[Capability]struct{} {
	set := make(map[Capability]struct{}, len(caps))
	for _, c := range caps {
		set[c] = struct{}{}
	}
	return set
}

// Check evaluates whether the role holds the capability.
func Check(role models.Role, cap Capability) Decision {
	set, ok := capabilities[role]
	if !ok {
		return Deny
	}
	if _, ok := set[cap]; !ok {
		return Deny
	}
	return Allow
}
