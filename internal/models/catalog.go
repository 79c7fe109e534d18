package models

// Audit phases, in engagement order. Time and schedule entries must use one
// of these.
const (
	PhasePlanning      = "planning"
	PhaseFieldwork     = "fieldwork"
	PhaseManagerReview = "managerReview"
	PhasePartnerReview = "partnerReview"
)

var Phases = []string{PhasePlanning, PhaseFieldwork, PhaseManagerReview, PhasePartnerReview}

// ValidPhase reports whether p is a known audit phase.
func ValidPhase(p string) bool {
	for _, phase := range Phases {
		if phase == p {
			return true
		}
	}
	return false
}

// Engagement statuses.
const (
	StatusPlanned    = "planned"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

var EngagementStatuses = []string{StatusPlanned, StatusInProgress, StatusCompleted}

// ValidEngagementStatus reports whether s is a known engagement status.
func ValidEngagementStatus(s string) bool {
	for _, status := range EngagementStatuses {
		if status == s {
			return true
		}
	}
	return false
}

// Team roles.
var Roles = []string{"partner", "manager", "senior", "staff"}

// ValidRole reports whether r is a known team role.
func ValidRole(r string) bool {
	for _, role := range Roles {
		if role == r {
			return true
		}
	}
	return false
}

// Schedule entry statuses.
var ScheduleStatuses = []string{"scheduled", "in_progress", "completed"}

// ValidScheduleStatus reports whether s is a known schedule status.
func ValidScheduleStatus(s string) bool {
	for _, status := range ScheduleStatuses {
		if status == s {
			return true
		}
	}
	return false
}
