package dispatch

import (
	"calsync/pkg/models"
)

// Urgency selects the sync path handed to the calendar collaborator.
type Urgency int

const (
	UrgencyStandard Urgency = iota
	UrgencyHigh
)

func (u Urgency) String() string {
	if u == UrgencyHigh {
		return "high"
	}
	return "standard"
}

// Categories that promote a change batch to high urgency on their own.
// Referee changes are deliberately not in this set: they reach the high path
// only when the producer tags them priority "high".
var urgentCategories = map[string]struct{}{
	models.CategoryTimeChange:  {},
	models.CategoryDateChange:  {},
	models.CategoryVenueChange: {},
}

// EvaluatePriority classifies a change batch. A single qualifying entry
// anywhere in the list promotes the whole batch; an empty or missing list is
// standard so heartbeat updates never trigger the urgent path.
func EvaluatePriority(changes []models.DetailedChange) Urgency {
	for _, change := range changes {
		if change.Priority == models.PriorityHigh {
			return UrgencyHigh
		}
		if _, ok := urgentCategories[change.Category]; ok {
			return UrgencyHigh
		}
	}
	return UrgencyStandard
}
