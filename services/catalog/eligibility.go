// File: services/catalog/eligibility.go
package catalog

import "mendly/models"

// CanBePerformedBy reports whether a staff member's skill level meets the
// treatment's required level. Levels rank junior < senior < expert; a
// treatment requiring "any" accepts every staff member, and staff without
// a recorded level rank as junior.
func CanBePerformedBy(t *models.Treatment, staff *models.User) bool {
	if staff == nil || !staff.IsStaff() {
		return false
	}
	return staff.SkillLevel.Satisfies(t.RequiredStaffLevel)
}

// EligibleStaff filters the given staff down to those able to perform the
// treatment, preserving order.
func EligibleStaff(t *models.Treatment, staff []models.User) []models.User {
	var out []models.User
	for i := range staff {
		if CanBePerformedBy(t, &staff[i]) {
			out = append(out, staff[i])
		}
	}
	return out
}
