package models

import "time"

// Timeslot is one bookable window of a store day. Slots are generated from
// the store's operating hours; CurrentBookings is the live occupancy counter
// maintained transactionally by the booking engine.
type Timeslot struct {
	ID        string    `bson:"id" json:"id"`
	StoreID   string    `bson:"storeId" json:"storeId"`
	StartTime time.Time `bson:"startTime" json:"startTime"` // UTC instant
	EndTime   time.Time `bson:"endTime" json:"endTime"`     // UTC instant
	LocalDate string    `bson:"localDate" json:"localDate"` // "YYYY-MM-DD" in the store's zone

	MaxCapacity     int `bson:"maxCapacity" json:"maxCapacity"`
	CurrentBookings int `bson:"currentBookings" json:"currentBookings"`

	// TreatmentTypes restricts the slot to the listed treatment IDs.
	// Empty means the slot accepts any treatment.
	TreatmentTypes []string `bson:"treatmentTypes,omitempty" json:"treatmentTypes,omitempty"`

	// StaffIDs is an optional whitelist narrowing which staff are offered
	// for this slot in availability results.
	StaffIDs []string `bson:"staffIds,omitempty" json:"staffIds,omitempty"`

	IsActive  bool      `bson:"isActive" json:"isActive"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// HasCapacity reports whether at least one more booking fits.
func (t *Timeslot) HasCapacity() bool {
	return t.CurrentBookings < t.MaxCapacity
}

// AcceptsTreatment applies the treatment-type restriction.
func (t *Timeslot) AcceptsTreatment(treatmentID string) bool {
	if len(t.TreatmentTypes) == 0 {
		return true
	}
	for _, id := range t.TreatmentTypes {
		if id == treatmentID {
			return true
		}
	}
	return false
}

// Covers reports whether the interval [start, end) lies fully inside the slot.
func (t *Timeslot) Covers(start, end time.Time) bool {
	return !start.Before(t.StartTime) && !end.After(t.EndTime)
}

// AvailableSlot is the availability-query view of a timeslot for one
// treatment: the slot window, how many more bookings fit, and the staff who
// could take the booking.
type AvailableSlot struct {
	TimeslotID        string    `json:"timeslotId"`
	StartTime         time.Time `json:"startTime"`
	EndTime           time.Time `json:"endTime"`
	RemainingCapacity int       `json:"remainingCapacity"`
	EligibleStaffIDs  []string  `json:"eligibleStaffIds"`
}
