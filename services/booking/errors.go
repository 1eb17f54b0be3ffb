// File: services/booking/errors.go
package booking

import "fmt"

// Admission failure reasons. Every reason surfaces to the API as a conflict;
// the reason code tells callers which quota or precondition turned the
// request away.
const (
	ReasonTreatmentNotFound = "TREATMENT_NOT_FOUND"
	ReasonStoreClosed       = "STORE_CLOSED"
	ReasonNoTimeslot        = "NO_TIMESLOT"
	ReasonTreatmentCapacity = "TREATMENT_CAPACITY"
	ReasonStaffConflict     = "STAFF_CONFLICT"
	ReasonResourceCapacity  = "RESOURCE_CAPACITY"
	ReasonDailyLimit        = "DAILY_LIMIT"
	ReasonStoreCapacity     = "STORE_CAPACITY"
	ReasonTooFarInAdvance   = "TOO_FAR_IN_ADVANCE"
	ReasonInvalidStaff      = "INVALID_STAFF"
)

// AdmissionError reports why the reservation engine rejected a booking.
type AdmissionError struct {
	Reason  string
	Message string
}

func (e *AdmissionError) Error() string {
	return fmt.Sprintf("booking rejected (%s): %s", e.Reason, e.Message)
}

func denied(reason, format string, args ...interface{}) *AdmissionError {
	return &AdmissionError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}
