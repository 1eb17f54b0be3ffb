package models

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingInProgress BookingStatus = "in_progress"
	BookingCompleted  BookingStatus = "completed"
	BookingCancelled  BookingStatus = "cancelled"
	BookingNoShow     BookingStatus = "no_show"
)

// BlocksCapacity reports whether a booking in this status still occupies
// quota: slot counters, concurrency limits, resource units and store caps.
// Only cancelled and no_show bookings release what they held.
func (s BookingStatus) BlocksCapacity() bool {
	return s != BookingCancelled && s != BookingNoShow
}

// Booking is a customer's reservation of one treatment at one store.
// BookingDateTime/EndDateTime are UTC instants; EndDateTime is denormalized
// as start plus duration so overlap queries stay in the database.
type Booking struct {
	ID          string `bson:"id" json:"id"`
	CustomerID  string `bson:"customerId" json:"customerId"`
	StoreID     string `bson:"storeId" json:"storeId"`
	TreatmentID string `bson:"treatmentId" json:"treatmentId"`
	StaffID     string `bson:"staffId,omitempty" json:"staffId,omitempty"`
	TimeslotID  string `bson:"timeslotId" json:"timeslotId"`

	BookingDateTime time.Time `bson:"bookingDateTime" json:"bookingDateTime"`
	EndDateTime     time.Time `bson:"endDateTime" json:"endDateTime"`
	DurationMinutes int       `bson:"durationMinutes" json:"durationMinutes"`

	Status BookingStatus `bson:"status" json:"status"`

	// BlocksCap mirrors Status.BlocksCapacity() so partial indexes can
	// filter on it; Mongo partial filters cannot express $nin on status.
	// Maintained on every status write, never exposed.
	BlocksCap bool `bson:"blocksCapacity" json:"-"`

	Price Price  `bson:"price" json:"price"`
	Notes string `bson:"notes,omitempty" json:"notes,omitempty"`

	CancellationReason string     `bson:"cancellationReason,omitempty" json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
	CompletedAt        *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`

	Metadata  map[string]interface{} `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt time.Time              `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time              `bson:"updatedAt" json:"updatedAt"`
}

// SetStatus writes the status and keeps BlocksCap in sync. All status
// changes must go through here.
func (b *Booking) SetStatus(s BookingStatus) {
	b.Status = s
	b.BlocksCap = s.BlocksCapacity()
}

// Overlaps reports whether the booking's interval intersects [start, end),
// using half-open semantics so back-to-back bookings never collide.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.BookingDateTime.Before(end) && start.Before(b.EndDateTime)
}
