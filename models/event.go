package models

import "time"

// Event types emitted by the platform. Webhook subscriptions may only
// register for types in this set.
const (
	EventBookingCreated     = "booking.created"
	EventBookingUpdated     = "booking.updated"
	EventBookingCancelled   = "booking.cancelled"
	EventBookingCompleted   = "booking.completed"
	EventAvailabilityChange = "availability.changed"
)

var eventTypes = map[string]bool{
	EventBookingCreated:     true,
	EventBookingUpdated:     true,
	EventBookingCancelled:   true,
	EventBookingCompleted:   true,
	EventAvailabilityChange: true,
}

// ValidEventType reports whether t is a deliverable event type.
func ValidEventType(t string) bool {
	return eventTypes[t]
}

// Event is the wire envelope delivered to webhook endpoints. The envelope
// is serialized once per emission; every subscriber receives the exact same
// bytes, signed with its own secret.
type Event struct {
	EventType string      `json:"eventType"`
	Timestamp string      `json:"timestamp"` // RFC3339 UTC
	Data      interface{} `json:"data"`
}

// NewEvent stamps an envelope with the current UTC time.
func NewEvent(eventType string, data interface{}) Event {
	return Event{
		EventType: eventType,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Data:      data,
	}
}

// BookingEventData is the Data payload for booking.* events.
type BookingEventData struct {
	Booking       *Booking `json:"booking"`
	ChangedFields []string `json:"changedFields,omitempty"` // booking.updated only
	Reason        string   `json:"reason,omitempty"`        // booking.cancelled only
}

// AvailabilityEventData is the Data payload for availability.changed.
type AvailabilityEventData struct {
	StoreID   string `json:"storeId"`
	Date      string `json:"date"`
	SlotCount int    `json:"slotCount"`
}
