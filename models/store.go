package models

import (
	"time"
)

// Weekday keys used in OperatingHours maps and JSON payloads.
const (
	DayMonday    = "monday"
	DayTuesday   = "tuesday"
	DayWednesday = "wednesday"
	DayThursday  = "thursday"
	DayFriday    = "friday"
	DaySaturday  = "saturday"
	DaySunday    = "sunday"
)

var weekdayKeys = map[time.Weekday]string{
	time.Monday:    DayMonday,
	time.Tuesday:   DayTuesday,
	time.Wednesday: DayWednesday,
	time.Thursday:  DayThursday,
	time.Friday:    DayFriday,
	time.Saturday:  DaySaturday,
	time.Sunday:    DaySunday,
}

// DayKey maps a time.Weekday to the lowercase key used in operating hours.
func DayKey(d time.Weekday) string {
	return weekdayKeys[d]
}

// DayHours is one day's opening window in the store's local timezone.
// A day missing from the map, or with Closed set, has no window.
type DayHours struct {
	Closed bool   `bson:"closed,omitempty" json:"closed,omitempty"`
	Open   string `bson:"open,omitempty" json:"open,omitempty"`   // "HH:MM" local wall clock
	Close  string `bson:"close,omitempty" json:"close,omitempty"` // "HH:MM" local wall clock
}

// OperatingHours maps weekday keys ("monday".."sunday") to opening windows.
type OperatingHours map[string]DayHours

// StoreSettings is the per-store booking policy block. The two quota caps
// are pointers: nil means unlimited.
type StoreSettings struct {
	MaxDailyBookings          *int `bson:"maxDailyBookings,omitempty" json:"maxDailyBookings,omitempty"`
	MaxConcurrentBookings     *int `bson:"maxConcurrentBookings,omitempty" json:"maxConcurrentBookings,omitempty"`
	BufferTimeMinutes         int  `bson:"bufferTimeMinutes" json:"bufferTimeMinutes"`
	MaxAdvanceBookingDays     int  `bson:"maxAdvanceBookingDays" json:"maxAdvanceBookingDays"`
	CancellationDeadlineHours int  `bson:"cancellationDeadlineHours" json:"cancellationDeadlineHours"`
	AllowOnlineBooking        bool `bson:"allowOnlineBooking" json:"allowOnlineBooking"`
	RequireApproval           bool `bson:"requireApproval" json:"requireApproval"`
}

// Store setting defaults applied on creation and on settings resets.
const (
	DefaultBufferTimeMinutes         = 15
	DefaultMaxAdvanceBookingDays     = 90
	DefaultCancellationDeadlineHours = 24
)

// DefaultStoreSettings returns the policy block a new store starts with.
func DefaultStoreSettings() StoreSettings {
	return StoreSettings{
		BufferTimeMinutes:         DefaultBufferTimeMinutes,
		MaxAdvanceBookingDays:     DefaultMaxAdvanceBookingDays,
		CancellationDeadlineHours: DefaultCancellationDeadlineHours,
		AllowOnlineBooking:        true,
		RequireApproval:           true,
	}
}

// Store is a tenant facility. All calendar math for its bookings happens in
// Timezone; persisted instants are UTC.
type Store struct {
	ID             string                 `bson:"id" json:"id"`
	Name           string                 `bson:"name" json:"name"`
	Timezone       string                 `bson:"timezone" json:"timezone"` // IANA zone, e.g. "Europe/Berlin"
	OperatingHours OperatingHours         `bson:"operatingHours" json:"operatingHours"`
	Settings       StoreSettings          `bson:"settings" json:"settings"`
	IsActive       bool                   `bson:"isActive" json:"isActive"`
	Metadata       map[string]interface{} `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt      time.Time              `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time              `bson:"updatedAt" json:"updatedAt"`
}
