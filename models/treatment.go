package models

import "time"

// Treatment is a bookable service offered by a store.
type Treatment struct {
	ID                 string     `bson:"id" json:"id"`
	StoreID            string     `bson:"storeId" json:"storeId"`
	Name               string     `bson:"name" json:"name"`
	Category           string     `bson:"category,omitempty" json:"category,omitempty"`
	Description        string     `bson:"description,omitempty" json:"description,omitempty"`
	DurationMinutes    int        `bson:"durationMinutes" json:"durationMinutes"`
	Price              Price      `bson:"price" json:"price"`
	RequiredStaffLevel SkillLevel `bson:"requiredStaffLevel" json:"requiredStaffLevel"` // junior|senior|expert|any

	// RequiredResources lists resource IDs every booking of this treatment
	// occupies for its full duration.
	RequiredResources []string `bson:"requiredResources,omitempty" json:"requiredResources,omitempty"`

	// MaxConcurrentBookings caps how many bookings of this treatment may
	// overlap in time across the whole store.
	MaxConcurrentBookings int `bson:"maxConcurrentBookings" json:"maxConcurrentBookings"`

	Tags      []string               `bson:"tags,omitempty" json:"tags,omitempty"`
	IsActive  bool                   `bson:"isActive" json:"isActive"`
	Metadata  map[string]interface{} `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt time.Time              `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time              `bson:"updatedAt" json:"updatedAt"`
}
