package models

import "time"

// Resource is shared store equipment (a room, a chair, a device) with a
// finite number of interchangeable units. Treatments reference resources
// they occupy; the booking engine enforces unit capacity over time.
type Resource struct {
	ID        string                 `bson:"id" json:"id"`
	StoreID   string                 `bson:"storeId" json:"storeId"`
	Name      string                 `bson:"name" json:"name"`
	Type      string                 `bson:"type,omitempty" json:"type,omitempty"`
	Capacity  int                    `bson:"capacity" json:"capacity"` // units available, >= 1
	IsActive  bool                   `bson:"isActive" json:"isActive"`
	Metadata  map[string]interface{} `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt time.Time              `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time              `bson:"updatedAt" json:"updatedAt"`
}
