package models

import "time"

// User is any account on the platform: customers booking treatments, staff
// performing them, and the two admin tiers. Staff and store admins carry the
// StoreID they belong to; SkillLevel is only meaningful for staff.
type User struct {
	ID           string     `bson:"id" json:"id"`
	Email        string     `bson:"email" json:"email"`
	Name         string     `bson:"name" json:"name"`
	Phone        string     `bson:"phone,omitempty" json:"phone,omitempty"`
	Role         Role       `bson:"role" json:"role"`
	StoreID      string     `bson:"storeId,omitempty" json:"storeId,omitempty"`
	SkillLevel   SkillLevel `bson:"skillLevel,omitempty" json:"skillLevel,omitempty"`
	PasswordHash string     `bson:"passwordHash" json:"-"`
	IsActive     bool       `bson:"isActive" json:"isActive"`
	CreatedAt    time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// IsStaff reports whether the account can be assigned to bookings.
func (u *User) IsStaff() bool {
	return u.Role == RoleStaff
}
