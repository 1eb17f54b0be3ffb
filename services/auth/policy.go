// File: services/auth/policy.go
//
// Authorization policy. Roles are strictly ordered; store-scoped roles only
// reach their own store, customers only their own bookings.
package auth

import "mendly/models"

var roleRank = map[models.Role]int{
	models.RoleCustomer:   0,
	models.RoleStaff:      1,
	models.RoleStoreAdmin: 2,
	models.RoleSuperAdmin: 3,
}

// AtLeast reports whether r carries the privilege of min or higher.
func AtLeast(r, min models.Role) bool {
	return roleRank[r] >= roleRank[min]
}

// CanManageStore reports whether p may administer a store's catalog,
// settings and timeslots.
func CanManageStore(p *models.Principal, storeID string) bool {
	if p.Role == models.RoleSuperAdmin {
		return true
	}
	return p.Role == models.RoleStoreAdmin && p.StoreID == storeID
}

// CanAccessStore reports whether p may read a store's operational data
// (bookings, schedules). Staff qualify for their own store.
func CanAccessStore(p *models.Principal, storeID string) bool {
	if p.Role == models.RoleSuperAdmin {
		return true
	}
	if p.Role == models.RoleStoreAdmin || p.Role == models.RoleStaff {
		return p.StoreID == storeID
	}
	return false
}

// CanViewBooking reports whether p may read one booking.
func CanViewBooking(p *models.Principal, b *models.Booking) bool {
	if p.Role == models.RoleCustomer {
		return p.UserID == b.CustomerID
	}
	return CanAccessStore(p, b.StoreID)
}

// CanModifyBooking reports whether p may reschedule or cancel one booking.
// Customers act on their own bookings; staff act within their store.
func CanModifyBooking(p *models.Principal, b *models.Booking) bool {
	return CanViewBooking(p, b)
}

// CanTransitionBooking reports whether p may drive the booking lifecycle
// (confirm, start, complete, no-show). Customers cannot.
func CanTransitionBooking(p *models.Principal, b *models.Booking) bool {
	return CanAccessStore(p, b.StoreID)
}
