package models

// Role is the coarse permission level of a user.
type Role uint8

const (
	RoleRegular Role = 1 // rider, books for themselves
	RoleStaff   Role = 2 // books on behalf of riders
	RoleAdmin   Role = 3 // approves, rejects and cancels bookings
)

func (r Role) Valid() bool {
	switch r {
	case RoleRegular, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string {
	switch r {
	case RoleRegular:
		return "user"
	case RoleStaff:
		return "staff"
	case RoleAdmin:
		return "admin"
	}
	return "unknown"
}
