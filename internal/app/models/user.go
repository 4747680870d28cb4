package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID           int64     `json:"id" db:"id" example:"1"`
	Username     string    `json:"username" db:"username" example:"jane"`
	Email        string    `json:"email" db:"email" example:"jane@present.edu"`
	PasswordHash string    `json:"-" db:"password_hash"` // Excluded from JSON
	Role         Role      `json:"role" db:"role" example:"teacher"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at" example:"2024-01-01T10:00:00Z"`

	Profile *Profile `json:"profile,omitempty"` // Relation, no db tag
}

// Profile defines the profile model based on the 'profiles' table.
// A profile exists only while its owning user exists.
type Profile struct {
	UserID         int64      `json:"userId" db:"user_id"`
	FirstName      string     `json:"firstName" db:"first_name"`
	MiddleName     *string    `json:"middleName,omitempty" db:"middle_name"`
	LastName       string     `json:"lastName" db:"last_name"`
	Department     *string    `json:"department,omitempty" db:"department"`
	EmployeeID     *string    `json:"employeeId,omitempty" db:"employee_id"`
	Phone          *string    `json:"phone,omitempty" db:"phone"`
	Address        *string    `json:"address,omitempty" db:"address"`
	DateOfBirth    *time.Time `json:"dateOfBirth,omitempty" db:"date_of_birth"`
	ProfilePicture *string    `json:"profilePicture,omitempty" db:"profile_picture"`
}

// DisplayName resolves the user's display name: profile full name,
// then username, then "Unknown".
func (u *User) DisplayName() string {
	if u == nil {
		return "Unknown"
	}
	if u.Profile != nil {
		name := u.Profile.FirstName
		if u.Profile.LastName != "" {
			if name != "" {
				name += " "
			}
			name += u.Profile.LastName
		}
		if name != "" {
			return name
		}
	}
	if u.Username != "" {
		return u.Username
	}
	return "Unknown"
}
