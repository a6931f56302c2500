// Package entity defines the domain entities for the auth feature.
package entity

// Quota is the resource allotment granted to a user at registration.
type Quota struct {
	CPU  int    // CPU units
	RAM  int    // MB
	Disk int    // MB
	Time string // duration string, e.g. "5h"
}

// DefaultQuota returns the allotment used when configuration supplies none.
func DefaultQuota() Quota {
	return Quota{CPU: 100, RAM: 2048, Disk: 10240, Time: "5h"}
}

// User represents a registered account in the users table.
type User struct {
	// ID is the surrogate key of the row.
	ID uint `gorm:"primaryKey"`

	// Username is the display key. It must be unique across all users.
	Username string `gorm:"uniqueIndex;size:255;not null"`

	// Email is the authentication key. It must be unique across all users.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// Password is the bcrypt digest. Plaintext is never stored.
	Password string `gorm:"size:255;not null"`

	CPU  int    `gorm:"column:cpu;not null"`
	RAM  int    `gorm:"column:ram;not null"`
	Disk int    `gorm:"column:disk;not null"`
	Time string `gorm:"column:time;size:32;not null"`
}

// TableName returns the table name for GORM.
func (User) TableName() string {
	return "users"
}

// Quota returns the user's resource allotment.
func (u *User) Quota() Quota {
	return Quota{CPU: u.CPU, RAM: u.RAM, Disk: u.Disk, Time: u.Time}
}

// ToSessionUser returns a copy of the user with the password digest stripped.
func (u *User) ToSessionUser() *SessionUser {
	return &SessionUser{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		CPU:      u.CPU,
		RAM:      u.RAM,
		Disk:     u.Disk,
		Time:     u.Time,
	}
}
